// Package pipeline implements the deterministic feature-encoding contract
// shared by training and inference. A fitted pipeline converts raw
// observations into a fixed-order numeric vector via categorical label
// encoding and standardization; the encodings captured at training time are
// reused bit-for-bit at inference time, since any mismatch silently corrupts
// predictions.
package pipeline

import (
	"sort"
	"strconv"
)

// Sentinel is the encoded value assigned to categorical values that were not
// present in the training vocabulary. Unseen values never fail; they degrade
// to this marker.
const Sentinel = -1

// LabelEncoder maps distinct categorical training values to integer indexes
// 0..k-1 in sorted order. The mapping is a bijection over the training
// vocabulary.
type LabelEncoder struct {
	// Classes holds the sorted distinct training values.
	Classes []string `json:"classes"`

	index map[string]int
}

// FitLabelEncoder builds an encoder over the distinct values in vs,
// assigning integers 0..k-1 to the sorted distinct values.
func FitLabelEncoder(vs []string) *LabelEncoder {
	seen := make(map[string]struct{}, len(vs))
	for _, v := range vs {
		seen[v] = struct{}{}
	}
	classes := make([]string, 0, len(seen))
	for v := range seen {
		classes = append(classes, v)
	}
	sort.Strings(classes)

	e := &LabelEncoder{Classes: classes}
	e.buildIndex()
	return e
}

// buildIndex rebuilds the value->index lookup. Called after fitting and
// after deserialization from an artifact.
func (e *LabelEncoder) buildIndex() {
	e.index = make(map[string]int, len(e.Classes))
	for i, c := range e.Classes {
		e.index[c] = i
	}
}

// Transform returns the integer code for v, or Sentinel when v was not part
// of the training vocabulary.
func (e *LabelEncoder) Transform(v string) int {
	if e.index == nil {
		e.buildIndex()
	}
	if i, ok := e.index[v]; ok {
		return i
	}
	return Sentinel
}

// Inverse returns the original value for code i. The second return is false
// for Sentinel or any out-of-range code.
func (e *LabelEncoder) Inverse(i int) (string, bool) {
	if i < 0 || i >= len(e.Classes) {
		return "", false
	}
	return e.Classes[i], true
}

// rawString normalizes a raw categorical value into its vocabulary form.
// Booleans encode as "false"/"true" so they sort deterministically; numbers
// should not reach categorical encoding, but stringify stably if they do.
func rawString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return ""
	}
}

// rawFloat extracts the numeric value of a raw feature. Non-numeric values
// degrade to 0; categorical columns are expected to pass through Transform
// before reaching numeric form.
func rawFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case bool:
		if t {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// isNumeric reports whether a raw value is already numeric.
func isNumeric(v any) bool {
	switch v.(type) {
	case float64, int:
		return true
	default:
		return false
	}
}
