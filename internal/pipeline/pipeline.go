package pipeline

import (
	"fmt"

	"leafsense/internal/types"
)

// Column describes one feature column in the fixed training-time order:
// its name, whether its training values were categorical (non-numeric), and
// the raw value synthesized when the column is missing from a later input.
type Column struct {
	Name        string  `json:"name"`
	Categorical bool    `json:"categorical"`
	Default     float64 `json:"default"`
}

// Schema is the explicit ordered feature schema captured at fit time.
// Its column order defines the feature vector layout consumed by the
// classifier and must match between training and inference.
type Schema struct {
	Columns []Column `json:"columns"`
}

// Names returns the ordered feature column names.
func (s *Schema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Pipeline is the fitted feature transform: schema + per-column encoders +
// scaler. Read-only after Fit; safe for concurrent Transform calls.
type Pipeline struct {
	Schema   *Schema                  `json:"schema"`
	Encoders map[string]*LabelEncoder `json:"encoders"`
	Scaler   *StandardScaler          `json:"scaler"`
}

// Fit captures the feature schema, categorical vocabularies, and scaling
// moments from the training rows. The columns argument fixes the feature
// order; a column is treated as categorical when any of its training values
// is non-numeric (string or bool).
func Fit(columns []string, rows []map[string]any) (*Pipeline, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("fit requires at least one row")
	}

	p := &Pipeline{
		Schema:   &Schema{Columns: make([]Column, 0, len(columns))},
		Encoders: make(map[string]*LabelEncoder),
	}

	for _, name := range columns {
		categorical := false
		for _, row := range rows {
			if v, ok := row[name]; ok && !isNumeric(v) {
				categorical = true
				break
			}
		}
		p.Schema.Columns = append(p.Schema.Columns, Column{
			Name:        name,
			Categorical: categorical,
			Default:     0,
		})

		if categorical {
			vals := make([]string, 0, len(rows))
			for _, row := range rows {
				if v, ok := row[name]; ok {
					vals = append(vals, rawString(v))
				}
			}
			p.Encoders[name] = FitLabelEncoder(vals)
		}
	}

	// Encode the training matrix and fit the scaler over it. Encoded
	// categoricals are standardized like any other column.
	X := make([][]float64, len(rows))
	for i, row := range rows {
		X[i] = p.encode(row)
	}
	p.Scaler = FitScaler(X)

	return p, nil
}

// Transform converts one raw input row into the standardized feature vector
// in schema order. Missing columns are synthesized from the schema default
// before encoding. Returns a service_unavailable error when the pipeline has
// not been fitted (artifact absent).
func (p *Pipeline) Transform(row map[string]any) ([]float64, error) {
	if p == nil || p.Scaler == nil || p.Encoders == nil {
		return nil, types.NewAppError(
			types.ErrCodeUnavailableModel,
			"feature pipeline not fitted",
			nil,
		)
	}
	return p.Scaler.Transform(p.encode(row)), nil
}

// TransformAll converts a batch of rows.
func (p *Pipeline) TransformAll(rows []map[string]any) ([][]float64, error) {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		vec, err := p.Transform(row)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

// FeatureColumns returns the ordered feature column names captured at fit.
func (p *Pipeline) FeatureColumns() []string {
	return p.Schema.Names()
}

// encode produces the unscaled numeric vector for a row. A missing column
// is synthesized from the schema default before encoding, so a missing
// categorical column encodes like any other out-of-vocabulary value. For
// categorical columns the fitted encoder maps the value (Sentinel for
// unseen values); a categorical column without a fitted encoder is passed
// through as raw numeric, a deliberate silent-degradation edge inherited
// from the dataset-loading reuse path.
func (p *Pipeline) encode(row map[string]any) []float64 {
	vec := make([]float64, len(p.Schema.Columns))
	for j, col := range p.Schema.Columns {
		v, ok := row[col.Name]
		if !ok {
			v = col.Default
		}

		if col.Categorical {
			if enc, ok := p.Encoders[col.Name]; ok {
				vec[j] = float64(enc.Transform(rawString(v)))
				continue
			}
			// Passthrough: no encoder was fitted for this column.
		}
		vec[j] = rawFloat(v)
	}
	return vec
}
