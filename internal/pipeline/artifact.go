package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/gzip"

	"leafsense/internal/ml"
)

// Artifact is the complete trained bundle persisted between training and
// serving: the feature schema and fitted transforms, the forest, and the
// sorted class label vocabulary. Serialized as gzip-compressed JSON.
type Artifact struct {
	Schema    *Schema                  `json:"schema"`
	Encoders  map[string]*LabelEncoder `json:"encoders"`
	Scaler    *StandardScaler          `json:"scaler"`
	Model     *ml.Forest               `json:"model"`
	Classes   []string                 `json:"classes"`
	TrainedAt time.Time                `json:"trained_at"`
}

// Pipeline returns the feature transform view of the artifact.
func (a *Artifact) Pipeline() *Pipeline {
	return &Pipeline{
		Schema:   a.Schema,
		Encoders: a.Encoders,
		Scaler:   a.Scaler,
	}
}

// FeatureColumns returns the ordered feature column names the model expects.
func (a *Artifact) FeatureColumns() []string {
	return a.Schema.Names()
}

// Save writes the artifact to path as gzip-compressed JSON. The write goes
// through a temp file in the same directory followed by a rename, so a
// crash mid-write never leaves a partial artifact behind.
func (a *Artifact) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating artifact directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp artifact: %w", err)
	}
	defer os.Remove(tmp.Name())

	// CreateTemp opens 0600; the artifact should be readable like the
	// report and dataset files.
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("setting artifact mode: %w", err)
	}

	zw := gzip.NewWriter(tmp)
	enc := json.NewEncoder(zw)
	if err := enc.Encode(a); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding artifact: %w", err)
	}
	if err := zw.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("compressing artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing artifact: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing artifact: %w", err)
	}
	return nil
}

// LoadArtifact reads a trained bundle from path and rebuilds the in-memory
// lookup state the JSON form does not carry.
func LoadArtifact(path string) (*Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening artifact: %w", err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("reading artifact header: %w", err)
	}
	defer zr.Close()

	var a Artifact
	if err := json.NewDecoder(zr).Decode(&a); err != nil {
		return nil, fmt.Errorf("decoding artifact: %w", err)
	}
	if a.Schema == nil || a.Scaler == nil || a.Model == nil {
		return nil, fmt.Errorf("artifact is incomplete")
	}

	for _, e := range a.Encoders {
		e.buildIndex()
	}
	return &a, nil
}
