package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"leafsense/internal/ml"
)

func testArtifact(t *testing.T) *Artifact {
	t.Helper()

	rows := []map[string]any{
		{"leaf_color": "Green", "soil_ph": 6.0},
		{"leaf_color": "Yellow", "soil_ph": 6.5},
		{"leaf_color": "Green", "soil_ph": 7.0},
		{"leaf_color": "Yellow", "soil_ph": 7.5},
	}
	p, err := Fit([]string{"leaf_color", "soil_ph"}, rows)
	if err != nil {
		t.Fatal(err)
	}

	X, err := p.TransformAll(rows)
	if err != nil {
		t.Fatal(err)
	}
	y := []int{0, 1, 0, 1}

	cfg := ml.DefaultConfig()
	cfg.NEstimators = 5
	forest, err := ml.FitForest(X, y, 2, cfg)
	if err != nil {
		t.Fatal(err)
	}

	return &Artifact{
		Schema:    p.Schema,
		Encoders:  p.Encoders,
		Scaler:    p.Scaler,
		Model:     forest,
		Classes:   []string{"Bacterial_Spot", "Healthy"},
		TrainedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestArtifactSaveLoadRoundTrip(t *testing.T) {
	a := testArtifact(t)
	path := filepath.Join(t.TempDir(), "models", "model.json.gz")

	if err := a.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	back, err := LoadArtifact(path)
	if err != nil {
		t.Fatalf("LoadArtifact: %v", err)
	}

	if got, want := back.FeatureColumns(), a.FeatureColumns(); len(got) != len(want) {
		t.Fatalf("feature columns = %v, want %v", got, want)
	} else {
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("feature columns = %v, want %v", got, want)
			}
		}
	}
	if len(back.Classes) != 2 || back.Classes[0] != "Bacterial_Spot" {
		t.Fatalf("classes = %v", back.Classes)
	}
	if !back.TrainedAt.Equal(a.TrainedAt) {
		t.Fatalf("trained_at = %v, want %v", back.TrainedAt, a.TrainedAt)
	}

	// The reloaded pipeline must produce identical vectors.
	row := map[string]any{"leaf_color": "Yellow", "soil_ph": 6.5}
	want, err := a.Pipeline().Transform(row)
	if err != nil {
		t.Fatal(err)
	}
	got, err := back.Pipeline().Transform(row)
	if err != nil {
		t.Fatal(err)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("reloaded transform = %v, want %v", got, want)
		}
	}

	// And identical predictions.
	if back.Model.Predict(got) != a.Model.Predict(want) {
		t.Fatal("reloaded model prediction differs")
	}
}

func TestArtifactSaveLeavesNoTempFiles(t *testing.T) {
	a := testArtifact(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "model.json.gz")

	if err := a.Save(path); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "model.json.gz" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("directory contents = %v, want [model.json.gz]", names)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := info.Mode().Perm(); got != 0o644 {
		t.Fatalf("artifact mode = %o, want 644", got)
	}
}

func TestLoadArtifactMissingFile(t *testing.T) {
	if _, err := LoadArtifact(filepath.Join(t.TempDir(), "nope.json.gz")); err == nil {
		t.Fatal("expected error for missing artifact")
	}
}

func TestLoadArtifactRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.json.gz")
	if err := os.WriteFile(path, []byte("not gzip"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadArtifact(path); err == nil {
		t.Fatal("expected error for non-gzip artifact")
	}
}
