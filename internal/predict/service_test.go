package predict

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"

	"leafsense/internal/dataset"
	"leafsense/internal/trainer"
	"leafsense/internal/types"
)

func trainedService(t *testing.T, treatments map[string]types.Treatment) (*Service, []types.Sample) {
	t.Helper()

	samples := dataset.NewGenerator(42).Generate(300)
	opts := trainer.DefaultOptions()
	opts.CVFolds = 3
	opts.Grid.NEstimators = []int{5}
	opts.Grid.MaxDepths = []int{5}
	opts.Grid.MinSamplesSplits = []int{2}
	opts.Grid.MinSamplesLeafs = []int{1}

	artifact, _, err := trainer.New(slog.Default(), opts).Train(context.Background(), samples)
	if err != nil {
		t.Fatal(err)
	}
	return NewService(slog.Default(), artifact, treatments), samples
}

func TestPredictReturnsDistribution(t *testing.T) {
	svc, samples := trainedService(t, nil)

	pred, err := svc.Predict(samples[0].Observation)
	if err != nil {
		t.Fatal(err)
	}

	if pred.Disease == "" {
		t.Fatal("empty predicted disease")
	}
	if pred.Confidence < 0 || pred.Confidence > 1 {
		t.Fatalf("confidence = %v", pred.Confidence)
	}

	sum := 0.0
	bestProb := 0.0
	for _, p := range pred.Probabilities {
		sum += p
		if p > bestProb {
			bestProb = p
		}
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("probabilities sum to %v", sum)
	}
	if pred.Confidence != bestProb {
		t.Fatalf("confidence %v != max probability %v", pred.Confidence, bestProb)
	}
	if pred.Probabilities[pred.Disease] != pred.Confidence {
		t.Fatal("winning disease probability does not match confidence")
	}
}

func TestPredictWithoutModel(t *testing.T) {
	svc := NewService(slog.Default(), nil, nil)

	if svc.Ready() {
		t.Fatal("service without artifact reports ready")
	}

	_, err := svc.Predict(types.Observation{})
	var appErr *types.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Code != types.ErrCodeUnavailableModel {
		t.Fatalf("code = %s, want %s", appErr.Code, types.ErrCodeUnavailableModel)
	}
}

func TestTreatmentForFallback(t *testing.T) {
	svc := NewService(slog.Default(), nil, map[string]types.Treatment{
		"Rust": {Treatment: "Apply fungicide.", Prevention: "Resistant varieties.", Chemicals: []string{"Propiconazole"}},
	})

	if got := svc.TreatmentFor("Rust"); got.Treatment != "Apply fungicide." {
		t.Fatalf("known disease treatment = %+v", got)
	}

	fb := svc.TreatmentFor("Unknown_Disease")
	if fb.Treatment != "No treatment information available." {
		t.Fatalf("fallback treatment = %q", fb.Treatment)
	}
	if fb.Prevention != "General preventive measures recommended." {
		t.Fatalf("fallback prevention = %q", fb.Prevention)
	}
	if len(fb.Chemicals) != 0 {
		t.Fatalf("fallback chemicals = %v", fb.Chemicals)
	}
}

func TestDiseasesListing(t *testing.T) {
	svc, _ := trainedService(t, map[string]types.Treatment{
		"Healthy": {Treatment: "No treatment needed."},
	})

	ds := svc.Diseases()
	if len(ds) < 2 {
		t.Fatalf("got %d diseases", len(ds))
	}
	for i := 1; i < len(ds); i++ {
		if ds[i-1].Name >= ds[i].Name {
			t.Fatalf("diseases not sorted: %v then %v", ds[i-1].Name, ds[i].Name)
		}
	}

	found := false
	for _, d := range ds {
		if d.Name == "Healthy" {
			found = true
			if d.Treatment.Treatment != "No treatment needed." {
				t.Fatalf("Healthy treatment = %+v", d.Treatment)
			}
		} else if d.Treatment.Treatment != fallbackTreatment.Treatment {
			t.Fatalf("disease %s did not get fallback treatment", d.Name)
		}
	}
	if !found {
		t.Fatal("Healthy missing from disease list")
	}

	empty := NewService(slog.Default(), nil, nil)
	if got := empty.Diseases(); got != nil {
		t.Fatalf("diseases without model = %v, want nil", got)
	}
}

func TestLoadTreatments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "treatments.json")
	body := `{"Rust": {"treatment": "t", "prevention": "p", "chemicals": ["c1", "c2"]}}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := LoadTreatments(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(m) != 1 || m["Rust"].Treatment != "t" || len(m["Rust"].Chemicals) != 2 {
		t.Fatalf("loaded treatments = %+v", m)
	}

	if _, err := LoadTreatments(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTreatments(bad); err == nil {
		t.Error("expected error for malformed JSON")
	}
}
