package ml

import (
	"math"
	"math/rand"
	"testing"
)

// blobs generates a linearly separable two-class dataset: class 0 clustered
// around (0,0), class 1 around (10,10).
func blobs(n int, seed int64) ([][]float64, []int) {
	rng := rand.New(rand.NewSource(seed))
	X := make([][]float64, n)
	y := make([]int, n)
	for i := range X {
		c := i % 2
		off := float64(c) * 10
		X[i] = []float64{off + rng.NormFloat64(), off + rng.NormFloat64()}
		y[i] = c
	}
	return X, y
}

func TestFitForestValidation(t *testing.T) {
	X, y := blobs(10, 1)

	if _, err := FitForest(nil, nil, 2, DefaultConfig()); err == nil {
		t.Error("expected error for empty training data")
	}
	if _, err := FitForest(X, y[:5], 2, DefaultConfig()); err == nil {
		t.Error("expected error for shape mismatch")
	}
	if _, err := FitForest(X, y, 1, DefaultConfig()); err == nil {
		t.Error("expected error for single class")
	}

	cfg := DefaultConfig()
	cfg.NEstimators = 0
	if _, err := FitForest(X, y, 2, cfg); err == nil {
		t.Error("expected error for zero estimators")
	}
}

func TestForestSeparatesBlobs(t *testing.T) {
	X, y := blobs(200, 7)

	cfg := DefaultConfig()
	cfg.NEstimators = 20
	f, err := FitForest(X, y, 2, cfg)
	if err != nil {
		t.Fatal(err)
	}

	correct := 0
	for i, pred := range f.PredictAll(X) {
		if pred == y[i] {
			correct++
		}
	}
	acc := float64(correct) / float64(len(y))
	if acc < 0.95 {
		t.Fatalf("training accuracy %v on separable data, want >= 0.95", acc)
	}
}

func TestForestDeterministicForSeed(t *testing.T) {
	X, y := blobs(100, 3)

	cfg := DefaultConfig()
	cfg.NEstimators = 10

	a, err := FitForest(X, y, 2, cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := FitForest(X, y, 2, cfg)
	if err != nil {
		t.Fatal(err)
	}

	probe := []float64{5, 5}
	pa, pb := a.PredictProba(probe), b.PredictProba(probe)
	for c := range pa {
		if pa[c] != pb[c] {
			t.Fatalf("equally seeded forests disagree: %v vs %v", pa, pb)
		}
	}
}

func TestPredictProbaSumsToOne(t *testing.T) {
	X, y := blobs(100, 9)

	cfg := DefaultConfig()
	cfg.NEstimators = 15
	f, err := FitForest(X, y, 2, cfg)
	if err != nil {
		t.Fatal(err)
	}

	for _, x := range X[:20] {
		sum := 0.0
		for _, p := range f.PredictProba(x) {
			if p < 0 || p > 1 {
				t.Fatalf("probability %v out of [0,1]", p)
			}
			sum += p
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Fatalf("probabilities sum to %v, want 1", sum)
		}
	}
}

func TestPredictTieBreaksToLowestClass(t *testing.T) {
	f := &Forest{
		Trees: []Tree{
			{Nodes: []node{{Feature: -1, Dist: []float64{0.5, 0.5}}}},
		},
		NumClasses:  2,
		NumFeatures: 1,
	}
	if got := f.Predict([]float64{0}); got != 0 {
		t.Fatalf("tied prediction = %d, want 0", got)
	}
}

func TestMaxDepthLimitsTree(t *testing.T) {
	X, y := blobs(200, 11)

	cfg := DefaultConfig()
	cfg.NEstimators = 1
	cfg.MaxDepth = 1
	f, err := FitForest(X, y, 2, cfg)
	if err != nil {
		t.Fatal(err)
	}

	// Depth 1 allows a single split: root plus two leaves at most.
	if n := len(f.Trees[0].Nodes); n > 3 {
		t.Fatalf("depth-1 tree has %d nodes, want <= 3", n)
	}
}
