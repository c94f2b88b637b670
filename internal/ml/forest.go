package ml

import (
	"fmt"
	"math/rand"
)

// Forest is a random-forest classifier: NEstimators CART trees fitted on
// bootstrap samples, predicting with the mean of the per-tree leaf class
// distributions. Read-only after Fit; safe for concurrent prediction.
type Forest struct {
	Trees       []Tree `json:"trees"`
	NumClasses  int    `json:"num_classes"`
	NumFeatures int    `json:"num_features"`
	Params      Config `json:"params"`
}

// FitForest trains a forest on the row-major matrix X with dense integer
// labels y in [0, numClasses). Training is deterministic for a fixed
// cfg.Seed.
func FitForest(X [][]float64, y []int, numClasses int, cfg Config) (*Forest, error) {
	if len(X) == 0 || len(X) != len(y) {
		return nil, fmt.Errorf("training data shape mismatch: %d rows, %d labels", len(X), len(y))
	}
	if numClasses < 2 {
		return nil, fmt.Errorf("need at least 2 classes, got %d", numClasses)
	}
	if cfg.NEstimators < 1 {
		return nil, fmt.Errorf("n_estimators must be positive, got %d", cfg.NEstimators)
	}

	f := &Forest{
		Trees:       make([]Tree, 0, cfg.NEstimators),
		NumClasses:  numClasses,
		NumFeatures: len(X[0]),
		Params:      cfg,
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	n := len(X)

	for t := 0; t < cfg.NEstimators; t++ {
		// Bootstrap sample with replacement, one fresh draw per tree.
		idx := make([]int, n)
		for i := range idx {
			idx[i] = rng.Intn(n)
		}
		f.Trees = append(f.Trees, growTree(X, y, idx, numClasses, cfg, rng))
	}

	return f, nil
}

// PredictProba returns the class probability distribution for one feature
// vector: the mean of the leaf distributions across all trees.
func (f *Forest) PredictProba(x []float64) []float64 {
	probs := make([]float64, f.NumClasses)
	for i := range f.Trees {
		dist := f.Trees[i].predictProba(x)
		for c, p := range dist {
			probs[c] += p
		}
	}
	inv := 1 / float64(len(f.Trees))
	for c := range probs {
		probs[c] *= inv
	}
	return probs
}

// Predict returns the class id with the highest probability. Ties break
// toward the lowest class id, matching sorted label order.
func (f *Forest) Predict(x []float64) int {
	probs := f.PredictProba(x)
	best := 0
	for c := 1; c < len(probs); c++ {
		if probs[c] > probs[best] {
			best = c
		}
	}
	return best
}

// PredictAll predicts class ids for every row of X.
func (f *Forest) PredictAll(X [][]float64) []int {
	out := make([]int, len(X))
	for i, x := range X {
		out[i] = f.Predict(x)
	}
	return out
}
