package ml

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ParamGrid enumerates the hyperparameter values explored by the grid
// search. Every combination of the listed values is evaluated.
type ParamGrid struct {
	NEstimators      []int `json:"n_estimators"`
	MaxDepths        []int `json:"max_depth"`
	MinSamplesSplits []int `json:"min_samples_split"`
	MinSamplesLeafs  []int `json:"min_samples_leaf"`
}

// DefaultGrid returns the standard search space: 24 combinations.
// MaxDepth 0 means unlimited.
func DefaultGrid() ParamGrid {
	return ParamGrid{
		NEstimators:      []int{100, 200},
		MaxDepths:        []int{10, 20, 0},
		MinSamplesSplits: []int{2, 5},
		MinSamplesLeafs:  []int{1, 2},
	}
}

// Combinations expands the grid into concrete configs in a fixed order
// (n_estimators outermost, min_samples_leaf innermost). The order matters:
// score ties resolve to the earlier combination.
func (g ParamGrid) Combinations(seed int64) []Config {
	var out []Config
	for _, n := range g.NEstimators {
		for _, d := range g.MaxDepths {
			for _, split := range g.MinSamplesSplits {
				for _, leaf := range g.MinSamplesLeafs {
					out = append(out, Config{
						NEstimators:     n,
						MaxDepth:        d,
						MinSamplesSplit: split,
						MinSamplesLeaf:  leaf,
						Seed:            seed,
					})
				}
			}
		}
	}
	return out
}

// SearchResult is the cross-validated score for one hyperparameter
// combination.
type SearchResult struct {
	Params     Config    `json:"params"`
	MeanScore  float64   `json:"mean_score"`
	FoldScores []float64 `json:"fold_scores"`
}

// GridSearchCV evaluates every combination in the grid with stratified
// k-fold cross-validation, scoring by macro F1, and returns the best
// combination plus the full result table. Combinations are evaluated
// concurrently; the result is deterministic for a fixed seed because the
// fold assignment and every forest draw from seeds independent of
// scheduling. Ties on mean score resolve to the earliest combination in
// grid order.
func GridSearchCV(ctx context.Context, X [][]float64, y []int, numClasses int, grid ParamGrid, folds int, seed int64) (SearchResult, []SearchResult, error) {
	if folds < 2 {
		return SearchResult{}, nil, fmt.Errorf("cross-validation needs at least 2 folds, got %d", folds)
	}
	configs := grid.Combinations(seed)
	if len(configs) == 0 {
		return SearchResult{}, nil, fmt.Errorf("empty parameter grid")
	}

	foldIdx := StratifiedKFold(y, folds, seed)
	results := make([]SearchResult, len(configs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, cfg := range configs {
		i, cfg := i, cfg
		g.Go(func() error {
			res, err := crossValidate(ctx, X, y, numClasses, cfg, foldIdx)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return SearchResult{}, nil, err
	}

	best := results[0]
	for _, r := range results[1:] {
		if r.MeanScore > best.MeanScore {
			best = r
		}
	}
	return best, results, nil
}

// crossValidate trains cfg on each fold complement and scores it on the
// held-out fold.
func crossValidate(ctx context.Context, X [][]float64, y []int, numClasses int, cfg Config, foldIdx [][]int) (SearchResult, error) {
	res := SearchResult{
		Params:     cfg,
		FoldScores: make([]float64, 0, len(foldIdx)),
	}

	for f := range foldIdx {
		if err := ctx.Err(); err != nil {
			return SearchResult{}, err
		}

		var trainIdx []int
		for o, idx := range foldIdx {
			if o != f {
				trainIdx = append(trainIdx, idx...)
			}
		}

		trainX, trainY := gather(X, y, trainIdx)
		valX, valY := gather(X, y, foldIdx[f])

		forest, err := FitForest(trainX, trainY, numClasses, cfg)
		if err != nil {
			return SearchResult{}, fmt.Errorf("fold %d: %w", f, err)
		}

		score := MacroF1(valY, forest.PredictAll(valX), numClasses)
		res.FoldScores = append(res.FoldScores, score)
		res.MeanScore += score
	}

	res.MeanScore /= float64(len(foldIdx))
	return res, nil
}
