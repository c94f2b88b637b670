// Package trainer fits the disease classifier end to end: stratified
// train/test split, feature pipeline fitting on the training partition,
// cross-validated hyperparameter search, a final refit of the best
// combination, and holdout evaluation. The output is a serializable
// artifact plus a metrics report.
package trainer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"leafsense/internal/ml"
	"leafsense/internal/pipeline"
	"leafsense/internal/types"
)

// Options controls a training run. Zero values fall back to the defaults
// applied by normalize.
type Options struct {
	TestFraction float64
	Seed         int64
	CVFolds      int
	Grid         ml.ParamGrid
}

// DefaultOptions returns the standard training configuration.
func DefaultOptions() Options {
	return Options{
		TestFraction: 0.2,
		Seed:         42,
		CVFolds:      5,
		Grid:         ml.DefaultGrid(),
	}
}

func (o Options) normalize() Options {
	def := DefaultOptions()
	if o.TestFraction <= 0 || o.TestFraction >= 1 {
		o.TestFraction = def.TestFraction
	}
	if o.CVFolds < 2 {
		o.CVFolds = def.CVFolds
	}
	if len(o.Grid.NEstimators) == 0 {
		o.Grid = def.Grid
	}
	return o
}

// Report summarizes a completed training run. Persisted alongside the
// artifact as plain JSON for inspection.
type Report struct {
	TrainedAt      time.Time         `json:"trained_at"`
	TrainSamples   int               `json:"train_samples"`
	TestSamples    int               `json:"test_samples"`
	FeatureColumns []string          `json:"feature_columns"`
	Classes        []string          `json:"classes"`
	BestParams     ml.Config         `json:"best_params"`
	CVScore        float64           `json:"cv_f1_macro"`
	Holdout        ml.Evaluation     `json:"holdout"`
	CVResults      []ml.SearchResult `json:"cv_results"`
}

// Save writes the report as indented JSON, creating parent directories.
func (r *Report) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating report directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// Trainer runs training jobs. Stateless between runs.
type Trainer struct {
	logger *slog.Logger
	opts   Options
}

// New builds a Trainer with the given options, filling in defaults for
// zero-valued fields.
func New(logger *slog.Logger, opts Options) *Trainer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Trainer{logger: logger, opts: opts.normalize()}
}

// FeatureColumns is the fixed feature order used for every model: the
// dataset column order minus identifiers, free text, and labels.
func FeatureColumns() []string {
	return []string{
		types.ColCropType,
		types.ColPlantAgeDays,
		types.ColLocationRegion,
		types.ColSoilPH,
		types.ColSoilMoisture,
		types.ColTemperature,
		types.ColHumidity,
		types.ColLeafColor,
		types.ColLesionPresent,
		types.ColLesionCount,
		types.ColSpotSize,
		types.ColNutrientDef,
	}
}

// Train fits a classifier on the labeled samples and returns the trained
// artifact and its report. The feature pipeline is fitted on the training
// partition only; the holdout partition never influences encodings, scaling
// moments, or hyperparameter choice.
func (t *Trainer) Train(ctx context.Context, samples []types.Sample) (*pipeline.Artifact, *Report, error) {
	if len(samples) == 0 {
		return nil, nil, fmt.Errorf("no training samples")
	}

	classes := classVocabulary(samples)
	if len(classes) < 2 {
		return nil, nil, fmt.Errorf("need at least 2 disease labels, got %d", len(classes))
	}
	classIdx := make(map[string]int, len(classes))
	for i, c := range classes {
		classIdx[c] = i
	}

	y := make([]int, len(samples))
	rows := make([]map[string]any, len(samples))
	for i, s := range samples {
		y[i] = classIdx[s.LabelDisease]
		rows[i] = s.Observation.Features()
	}

	trainIdx, testIdx := ml.StratifiedSplit(y, t.opts.TestFraction, t.opts.Seed)
	trainRows, trainY := gatherRows(rows, y, trainIdx)
	testRows, testY := gatherRows(rows, y, testIdx)

	t.logger.Info("starting training run",
		"samples", len(samples),
		"train", len(trainIdx),
		"test", len(testIdx),
		"classes", len(classes),
	)

	p, err := pipeline.Fit(FeatureColumns(), trainRows)
	if err != nil {
		return nil, nil, fmt.Errorf("fitting feature pipeline: %w", err)
	}

	trainX, err := p.TransformAll(trainRows)
	if err != nil {
		return nil, nil, fmt.Errorf("transforming training rows: %w", err)
	}
	testX, err := p.TransformAll(testRows)
	if err != nil {
		return nil, nil, fmt.Errorf("transforming holdout rows: %w", err)
	}

	best, all, err := ml.GridSearchCV(ctx, trainX, trainY, len(classes), t.opts.Grid, t.opts.CVFolds, t.opts.Seed)
	if err != nil {
		return nil, nil, fmt.Errorf("grid search: %w", err)
	}

	t.logger.Info("grid search finished",
		"combinations", len(all),
		"best_cv_f1_macro", best.MeanScore,
		"n_estimators", best.Params.NEstimators,
		"max_depth", best.Params.MaxDepth,
		"min_samples_split", best.Params.MinSamplesSplit,
		"min_samples_leaf", best.Params.MinSamplesLeaf,
	)

	forest, err := ml.FitForest(trainX, trainY, len(classes), best.Params)
	if err != nil {
		return nil, nil, fmt.Errorf("refitting best model: %w", err)
	}

	eval := ml.Evaluate(testY, forest.PredictAll(testX), classes)
	t.logger.Info("holdout evaluation",
		"accuracy", eval.Accuracy,
		"f1_macro", eval.F1Macro,
	)

	trainedAt := time.Now().UTC()
	artifact := &pipeline.Artifact{
		Schema:    p.Schema,
		Encoders:  p.Encoders,
		Scaler:    p.Scaler,
		Model:     forest,
		Classes:   classes,
		TrainedAt: trainedAt,
	}
	report := &Report{
		TrainedAt:      trainedAt,
		TrainSamples:   len(trainIdx),
		TestSamples:    len(testIdx),
		FeatureColumns: p.FeatureColumns(),
		Classes:        classes,
		BestParams:     best.Params,
		CVScore:        best.MeanScore,
		Holdout:        eval,
		CVResults:      all,
	}
	return artifact, report, nil
}

// classVocabulary collects the sorted distinct disease labels, which fixes
// the class id assignment.
func classVocabulary(samples []types.Sample) []string {
	seen := make(map[string]struct{})
	for _, s := range samples {
		seen[s.LabelDisease] = struct{}{}
	}
	classes := make([]string, 0, len(seen))
	for c := range seen {
		classes = append(classes, c)
	}
	sort.Strings(classes)
	return classes
}

func gatherRows(rows []map[string]any, y []int, idx []int) ([]map[string]any, []int) {
	gr := make([]map[string]any, len(idx))
	gy := make([]int, len(idx))
	for i, j := range idx {
		gr[i] = rows[j]
		gy[i] = y[j]
	}
	return gr, gy
}
