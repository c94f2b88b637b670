// Command trainer fits the disease classifier from a labeled dataset CSV
// and writes the model artifact plus a metrics report.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"leafsense/internal/dataset"
	"leafsense/internal/trainer"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		in      = flag.String("in", "data/plant_disease_dataset_augmented.csv", "input dataset CSV path")
		out     = flag.String("out", "models/plant_disease_model.json.gz", "output artifact path")
		metrics = flag.String("metrics", "models/training_report.json", "output metrics report path")
		seed    = flag.Int64("seed", 42, "random seed")
		folds   = flag.Int("folds", 5, "cross-validation folds")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	samples, err := dataset.ReadFile(*in)
	if err != nil {
		return err
	}

	opts := trainer.DefaultOptions()
	opts.Seed = *seed
	opts.CVFolds = *folds

	artifact, report, err := trainer.New(logger, opts).Train(ctx, samples)
	if err != nil {
		return err
	}

	if err := artifact.Save(*out); err != nil {
		return err
	}
	if err := report.Save(*metrics); err != nil {
		return err
	}

	logger.Info("training complete",
		"artifact", *out,
		"report", *metrics,
		"cv_f1_macro", report.CVScore,
		"holdout_f1_macro", report.Holdout.F1Macro,
		"holdout_accuracy", report.Holdout.Accuracy,
	)
	return nil
}
