// Command augment grows a dataset CSV to a target size by jittering
// existing rows.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"leafsense/internal/dataset"
)

func main() {
	var (
		in     = flag.String("in", "data/plant_disease_dataset.csv", "input CSV path")
		out    = flag.String("out", "data/plant_disease_dataset_augmented.csv", "output CSV path")
		target = flag.Int("target", 10000, "target number of rows")
		seed   = flag.Int64("seed", 42, "random seed")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	samples, err := dataset.ReadFile(*in)
	if err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
	if len(samples) == 0 {
		fmt.Fprintln(os.Stderr, "fatal: input dataset is empty")
		os.Exit(1)
	}

	augmented := dataset.NewAugmenter(*seed).Augment(samples, *target)
	if err := dataset.WriteFile(*out, augmented); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}

	logger.Info("augmented dataset written",
		"path", *out,
		"input_rows", len(samples),
		"output_rows", len(augmented),
		"seed", *seed,
	)
}
