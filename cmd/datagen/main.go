// Command datagen writes a synthetic labeled dataset CSV.
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
		n    = flag.Int("n", 800, "number of samples to generate")
		out  = flag.String("out", "data/plant_disease_dataset.csv", "output CSV path")
		seed = flag.Int64("seed", 42, "random seed")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if *n < 1 {
		fmt.Fprintln(os.Stderr, "fatal: -n must be positive")
		os.Exit(1)
	}

	samples := dataset.NewGenerator(*seed).Generate(*n)
	if err := dataset.WriteFile(*out, samples); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}

	logger.Info("dataset written", "path", *out, "samples", len(samples), "seed", *seed)
}
