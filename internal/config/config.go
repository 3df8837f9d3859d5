// Package config holds the run-wide configuration for a riona batch
// invocation: distance-metric defaults, the experiment grid, and the
// ambient observability knobs, each with a Default() and a Validate()
// in the teacher's struct-of-structs idiom.
package config

import (
	"fmt"
	"runtime"
	"time"
)

// MetricConfig mirrors metric.DistanceConfig's knobs, kept as its own
// struct here so CLI parsing and defaulting don't reach into the
// internal/metric package directly.
type MetricConfig struct {
	SVDMPrime      bool
	MissingNominal float64
	MissingNumeric float64
}

// ExperimentConfig describes the (algorithm, mode, k) grid to run, plus
// the KNN-only preliminary-neighborhood size.
type ExperimentConfig struct {
	Algorithms []string // subset of "riona", "ria", "knn"
	Modes      []string // subset of "g", "l"
	RawK       string   // unexpanded --k spec; resolved against dataset size into K
	K          []int    // positive, already expanded from the --k flag
	N          int      // -1 means "use the training-set size"
}

// IOConfig holds ingestion/output paths.
type IOConfig struct {
	InputPath    string
	TypesOverride string // raw --types spec, empty means "infer from the file"
	MissingToken string
	OutDir       string
}

// ObservabilityConfig holds the ambient logging/metrics/progress knobs.
type ObservabilityConfig struct {
	LogLevel      string // debug|info|warn|error
	MetricsAddr   string // empty disables the /metrics endpoint
	ProgressEvery time.Duration
	Workers       int
}

// RunConfig is the fully assembled configuration for one invocation.
type RunConfig struct {
	IO            IOConfig
	Metric        MetricConfig
	Experiment    ExperimentConfig
	Observability ObservabilityConfig
}

// Default returns the configuration spec.md §6 describes as the CLI's
// defaults: missing token "?", k-list "1,3,log2" (expanded by the
// caller once the dataset size is known), svdm (not svdmPrime), and
// info-level logging with no metrics endpoint.
func Default() *RunConfig {
	return &RunConfig{
		IO: IOConfig{
			MissingToken: "?",
			OutDir:       ".",
		},
		Metric: MetricConfig{
			SVDMPrime:      false,
			MissingNominal: 2.0,
			MissingNumeric: 1.0,
		},
		Experiment: ExperimentConfig{
			Algorithms: []string{"riona", "ria", "knn"},
			Modes:      []string{"g"},
			RawK:       "1,3,log2",
			N:          -1,
		},
		Observability: ObservabilityConfig{
			LogLevel:      "info",
			ProgressEvery: 2 * time.Second,
			Workers:       runtime.NumCPU(),
		},
	}
}

// Validate checks the configuration for the errors spec.md §7 calls
// out by name (unknown algorithm/mode, missing input, non-positive k,
// inconsistent workers), returning the first offending field.
func (c *RunConfig) Validate() error {
	if c.IO.InputPath == "" {
		return fmt.Errorf("--input is required")
	}

	for _, a := range c.Experiment.Algorithms {
		switch a {
		case "riona", "ria", "knn":
		default:
			return fmt.Errorf("unknown algorithm: %q (must be riona, ria, or knn)", a)
		}
	}
	if len(c.Experiment.Algorithms) == 0 {
		return fmt.Errorf("no algorithms configured")
	}

	for _, m := range c.Experiment.Modes {
		switch m {
		case "g", "l":
		default:
			return fmt.Errorf("unknown mode: %q (must be g or l)", m)
		}
	}
	if len(c.Experiment.Modes) == 0 {
		return fmt.Errorf("no modes configured")
	}

	if len(c.Experiment.K) == 0 {
		return fmt.Errorf("no k values configured")
	}
	for _, k := range c.Experiment.K {
		if k < 1 {
			return fmt.Errorf("invalid k: %d (must be >= 1)", k)
		}
	}

	if c.Observability.Workers < 1 {
		return fmt.Errorf("invalid workers: %d (must be >= 1)", c.Observability.Workers)
	}

	switch c.Observability.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %q (must be debug, info, warn, or error)", c.Observability.LogLevel)
	}

	return nil
}
