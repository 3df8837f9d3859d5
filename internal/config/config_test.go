package config

import "testing"

func TestDefaultIsValidOnceInputIsSet(t *testing.T) {
	cfg := Default()
	cfg.IO.InputPath = "dataset.arff"
	cfg.Experiment.K = []int{1, 3}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected default config (with input and k set) to validate, got %v", err)
	}
}

func TestValidateRejectsMissingInput(t *testing.T) {
	cfg := Default()
	cfg.Experiment.K = []int{1}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for missing --input")
	}
}

func TestValidateRejectsUnknownAlgorithm(t *testing.T) {
	cfg := Default()
	cfg.IO.InputPath = "x.arff"
	cfg.Experiment.K = []int{1}
	cfg.Experiment.Algorithms = []string{"bogus"}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for unknown algorithm")
	}
}

func TestValidateRejectsUnknownMode(t *testing.T) {
	cfg := Default()
	cfg.IO.InputPath = "x.arff"
	cfg.Experiment.K = []int{1}
	cfg.Experiment.Modes = []string{"x"}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestValidateRejectsNonPositiveK(t *testing.T) {
	cfg := Default()
	cfg.IO.InputPath = "x.arff"
	cfg.Experiment.K = []int{0}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for non-positive k")
	}
}

func TestValidateRejectsZeroWorkers(t *testing.T) {
	cfg := Default()
	cfg.IO.InputPath = "x.arff"
	cfg.Experiment.K = []int{1}
	cfg.Observability.Workers = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for zero workers")
	}
}

func TestValidateRejectsUnknownLogLevel(t *testing.T) {
	cfg := Default()
	cfg.IO.InputPath = "x.arff"
	cfg.Experiment.K = []int{1}
	cfg.Observability.LogLevel = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for unknown log level")
	}
}
