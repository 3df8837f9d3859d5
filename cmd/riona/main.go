// Command riona runs leave-one-out cross-validation of the RIONA, RIA,
// and k+NN instance-based classifiers over an ARFF-like tabular
// dataset, writing predictions, neighbor lists, and a statistics
// report per (algorithm, mode, k) experiment.
package main

import (
	"flag"
	"fmt"
	"math"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/michaltopolski/riona-go/internal/config"
	"github.com/michaltopolski/riona-go/internal/dataset"
	"github.com/michaltopolski/riona-go/internal/loop"
	"github.com/michaltopolski/riona-go/internal/metric"
	"github.com/michaltopolski/riona-go/internal/observability"
	"github.com/michaltopolski/riona-go/internal/report"
)

func main() {
	cfg, typesOverride, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if cfg.IO.InputPath == "" {
		fmt.Fprintln(os.Stderr, "--input is required")
		os.Exit(1)
	}

	logger := observability.NewLogger(observability.ParseLogLevel(cfg.Observability.LogLevel), os.Stderr)
	metrics := observability.NewMetrics()

	if cfg.Observability.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: cfg.Observability.MetricsAddr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Errorf("metrics server: %v", err)
			}
		}()
		defer srv.Close()
	}

	if err := run(cfg, typesOverride, logger, metrics); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (*config.RunConfig, string, error) {
	fs := flag.NewFlagSet("riona", flag.ContinueOnError)

	input := fs.String("input", "", "path to the ARFF-like input file (required)")
	typesSpec := fs.String("types", "", "override attribute kind sequence, e.g. n,c,n or ncn")
	algo := fs.String("algo", "all", "riona|ria|knn|all")
	mode := fs.String("mode", "g", "g|l|both")
	svdm := fs.String("svdm", "svdm", "svdm|svdmprime (also svdm'|svdmp)")
	kSpec := fs.String("k", "1,3,log2", "comma list of positive integers or log/log2")
	n := fs.Int("n", -1, "preliminary neighborhood size for k+NN (-1 = training-set size)")
	missing := fs.String("missing", "?", "missing-value token")
	outdir := fs.String("outdir", ".", "output directory")
	logLevel := fs.String("log-level", "info", "debug|info|warn|error")
	metricsAddr := fs.String("metrics-addr", "", "if set, serve Prometheus metrics on this address for the run's duration")
	progressEvery := fs.Duration("progress-every", 2*time.Second, "minimum interval between progress log lines")
	workers := fs.Int("workers", 0, "fold worker-pool size (0 = runtime.NumCPU())")

	if err := fs.Parse(args); err != nil {
		return nil, "", err
	}

	cfg := config.Default()
	cfg.IO.InputPath = *input
	cfg.IO.TypesOverride = *typesSpec
	cfg.IO.MissingToken = *missing
	cfg.IO.OutDir = *outdir

	switch strings.ToLower(*svdm) {
	case "svdmprime", "svdm'", "svdmp":
		cfg.Metric.SVDMPrime = true
		cfg.Metric.MissingNominal = 1.0
	default:
		cfg.Metric.SVDMPrime = false
		cfg.Metric.MissingNominal = 2.0
	}

	switch *algo {
	case "all":
		cfg.Experiment.Algorithms = []string{"riona", "ria", "knn"}
	case "riona", "ria", "knn":
		cfg.Experiment.Algorithms = []string{*algo}
	default:
		return nil, "", fmt.Errorf("unknown algorithm: %q", *algo)
	}

	switch *mode {
	case "both":
		cfg.Experiment.Modes = []string{"g", "l"}
	case "g", "l":
		cfg.Experiment.Modes = []string{*mode}
	default:
		return nil, "", fmt.Errorf("unknown mode: %q", *mode)
	}

	cfg.Experiment.N = *n
	cfg.Experiment.RawK = *kSpec

	cfg.Observability.LogLevel = *logLevel
	cfg.Observability.MetricsAddr = *metricsAddr
	cfg.Observability.ProgressEvery = *progressEvery
	if *workers > 0 {
		cfg.Observability.Workers = *workers
	}

	return cfg, *typesSpec, nil
}

// expandK resolves the raw --k spec (a comma list of positive integers
// or the literal "log"/"log2") against the dataset's row count, then
// sorts and deduplicates, per spec.md §6 and §11.
func expandK(rawK string, numRows int) []int {
	seen := make(map[int]bool)
	var out []int
	for _, token := range strings.Split(rawK, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		var k int
		if token == "log" || token == "log2" {
			k = int(math.Floor(math.Log2(math.Max(1, float64(numRows)))))
			if k < 1 {
				k = 1
			}
		} else {
			v, err := strconv.Atoi(token)
			if err != nil || v < 1 {
				continue
			}
			k = v
		}
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	sort.Ints(out)
	return out
}

func run(cfg *config.RunConfig, typesSpec string, logger *observability.Logger, metrics *observability.Metrics) error {
	runStart := time.Now()

	var ds *dataset.Dataset
	readStart := time.Now()
	err := logger.LogOperation("read-dataset", func() error {
		var readErr error
		ds, readErr = dataset.ReadARFF(cfg.IO.InputPath, cfg.IO.MissingToken)
		return readErr
	})
	readDuration := time.Since(readStart)
	if err != nil {
		return fmt.Errorf("read dataset: %w", err)
	}

	if len(ds.Rows) < 2 {
		return fmt.Errorf("dataset must contain at least 2 objects for leave-one-out")
	}

	if typesSpec != "" {
		types := dataset.ParseTypeSpec(typesSpec)
		if err := dataset.ApplyTypes(ds, types); err != nil {
			return fmt.Errorf("apply --types: %w", err)
		}
	}

	metrics.SetDatasetRows(len(ds.Rows))

	cfg.Experiment.K = expandK(cfg.Experiment.RawK, len(ds.Rows))
	if err := cfg.Validate(); err != nil {
		return err
	}

	distCfg := metric.DistanceConfig{
		SVDMPrime:      cfg.Metric.SVDMPrime,
		MissingNominal: cfg.Metric.MissingNominal,
		MissingNumeric: cfg.Metric.MissingNumeric,
	}

	var globalStats metric.Stats
	prepStart := time.Now()
	logger.LogOperation("build-global-stats", func() error {
		globalStats = metric.BuildStats(ds, ds.AllIndices(), distCfg)
		return nil
	})
	prepDuration := time.Since(prepStart)

	experiments := buildExperiments(cfg)
	progress := observability.NewProgressReporter(logger, len(experiments)*len(ds.Rows), rateFromInterval(cfg.Observability.ProgressEvery))

	classifyStart := time.Now()
	results := loop.Run(ds, distCfg, experiments, loop.RunConfig{Workers: cfg.Observability.Workers}, func(expIdx, foldIdx, total int) {
		progress.Report(experiments[expIdx].Algorithm.String())
	})
	classifyDuration := time.Since(classifyStart)

	svdmLabel := "SVDM"
	if cfg.Metric.SVDMPrime {
		svdmLabel = "SVDMprime"
	}

	writeStart := time.Now()
	for _, res := range results {
		exp := res.Experiment
		algoName := exp.Algorithm.String()
		modeName := exp.Mode.String()

		if res.Skipped() {
			metrics.RecordExperimentSkipped()
			logger.Warnf("skipping %s/%s k=%d: k exceeds dataset size", algoName, modeName, exp.K)
			continue
		}

		perFold := classifyDuration / time.Duration(max(1, len(experiments)*len(res.Folds)))
		for range res.Folds {
			metrics.RecordFold(algoName, modeName, perFold)
		}

		predStd := make([]string, len(res.Folds))
		predNorm := make([]string, len(res.Folds))
		knnLists := make([][]metric.Neighbor, len(res.Folds))
		for i, f := range res.Folds {
			predStd[i] = f.PredictedStandard
			predNorm[i] = f.PredictedNormalized
			knnLists[i] = f.Neighbors
		}

		paths := report.ComposePaths(cfg.IO.OutDir, cfg.IO.InputPath, algoName, modeName, svdmLabel, len(ds.Types), len(ds.Rows), res.KEff)
		if err := os.MkdirAll(paths.Dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}

		if err := report.WritePredictions(paths.Predictions, ds, predStd, predNorm, cfg.IO.MissingToken); err != nil {
			return err
		}
		if err := report.WriteNeighbors(paths.Neighbors, knnLists); err != nil {
			return err
		}

		accStd := accuracy(res.ConfusionStd)
		accNorm := accuracy(res.ConfusionNorm)
		metrics.RecordExperimentAccuracy(algoName, modeName, strconv.Itoa(res.KEff), "standard", accStd)
		metrics.RecordExperimentAccuracy(algoName, modeName, strconv.Itoa(res.KEff), "normalized", accNorm)

		statIn := report.StatisticsInput{
			InputFile:     cfg.IO.InputPath,
			Algorithm:     algoName,
			Mode:          modeName,
			SVDMLabel:     svdmLabel,
			K:             res.KEff,
			ConfusionStd:  res.ConfusionStd,
			ConfusionNorm: res.ConfusionNorm,
			Timings: report.Timings{
				Read:     readDuration,
				Prep:     prepDuration,
				Classify: classifyDuration,
				Write:    time.Since(writeStart),
				Total:    time.Since(runStart),
			},
		}
		if err := report.WriteStatistics(paths.Statistics, ds, globalStats, statIn); err != nil {
			return err
		}

		progress.Done(algoName)
	}

	return nil
}

func buildExperiments(cfg *config.RunConfig) []loop.Experiment {
	var exps []loop.Experiment
	for _, a := range cfg.Experiment.Algorithms {
		var algo loop.Algorithm
		switch a {
		case "riona":
			algo = loop.RIONA
		case "ria":
			algo = loop.RIA
		case "knn":
			algo = loop.KNN
		}
		for _, m := range cfg.Experiment.Modes {
			var mode loop.Mode
			if m == "l" {
				mode = loop.Local
			} else {
				mode = loop.Global
			}
			for _, k := range cfg.Experiment.K {
				exps = append(exps, loop.Experiment{Algorithm: algo, Mode: mode, K: k, N: cfg.Experiment.N})
			}
		}
	}
	return exps
}

func accuracy(conf [][]int) float64 {
	var correct, total int
	for i := range conf {
		for j := range conf[i] {
			total += conf[i][j]
			if i == j {
				correct += conf[i][j]
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total)
}

func rateFromInterval(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return 1.0 / d.Seconds()
}
