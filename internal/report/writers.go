package report

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/michaltopolski/riona-go/internal/dataset"
	"github.com/michaltopolski/riona-go/internal/metric"
)

// WritePredictions writes the per-row predictions file: id, original
// attribute tokens (missing cells replaced by missingToken), true
// label, standard prediction, normalized prediction.
func WritePredictions(path string, ds *dataset.Dataset, predStd, predNorm []string, missingToken string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create predictions file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i, inst := range ds.Rows {
		fmt.Fprintf(w, "%d", inst.ID)
		for _, attr := range inst.Attrs {
			w.WriteString(",")
			if attr.Missing {
				w.WriteString(missingToken)
			} else {
				w.WriteString(attr.Raw)
			}
		}
		fmt.Fprintf(w, ",%s,%s,%s\n", inst.Decision, predStd[i], predNorm[i])
	}
	return w.Flush()
}

// WriteNeighbors writes the neighbor-list file: one row per fold,
// "i+1, list_len, (idx+1,dist), ...".
func WriteNeighbors(path string, knnLists [][]metric.Neighbor) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create neighbors file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i, list := range knnLists {
		fmt.Fprintf(w, "%d,%d", i+1, len(list))
		for _, nb := range list {
			fmt.Fprintf(w, ",(%d,%v)", nb.Index+1, nb.Dist)
		}
		w.WriteString("\n")
	}
	return w.Flush()
}

// Timings carries the five named durations original_source/src/main.cpp
// reports: read, prep (global-stats build), classify, write, and total.
type Timings struct {
	Read      time.Duration
	Prep      time.Duration
	Classify  time.Duration
	Write     time.Duration
	Total     time.Duration
}

// StatisticsInput bundles what WriteStatistics needs beyond the path,
// the dataset and the global Stats (those three are separate
// parameters): the input file name, the experiment identity, timings,
// and both confusion matrices.
type StatisticsInput struct {
	InputFile     string
	Algorithm     string
	Mode          string
	SVDMLabel     string
	K             int
	Timings       Timings
	ConfusionStd  [][]int
	ConfusionNorm [][]int
}

// WriteStatistics writes the statistics report: input path,
// attribute/object counts, algorithm/mode/k/SVDM label, timings, class
// counts, per-attribute numeric stats and nominal SVDM matrices from
// the global Stats, both confusion matrices, per-class precision/
// recall/F1 under both voting rules, and macro-averaged balanced
// versions.
func WriteStatistics(path string, ds *dataset.Dataset, global metric.Stats, in StatisticsInput) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create statistics file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	fmt.Fprintf(w, "InputFile: %s\n", in.InputFile)
	fmt.Fprintf(w, "Attributes: %d\n", len(ds.Types))
	fmt.Fprintf(w, "Objects: %d\n", len(ds.Rows))
	fmt.Fprintf(w, "Algorithm: %s\n", in.Algorithm)
	fmt.Fprintf(w, "Mode: %s\n", in.Mode)
	fmt.Fprintf(w, "k: %d\n", in.K)
	fmt.Fprintf(w, "NominalDistance: %s\n", in.SVDMLabel)
	fmt.Fprintf(w, "Times(ms): read=%v, preprocess=%v, classify=%v, write=%v, total=%v\n",
		in.Timings.Read.Seconds()*1000, in.Timings.Prep.Seconds()*1000,
		in.Timings.Classify.Seconds()*1000, in.Timings.Write.Seconds()*1000,
		in.Timings.Total.Seconds()*1000)

	fmt.Fprintf(w, "d (number of classes): %d\n", len(ds.DecisionValues))
	w.WriteString("ClassCounts:")
	for _, label := range ds.DecisionValues {
		count := 0
		for _, inst := range ds.Rows {
			if inst.Decision == label {
				count++
			}
		}
		fmt.Fprintf(w, " %s=%d", label, count)
	}
	w.WriteString("\n")

	if in.Mode == "l" {
		w.WriteString("Note: Local mode recomputes statistics per test object.\n")
		w.WriteString("Global stats below are provided for reference.\n")
	}

	w.WriteString("NumericStats (global):\n")
	for a, kind := range ds.Types {
		if kind != dataset.Numeric {
			continue
		}
		ns := global.Numeric[a]
		fmt.Fprintf(w, "  attr[%d]: min=%v, max=%v, range=%v\n", a, ns.Min, ns.Max, ns.Range)
	}

	w.WriteString("NominalSVDM (global):\n")
	for a, kind := range ds.Types {
		if kind != dataset.Nominal {
			continue
		}
		ns := global.Nominal[a]
		fmt.Fprintf(w, "  attr[%d] values:", a)
		for _, v := range ns.Values {
			fmt.Fprintf(w, " %s", v)
		}
		w.WriteString("\n")
		for i, vi := range ns.Values {
			fmt.Fprintf(w, "    %s:", vi)
			for j := range ns.Values {
				fmt.Fprintf(w, " %v", ns.Dist[i][j])
			}
			w.WriteString("\n")
		}
	}

	writeConfusion(w, "ConfusionMatrix Standard (rows=true, cols=pred):\n", ds.DecisionValues, in.ConfusionStd)
	writeConfusion(w, "ConfusionMatrix Normalized (rows=true, cols=pred):\n", ds.DecisionValues, in.ConfusionNorm)

	metricsStd := ComputeMetrics(in.ConfusionStd)
	metricsNorm := ComputeMetrics(in.ConfusionNorm)
	balStd := ComputeBalanced(metricsStd)
	balNorm := ComputeBalanced(metricsNorm)

	w.WriteString("PerClassMetrics (standard / normalized):\n")
	for i, label := range ds.DecisionValues {
		fmt.Fprintf(w, "  %s Precision=%v Recall=%v F1=%v | NPrecision=%v NRecall=%v NF1=%v\n",
			label, metricsStd[i].Precision, metricsStd[i].Recall, metricsStd[i].F1,
			metricsNorm[i].Precision, metricsNorm[i].Recall, metricsNorm[i].F1)
	}

	w.WriteString("BalancedMetrics:\n")
	fmt.Fprintf(w, "  Bal_Precision=%v Bal_Recall=%v Bal_F1=%v\n", balStd.Precision, balStd.Recall, balStd.F1)
	fmt.Fprintf(w, "  NBal_Precision=%v NBal_Recall=%v NBal_F1=%v\n", balNorm.Precision, balNorm.Recall, balNorm.F1)

	return w.Flush()
}

func writeConfusion(w *bufio.Writer, header string, labels []string, conf [][]int) {
	w.WriteString(header)
	w.WriteString("  labels:")
	for _, label := range labels {
		fmt.Fprintf(w, " %s", label)
	}
	w.WriteString("\n")
	for i, label := range labels {
		fmt.Fprintf(w, "  %s:", label)
		for j := range labels {
			fmt.Fprintf(w, " %d", conf[i][j])
		}
		w.WriteString("\n")
	}
}
