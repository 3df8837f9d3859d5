package observability

import (
	"bytes"
	"strings"
	"testing"
)

func TestProgressReporterUnrated(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(INFO, &buf)
	p := NewProgressReporter(logger, 3, 0)

	p.Report("RIONA/g/k1")
	p.Report("RIONA/g/k1")
	p.Report("RIONA/g/k1")

	out := buf.String()
	if strings.Count(out, "RIONA/g/k1") != 3 {
		t.Errorf("expected 3 log lines with rate limiting disabled, got:\n%s", out)
	}
	if !strings.Contains(out, "3/3 folds complete") {
		t.Errorf("expected final line to report 3/3, got:\n%s", out)
	}
}

func TestProgressReporterRateLimited(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(INFO, &buf)
	// A tiny rate with burst 1 means only the first Report within this
	// test's timeframe is guaranteed to log; the rest may be dropped.
	p := NewProgressReporter(logger, 100, 0.0001)

	for i := 0; i < 100; i++ {
		p.Report("KNN/l/k3")
	}
	if strings.Count(buf.String(), "KNN/l/k3") > 2 {
		t.Errorf("expected rate limiting to suppress most of 100 rapid calls, got:\n%s", buf.String())
	}
}

func TestProgressReporterDoneBypassesRateLimit(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(INFO, &buf)
	p := NewProgressReporter(logger, 5, 0.0001)

	for i := 0; i < 5; i++ {
		p.Report("RIA/g/k1")
	}
	buf.Reset()
	p.Done("RIA/g/k1")

	if !strings.Contains(buf.String(), "finished (5/5 folds)") {
		t.Errorf("expected Done to log unconditionally, got:\n%s", buf.String())
	}
}
