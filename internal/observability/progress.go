package observability

import (
	"fmt"
	"sync"

	"golang.org/x/time/rate"
)

// ProgressReporter emits "N/total folds complete" lines for a long
// leave-one-out run without flooding the log: Report is safe to call
// from many fold goroutines at once, but the underlying rate.Limiter
// (the same token-bucket primitive the rest of the pack uses to gate
// per-client request rates) drops a call's line rather than blocking
// the caller when it fires faster than the configured rate.
type ProgressReporter struct {
	logger  *Logger
	limiter *rate.Limiter

	mu        sync.Mutex
	completed int
	total     int
}

// NewProgressReporter builds a reporter that logs at most once every
// 1/everyPerSecond seconds, regardless of how often Report is called.
// everyPerSecond <= 0 disables rate limiting and logs every call.
func NewProgressReporter(logger *Logger, total int, everyPerSecond float64) *ProgressReporter {
	var limiter *rate.Limiter
	if everyPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(everyPerSecond), 1)
	}

	return &ProgressReporter{
		logger: logger,
		limiter: limiter,
		total:   total,
	}
}

// Report records one more completed fold and, subject to the rate
// limit, logs the running total.
func (p *ProgressReporter) Report(experiment string) {
	p.mu.Lock()
	p.completed++
	completed := p.completed
	p.mu.Unlock()

	if p.limiter != nil && !p.limiter.Allow() {
		return
	}

	p.logger.Info(fmt.Sprintf("%s: %d/%d folds complete", experiment, completed, p.total))
}

// Done logs a final summary line unconditionally, bypassing the rate
// limit so the last line of an experiment is never dropped.
func (p *ProgressReporter) Done(experiment string) {
	p.mu.Lock()
	completed := p.completed
	p.mu.Unlock()
	p.logger.Info(fmt.Sprintf("%s: finished (%d/%d folds)", experiment, completed, p.total))
}
