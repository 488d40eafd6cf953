package runner

import (
	"time"

	"digital.vasic.koans/pkg/assertion"
	"digital.vasic.koans/pkg/logging"
	"digital.vasic.koans/pkg/metrics"
)

// RunnerOption configures a DefaultRunner.
type RunnerOption func(*DefaultRunner)

// WithEngine sets the assertion engine used to check answers.
func WithEngine(e assertion.Engine) RunnerOption {
	return func(r *DefaultRunner) {
		r.engine = e
	}
}

// WithLogger sets the logger used by the runner.
func WithLogger(logger logging.Logger) RunnerOption {
	return func(r *DefaultRunner) {
		if logger == nil {
			logger = logging.NullLogger{}
		}
		r.logger = logger
	}
}

// WithStopOnFirstFailure makes the runner halt at the first
// failing case, leaving the rest pending: one fix at a time.
func WithStopOnFirstFailure(stop bool) RunnerOption {
	return func(r *DefaultRunner) {
		r.stopOnFirst = stop
	}
}

// WithPreHook adds a hook invoked before each case.
func WithPreHook(h Hook) RunnerOption {
	return func(r *DefaultRunner) {
		r.preHooks = append(r.preHooks, h)
	}
}

// WithPostHook adds a hook invoked after each case, e.g. to
// stream report lines while the run is in progress.
func WithPostHook(h Hook) RunnerOption {
	return func(r *DefaultRunner) {
		r.postHooks = append(r.postHooks, h)
	}
}

// WithClock replaces time.Now for result timestamps.
func WithClock(now func() time.Time) RunnerOption {
	return func(r *DefaultRunner) {
		r.now = now
	}
}

// WithMetrics sets the recorder that counts case outcomes.
func WithMetrics(m metrics.Recorder) RunnerOption {
	return func(r *DefaultRunner) {
		if m == nil {
			m = metrics.NoopRecorder{}
		}
		r.metrics = m
	}
}
