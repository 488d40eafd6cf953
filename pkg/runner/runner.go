// Package runner provides the koan execution engine. Cases run
// sequentially in declaration order; every error is caught at
// the case boundary. The runner either collects every failure
// or, in the traditional koans style, stops at the first one.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"digital.vasic.koans/pkg/assertion"
	"digital.vasic.koans/pkg/koan"
	"digital.vasic.koans/pkg/logging"
	"digital.vasic.koans/pkg/metrics"
)

// Runner defines the interface for koan execution.
type Runner interface {
	// Run evaluates every case of a suite and returns one
	// result per case, in declaration order.
	Run(
		ctx context.Context,
		suite *koan.Suite,
	) ([]*koan.Result, error)

	// RunAll runs suites in the given order.
	RunAll(
		ctx context.Context,
		suites []*koan.Suite,
	) ([]*koan.SuiteResult, error)
}

// Hook is invoked around each case. Pre-hooks see the pending
// result; post-hooks see the final one.
type Hook func(
	ctx context.Context,
	c koan.Case,
	result *koan.Result,
) error

// DefaultRunner is the standard Runner implementation.
type DefaultRunner struct {
	engine      assertion.Engine
	logger      logging.Logger
	metrics     metrics.Recorder
	stopOnFirst bool
	preHooks    []Hook
	postHooks   []Hook
	now         func() time.Time
}

// NewRunner creates a DefaultRunner with the supplied options.
// By default every failure is collected.
func NewRunner(opts ...RunnerOption) *DefaultRunner {
	r := &DefaultRunner{
		engine:  assertion.NewEngine(),
		logger:  logging.NullLogger{},
		metrics: metrics.NoopRecorder{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run evaluates the cases of suite in declaration order. Cases
// that were not attempted, because the runner stopped at a
// failure or ctx was cancelled, stay pending. Cancellation is
// only observed between cases; it is returned as the error
// together with the partial results.
func (r *DefaultRunner) Run(
	ctx context.Context,
	suite *koan.Suite,
) ([]*koan.Result, error) {
	results, _, err := r.runSuite(ctx, suite)
	return results, err
}

// RunAll runs suites in order. When the runner stops at the
// first failure, the cases of later suites stay pending.
func (r *DefaultRunner) RunAll(
	ctx context.Context,
	suites []*koan.Suite,
) ([]*koan.SuiteResult, error) {
	for i, s := range suites {
		if s == nil {
			return nil, fmt.Errorf("suite %d must not be nil", i)
		}
	}

	out := make([]*koan.SuiteResult, 0, len(suites))
	halted := false
	r.metrics.IncrementRunTotal()

	for _, s := range suites {
		sr := &koan.SuiteResult{
			Topic:       s.Topic,
			Description: s.Description,
		}
		out = append(out, sr)

		if halted {
			sr.Results = pendingResults(s)
			continue
		}

		results, stopped, err := r.runSuite(ctx, s)
		sr.Results = results
		if err != nil {
			for _, rest := range suites[len(out):] {
				out = append(out, &koan.SuiteResult{
					Topic:       rest.Topic,
					Description: rest.Description,
					Results:     pendingResults(rest),
				})
			}
			return out, err
		}
		halted = stopped
	}

	r.logger.Debug("run_completed",
		logging.IntField("suites", len(out)),
		logging.BoolField("halted", halted),
	)
	return out, nil
}

// runSuite reports whether it stopped early at a failure.
func (r *DefaultRunner) runSuite(
	ctx context.Context,
	suite *koan.Suite,
) ([]*koan.Result, bool, error) {
	if suite == nil {
		return nil, false, fmt.Errorf("suite must not be nil")
	}

	results := pendingResults(suite)
	for i, c := range suite.Cases {
		if err := ctx.Err(); err != nil {
			r.logger.Warn("run_interrupted",
				logging.StringField("topic", suite.Topic),
				logging.IntField("remaining", len(suite.Cases)-i),
			)
			return results, false, err
		}

		results[i] = r.executeCase(ctx, suite.Topic, c)

		if r.stopOnFirst && results[i].Failed() {
			r.logger.Debug("run_halted",
				logging.StringField("topic", suite.Topic),
				logging.StringField("case", c.Name),
			)
			return results, true, nil
		}
	}
	return results, false, nil
}

func pendingResults(suite *koan.Suite) []*koan.Result {
	results := make([]*koan.Result, len(suite.Cases))
	for i, c := range suite.Cases {
		results[i] = koan.NewResult(suite.Topic, c)
	}
	return results
}

// executeCase runs a single case through its lifecycle:
// pre-hooks -> evaluate expression -> check answer -> post-hooks.
// A case naming an unregistered assertion fails as an error
// without its expression being evaluated.
func (r *DefaultRunner) executeCase(
	ctx context.Context,
	topic string,
	c koan.Case,
) *koan.Result {
	result := koan.NewResult(topic, c)

	for _, hook := range r.preHooks {
		if err := hook(ctx, c, result); err != nil {
			result.StartTime = r.now()
			r.fail(result, koan.KindError, "", fmt.Errorf(
				"pre-hook failed: %w", err,
			))
			r.finish(ctx, c, result)
			return result
		}
	}

	result.Status = koan.StatusRunning
	result.StartTime = r.now()
	r.logger.Debug("koan_started",
		logging.StringField("topic", topic),
		logging.StringField("case", c.Name),
	)

	if !r.engine.HasEvaluator(c.AssertionType()) {
		r.fail(result, koan.KindError, "", fmt.Errorf(
			"unknown assertion type: %s", c.AssertionType(),
		))
		r.finish(ctx, c, result)
		return result
	}

	actual, err := evaluate(ctx, c)
	switch {
	case errors.Is(err, koan.ErrSetup):
		r.fail(result, koan.KindSetup, "", err)
	case err != nil:
		r.fail(result, koan.KindError, "", err)
	case koan.IsBlank(c.Expected):
		result.Actual = actual
		r.fail(result, koan.KindBlank,
			"fill in the blank: the answer has not been given yet",
			nil,
		)
	default:
		result.Actual = actual
		res := r.engine.Evaluate(assertion.Definition{
			Type:   c.AssertionType(),
			Target: c.Name,
			Value:  c.Expected,
		}, actual)
		result.Message = res.Message
		if res.Passed {
			result.Status = koan.StatusPassed
		} else {
			r.fail(result, koan.KindMismatch, res.Message, nil)
		}
	}

	r.finish(ctx, c, result)
	return result
}

// evaluate runs the case expression, turning a panic into an
// error so one case cannot abort the run.
func evaluate(ctx context.Context, c koan.Case) (v any, err error) {
	if c.Actual == nil {
		return nil, fmt.Errorf("case %s has no expression", c.Name)
	}
	defer func() {
		if p := recover(); p != nil {
			if perr, ok := p.(error); ok {
				err = fmt.Errorf("panic: %w", perr)
				return
			}
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return c.Actual(ctx)
}

func (r *DefaultRunner) fail(
	result *koan.Result,
	kind, message string,
	err error,
) {
	result.Status = koan.StatusFailed
	result.Kind = kind
	if message != "" {
		result.Message = message
	}
	if err != nil {
		result.Error = err.Error()
		if result.Message == "" {
			result.Message = err.Error()
		}
	}
}

func (r *DefaultRunner) finish(
	ctx context.Context,
	c koan.Case,
	result *koan.Result,
) {
	result.EndTime = r.now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	r.metrics.RecordCase(result.Topic, result.Status, result.Duration)

	if result.Passed() {
		r.logger.Debug("koan_passed",
			logging.StringField("topic", result.Topic),
			logging.StringField("case", result.Case),
			logging.DurationField("duration", result.Duration),
		)
	} else {
		r.logger.Debug("koan_failed",
			logging.StringField("topic", result.Topic),
			logging.StringField("case", result.Case),
			logging.StringField("kind", result.Kind),
			logging.StringField("location", result.Location),
		)
	}

	for _, hook := range r.postHooks {
		if err := hook(ctx, c, result); err != nil {
			r.logger.Warn("post_hook_warning",
				logging.StringField("case", c.Name),
				logging.ErrorField(err),
			)
		}
	}
}
