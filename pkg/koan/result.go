package koan

import "time"

// Status constants for case evaluation.
const (
	StatusPending = "pending"
	StatusRunning = "running"
	StatusPassed  = "passed"
	StatusFailed  = "failed"
)

// Failure kinds recorded on failed results.
const (
	// KindMismatch means the expected value differs from the
	// actual value.
	KindMismatch = "mismatch"

	// KindBlank means the learner has not filled in the
	// expected value yet.
	KindBlank = "blank"

	// KindError means the expression returned an error or
	// panicked.
	KindError = "error"

	// KindSetup means a fixture could not be accessed. See
	// ErrSetup.
	KindSetup = "setup"
)

// Result captures the outcome of evaluating one case.
type Result struct {
	// Topic is the suite the case belongs to.
	Topic string `json:"topic" yaml:"topic"`

	// Case is the case name.
	Case string `json:"case" yaml:"case"`

	// Status is one of the Status* constants.
	Status string `json:"status" yaml:"status"`

	// Kind is one of the Kind* constants when Status is
	// StatusFailed.
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`

	// Expected is the learner's answer.
	Expected any `json:"expected,omitempty" yaml:"expected,omitempty"`

	// Actual is the value the expression produced.
	Actual any `json:"actual,omitempty" yaml:"actual,omitempty"`

	// Message explains the outcome.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`

	// Error holds the captured error description.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// Location is where the case was declared.
	Location string `json:"location,omitempty" yaml:"location,omitempty"`

	StartTime time.Time     `json:"start_time" yaml:"start_time"`
	EndTime   time.Time     `json:"end_time" yaml:"end_time"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}

// NewResult creates a pending result for c.
func NewResult(topic string, c Case) *Result {
	r := &Result{
		Topic:    topic,
		Case:     c.Name,
		Status:   StatusPending,
		Location: c.Location,
	}
	if !IsBlank(c.Expected) {
		r.Expected = c.Expected
	}
	return r
}

// Passed reports whether the case passed.
func (r *Result) Passed() bool { return r.Status == StatusPassed }

// Failed reports whether the case failed.
func (r *Result) Failed() bool { return r.Status == StatusFailed }

// IsFinal returns true if the status is a terminal state.
func (r *Result) IsFinal() bool {
	return r.Status == StatusPassed || r.Status == StatusFailed
}

// SuiteResult groups the results of one suite in declaration
// order.
type SuiteResult struct {
	Topic       string    `json:"topic" yaml:"topic"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Results     []*Result `json:"results" yaml:"results"`
}

// Count returns how many results have the given status.
func (s *SuiteResult) Count(status string) int {
	n := 0
	for _, r := range s.Results {
		if r.Status == status {
			n++
		}
	}
	return n
}

// AllPassed returns true if every case passed.
func (s *SuiteResult) AllPassed() bool {
	return s.Count(StatusPassed) == len(s.Results)
}

// FirstFailure returns the first failed result across suites, or
// nil when nothing failed.
func FirstFailure(suites []*SuiteResult) *Result {
	for _, s := range suites {
		for _, r := range s.Results {
			if r.Failed() {
				return r
			}
		}
	}
	return nil
}
