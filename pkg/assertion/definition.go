// Package assertion provides the evaluators that decide whether
// a koan's actual value matches the learner's answer. Equality
// is deep value equality: a value's own Equal method is honored,
// so sets compare as sets and slices compare element-wise.
package assertion

// Definition describes a single assertion to evaluate against
// a case's actual value.
type Definition struct {
	// Type is the evaluator type (e.g., "equals",
	// "not_equals", "contains").
	Type string `json:"type"`

	// Target is the name of the case being checked.
	Target string `json:"target"`

	// Value is the expected value.
	Value any `json:"value,omitempty"`

	// Message is a human-readable description shown on
	// failure.
	Message string `json:"message"`
}

// Result captures the outcome of evaluating a single assertion.
type Result struct {
	// Type is the assertion type that was evaluated.
	Type string `json:"type"`

	// Target is the name of the case checked.
	Target string `json:"target"`

	// Expected is the value the assertion expected.
	Expected any `json:"expected"`

	// Actual is the value that was observed.
	Actual any `json:"actual"`

	// Passed indicates whether the assertion succeeded.
	Passed bool `json:"passed"`

	// Message is a human-readable description of the outcome.
	Message string `json:"message"`
}
