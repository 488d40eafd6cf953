package assertion

import (
	"fmt"
	"sync"
)

// Engine defines the interface for assertion evaluation engines.
type Engine interface {
	// Evaluate checks a single assertion against the given
	// value.
	Evaluate(assertion Definition, value any) Result

	// HasEvaluator reports whether an evaluator is registered
	// for the given assertion type.
	HasEvaluator(assertionType string) bool

	// Register adds a custom evaluator for the given assertion
	// type. Returns an error if the type is already registered.
	Register(assertionType string, evaluator Evaluator) error
}

// DefaultEngine is the standard Engine implementation. It is
// safe for concurrent use.
type DefaultEngine struct {
	mu         sync.RWMutex
	evaluators map[string]Evaluator
}

// NewEngine creates a DefaultEngine with the built-in
// evaluators pre-registered.
func NewEngine() *DefaultEngine {
	e := &DefaultEngine{
		evaluators: make(map[string]Evaluator),
	}
	e.registerDefaults()
	return e
}

func (e *DefaultEngine) registerDefaults() {
	e.evaluators["equals"] = evaluateEquals
	e.evaluators["not_equals"] = evaluateNotEquals
	e.evaluators["not_nil"] = evaluateNotNil
	e.evaluators["contains"] = evaluateContains
	e.evaluators["not_contains"] = evaluateNotContains
	e.evaluators["length"] = evaluateLength
}

// Register adds a custom evaluator for the given assertion type.
// Returns an error if the type is already registered.
func (e *DefaultEngine) Register(
	assertionType string,
	evaluator Evaluator,
) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.evaluators[assertionType]; exists {
		return fmt.Errorf(
			"assertion type already registered: %s",
			assertionType,
		)
	}

	e.evaluators[assertionType] = evaluator
	return nil
}

// Evaluate runs a single assertion against the provided value.
// A panicking evaluator yields a failed result.
func (e *DefaultEngine) Evaluate(
	assertion Definition,
	value any,
) (res Result) {
	e.mu.RLock()
	evaluator, exists := e.evaluators[assertion.Type]
	e.mu.RUnlock()

	res = Result{
		Type:     assertion.Type,
		Target:   assertion.Target,
		Expected: assertion.Value,
		Actual:   value,
	}

	if !exists {
		res.Message = fmt.Sprintf(
			"unknown assertion type: %s", assertion.Type,
		)
		return res
	}

	defer func() {
		if p := recover(); p != nil {
			res.Passed = false
			res.Message = fmt.Sprintf(
				"%s evaluation panicked: %v",
				assertion.Type, p,
			)
		}
	}()

	res.Passed, res.Message = evaluator(assertion, value)
	if !res.Passed && assertion.Message != "" {
		res.Message = assertion.Message + ": " + res.Message
	}
	return res
}

// HasEvaluator returns true if the given assertion type has a
// registered evaluator.
func (e *DefaultEngine) HasEvaluator(
	assertionType string,
) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, exists := e.evaluators[assertionType]
	return exists
}
