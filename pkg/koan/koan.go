// Package koan defines the data model of the koans: cases that
// assert an expected value for an expression, suites that group
// cases by topic, and the results a run produces.
package koan

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
)

// ErrSetup marks a failure of the koan's own fixtures, such as a
// committed input file that cannot be opened. It should never
// happen in a healthy checkout.
var ErrSetup = errors.New("should never happen")

// Expr produces the actual value of a case.
type Expr func(ctx context.Context) (any, error)

// AssertEquals is the assertion used when a case names none.
const AssertEquals = "equals"

// Case is a single koan: an expression and the value the learner
// claims it evaluates to.
type Case struct {
	// Name identifies the case within its suite.
	Name string

	// Expected is the learner's answer. Blank means the answer
	// has not been filled in yet.
	Expected any

	// Assertion names the evaluator comparing Expected with
	// the actual value. Empty means AssertEquals.
	Assertion string

	// Actual evaluates the expression under test.
	Actual Expr

	// Location is the file:line where the case was declared.
	Location string
}

// New declares a case comparing expected against actual with
// AssertEquals, recording the caller's location so a failure
// can point the learner at it.
func New(name string, expected any, actual Expr) Case {
	return Case{
		Name:     name,
		Expected: expected,
		Actual:   actual,
		Location: callerLocation(2),
	}
}

// Assert declares a case that uses the named assertion.
func Assert(
	name, assertion string,
	expected any,
	actual Expr,
) Case {
	return Case{
		Name:      name,
		Expected:  expected,
		Assertion: assertion,
		Actual:    actual,
		Location:  callerLocation(2),
	}
}

// Value wraps a constant into an Expr.
func Value(v any) Expr {
	return func(context.Context) (any, error) { return v, nil }
}

// AssertionType returns the assertion to evaluate, defaulting
// to AssertEquals.
func (c Case) AssertionType() string {
	if c.Assertion == "" {
		return AssertEquals
	}
	return c.Assertion
}

type blank struct{}

func (blank) String() string { return "__" }

// Blank is the placeholder for an answer the learner has not
// filled in.
var Blank any = blank{}

// IsBlank reports whether v is the Blank placeholder.
func IsBlank(v any) bool {
	_, ok := v.(blank)
	return ok
}

func callerLocation(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}
