package assertion

// Evaluator decides one assertion type for an actual value. It
// returns whether the value satisfies the definition and a
// message the learner will see.
type Evaluator func(assertion Definition, value any) (bool, string)
