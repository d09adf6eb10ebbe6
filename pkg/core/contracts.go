package core

import "context"

// Evaluator scores an individual's payload. A returned error marks the
// attempt failed; the engine absorbs it, records a zero score and moves on.
// Implementations may parallelize internally, the engine itself submits
// individuals one at a time.
type Evaluator interface {
	Evaluate(ctx context.Context, ind *Individual) (float64, error)
}

// EvaluatorFunc adapts a plain function to the Evaluator interface.
type EvaluatorFunc func(ctx context.Context, ind *Individual) (float64, error)

func (f EvaluatorFunc) Evaluate(ctx context.Context, ind *Individual) (float64, error) {
	return f(ctx, ind)
}

// Mutator proposes a replacement payload for an elite. A returned error
// marks the attempt failed; the engine absorbs it and keeps going without a
// child.
type Mutator interface {
	Mutate(ctx context.Context, ind *Individual) (string, error)
}

// MutatorFunc adapts a plain function to the Mutator interface.
type MutatorFunc func(ctx context.Context, ind *Individual) (string, error)

func (f MutatorFunc) Mutate(ctx context.Context, ind *Individual) (string, error) {
	return f(ctx, ind)
}
