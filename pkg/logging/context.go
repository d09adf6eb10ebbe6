package logging

import "context"

type runIDKeyType struct{}
type generationKeyType struct{}

var (
	runIDKey      = runIDKeyType{}
	generationKey = generationKeyType{}
)

// WithRunID tags the context with an evolution run identifier. Entries logged
// under the returned context carry the run id.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// GetRunID retrieves the run identifier from the context.
func GetRunID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(runIDKey).(string)
	return id, ok
}

// WithGeneration tags the context with the current generation counter.
func WithGeneration(ctx context.Context, generation int) context.Context {
	return context.WithValue(ctx, generationKey, generation)
}

// GetGeneration retrieves the generation counter from the context.
func GetGeneration(ctx context.Context) (int, bool) {
	g, ok := ctx.Value(generationKey).(int)
	return g, ok
}
