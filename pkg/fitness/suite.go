// Package fitness provides evaluator implementations for the engine.
package fitness

import (
	"context"
	"strings"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/XiaoConstantine/shinka-go/pkg/core"
	"github.com/XiaoConstantine/shinka-go/pkg/errors"
	"github.com/XiaoConstantine/shinka-go/pkg/logging"
)

// Case pairs an input with its expected answer.
type Case struct {
	Input    string `json:"input" yaml:"input"`
	Expected string `json:"expected" yaml:"expected"`
}

// Scorer grades an answer against the expected one, in [0, 1].
type Scorer func(got, want string) float64

// Runner executes a candidate payload against one input and returns its
// answer.
type Runner func(ctx context.Context, payload, input string) (string, error)

// ExactMatch scores 1 when the answer equals the expected string after
// trimming, 0 otherwise.
func ExactMatch(got, want string) float64 {
	if strings.TrimSpace(got) == strings.TrimSpace(want) {
		return 1
	}
	return 0
}

// Suite evaluates a payload by running it against a fixed case set and
// averaging the per-case scores. Cases run concurrently inside a single
// Evaluate call; a case whose runner fails scores zero, and the evaluation
// itself fails only when every case does.
type Suite struct {
	cases   []Case
	runner  Runner
	scorer  Scorer
	workers int
	logger  *logging.Logger
}

var _ core.Evaluator = (*Suite)(nil)

// SuiteOption configures a Suite.
type SuiteOption func(*Suite)

// WithWorkers bounds per-case parallelism. Values below one are ignored.
func WithWorkers(n int) SuiteOption {
	return func(s *Suite) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithScorer replaces the default exact-match scorer.
func WithScorer(scorer Scorer) SuiteOption {
	return func(s *Suite) {
		if scorer != nil {
			s.scorer = scorer
		}
	}
}

// WithSuiteLogger overrides the global logger.
func WithSuiteLogger(logger *logging.Logger) SuiteOption {
	return func(s *Suite) {
		s.logger = logger
	}
}

// NewSuite creates a Suite over the given cases. Worker count defaults to
// the detected compute context.
func NewSuite(cases []Case, runner Runner, opts ...SuiteOption) (*Suite, error) {
	if runner == nil {
		return nil, errors.New(errors.InvalidInput, "runner is required")
	}
	if len(cases) == 0 {
		return nil, errors.New(errors.InvalidInput, "at least one case is required")
	}

	s := &Suite{
		cases:   cases,
		runner:  runner,
		scorer:  ExactMatch,
		workers: core.DetectCompute().Workers,
		logger:  logging.GetLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Evaluate implements core.Evaluator.
func (s *Suite) Evaluate(ctx context.Context, ind *core.Individual) (float64, error) {
	if err := errors.CheckContext(ctx, "fitness.Evaluate"); err != nil {
		return 0, err
	}

	p := pool.New().WithMaxGoroutines(s.workers)

	var mu sync.Mutex
	total := 0.0
	failures := 0

	for _, c := range s.cases {
		c := c // Capture loop variable
		p.Go(func() {
			got, err := s.runner(ctx, ind.Payload, c.Input)
			if err != nil {
				s.logger.Debug(ctx, "Case %q failed to run: %v", c.Input, err)
				mu.Lock()
				failures++
				mu.Unlock()
				return
			}

			score := s.scorer(got, c.Expected)
			mu.Lock()
			total += score
			mu.Unlock()
		})
	}
	p.Wait()

	if err := errors.CheckContext(ctx, "fitness.Evaluate"); err != nil {
		return 0, err
	}
	if failures == len(s.cases) {
		return 0, errors.WithFields(
			errors.New(errors.EvaluationFailed, "every case failed to run"),
			errors.Fields{"cases": len(s.cases), "individual_id": ind.ID})
	}

	return total / float64(len(s.cases)), nil
}

// Len reports how many cases the suite holds.
func (s *Suite) Len() int {
	return len(s.cases)
}
