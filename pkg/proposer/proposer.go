// Package proposer turns a text generator into a mutation operator: it asks
// the generator for an improved version of an elite's payload and extracts
// the candidate from the reply.
package proposer

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/XiaoConstantine/shinka-go/pkg/core"
	"github.com/XiaoConstantine/shinka-go/pkg/errors"
	"github.com/XiaoConstantine/shinka-go/pkg/logging"
)

const promptTemplate = `You are an expert programmer helping with evolutionary code optimization.

Current candidate (fitness %.4f):
` + "```" + `
%s
` + "```" + `

Generate an improved version considering:
1. Correctness - fix any bugs
2. Performance - optimize for speed and memory
3. Readability - improve structure

Return ONLY the improved candidate inside a fenced code block, no explanations.`

// fencedBlock matches the first markdown code fence, with or without a
// language tag.
var fencedBlock = regexp.MustCompile("(?s)```(?:\\w+)?\\n(.*?)```")

// Proposer implements core.Mutator on top of a Generator. A failed or empty
// generation is retried with exponential backoff before giving up.
type Proposer struct {
	generator  Generator
	maxRetries int
	backoff    time.Duration
	genOpts    []GenerateOption
	logger     *logging.Logger
}

var _ core.Mutator = (*Proposer)(nil)

// Option configures a Proposer.
type Option func(*Proposer)

// WithMaxRetries sets how many generation attempts Mutate makes before
// failing. Values below one are ignored.
func WithMaxRetries(n int) Option {
	return func(p *Proposer) {
		if n > 0 {
			p.maxRetries = n
		}
	}
}

// WithRetryBackoff sets the first retry delay; each further retry doubles it.
func WithRetryBackoff(d time.Duration) Option {
	return func(p *Proposer) {
		if d > 0 {
			p.backoff = d
		}
	}
}

// WithGenerateOptions forwards generation options to every Generate call.
func WithGenerateOptions(opts ...GenerateOption) Option {
	return func(p *Proposer) {
		p.genOpts = opts
	}
}

// WithLogger overrides the global logger.
func WithLogger(logger *logging.Logger) Option {
	return func(p *Proposer) {
		p.logger = logger
	}
}

// New creates a Proposer around the given generator.
func New(generator Generator, opts ...Option) (*Proposer, error) {
	if generator == nil {
		return nil, errors.New(errors.InvalidInput, "generator is required")
	}

	p := &Proposer{
		generator:  generator,
		maxRetries: 2,
		backoff:    time.Second,
		logger:     logging.GetLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Mutate asks the generator for an improved payload for ind. It retries
// transient failures and empty replies, waiting between attempts, and honors
// ctx cancellation while waiting.
func (p *Proposer) Mutate(ctx context.Context, ind *core.Individual) (string, error) {
	prompt := buildPrompt(ind)

	var lastErr error
	for attempt := 0; attempt < p.maxRetries; attempt++ {
		if attempt > 0 {
			wait := p.backoff << (attempt - 1)
			select {
			case <-ctx.Done():
				return "", errors.CheckContext(ctx, "proposer.Mutate")
			case <-time.After(wait):
			}
		}

		raw, err := p.generator.Generate(ctx, prompt, p.genOpts...)
		if err != nil {
			lastErr = err
			p.logger.Warn(ctx, "Proposal attempt %d/%d failed: %v", attempt+1, p.maxRetries, err)
			continue
		}

		proposed := extractPayload(raw)
		if proposed == "" {
			lastErr = errors.New(errors.MutationFailed, "generator returned an empty proposal")
			p.logger.Warn(ctx, "Proposal attempt %d/%d returned no usable payload", attempt+1, p.maxRetries)
			continue
		}

		p.logger.Proposal(ctx, ind.ID, proposed)
		return proposed, nil
	}

	return "", errors.WithFields(
		errors.Wrap(lastErr, errors.MutationFailed, "proposal exhausted retries"),
		errors.Fields{"parent_id": ind.ID, "attempts": p.maxRetries})
}

func buildPrompt(ind *core.Individual) string {
	return fmt.Sprintf(promptTemplate, ind.Fitness, ind.Payload)
}

// extractPayload pulls the candidate out of a generator reply: the first
// fenced code block when present, otherwise the trimmed raw text.
func extractPayload(text string) string {
	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(text)
}
