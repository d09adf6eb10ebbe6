package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/XiaoConstantine/shinka-go/pkg/logging"
	"github.com/XiaoConstantine/shinka-go/pkg/proposer"
)

// CachedGenerator wraps a Generator with transparent response caching, so
// identical prompts cost one upstream call. The same elite gets mutated every
// generation, which makes repeat prompts common within a run.
type CachedGenerator struct {
	proposer.Generator
	cache  Cache
	ttl    time.Duration
	logger *logging.Logger
}

var _ proposer.Generator = (*CachedGenerator)(nil)

// WrapGenerator decorates gen with caching. A nil cache returns gen unchanged.
func WrapGenerator(gen proposer.Generator, c Cache, ttl time.Duration) proposer.Generator {
	if c == nil {
		return gen
	}
	return &CachedGenerator{
		Generator: gen,
		cache:     c,
		ttl:       ttl,
		logger:    logging.GetLogger(),
	}
}

// Generate implements proposer.Generator.
func (g *CachedGenerator) Generate(ctx context.Context, prompt string, options ...proposer.GenerateOption) (string, error) {
	key := generateKey(prompt, options...)

	if cached, ok, err := g.cache.Get(ctx, key); ok && err == nil {
		g.logger.Debug(ctx, "Generator cache hit for key %s", key[:19])
		return string(cached), nil
	}

	response, err := g.Generator.Generate(ctx, prompt, options...)
	if err != nil {
		return "", err
	}

	// A failed write only costs a future cache miss.
	_ = g.cache.Set(ctx, key, []byte(response), g.ttl)
	return response, nil
}

// generateKey digests the prompt together with the resolved generation
// options, so the same prompt at a different temperature is a different key.
func generateKey(prompt string, options ...proposer.GenerateOption) string {
	opts := proposer.NewGenerateOptions()
	for _, opt := range options {
		opt(opts)
	}

	sum := sha256.Sum256(fmt.Appendf(nil, "%d|%.4f|%s", opts.MaxTokens, opts.Temperature, prompt))
	return "shinka_" + hex.EncodeToString(sum[:])
}
