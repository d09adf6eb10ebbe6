package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/XiaoConstantine/shinka-go/internal/testutil"
	"github.com/XiaoConstantine/shinka-go/pkg/proposer"
)

func TestWrapGeneratorNilCache(t *testing.T) {
	gen := &testutil.MockGenerator{}
	assert.Same(t, proposer.Generator(gen), WrapGenerator(gen, nil, 0))
}

func TestCachedGeneratorCachesRepeatPrompts(t *testing.T) {
	ctx := context.Background()
	upstream := &testutil.MockGenerator{}
	upstream.On("Generate", mock.Anything, "prompt", mock.Anything).Return("response", nil).Once()

	c := NewMemoryCache(0, 0)
	defer c.Close()
	gen := WrapGenerator(upstream, c, time.Minute)

	first, err := gen.Generate(ctx, "prompt")
	require.NoError(t, err)
	second, err := gen.Generate(ctx, "prompt")
	require.NoError(t, err)

	assert.Equal(t, "response", first)
	assert.Equal(t, "response", second)
	upstream.AssertExpectations(t)
	assert.Equal(t, int64(1), c.Stats().Hits)
}

func TestCachedGeneratorKeysOnOptions(t *testing.T) {
	ctx := context.Background()
	upstream := &testutil.MockGenerator{}
	upstream.On("Generate", mock.Anything, "prompt", mock.Anything).Return("response", nil).Twice()

	c := NewMemoryCache(0, 0)
	defer c.Close()
	gen := WrapGenerator(upstream, c, time.Minute)

	_, err := gen.Generate(ctx, "prompt", proposer.WithTemperature(0))
	require.NoError(t, err)
	_, err = gen.Generate(ctx, "prompt", proposer.WithTemperature(1))
	require.NoError(t, err)

	upstream.AssertExpectations(t)
	assert.Equal(t, int64(0), c.Stats().Hits)
}

func TestCachedGeneratorDoesNotCacheFailures(t *testing.T) {
	ctx := context.Background()
	upstream := &testutil.MockGenerator{}
	upstream.On("Generate", mock.Anything, "prompt", mock.Anything).
		Return("", errors.New("upstream unavailable")).Once()
	upstream.On("Generate", mock.Anything, "prompt", mock.Anything).
		Return("recovered", nil).Once()

	c := NewMemoryCache(0, 0)
	defer c.Close()
	gen := WrapGenerator(upstream, c, time.Minute)

	_, err := gen.Generate(ctx, "prompt")
	require.Error(t, err)

	got, err := gen.Generate(ctx, "prompt")
	require.NoError(t, err)
	assert.Equal(t, "recovered", got)
	upstream.AssertExpectations(t)
}

func TestGenerateKeyIsDeterministic(t *testing.T) {
	k1 := generateKey("p", proposer.WithMaxTokens(64))
	k2 := generateKey("p", proposer.WithMaxTokens(64))
	k3 := generateKey("p", proposer.WithMaxTokens(65))

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.True(t, strings.HasPrefix(k1, "shinka_"))
}
