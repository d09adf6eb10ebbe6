package fitness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XiaoConstantine/shinka-go/pkg/errors"
)

func TestNewKeywordRequiresKeywords(t *testing.T) {
	_, err := NewKeyword()
	require.Error(t, err)
	assert.Equal(t, errors.InvalidInput, errors.Code(err))
}

func TestKeywordScoresFraction(t *testing.T) {
	kw, err := NewKeyword("alpha", "beta", "gamma")
	require.NoError(t, err)

	tests := []struct {
		name    string
		payload string
		want    float64
	}{
		{"no keywords", "nothing relevant here", 0},
		{"one of three", "alpha only", 1.0 / 3.0},
		{"two of three", "alpha and beta", 2.0 / 3.0},
		{"all three", "alpha beta gamma", 1},
		{"empty payload", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := kw.Evaluate(context.Background(), testIndividual(tt.payload))
			require.NoError(t, err)
			assert.InDelta(t, tt.want, score, 1e-9)
		})
	}
}

func TestKeywordMatchingIsCaseless(t *testing.T) {
	kw, err := NewKeyword("Alpha", "café")
	require.NoError(t, err)

	score, err := kw.Evaluate(context.Background(), testIndividual("ALPHA at the CAFÉ"))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestKeywordReturnsOriginalKeywords(t *testing.T) {
	kw, err := NewKeyword("Alpha", "Beta")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Beta"}, kw.Keywords())
}

func TestKeywordCanceledContext(t *testing.T) {
	kw, err := NewKeyword("alpha")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = kw.Evaluate(ctx, testIndividual("alpha"))
	require.Error(t, err)
	assert.Equal(t, errors.Canceled, errors.Code(err))
}
