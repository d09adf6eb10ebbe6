package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIndividual(t *testing.T) {
	ind := NewIndividual("payload text", 0, OriginSeed)

	assert.NotEmpty(t, ind.ID)
	assert.Equal(t, "payload text", ind.Payload)
	assert.Equal(t, UnevaluatedFitness, ind.Fitness)
	assert.Equal(t, 0, ind.Generation)
	assert.Equal(t, NoParent, ind.Parent)
	assert.Equal(t, OriginSeed, ind.Origin)
	assert.False(t, ind.CreatedAt.IsZero())
	assert.False(t, ind.Evaluated())
}

func TestIndividualIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ind := NewIndividual("p", 0, OriginSeed)
		assert.False(t, seen[ind.ID], "duplicate id %s", ind.ID)
		seen[ind.ID] = true
	}
}

func TestNewChild(t *testing.T) {
	child := NewChild(Handle(3), "mutated", 2, OriginProposer)

	assert.Equal(t, Handle(3), child.Parent)
	assert.Equal(t, 2, child.Generation)
	assert.Equal(t, OriginProposer, child.Origin)
	assert.Equal(t, UnevaluatedFitness, child.Fitness)
}

func TestEvaluated(t *testing.T) {
	ind := NewIndividual("p", 0, OriginSeed)
	assert.False(t, ind.Evaluated())

	ind.Fitness = 0.5
	assert.True(t, ind.Evaluated())

	// A genuine zero score is indistinguishable from the sentinel.
	ind.Fitness = 0.0
	assert.False(t, ind.Evaluated())
}

func TestOriginString(t *testing.T) {
	tests := []struct {
		origin Origin
		want   string
	}{
		{OriginSeed, "seed"},
		{OriginProposer, "proposer"},
		{OriginFill, "fill"},
		{Origin(9), "Origin(9)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.origin.String())
		})
	}
}

func TestParseOrigin(t *testing.T) {
	for _, origin := range []Origin{OriginSeed, OriginProposer, OriginFill} {
		parsed, err := ParseOrigin(origin.String())
		require.NoError(t, err)
		assert.Equal(t, origin, parsed)
	}

	_, err := ParseOrigin("random")
	assert.Error(t, err)
}

func TestOriginJSON(t *testing.T) {
	ind := NewChild(Handle(0), "p", 1, OriginFill)

	data, err := json.Marshal(ind)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"origin":"fill"`)

	var decoded Individual
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, OriginFill, decoded.Origin)
	assert.Equal(t, ind.ID, decoded.ID)

	var bad Individual
	err = json.Unmarshal([]byte(`{"origin":"llm_suggestion"}`), &bad)
	assert.Error(t, err)
}
