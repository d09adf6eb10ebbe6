package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addWithFitness(t *testing.T, arena *Arena, fitness float64) Handle {
	t.Helper()
	ind := NewIndividual("p", 0, OriginSeed)
	ind.Fitness = fitness
	h, err := arena.Add(ind)
	require.NoError(t, err)
	return h
}

func TestPopulationOrderPreserved(t *testing.T) {
	pop := NewPopulation()
	pop.Append(Handle(2), Handle(0))
	pop.Append(Handle(1))

	assert.Equal(t, []Handle{2, 0, 1}, pop.Handles())
	assert.Equal(t, 3, pop.Len())
}

func TestPopulationReplace(t *testing.T) {
	pop := NewPopulation()
	pop.Append(Handle(0), Handle(1))

	pop.Replace([]Handle{5, 6})
	assert.Equal(t, []Handle{5, 6}, pop.Handles())

	pop.Replace(nil)
	assert.Zero(t, pop.Len())
}

func TestPopulationHandlesReturnsCopy(t *testing.T) {
	pop := NewPopulation()
	pop.Append(Handle(1), Handle(2))

	hs := pop.Handles()
	hs[0] = Handle(99)

	assert.Equal(t, []Handle{1, 2}, pop.Handles())
}

func TestPopulationBest(t *testing.T) {
	arena := NewArena()
	low := addWithFitness(t, arena, 0.2)
	high := addWithFitness(t, arena, 0.9)
	mid := addWithFitness(t, arena, 0.5)

	pop := NewPopulation()
	pop.Append(low, high, mid)

	best, ok := pop.Best(arena)
	require.True(t, ok)
	assert.Equal(t, high, best)
}

func TestPopulationBestTieGoesToEarlier(t *testing.T) {
	arena := NewArena()
	first := addWithFitness(t, arena, 0.7)
	second := addWithFitness(t, arena, 0.7)

	pop := NewPopulation()
	pop.Append(first, second)

	best, ok := pop.Best(arena)
	require.True(t, ok)
	assert.Equal(t, first, best)
}

func TestPopulationBestEmpty(t *testing.T) {
	pop := NewPopulation()
	_, ok := pop.Best(NewArena())
	assert.False(t, ok)
}
