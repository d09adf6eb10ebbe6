package engine

import (
	"fmt"
	"sort"

	"github.com/XiaoConstantine/shinka-go/pkg/core"
)

// rankByFitness returns the handles sorted by fitness descending. The sort
// is stable: equal scores keep their arrival order.
func rankByFitness(arena *core.Arena, hs []core.Handle) []core.Handle {
	ranked := append([]core.Handle(nil), hs...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return arena.Get(ranked[i]).Fitness > arena.Get(ranked[j]).Fitness
	})
	return ranked
}

// fillMarker is the line prepended to fill-clone payloads. It depends only
// on the generation and the clone's ordinal, so padded payloads are
// reproducible across runs.
func fillMarker(generation, ordinal int) string {
	return fmt.Sprintf("// fill g%d n%d\n", generation, ordinal)
}

// selectSurvivors applies the elitist policy to the current working set and
// installs the next one: rank, archive the elites, truncate to the
// population bound or pad with fill clones of the best elite. Fill handles
// created along the way are appended to counters.
//
// Callers must hold the engine's write lock.
func (e *Engine) selectSurvivors(counters *generationCounters) {
	ranked := rankByFitness(e.arena, e.population.Handles())
	if len(ranked) == 0 {
		e.population.Replace(nil)
		return
	}

	elites := ranked[:e.config.EliteCount(len(ranked))]
	e.archive.Append(elites...)

	next := append([]core.Handle(nil), elites...)
	if len(next) > e.config.PopulationSize {
		next = next[:e.config.PopulationSize]
	}

	best := elites[0]
	bestPayload := e.arena.Get(best).Payload
	for ordinal := 0; len(next) < e.config.PopulationSize; ordinal++ {
		clone := core.NewChild(best,
			fillMarker(e.generation, ordinal)+bestPayload,
			e.generation+1,
			core.OriginFill)

		h, err := e.arena.Add(clone)
		if err != nil {
			break
		}
		next = append(next, h)
		counters.fills++
		counters.created = append(counters.created, h)
	}

	e.population.Replace(next)
}
