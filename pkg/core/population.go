package core

// Population is the ordered working set of one evolution run. Order is
// meaningful: after selection it is rank order, best first. The mutation
// phase may grow the set past the configured size; selection restores the
// bound at the end of every generation.
//
// A Population is not safe for concurrent use; the engine serializes access.
type Population struct {
	handles []Handle
}

func NewPopulation() *Population {
	return &Population{}
}

// Append adds handles at the tail, preserving arrival order.
func (p *Population) Append(hs ...Handle) {
	p.handles = append(p.handles, hs...)
}

// Replace swaps the whole working set.
func (p *Population) Replace(hs []Handle) {
	p.handles = append(p.handles[:0:0], hs...)
}

// Handles returns a copy of the working set in order.
func (p *Population) Handles() []Handle {
	return append([]Handle(nil), p.handles...)
}

func (p *Population) Len() int {
	return len(p.handles)
}

// Best returns the highest-fitness member, ties going to the earlier
// position. The boolean is false for an empty population.
func (p *Population) Best(arena *Arena) (Handle, bool) {
	if len(p.handles) == 0 {
		return NoParent, false
	}

	best := p.handles[0]
	bestFitness := arena.Get(best).Fitness
	for _, h := range p.handles[1:] {
		if ind := arena.Get(h); ind != nil && ind.Fitness > bestFitness {
			best = h
			bestFitness = ind.Fitness
		}
	}
	return best, true
}
