package core

// DefaultArchiveBound is how many elite entries the archive retains.
const DefaultArchiveBound = 100

// Archive is the bounded hall of fame of elites. Entries keep arrival order
// and are never sorted; exceeding the bound drops the oldest entries. The
// most recently appended entry, not the best one, drives the engine's
// no-improvement termination rule.
type Archive struct {
	bound   int
	handles []Handle
}

// NewArchive builds an archive holding at most bound entries. A bound of
// zero or less falls back to DefaultArchiveBound.
func NewArchive(bound int) *Archive {
	if bound <= 0 {
		bound = DefaultArchiveBound
	}
	return &Archive{bound: bound}
}

// Append adds entries at the tail, then drops from the head until the bound
// holds again.
func (a *Archive) Append(hs ...Handle) {
	a.handles = append(a.handles, hs...)
	if excess := len(a.handles) - a.bound; excess > 0 {
		a.handles = append(a.handles[:0:0], a.handles[excess:]...)
	}
}

func (a *Archive) Len() int {
	return len(a.handles)
}

// Handles returns a copy of the archive, oldest first.
func (a *Archive) Handles() []Handle {
	return append([]Handle(nil), a.handles...)
}

// Last returns the most recently appended entry.
func (a *Archive) Last() (Handle, bool) {
	if len(a.handles) == 0 {
		return NoParent, false
	}
	return a.handles[len(a.handles)-1], true
}

// Best returns the highest-fitness entry, ties going to the older one.
func (a *Archive) Best(arena *Arena) (Handle, bool) {
	if len(a.handles) == 0 {
		return NoParent, false
	}

	best := a.handles[0]
	bestFitness := arena.Get(best).Fitness
	for _, h := range a.handles[1:] {
		if ind := arena.Get(h); ind != nil && ind.Fitness > bestFitness {
			best = h
			bestFitness = ind.Fitness
		}
	}
	return best, true
}

// Reset drops all entries, keeping the bound.
func (a *Archive) Reset() {
	a.handles = a.handles[:0]
}
