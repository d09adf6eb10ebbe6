package core

import (
	"sync"

	"github.com/XiaoConstantine/shinka-go/pkg/errors"
)

// Handle is an opaque reference to an individual in an Arena. Handles are
// assigned in creation order, and a parent handle is always strictly smaller
// than its child's, so lineage cycles are unrepresentable.
type Handle int

// NoParent marks an individual without an ancestor.
const NoParent Handle = -1

// Arena owns every individual created over an engine's lifetime. It is
// append-only: re-initializing an engine starts new generations but never
// invalidates handles already handed out, so archive entries and run records
// stay resolvable.
type Arena struct {
	mu           sync.RWMutex
	individuals  []*Individual
	byGeneration map[int][]Handle
}

func NewArena() *Arena {
	return &Arena{
		byGeneration: make(map[int][]Handle),
	}
}

// Add appends ind and returns its handle. The parent, when set, must already
// live in the arena.
func (a *Arena) Add(ind *Individual) (Handle, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	next := Handle(len(a.individuals))
	if ind.Parent != NoParent && (ind.Parent < 0 || ind.Parent >= next) {
		return NoParent, errors.WithFields(
			errors.New(errors.InvalidInput, "parent handle outside arena"),
			errors.Fields{"parent": int(ind.Parent), "arena_size": int(next)})
	}

	a.individuals = append(a.individuals, ind)
	a.byGeneration[ind.Generation] = append(a.byGeneration[ind.Generation], next)
	return next, nil
}

// Get returns the individual behind h, nil when h is out of range.
func (a *Arena) Get(h Handle) *Individual {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if h < 0 || int(h) >= len(a.individuals) {
		return nil
	}
	return a.individuals[h]
}

// Len reports how many individuals the arena holds.
func (a *Arena) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.individuals)
}

// Generation returns the handles created for generation n, in creation order.
func (a *Arena) Generation(n int) []Handle {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]Handle(nil), a.byGeneration[n]...)
}

// Lineage walks from h toward its root and returns the chain, h first.
func (a *Arena) Lineage(h Handle) []*Individual {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var chain []*Individual
	for h != NoParent {
		if h < 0 || int(h) >= len(a.individuals) {
			break
		}
		ind := a.individuals[h]
		chain = append(chain, ind)
		h = ind.Parent
	}
	return chain
}
