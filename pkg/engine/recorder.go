package engine

import (
	"context"
	"time"

	"github.com/XiaoConstantine/shinka-go/pkg/core"
)

// Recorder receives run progress for persistence. Recorder errors are logged
// and absorbed: recording must never break a run.
type Recorder interface {
	BeginRun(ctx context.Context, info RunInfo) error
	RecordGeneration(ctx context.Context, rec GenerationRecord) error
	EndRun(ctx context.Context, result RunResult) error
}

// IndividualRecord pairs an individual with its resolved parent id, so
// recorders never need arena access.
type IndividualRecord struct {
	Individual *core.Individual
	ParentID   string // empty for parentless individuals
}

// RunInfo describes a run at its start.
type RunInfo struct {
	RunID         string
	StartedAt     time.Time
	Config        Config
	ComputeTarget string
	Population    []IndividualRecord
}

// GenerationRecord summarizes one completed generation. NewIndividuals holds
// the individuals born this generation; Population holds the post-selection
// survivors with their current fitness, so stores can refresh rows written in
// earlier generations.
type GenerationRecord struct {
	RunID              string
	Generation         int
	PopulationSize     int
	ArchiveSize        int
	BestFitness        float64
	Proposed           int
	Evaluated          int
	EvaluationFailures int
	MutationFailures   int
	Fills              int
	NewIndividuals     []IndividualRecord
	Population         []IndividualRecord
}

// RunResult describes a finished run.
type RunResult struct {
	RunID       string
	FinishedAt  time.Time
	State       State
	Generations int
	BestFitness float64
	Best        *IndividualRecord // nil when the run discovered nothing
}

// generationCounters tracks per-phase activity within one generation.
type generationCounters struct {
	proposed           int
	evaluated          int
	evaluationFailures int
	mutationFailures   int
	fills              int
	created            []core.Handle // individuals born this generation
}

// resolveRecords pairs each live handle with its parent's id.
func (e *Engine) resolveRecords(hs []core.Handle) []IndividualRecord {
	records := make([]IndividualRecord, 0, len(hs))
	for _, h := range hs {
		ind := e.arena.Get(h)
		if ind == nil {
			continue
		}
		rec := IndividualRecord{Individual: ind}
		if parent := e.arena.Get(ind.Parent); parent != nil {
			rec.ParentID = parent.ID
		}
		records = append(records, rec)
	}
	return records
}

func (e *Engine) recordBegin(ctx context.Context, runID string) {
	if e.recorder == nil {
		return
	}

	e.mu.RLock()
	info := RunInfo{
		RunID:         runID,
		StartedAt:     time.Now(),
		Config:        e.config,
		ComputeTarget: e.compute.Target,
		Population:    e.resolveRecords(e.population.Handles()),
	}
	e.mu.RUnlock()

	if err := e.recorder.BeginRun(ctx, info); err != nil {
		e.logger.Warn(ctx, "Recorder rejected run start: %v", err)
	}
}

func (e *Engine) recordGeneration(ctx context.Context, runID string, counters *generationCounters) {
	if e.recorder == nil {
		return
	}

	e.mu.RLock()
	rec := GenerationRecord{
		RunID:              runID,
		Generation:         e.generation,
		PopulationSize:     e.population.Len(),
		ArchiveSize:        e.archive.Len(),
		Proposed:           counters.proposed,
		Evaluated:          counters.evaluated,
		EvaluationFailures: counters.evaluationFailures,
		MutationFailures:   counters.mutationFailures,
		Fills:              counters.fills,
		NewIndividuals:     e.resolveRecords(counters.created),
		Population:         e.resolveRecords(e.population.Handles()),
	}
	if h, ok := e.population.Best(e.arena); ok {
		rec.BestFitness = e.arena.Get(h).Fitness
	}
	e.mu.RUnlock()

	if err := e.recorder.RecordGeneration(ctx, rec); err != nil {
		e.logger.Warn(ctx, "Recorder rejected generation record: %v", err)
	}
}

func (e *Engine) recordEnd(ctx context.Context, runID string, best *core.Individual) {
	if e.recorder == nil {
		return
	}

	e.mu.RLock()
	result := RunResult{
		RunID:       runID,
		FinishedAt:  time.Now(),
		State:       e.state,
		Generations: e.generation,
	}
	if best != nil {
		rec := IndividualRecord{Individual: best}
		if parent := e.arena.Get(best.Parent); parent != nil {
			rec.ParentID = parent.ID
		}
		result.Best = &rec
		result.BestFitness = best.Fitness
	}
	e.mu.RUnlock()

	if err := e.recorder.EndRun(ctx, result); err != nil {
		e.logger.Warn(ctx, "Recorder rejected run result: %v", err)
	}
}
