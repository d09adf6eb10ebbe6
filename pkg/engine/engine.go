package engine

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/XiaoConstantine/shinka-go/pkg/core"
	"github.com/XiaoConstantine/shinka-go/pkg/errors"
	"github.com/XiaoConstantine/shinka-go/pkg/logging"
)

// PerfectFitness short-circuits a run: any individual reaching it ends the
// search immediately.
const PerfectFitness = 1.0

// noImprovementWindow is how many archived elites must exist before the
// no-improvement termination rule is consulted.
const noImprovementWindow = 10

// Engine drives the mutate, evaluate, select, terminate loop over a
// population of opaque payloads. Collaborators are supplied per run; the
// engine owns sequencing, state, selection, lineage and termination.
type Engine struct {
	config   Config
	compute  core.ComputeContext
	logger   *logging.Logger
	recorder Recorder

	mu          sync.RWMutex
	state       State
	generation  int
	arena       *core.Arena
	population  *core.Population
	archive     *core.Archive
	initialized bool
	running     bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger overrides the global logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithComputeContext pins the compute context instead of detecting one.
func WithComputeContext(cc core.ComputeContext) Option {
	return func(e *Engine) { e.compute = cc }
}

// WithRecorder attaches a run recorder.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// New builds an engine. The configuration is validated here, eagerly: a bad
// config never produces an engine.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		config:     cfg,
		compute:    core.DetectCompute(),
		logger:     logging.GetLogger(),
		arena:      core.NewArena(),
		population: core.NewPopulation(),
		archive:    core.NewArchive(core.DefaultArchiveBound),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Arena exposes the lineage arena. Handles stay valid for the engine's
// lifetime, including across re-initialization.
func (e *Engine) Arena() *core.Arena {
	return e.arena
}

// Initialize replaces the population with generation-zero seeds, one
// individual per payload, and resets the generation counter. The archive is
// not cleared: elites from earlier runs remain and still count toward the
// no-improvement rule. The arena is likewise left alone so handles from
// earlier runs stay resolvable.
//
// At least one seed is required. Initializing while a run is in flight
// returns EngineStateConflict.
func (e *Engine) Initialize(seeds []string) error {
	if len(seeds) == 0 {
		return errors.New(errors.ConfigurationInvalid, "at least one seed payload is required")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return errors.New(errors.EngineStateConflict, "cannot initialize while a run is in progress")
	}

	e.state = Generating

	handles := make([]core.Handle, 0, len(seeds))
	for _, payload := range seeds {
		h, err := e.arena.Add(core.NewIndividual(payload, 0, core.OriginSeed))
		if err != nil {
			e.state = Idle
			return err
		}
		handles = append(handles, h)
	}

	e.population.Replace(handles)
	e.generation = 0
	e.initialized = true
	e.state = Idle

	e.logger.Info(context.Background(), "Initialized population with %d seeds", len(seeds))
	return nil
}

// Run executes the evolution loop until a termination rule fires or
// MaxGenerations is reached, and returns the best individual discovered.
// The evaluator is required; a nil mutate skips the mutation phase.
//
// Run is not reentrant: a second call while one is in flight returns
// EngineStateConflict, as does running before Initialize. Collaborator
// failures are absorbed and logged, never surfaced. Context cancellation
// and the configured timeout are surfaced and move the engine to Failed.
func (e *Engine) Run(ctx context.Context, evaluate core.Evaluator, mutate core.Mutator) (*core.Individual, error) {
	if evaluate == nil {
		return nil, errors.New(errors.InvalidInput, "evaluator is required")
	}

	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return nil, errors.New(errors.EngineStateConflict, "run already in progress")
	}
	if !e.initialized {
		e.mu.Unlock()
		return nil, errors.New(errors.EngineStateConflict, "initialize must be called before run")
	}
	e.running = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	if e.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.Timeout)
		defer cancel()
	}

	runID := uuid.New().String()
	ctx = logging.WithRunID(ctx, runID)

	e.logger.Info(ctx, "Starting evolution run on %s: population=%d elites=%d max_generations=%d",
		e.compute.Target,
		e.config.PopulationSize,
		e.config.EliteCount(e.config.PopulationSize),
		e.config.MaxGenerations)

	e.recordBegin(ctx, runID)

	best, err := e.loop(ctx, runID, evaluate, mutate)
	e.recordEnd(ctx, runID, best)
	return best, err
}

func (e *Engine) loop(ctx context.Context, runID string, evaluate core.Evaluator, mutate core.Mutator) (*core.Individual, error) {
	for {
		e.mu.RLock()
		generation := e.generation
		e.mu.RUnlock()

		if generation >= e.config.MaxGenerations {
			break
		}

		gctx := logging.WithGeneration(ctx, generation)
		counters := &generationCounters{}

		if mutate != nil {
			if err := e.mutatePhase(gctx, mutate, counters); err != nil {
				return nil, e.fail(gctx, err)
			}
		}

		if err := e.evaluatePhase(gctx, evaluate, counters); err != nil {
			return nil, e.fail(gctx, err)
		}

		e.selectPhase(gctx, counters)
		e.recordGeneration(gctx, runID, counters)

		if e.shouldTerminate(gctx) {
			break
		}

		e.mu.Lock()
		e.generation++
		e.mu.Unlock()
	}

	e.setState(Completed)

	e.mu.RLock()
	finalGeneration := e.generation
	e.mu.RUnlock()

	best := e.bestIndividual()
	if best != nil {
		e.logger.Info(ctx, "Run completed at generation %d: best fitness %.4f (%s)",
			finalGeneration, best.Fitness, best.ID)
	} else {
		e.logger.Info(ctx, "Run completed at generation %d with an empty population", finalGeneration)
	}
	return best, nil
}

// mutatePhase asks the proposer for a replacement payload for each mutable
// elite. Elites are sized from the configured population bound here; only
// individuals with a parent are submitted, so generation-zero seeds are left
// alone. A failed proposal is logged and skipped.
func (e *Engine) mutatePhase(ctx context.Context, mutate core.Mutator, counters *generationCounters) error {
	e.setState(Mutating)

	e.mu.RLock()
	handles := e.population.Handles()
	generation := e.generation
	e.mu.RUnlock()

	ranked := rankByFitness(e.arena, handles)
	eliteCount := e.config.EliteCount(e.config.PopulationSize)
	if eliteCount > len(ranked) {
		eliteCount = len(ranked)
	}

	for _, h := range ranked[:eliteCount] {
		if err := errors.CheckContext(ctx, "mutation phase"); err != nil {
			return err
		}

		elite := e.arena.Get(h)
		if elite.Parent == core.NoParent {
			continue
		}

		payload, err := mutate.Mutate(ctx, elite)
		if err != nil {
			counters.mutationFailures++
			e.logger.Warn(ctx, "Mutation failed for %s: %v", elite.ID, err)
			continue
		}

		child := core.NewChild(h, payload, generation+1, core.OriginProposer)
		ch, err := e.arena.Add(child)
		if err != nil {
			return err
		}

		e.mu.Lock()
		e.population.Append(ch)
		e.mu.Unlock()

		counters.proposed++
		counters.created = append(counters.created, ch)
	}

	return nil
}

// evaluatePhase submits every unevaluated individual to the evaluator, one
// at a time in population order. A failed evaluation scores zero and the
// loop moves on, which re-queues the individual next generation.
func (e *Engine) evaluatePhase(ctx context.Context, evaluate core.Evaluator, counters *generationCounters) error {
	e.setState(Evaluating)

	e.mu.RLock()
	handles := e.population.Handles()
	e.mu.RUnlock()

	for _, h := range handles {
		if err := errors.CheckContext(ctx, "evaluation phase"); err != nil {
			return err
		}

		ind := e.arena.Get(h)
		if ind.Evaluated() {
			continue
		}

		score, err := evaluate.Evaluate(ctx, ind)
		if err != nil {
			counters.evaluationFailures++
			e.logger.Warn(ctx, "Evaluation failed for %s: %v", ind.ID, err)
			score = core.UnevaluatedFitness
		}

		e.mu.Lock()
		ind.Fitness = score
		e.mu.Unlock()

		counters.evaluated++
	}

	return nil
}

func (e *Engine) selectPhase(ctx context.Context, counters *generationCounters) {
	e.setState(Selecting)

	e.mu.Lock()
	e.selectSurvivors(counters)
	popSize := e.population.Len()
	archiveSize := e.archive.Len()
	e.mu.Unlock()

	e.logger.Debug(ctx, "Selection kept %d individuals (%d fills), archive at %d",
		popSize, counters.fills, archiveSize)
}

// shouldTerminate applies the stop rules in order: an empty population, a
// perfect score, then no improvement over the most recently archived elite.
// The last rule compares against the newest archive entry, not the
// archive's best.
func (e *Engine) shouldTerminate(ctx context.Context) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.population.Len() == 0 {
		e.logger.Info(ctx, "Population is empty, stopping")
		return true
	}

	h, _ := e.population.Best(e.arena)
	best := e.arena.Get(h)

	if best.Fitness >= PerfectFitness {
		e.logger.Info(ctx, "Perfect score %.4f reached by %s, stopping", best.Fitness, best.ID)
		return true
	}

	if e.archive.Len() >= noImprovementWindow {
		if last, ok := e.archive.Last(); ok {
			recent := e.arena.Get(last).Fitness
			if best.Fitness <= recent {
				e.logger.Info(ctx, "No improvement over last archived elite (%.4f <= %.4f), stopping",
					best.Fitness, recent)
				return true
			}
		}
	}

	return false
}

func (e *Engine) setState(s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}

func (e *Engine) fail(ctx context.Context, err error) error {
	e.setState(Failed)
	e.logger.Error(ctx, "Evolution run failed: %v", err)
	return err
}

// bestIndividual prefers the live population and falls back to the archive
// when the run ended with nothing alive.
func (e *Engine) bestIndividual() *core.Individual {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if h, ok := e.population.Best(e.arena); ok {
		return e.arena.Get(h)
	}
	if h, ok := e.archive.Best(e.arena); ok {
		return e.arena.Get(h)
	}
	return nil
}

// GetState reports a consistent snapshot of the run. It is safe to call
// concurrently with Run, and calling it repeatedly without intervening work
// returns identical snapshots.
func (e *Engine) GetState() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	snap := Snapshot{
		State:          e.state,
		Generation:     e.generation,
		PopulationSize: e.population.Len(),
		ArchiveSize:    e.archive.Len(),
		ComputeTarget:  e.compute.Target,
	}
	if h, ok := e.population.Best(e.arena); ok {
		snap.BestFitness = e.arena.Get(h).Fitness
	}
	return snap
}
