// Package shinka is a population-based evolutionary search engine for text
// artifacts such as prompts, program sketches and configuration snippets.
//
// Shinka-Go keeps a bounded population of candidate solutions and improves it
// over generations: elites are mutated through a proposer (typically an LLM),
// every candidate is scored by a fitness evaluator, and selection keeps the
// strongest individuals while fills restore the population size. It focuses
// on making it easy to:
//   - Evolve free-form text payloads against a pluggable fitness function
//   - Drive mutation with Anthropic or OpenAI models, with retries and caching
//   - Track lineage of every candidate back to its seed
//   - Persist runs to SQLite and inspect them afterwards
//   - Stop early on perfect fitness or stagnation
//
// Key Components:
//
//   - Core: Fundamental types like Individual, Arena, Population and Archive
//     that represent candidates and the bookkeeping around them.
//
//   - Engine: The generational loop. Configured with population size, elite
//     ratio, mutation and crossover rates, it runs mutate, evaluate, select
//     and terminate phases and exposes point-in-time Snapshots.
//
//   - Fitness: Evaluators for scoring payloads:
//     * Keyword: Rewards payloads for covering a set of target keywords
//     * Suite: Runs a payload against input/answer cases through a Runner,
//     scored with ExactMatch, TokenF1 or Contains
//
//   - Proposer: LLM-backed mutation with prompt construction, transient
//     error retries and provider-agnostic Generator implementations for
//     Anthropic Claude and OpenAI models.
//
//   - Datasets: Loaders for seed payloads from text files and evaluation
//     cases from Parquet files via Apache Arrow.
//
//   - Store: SQLite persistence of runs, per-generation statistics and every
//     individual, queryable after the run has finished.
//
//   - Config: Layered configuration from YAML files and SHINKA_* environment
//     variables with struct-tag validation.
//
// Simple Example:
//
//	import (
//	    "context"
//	    "log"
//
//	    "github.com/XiaoConstantine/shinka-go/pkg/engine"
//	    "github.com/XiaoConstantine/shinka-go/pkg/fitness"
//	)
//
//	func main() {
//	    // Score payloads by keyword coverage
//	    eval, err := fitness.NewKeyword("resilient", "concurrent", "portable")
//	    if err != nil {
//	        log.Fatalf("Failed to build evaluator: %v", err)
//	    }
//
//	    eng, err := engine.New(engine.DefaultConfig())
//	    if err != nil {
//	        log.Fatalf("Failed to create engine: %v", err)
//	    }
//
//	    // Seed the initial population
//	    seeds := []string{
//	        "a resilient service that restarts cleanly",
//	        "a small portable runtime",
//	    }
//	    if err := eng.Initialize(seeds); err != nil {
//	        log.Fatalf("Failed to seed population: %v", err)
//	    }
//
//	    // Run without a mutator: selection and fills still apply
//	    best, err := eng.Run(context.Background(), eval, nil)
//	    if err != nil {
//	        log.Fatalf("Run failed: %v", err)
//	    }
//
//	    log.Printf("Best candidate (fitness %.2f): %s", best.Fitness, best.Payload)
//	}
//
// Advanced Features:
//
//   - Structured Logging: Leveled, field-carrying logs with console and file
//     outputs. Run and generation identifiers travel through context.
//
//   - Error Handling: Typed error codes with field attachment and wrapping,
//     so callers can branch on why an operation failed.
//
//   - Run Persistence: Attach a Recorder to the engine to stream run
//     metadata, generation statistics and individuals into SQLite.
//
//   - Parallel Evaluation: Suite evaluators fan cases out across a worker
//     pool while keeping per-case failures isolated.
//
//   - Proposal Caching: Wrap any Generator with an in-memory TTL cache so
//     repeated prompts are answered without another model call.
//
// Recording a Run:
//
//	st, err := store.NewSQLiteStore("runs.db")
//	if err != nil {
//	    log.Fatalf("Failed to open store: %v", err)
//	}
//	defer st.Close()
//
//	eng, err := engine.New(cfg, engine.WithRecorder(st))
//	if err != nil {
//	    log.Fatalf("Failed to create engine: %v", err)
//	}
//
//	// After the run, query what happened
//	summary, err := st.GetRun(ctx, runID)
//	gens, err := st.ListGenerations(ctx, runID)
//	best, err := st.BestIndividual(ctx, runID)
//
// For more examples and detailed documentation, visit:
// https://github.com/XiaoConstantine/shinka-go
//
// Shinka-Go is released under the MIT License.
package shinka
