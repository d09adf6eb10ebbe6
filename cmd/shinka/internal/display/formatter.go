package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/XiaoConstantine/shinka-go/pkg/core"
	"github.com/XiaoConstantine/shinka-go/pkg/engine"
	"github.com/XiaoConstantine/shinka-go/pkg/store"
)

// FormatResult renders the outcome of a finished run.
func FormatResult(best *core.Individual, snap engine.Snapshot) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Evolution finished") + "\n")
	b.WriteString(fmt.Sprintf("State: %s  Generation: %d  Population: %d  Archive: %d\n",
		snap.State, snap.Generation, snap.PopulationSize, snap.ArchiveSize))

	if best == nil {
		b.WriteString(MutedStyle.Render("No individual survived the run") + "\n")
		return b.String()
	}

	fitness := fitnessStyle(best.Fitness).Render(fmt.Sprintf("%.4f", best.Fitness))
	b.WriteString(fmt.Sprintf("Best fitness: %s  (%s, origin %s)\n", fitness, best.ID, best.Origin))
	b.WriteString(PayloadBox.Render(best.Payload) + "\n")
	return b.String()
}

// FormatRunSummary renders a stored run header with its best payload.
func FormatRunSummary(sum *store.RunSummary, best *engine.IndividualRecord) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Run "+sum.RunID) + "\n")
	b.WriteString(fmt.Sprintf("State: %s  Compute: %s  Started: %s\n",
		sum.State, sum.ComputeTarget, sum.StartedAt.Format(time.RFC3339)))
	if !sum.FinishedAt.IsZero() {
		b.WriteString(fmt.Sprintf("Finished: %s  (%s)\n",
			sum.FinishedAt.Format(time.RFC3339),
			sum.FinishedAt.Sub(sum.StartedAt).Round(time.Millisecond)))
	}

	fitness := fitnessStyle(sum.BestFitness).Render(fmt.Sprintf("%.4f", sum.BestFitness))
	b.WriteString(fmt.Sprintf("Generations: %d  Best fitness: %s\n", sum.Generations, fitness))

	if best != nil && best.Individual != nil {
		b.WriteString(PayloadBox.Render(best.Individual.Payload) + "\n")
	}
	return b.String()
}

// FormatGenerations renders per-generation statistics as a table.
func FormatGenerations(recs []engine.GenerationRecord) string {
	if len(recs) == 0 {
		return MutedStyle.Render("No generations recorded") + "\n"
	}

	var b strings.Builder
	b.WriteString(MutedStyle.Render(fmt.Sprintf("%4s %5s %8s %9s %10s %6s %6s  %s",
		"GEN", "POP", "ARCHIVE", "PROPOSED", "EVALUATED", "FAILS", "FILLS", "BEST")) + "\n")

	for _, rec := range recs {
		failures := rec.EvaluationFailures + rec.MutationFailures
		best := fitnessStyle(rec.BestFitness).Render(fmt.Sprintf("%.4f", rec.BestFitness))
		b.WriteString(fmt.Sprintf("%4d %5d %8d %9d %10d %6d %6d  %s\n",
			rec.Generation, rec.PopulationSize, rec.ArchiveSize,
			rec.Proposed, rec.Evaluated, failures, rec.Fills, best))
	}
	return b.String()
}
