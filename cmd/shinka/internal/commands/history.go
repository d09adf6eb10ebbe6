package commands

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/XiaoConstantine/shinka-go/cmd/shinka/internal/display"
	"github.com/XiaoConstantine/shinka-go/pkg/errors"
	"github.com/XiaoConstantine/shinka-go/pkg/store"
)

func NewHistoryCommand() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "history <run-id>",
		Short: "Inspect a recorded evolution run",
		Long: `Show a recorded run: final state, best payload, and per-generation
statistics from the history database.`,
		Example: `  # Show a run recorded by 'shinka run'
  shinka history 6fa2c3d8-6c1e-4f6a-9f0e-0c6f61a2b9d4 --db shinka_runs.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showHistory(cmd.Context(), dbPath, args[0])
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "shinka_runs.db", "SQLite history database path")
	return cmd
}

func showHistory(ctx context.Context, dbPath, runID string) error {
	st, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	summary, err := st.GetRun(ctx, runID)
	if err != nil {
		return err
	}

	best, err := st.BestIndividual(ctx, runID)
	if err != nil {
		var serr *errors.Error
		if !stderrors.As(err, &serr) || serr.Code() != errors.ResourceNotFound {
			return err
		}
		// Runs that discovered nothing have no best individual.
		best = nil
	}

	recs, err := st.ListGenerations(ctx, runID)
	if err != nil {
		return err
	}

	fmt.Print(display.FormatRunSummary(summary, best))
	fmt.Print(display.FormatGenerations(recs))
	return nil
}
