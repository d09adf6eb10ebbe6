package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/XiaoConstantine/shinka-go/cmd/shinka/internal/commands"
)

var rootCmd = &cobra.Command{
	Use:   "shinka",
	Short: "Population-based evolutionary search over opaque payloads",
	Long: `Shinka evolves candidate payloads: seeds are scored by a fitness
evaluator, elite survivors are mutated by an LLM proposer, and every run is
recorded to a SQLite history database.

The CLI provides:
- Evolution runs driven by a shinka.yaml configuration
- Seed and case loading from plain files or Parquet datasets
- Run history inspection with per-generation statistics`,
	Version: "0.1.0",
}

func main() {
	rootCmd.AddCommand(commands.NewRunCommand())
	rootCmd.AddCommand(commands.NewHistoryCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
