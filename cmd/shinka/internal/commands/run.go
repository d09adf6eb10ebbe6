package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go"
	"github.com/spf13/cobra"

	"github.com/XiaoConstantine/shinka-go/cmd/shinka/internal/display"
	"github.com/XiaoConstantine/shinka-go/pkg/cache"
	"github.com/XiaoConstantine/shinka-go/pkg/config"
	"github.com/XiaoConstantine/shinka-go/pkg/core"
	"github.com/XiaoConstantine/shinka-go/pkg/datasets"
	"github.com/XiaoConstantine/shinka-go/pkg/engine"
	"github.com/XiaoConstantine/shinka-go/pkg/fitness"
	"github.com/XiaoConstantine/shinka-go/pkg/logging"
	"github.com/XiaoConstantine/shinka-go/pkg/proposer"
	"github.com/XiaoConstantine/shinka-go/pkg/store"
)

type runOptions struct {
	configPath     string
	seedsPath      string
	casesPath      string
	inputField     string
	answerField    string
	keywords       []string
	scorerName     string
	cacheProposals bool
}

// runCapture remembers the run ID handed to the recorder so the run can be
// referenced after it finishes.
type runCapture struct {
	engine.Recorder
	runID string
}

func (r *runCapture) BeginRun(ctx context.Context, info engine.RunInfo) error {
	r.runID = info.RunID
	return r.Recorder.BeginRun(ctx, info)
}

func NewRunCommand() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run an evolution from configuration",
		Long: `Run one evolution: initialize the population from seed payloads, then
mutate, evaluate, and select until a termination rule fires.

Fitness comes from either a Parquet case suite (--cases, graded by --scorer)
or keyword coverage (--keywords). Case suites answer each case through the
configured LLM provider; keyword fitness needs no provider at all.`,
		Example: `  # Evolve prompt templates against a Parquet case set
  shinka run --config shinka.yaml --seeds seeds/ --cases train.parquet

  # Keyword coverage fitness, no LLM required
  shinka run --seeds seeds.txt --keywords resilient,portable`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEvolution(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "path to shinka.yaml (default: discovered)")
	cmd.Flags().StringVar(&opts.seedsPath, "seeds", "", "seed payload file or directory (required)")
	cmd.Flags().StringVar(&opts.casesPath, "cases", "", "Parquet case set for suite fitness")
	cmd.Flags().StringVar(&opts.inputField, "input-field", "question", "Parquet column holding case inputs")
	cmd.Flags().StringVar(&opts.answerField, "answer-field", "answer", "Parquet column holding expected answers")
	cmd.Flags().StringSliceVar(&opts.keywords, "keywords", nil, "keyword coverage fitness instead of a case suite")
	cmd.Flags().StringVar(&opts.scorerName, "scorer", "exact", "case scorer: exact, f1, or contains")
	cmd.Flags().BoolVar(&opts.cacheProposals, "cache-proposals", false, "cache generator responses in memory")
	_ = cmd.MarkFlagRequired("seeds")

	return cmd
}

func runEvolution(ctx context.Context, opts *runOptions) error {
	managerOpts := []config.ManagerOption{}
	if opts.configPath != "" {
		managerOpts = append(managerOpts, config.WithConfigPath(opts.configPath))
	}
	cfg, err := config.NewManager(managerOpts...).Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := setupLogging(cfg.Logging)

	seeds, err := datasets.LoadSeeds(opts.seedsPath)
	if err != nil {
		return fmt.Errorf("loading seeds: %w", err)
	}

	generator, mutator, err := buildProposer(cfg.Proposer, opts.cacheProposals)
	if err != nil {
		return err
	}

	evaluator, err := buildEvaluator(ctx, opts, cfg, generator)
	if err != nil {
		return err
	}

	engineOpts := []engine.Option{engine.WithComputeContext(cfg.Compute.ToContext())}
	var capture *runCapture
	var st *store.SQLiteStore
	if cfg.Storage.Path != "" {
		st, err = store.NewSQLiteStore(cfg.Storage.Path)
		if err != nil {
			return fmt.Errorf("opening history store: %w", err)
		}
		defer st.Close()
		capture = &runCapture{Recorder: st}
		engineOpts = append(engineOpts, engine.WithRecorder(capture))
	}

	eng, err := engine.New(cfg.Engine.ToEngine(), engineOpts...)
	if err != nil {
		return err
	}

	if err := eng.Initialize(seeds); err != nil {
		return err
	}

	best, err := eng.Run(ctx, evaluator, mutator)
	if err != nil {
		return err
	}

	fmt.Print(display.FormatResult(best, eng.GetState()))
	if st != nil && capture.runID != "" {
		logger.Info(ctx, "Run recorded; inspect it with: shinka history %s --db %s",
			capture.runID, cfg.Storage.Path)
	}
	return nil
}

func setupLogging(cfg config.LoggingConfig) *logging.Logger {
	outputs := []logging.Output{
		logging.NewConsoleOutput(true, logging.WithColor(cfg.UseColor)),
	}
	if cfg.File != "" {
		if fileOutput, err := logging.NewFileOutput(cfg.File); err == nil {
			outputs = append(outputs, fileOutput)
		}
	}
	logger := logging.NewLogger(logging.Config{
		Severity: logging.ParseSeverity(cfg.Level),
		Outputs:  outputs,
	})
	logging.SetLogger(logger)
	return logger
}

func buildProposer(cfg config.ProposerConfig, useCache bool) (proposer.Generator, core.Mutator, error) {
	if cfg.Provider == "none" {
		return nil, nil, nil
	}

	var generator proposer.Generator
	var err error
	switch cfg.Provider {
	case "anthropic":
		model := proposer.DefaultAnthropicModel
		if cfg.Model != "" {
			model = anthropic.Model(cfg.Model)
		}
		generator, err = proposer.NewAnthropicGenerator(cfg.APIKey, model)
	case "openai":
		model := proposer.DefaultOpenAIModel
		if cfg.Model != "" {
			model = openai.ChatModel(cfg.Model)
		}
		generator, err = proposer.NewOpenAIGenerator(cfg.APIKey, model)
	default:
		return nil, nil, fmt.Errorf("unknown proposer provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, nil, err
	}

	if useCache {
		generator = cache.WrapGenerator(generator, cache.NewMemoryCache(1024, time.Hour), time.Hour)
	}

	mutator, err := proposer.New(generator,
		proposer.WithMaxRetries(cfg.MaxRetries),
		proposer.WithGenerateOptions(
			proposer.WithMaxTokens(cfg.MaxTokens),
			proposer.WithTemperature(cfg.Temperature),
		))
	if err != nil {
		return nil, nil, err
	}
	return generator, mutator, nil
}

func buildEvaluator(ctx context.Context, opts *runOptions, cfg *config.Config, generator proposer.Generator) (core.Evaluator, error) {
	if len(opts.keywords) > 0 && opts.casesPath != "" {
		return nil, fmt.Errorf("--keywords and --cases are mutually exclusive")
	}

	if len(opts.keywords) > 0 {
		kw, err := fitness.NewKeyword(opts.keywords...)
		if err != nil {
			return nil, err
		}
		return kw, nil
	}

	if opts.casesPath == "" {
		return nil, fmt.Errorf("either --cases or --keywords is required")
	}
	if generator == nil {
		return nil, fmt.Errorf("case suites answer through an LLM; set proposer.provider in the config")
	}

	cases, err := datasets.LoadCasesParquet(ctx, opts.casesPath, opts.inputField, opts.answerField)
	if err != nil {
		return nil, fmt.Errorf("loading cases: %w", err)
	}

	scorer, err := resolveScorer(opts.scorerName)
	if err != nil {
		return nil, err
	}

	// Candidates are prompt templates; {{input}} marks where the case
	// input goes.
	runner := func(ctx context.Context, payload, input string) (string, error) {
		prompt := strings.ReplaceAll(payload, "{{input}}", input)
		return generator.Generate(ctx, prompt,
			proposer.WithMaxTokens(256),
			proposer.WithTemperature(0))
	}

	suite, err := fitness.NewSuite(cases, runner,
		fitness.WithScorer(scorer),
		fitness.WithWorkers(cfg.Compute.ToContext().Workers))
	if err != nil {
		return nil, err
	}
	return suite, nil
}

func resolveScorer(name string) (fitness.Scorer, error) {
	switch strings.ToLower(name) {
	case "", "exact":
		return fitness.ExactMatch, nil
	case "f1":
		return fitness.TokenF1, nil
	case "contains":
		return fitness.Contains, nil
	default:
		return nil, fmt.Errorf("unknown scorer %q (want exact, f1, or contains)", name)
	}
}
