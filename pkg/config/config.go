package config

import (
	"time"

	"github.com/XiaoConstantine/shinka-go/pkg/core"
	"github.com/XiaoConstantine/shinka-go/pkg/engine"
)

// Config is the root configuration for an evolution run. Sections map
// one-to-one onto the packages they configure; YAML is the canonical
// file format and every field can also be set through SHINKA_* environment
// variables (see EnvironmentSource).
type Config struct {
	Engine   EngineConfig   `yaml:"engine" json:"engine"`
	Proposer ProposerConfig `yaml:"proposer" json:"proposer"`
	Logging  LoggingConfig  `yaml:"logging" json:"logging"`
	Storage  StorageConfig  `yaml:"storage" json:"storage"`
	Compute  ComputeConfig  `yaml:"compute" json:"compute"`
}

// EngineConfig mirrors engine.Config with a plain-seconds timeout so it
// round-trips through YAML without custom duration parsing.
type EngineConfig struct {
	PopulationSize int     `yaml:"population_size" json:"population_size" validate:"gt=0"`
	MaxGenerations int     `yaml:"max_generations" json:"max_generations" validate:"gt=0"`
	EliteRatio     float64 `yaml:"elite_ratio" json:"elite_ratio" validate:"gt=0,lte=1"`
	MutationRate   float64 `yaml:"mutation_rate" json:"mutation_rate" validate:"gte=0,lte=1"`
	CrossoverRate  float64 `yaml:"crossover_rate" json:"crossover_rate" validate:"gte=0,lte=1"`
	TimeoutSeconds int     `yaml:"timeout_seconds" json:"timeout_seconds" validate:"gte=0"`
}

// ToEngine converts the section into the engine's native config.
func (ec EngineConfig) ToEngine() engine.Config {
	return engine.Config{
		PopulationSize: ec.PopulationSize,
		MaxGenerations: ec.MaxGenerations,
		EliteRatio:     ec.EliteRatio,
		MutationRate:   ec.MutationRate,
		CrossoverRate:  ec.CrossoverRate,
		Timeout:        time.Duration(ec.TimeoutSeconds) * time.Second,
	}
}

// ProposerConfig selects and tunes the LLM backend used for mutation.
// Provider "none" runs the engine without a mutator.
type ProposerConfig struct {
	Provider    string  `yaml:"provider" json:"provider" validate:"oneof=anthropic openai none"`
	Model       string  `yaml:"model" json:"model"`
	APIKey      string  `yaml:"api_key" json:"api_key"`
	MaxTokens   int     `yaml:"max_tokens" json:"max_tokens" validate:"gt=0"`
	Temperature float64 `yaml:"temperature" json:"temperature" validate:"gte=0,lte=2"`
	MaxRetries  int     `yaml:"max_retries" json:"max_retries" validate:"gt=0"`
}

// LoggingConfig controls run logging. File, when set, receives JSON lines
// in addition to console output.
type LoggingConfig struct {
	Level    string `yaml:"level" json:"level" validate:"oneof=DEBUG INFO WARN ERROR FATAL"`
	File     string `yaml:"file" json:"file"`
	UseColor bool   `yaml:"use_color" json:"use_color"`
}

// StorageConfig points at the SQLite history database. An empty path
// disables persistence.
type StorageConfig struct {
	Path string `yaml:"path" json:"path"`
}

// ComputeConfig pins the evaluation substrate. An empty target defers to
// runtime detection.
type ComputeConfig struct {
	Target  string `yaml:"target" json:"target"`
	Workers int    `yaml:"workers" json:"workers" validate:"gte=0"`
}

// ToContext resolves the section into a compute context, falling back to
// detection for any field left unset.
func (cc ComputeConfig) ToContext() core.ComputeContext {
	detected := core.DetectCompute()
	ctx := core.ComputeContext{Target: cc.Target, Workers: cc.Workers}
	if ctx.Target == "" {
		ctx.Target = detected.Target
	}
	if ctx.Workers <= 0 {
		ctx.Workers = detected.Workers
	}
	return ctx
}
