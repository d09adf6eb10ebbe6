package engine

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/XiaoConstantine/shinka-go/pkg/errors"
)

// Config holds the evolution engine parameters.
type Config struct {
	// PopulationSize is the working-set bound selection restores each
	// generation.
	PopulationSize int `json:"population_size" yaml:"population_size" validate:"gt=0"`

	// EliteRatio is the survivor fraction. The elite count is never below
	// one regardless of how small the ratio is.
	EliteRatio float64 `json:"elite_ratio" yaml:"elite_ratio" validate:"gt=0,lte=1"`

	// MutationRate is recorded with each run but drives no behavior yet.
	MutationRate float64 `json:"mutation_rate" yaml:"mutation_rate" validate:"gte=0,lte=1"`

	// CrossoverRate is reserved; crossover is not implemented.
	CrossoverRate float64 `json:"crossover_rate" yaml:"crossover_rate" validate:"gte=0,lte=1"`

	// MaxGenerations caps the loop.
	MaxGenerations int `json:"max_generations" yaml:"max_generations" validate:"gt=0"`

	// Timeout bounds a whole run. Zero means unlimited.
	Timeout time.Duration `json:"timeout" yaml:"timeout" validate:"gte=0"`
}

// DefaultConfig mirrors the system's historical defaults.
func DefaultConfig() Config {
	return Config{
		PopulationSize: 10,
		EliteRatio:     0.2,
		MutationRate:   0.1,
		CrossoverRate:  0.5,
		MaxGenerations: 50,
		Timeout:        300 * time.Second,
	}
}

var validate = validator.New()

// Validate checks the configuration eagerly. Violations come back as a
// single ConfigurationInvalid error naming every failed field.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Wrap(err, errors.ConfigurationInvalid, "invalid engine configuration")
	}

	fields := errors.Fields{}
	for _, fe := range verrs {
		fields[fe.Field()] = fmt.Sprintf("failed %q constraint", fe.Tag())
	}
	return errors.WithFields(
		errors.New(errors.ConfigurationInvalid, "invalid engine configuration"),
		fields)
}

// EliteCount is the number of survivors for a pool of n individuals: the
// floor of n*EliteRatio, but at least one.
func (c Config) EliteCount(n int) int {
	count := int(float64(n) * c.EliteRatio)
	if count < 1 {
		return 1
	}
	return count
}
