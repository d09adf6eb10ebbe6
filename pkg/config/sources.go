package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source loads configuration from one origin. Sources are applied in
// ascending priority order so higher-priority sources override lower ones.
type Source interface {
	// Load applies this source's values on top of config.
	Load(config *Config, searchPaths []string) error

	// Name identifies the source in error messages.
	Name() string

	// Priority orders application; higher values are applied later.
	Priority() int
}

// FileSource loads YAML configuration files. With an explicit path it loads
// exactly that file; otherwise it layers every discovered file in order.
type FileSource struct {
	configPath string
}

// NewFileSource creates a file source. An empty path defers to the search
// paths handed to Load.
func NewFileSource(configPath string) *FileSource {
	return &FileSource{configPath: configPath}
}

func (fs *FileSource) Name() string { return "file" }

func (fs *FileSource) Priority() int { return 100 }

func (fs *FileSource) Load(config *Config, searchPaths []string) error {
	paths := searchPaths
	if fs.configPath != "" {
		paths = []string{fs.configPath}
	}

	for _, path := range paths {
		if err := fs.loadFile(config, path); err != nil {
			return fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}
	return nil
}

// loadFile decodes one YAML document over the existing config. Keys absent
// from the document leave the corresponding fields untouched.
func (fs *FileSource) loadFile(config *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("invalid YAML: %w", err)
	}
	return nil
}

// EnvironmentSource loads configuration from SHINKA_* environment variables.
// Variable names map to config paths by stripping the prefix, lowercasing,
// and reading the first underscore-separated token as the section, e.g.
// SHINKA_ENGINE_POPULATION_SIZE sets engine.population_size.
type EnvironmentSource struct {
	prefix string
}

// NewEnvironmentSource creates an environment source with the SHINKA_ prefix.
func NewEnvironmentSource() *EnvironmentSource {
	return &EnvironmentSource{prefix: "SHINKA_"}
}

func (es *EnvironmentSource) Name() string { return "environment" }

func (es *EnvironmentSource) Priority() int { return 200 }

func (es *EnvironmentSource) Load(config *Config, _ []string) error {
	vars := es.environmentVariables()

	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := es.setConfigValue(config, key, vars[key]); err != nil {
			name := es.prefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
			return fmt.Errorf("invalid value for %s: %w", name, err)
		}
	}
	return nil
}

// environmentVariables collects prefixed variables keyed by their dotted
// config path.
func (es *EnvironmentSource) environmentVariables() map[string]string {
	vars := make(map[string]string)
	for _, env := range os.Environ() {
		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 || !strings.HasPrefix(parts[0], es.prefix) {
			continue
		}
		key := strings.TrimPrefix(parts[0], es.prefix)
		key = strings.ToLower(key)
		key = strings.ReplaceAll(key, "_", ".")
		vars[key] = parts[1]
	}
	return vars
}

func (es *EnvironmentSource) setConfigValue(config *Config, key, value string) error {
	section, field, ok := strings.Cut(key, ".")
	if !ok {
		return nil
	}
	field = strings.ReplaceAll(field, ".", "_")

	switch section {
	case "engine":
		return es.setEngineValue(&config.Engine, field, value)
	case "proposer":
		return es.setProposerValue(&config.Proposer, field, value)
	case "logging":
		return es.setLoggingValue(&config.Logging, field, value)
	case "storage":
		return es.setStorageValue(&config.Storage, field, value)
	case "compute":
		return es.setComputeValue(&config.Compute, field, value)
	}
	// Unknown sections are ignored so unrelated SHINKA_ variables do not
	// break loading.
	return nil
}

func (es *EnvironmentSource) setEngineValue(cfg *EngineConfig, field, value string) error {
	switch field {
	case "population_size":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("population size must be an integer: %w", err)
		}
		cfg.PopulationSize = n
	case "max_generations":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("max generations must be an integer: %w", err)
		}
		cfg.MaxGenerations = n
	case "elite_ratio":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("elite ratio must be a number: %w", err)
		}
		cfg.EliteRatio = f
	case "mutation_rate":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("mutation rate must be a number: %w", err)
		}
		cfg.MutationRate = f
	case "crossover_rate":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("crossover rate must be a number: %w", err)
		}
		cfg.CrossoverRate = f
	case "timeout_seconds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("timeout seconds must be an integer: %w", err)
		}
		cfg.TimeoutSeconds = n
	}
	return nil
}

func (es *EnvironmentSource) setProposerValue(cfg *ProposerConfig, field, value string) error {
	switch field {
	case "provider":
		cfg.Provider = strings.ToLower(value)
	case "model":
		cfg.Model = value
	case "api_key":
		cfg.APIKey = value
	case "max_tokens":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("max tokens must be an integer: %w", err)
		}
		cfg.MaxTokens = n
	case "temperature":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("temperature must be a number: %w", err)
		}
		cfg.Temperature = f
	case "max_retries":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("max retries must be an integer: %w", err)
		}
		cfg.MaxRetries = n
	}
	return nil
}

func (es *EnvironmentSource) setLoggingValue(cfg *LoggingConfig, field, value string) error {
	switch field {
	case "level":
		cfg.Level = strings.ToUpper(value)
	case "file":
		cfg.File = value
	case "use_color":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("use color must be a boolean: %w", err)
		}
		cfg.UseColor = b
	}
	return nil
}

func (es *EnvironmentSource) setStorageValue(cfg *StorageConfig, field, value string) error {
	if field == "path" {
		cfg.Path = value
	}
	return nil
}

func (es *EnvironmentSource) setComputeValue(cfg *ComputeConfig, field, value string) error {
	switch field {
	case "target":
		cfg.Target = strings.ToLower(value)
	case "workers":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("workers must be an integer: %w", err)
		}
		cfg.Workers = n
	}
	return nil
}
