package config

// GetDefaultConfig returns a fully populated configuration that validates
// cleanly. Engine values track engine.DefaultConfig; proposer values track
// the proposer package defaults.
func GetDefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			PopulationSize: 10,
			MaxGenerations: 50,
			EliteRatio:     0.2,
			MutationRate:   0.1,
			CrossoverRate:  0.5,
			TimeoutSeconds: 300,
		},
		Proposer: ProposerConfig{
			Provider:    "none",
			Model:       "",
			APIKey:      "",
			MaxTokens:   8192,
			Temperature: 0.5,
			MaxRetries:  2,
		},
		Logging: LoggingConfig{
			Level:    "INFO",
			File:     "",
			UseColor: false,
		},
		Storage: StorageConfig{
			Path: "",
		},
		Compute: ComputeConfig{
			Target:  "",
			Workers: 0,
		},
	}
}
