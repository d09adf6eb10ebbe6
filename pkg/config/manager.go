package config

import (
	"sort"
	"sync"
)

// Manager loads and holds the active configuration. Defaults are applied
// first, then each source in ascending priority order, then the result is
// validated.
type Manager struct {
	mu         sync.RWMutex
	config     *Config
	configPath string
	sources    []Source
	discovery  *Discovery
}

// ManagerOption customizes a Manager.
type ManagerOption func(*Manager)

// WithConfigPath pins loading to one explicit config file, skipping
// discovery. Loading fails if the file cannot be read.
func WithConfigPath(path string) ManagerOption {
	return func(m *Manager) { m.configPath = path }
}

// WithSources replaces the default file and environment sources.
func WithSources(sources ...Source) ManagerOption {
	return func(m *Manager) { m.sources = sources }
}

// WithDiscovery replaces the default file discovery.
func WithDiscovery(d *Discovery) ManagerOption {
	return func(m *Manager) { m.discovery = d }
}

// NewManager creates a manager with file and environment sources.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		sources:   []Source{NewFileSource(""), NewEnvironmentSource()},
		discovery: NewDiscovery(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load builds the configuration from defaults, sources, and validation.
// The loaded config is retained for Get.
func (m *Manager) Load() (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	config := GetDefaultConfig()

	var searchPaths []string
	if m.configPath != "" {
		searchPaths = []string{m.configPath}
	} else if m.discovery != nil {
		searchPaths = m.discovery.Discover()
	}

	sources := make([]Source, len(m.sources))
	copy(sources, m.sources)
	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].Priority() < sources[j].Priority()
	})

	for _, source := range sources {
		if err := source.Load(config, searchPaths); err != nil {
			return nil, err
		}
	}

	if err := NewValidator().ValidateConfig(config); err != nil {
		return nil, err
	}

	m.config = config
	return config, nil
}

// Get returns the last loaded config, or defaults if Load has not run.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.config == nil {
		return GetDefaultConfig()
	}
	return m.config
}
