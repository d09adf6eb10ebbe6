package config

import (
	"testing"
	"time"

	"github.com/XiaoConstantine/shinka-go/pkg/core"
	"github.com/XiaoConstantine/shinka-go/pkg/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, NewValidator().ValidateConfig(GetDefaultConfig()))
}

func TestGetDefaultConfigMirrorsEngineDefaults(t *testing.T) {
	assert.Equal(t, engine.DefaultConfig(), GetDefaultConfig().Engine.ToEngine())
}

func TestEngineConfigToEngine(t *testing.T) {
	ec := EngineConfig{
		PopulationSize: 4,
		MaxGenerations: 9,
		EliteRatio:     0.5,
		MutationRate:   0.2,
		CrossoverRate:  0.3,
		TimeoutSeconds: 45,
	}

	got := ec.ToEngine()

	assert.Equal(t, 4, got.PopulationSize)
	assert.Equal(t, 9, got.MaxGenerations)
	assert.Equal(t, 0.5, got.EliteRatio)
	assert.Equal(t, 0.2, got.MutationRate)
	assert.Equal(t, 0.3, got.CrossoverRate)
	assert.Equal(t, 45*time.Second, got.Timeout)
}

func TestComputeConfigToContext(t *testing.T) {
	explicit := ComputeConfig{Target: "cuda", Workers: 8}.ToContext()
	assert.Equal(t, core.ComputeContext{Target: "cuda", Workers: 8}, explicit)

	detected := core.DetectCompute()
	assert.Equal(t, detected, ComputeConfig{}.ToContext())
}
