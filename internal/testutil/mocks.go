// Package testutil holds shared mocks for tests across packages.
package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/XiaoConstantine/shinka-go/pkg/engine"
	"github.com/XiaoConstantine/shinka-go/pkg/proposer"
)

// MockGenerator is a mock implementation of proposer.Generator.
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string, opts ...proposer.GenerateOption) (string, error) {
	args := m.Called(ctx, prompt, opts)
	return args.String(0), args.Error(1)
}

// MockRecorder is a mock implementation of engine.Recorder.
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) BeginRun(ctx context.Context, info engine.RunInfo) error {
	args := m.Called(ctx, info)
	return args.Error(0)
}

func (m *MockRecorder) RecordGeneration(ctx context.Context, rec engine.GenerationRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockRecorder) EndRun(ctx context.Context, result engine.RunResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}
