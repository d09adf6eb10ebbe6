package logging

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.jsonl")

	out, err := NewFileOutput(path)
	require.NoError(t, err)

	gen := 4
	entries := []LogEntry{
		{
			Time:       time.Now().UnixNano(),
			Severity:   INFO,
			Message:    "evaluating population",
			File:       "engine.go",
			Line:       101,
			RunID:      "run-1",
			Generation: gen,
		},
		{
			Time:       time.Now().UnixNano(),
			Severity:   WARN,
			Message:    "mutation skipped",
			File:       "engine.go",
			Line:       150,
			Generation: -1,
			Fields:     map[string]interface{}{"reason": "no parent"},
		},
	}

	for _, e := range entries {
		require.NoError(t, out.Write(e))
	}
	require.NoError(t, out.Sync())
	require.NoError(t, out.Close())

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	var decoded []fileEntry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var fe fileEntry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &fe))
		decoded = append(decoded, fe)
	}
	require.NoError(t, scanner.Err())
	require.Len(t, decoded, 2)

	assert.Equal(t, "INFO", decoded[0].Severity)
	assert.Equal(t, "run-1", decoded[0].RunID)
	require.NotNil(t, decoded[0].Generation)
	assert.Equal(t, gen, *decoded[0].Generation)

	// Entries outside a run omit the generation field entirely
	assert.Nil(t, decoded[1].Generation)
	assert.Equal(t, "no parent", decoded[1].Fields["reason"])
}

func TestConsoleOutputFormatting(t *testing.T) {
	entry := LogEntry{
		Time:       time.Now().UnixNano(),
		Severity:   INFO,
		Message:    "selection complete",
		File:       "selection.go",
		Line:       33,
		RunID:      "run-9",
		Generation: 2,
	}

	path := filepath.Join(t.TempDir(), "console.txt")
	file, err := os.Create(path)
	require.NoError(t, err)

	out := &ConsoleOutput{writer: file, color: false}
	require.NoError(t, out.Write(entry))
	require.NoError(t, out.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	line := string(data)
	assert.Contains(t, line, "selection complete")
	assert.Contains(t, line, "[selection.go:33]")
	assert.Contains(t, line, "[run=run-9]")
	assert.Contains(t, line, "[gen=2]")
	assert.NotContains(t, line, "\033[")
}
