package fitness

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XiaoConstantine/shinka-go/pkg/core"
	"github.com/XiaoConstantine/shinka-go/pkg/errors"
)

func testIndividual(payload string) *core.Individual {
	return core.NewIndividual(payload, 0, core.OriginSeed)
}

func TestNewSuiteValidation(t *testing.T) {
	runner := func(ctx context.Context, payload, input string) (string, error) {
		return input, nil
	}

	_, err := NewSuite([]Case{{Input: "a"}}, nil)
	require.Error(t, err)
	assert.Equal(t, errors.InvalidInput, errors.Code(err))

	_, err = NewSuite(nil, runner)
	require.Error(t, err)
	assert.Equal(t, errors.InvalidInput, errors.Code(err))

	suite, err := NewSuite([]Case{{Input: "a", Expected: "a"}}, runner)
	require.NoError(t, err)
	assert.Equal(t, 1, suite.Len())
}

func TestSuiteAveragesCaseScores(t *testing.T) {
	cases := []Case{
		{Input: "1", Expected: "ok-1"},
		{Input: "2", Expected: "ok-2"},
		{Input: "3", Expected: "wrong"},
		{Input: "4", Expected: "wrong"},
	}
	runner := func(ctx context.Context, payload, input string) (string, error) {
		return "ok-" + input, nil
	}

	suite, err := NewSuite(cases, runner)
	require.NoError(t, err)

	score, err := suite.Evaluate(context.Background(), testIndividual("p"))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, score, 1e-9)
}

func TestSuitePassesPayloadToRunner(t *testing.T) {
	runner := func(ctx context.Context, payload, input string) (string, error) {
		return payload + ":" + input, nil
	}
	suite, err := NewSuite([]Case{{Input: "in", Expected: "pay:in"}}, runner)
	require.NoError(t, err)

	score, err := suite.Evaluate(context.Background(), testIndividual("pay"))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestSuiteScoresFailedCaseAsZero(t *testing.T) {
	cases := []Case{
		{Input: "good", Expected: "good"},
		{Input: "bad", Expected: "bad"},
	}
	runner := func(ctx context.Context, payload, input string) (string, error) {
		if input == "bad" {
			return "", fmt.Errorf("runner crashed")
		}
		return input, nil
	}

	suite, err := NewSuite(cases, runner)
	require.NoError(t, err)

	score, err := suite.Evaluate(context.Background(), testIndividual("p"))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, score, 1e-9)
}

func TestSuiteFailsWhenEveryCaseFails(t *testing.T) {
	runner := func(ctx context.Context, payload, input string) (string, error) {
		return "", fmt.Errorf("runner crashed")
	}
	suite, err := NewSuite([]Case{{Input: "a"}, {Input: "b"}}, runner)
	require.NoError(t, err)

	_, err = suite.Evaluate(context.Background(), testIndividual("p"))
	require.Error(t, err)
	assert.Equal(t, errors.EvaluationFailed, errors.Code(err))
}

func TestSuiteBoundsParallelism(t *testing.T) {
	var mu sync.Mutex
	current, peak := 0, 0

	cases := make([]Case, 16)
	for i := range cases {
		cases[i] = Case{Input: fmt.Sprintf("%d", i), Expected: fmt.Sprintf("%d", i)}
	}
	runner := func(ctx context.Context, payload, input string) (string, error) {
		mu.Lock()
		current++
		if current > peak {
			peak = current
		}
		mu.Unlock()

		time.Sleep(5 * time.Millisecond)

		mu.Lock()
		current--
		mu.Unlock()
		return input, nil
	}

	suite, err := NewSuite(cases, runner, WithWorkers(2))
	require.NoError(t, err)

	score, err := suite.Evaluate(context.Background(), testIndividual("p"))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-9)
	assert.LessOrEqual(t, peak, 2)
}

func TestSuiteCustomScorer(t *testing.T) {
	halfCredit := func(got, want string) float64 {
		if got == want {
			return 1
		}
		if strings.Contains(got, want) {
			return 0.5
		}
		return 0
	}
	runner := func(ctx context.Context, payload, input string) (string, error) {
		return "around " + input + " somewhere", nil
	}

	suite, err := NewSuite([]Case{{Input: "x", Expected: "x"}}, runner, WithScorer(halfCredit))
	require.NoError(t, err)

	score, err := suite.Evaluate(context.Background(), testIndividual("p"))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, score, 1e-9)
}

func TestSuiteCanceledContext(t *testing.T) {
	runner := func(ctx context.Context, payload, input string) (string, error) {
		return input, nil
	}
	suite, err := NewSuite([]Case{{Input: "a", Expected: "a"}}, runner)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = suite.Evaluate(ctx, testIndividual("p"))
	require.Error(t, err)
	assert.Equal(t, errors.Canceled, errors.Code(err))
}

func TestExactMatch(t *testing.T) {
	tests := []struct {
		got, want string
		score     float64
	}{
		{"42", "42", 1},
		{" 42 \n", "42", 1},
		{"41", "42", 0},
		{"", "", 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.score, ExactMatch(tt.got, tt.want))
	}
}
