package fitness

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenF1(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
		f1   float64
	}{
		{"identical", "the answer is 42", "the answer is 42", 1.0},
		{"disjoint", "red green", "blue yellow", 0.0},
		{"partial overlap", "a b c", "a b", 0.8},
		{"both empty", "", "", 1.0},
		{"got empty", "", "a b", 0.0},
		{"want empty", "a b", "", 0.0},
		{"multiplicity respected", "a a", "a", 2.0 / 3.0},
		{"order ignored", "b a", "a b", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.f1, TokenF1(tt.got, tt.want), 1e-9)
		})
	}
}

func TestContains(t *testing.T) {
	assert.Equal(t, 1.0, Contains("The answer is 7.", "7"))
	assert.Equal(t, 0.0, Contains("The answer is 7.", "8"))
	assert.Equal(t, 1.0, Contains("42", "42"))
	assert.Equal(t, 0.0, Contains("anything", ""))
}

func TestTokenF1AsSuiteScorer(t *testing.T) {
	var _ Scorer = TokenF1
	var _ Scorer = Contains
}
