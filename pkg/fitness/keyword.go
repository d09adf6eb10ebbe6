package fitness

import (
	"context"
	"strings"

	"golang.org/x/text/cases"

	"github.com/XiaoConstantine/shinka-go/pkg/core"
	"github.com/XiaoConstantine/shinka-go/pkg/errors"
)

// Keyword scores a payload by the fraction of required keywords it contains.
// Matching uses Unicode case folding, so it is caseless across scripts. The
// evaluator is deterministic and needs no external services.
type Keyword struct {
	keywords []string // pre-folded at construction
	original []string
}

var _ core.Evaluator = (*Keyword)(nil)

// NewKeyword creates a Keyword evaluator over the given required keywords.
func NewKeyword(keywords ...string) (*Keyword, error) {
	if len(keywords) == 0 {
		return nil, errors.New(errors.InvalidInput, "at least one keyword is required")
	}

	folder := cases.Fold()
	folded := make([]string, len(keywords))
	for i, kw := range keywords {
		folded[i] = folder.String(kw)
	}

	return &Keyword{
		keywords: folded,
		original: append([]string(nil), keywords...),
	}, nil
}

// Keywords returns the keywords as given at construction.
func (k *Keyword) Keywords() []string {
	return append([]string(nil), k.original...)
}

// Evaluate implements core.Evaluator.
func (k *Keyword) Evaluate(ctx context.Context, ind *core.Individual) (float64, error) {
	if err := errors.CheckContext(ctx, "fitness.Keyword"); err != nil {
		return 0, err
	}

	// A Caser is stateful, so fold with a fresh one per call.
	folded := cases.Fold().String(ind.Payload)

	hits := 0
	for _, kw := range k.keywords {
		if strings.Contains(folded, kw) {
			hits++
		}
	}
	return float64(hits) / float64(len(k.keywords)), nil
}
