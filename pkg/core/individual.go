package core

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/XiaoConstantine/shinka-go/pkg/errors"
)

// Origin identifies how an individual entered the population. It is a closed
// set: nothing else in the system attaches free-form metadata to individuals.
type Origin int

const (
	// OriginSeed marks generation-zero individuals supplied at initialization.
	OriginSeed Origin = iota
	// OriginProposer marks children whose payload came from the mutation proposer.
	OriginProposer
	// OriginFill marks deterministic clones padded in by selection.
	OriginFill
)

var originNames = [...]string{"seed", "proposer", "fill"}

func (o Origin) String() string {
	if o < OriginSeed || o > OriginFill {
		return fmt.Sprintf("Origin(%d)", int(o))
	}
	return originNames[o]
}

// ParseOrigin maps a stored origin label back to its variant.
func ParseOrigin(s string) (Origin, error) {
	for i, name := range originNames {
		if name == s {
			return Origin(i), nil
		}
	}
	return OriginSeed, errors.New(errors.InvalidInput, fmt.Sprintf("unknown origin %q", s))
}

func (o Origin) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

func (o *Origin) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseOrigin(s)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// UnevaluatedFitness is the sentinel score of individuals the evaluator has
// not seen yet. A genuine score of zero is indistinguishable from the
// sentinel; such individuals are simply re-submitted next generation.
const UnevaluatedFitness = 0.0

// Individual is one candidate solution: an opaque payload, its fitness, and
// its place in the lineage. The engine never interprets the payload.
type Individual struct {
	ID         string    `json:"id"`
	Payload    string    `json:"payload"`
	Fitness    float64   `json:"fitness"`
	Generation int       `json:"generation"`
	Parent     Handle    `json:"parent"`
	Origin     Origin    `json:"origin"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewIndividual builds a parentless individual carrying payload.
func NewIndividual(payload string, generation int, origin Origin) *Individual {
	return &Individual{
		ID:         uuid.New().String(),
		Payload:    payload,
		Fitness:    UnevaluatedFitness,
		Generation: generation,
		Parent:     NoParent,
		Origin:     origin,
		CreatedAt:  time.Now(),
	}
}

// NewChild builds a descendant of parent carrying the proposed payload.
func NewChild(parent Handle, payload string, generation int, origin Origin) *Individual {
	ind := NewIndividual(payload, generation, origin)
	ind.Parent = parent
	return ind
}

// Evaluated reports whether the individual carries a real score.
func (i *Individual) Evaluated() bool {
	return i.Fitness != UnevaluatedFitness
}
