package costbasis

import (
	"fmt"

	"github.com/goccy/go-json"
)

// BasisConfidence tells whether a cost basis rests only on executed fill
// prices or partly on inferred valuations.
type BasisConfidence int

const (
	// Exact means every open lot was acquired at a fill price.
	Exact BasisConfidence = iota
	// Estimated means at least one open lot carries a best-effort valuation,
	// typically a deposit.
	Estimated
)

func (c BasisConfidence) String() string {
	switch c {
	case Exact:
		return "exact"
	case Estimated:
		return "estimated"
	default:
		return "unknown"
	}
}

// ParseBasisConfidence parses a string into a BasisConfidence.
func ParseBasisConfidence(s string) (BasisConfidence, error) {
	switch s {
	case "exact":
		return Exact, nil
	case "estimated":
		return Estimated, nil
	default:
		return 0, fmt.Errorf("unknown basis confidence: %q", s)
	}
}

// Weakest returns Estimated if either c or d is.
func (c BasisConfidence) Weakest(d BasisConfidence) BasisConfidence {
	if c == Estimated || d == Estimated {
		return Estimated
	}
	return Exact
}

func (c BasisConfidence) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *BasisConfidence) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseBasisConfidence(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}
