package field

import (
	"fmt"
	"math"
	"strings"
)

// Kind selects the sign of a source's contribution.
type Kind int

const (
	Attractor Kind = iota + 1
	Repeller
)

func (k Kind) String() string {
	switch k {
	case Attractor:
		return "attractor"
	case Repeller:
		return "repeller"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (k Kind) Valid() bool {
	return k == Attractor || k == Repeller
}

// ParseKind accepts "attractor" or "repeller", case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "attractor":
		return Attractor, nil
	case "repeller":
		return Repeller, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, ErrInvalidKind
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// DensitySign is +1 for attractors and -1 for repellers.
func (k Kind) DensitySign() float64 {
	if k == Repeller {
		return -1
	}
	return 1
}

// FlowSign is -1 for attractors (inward flow) and +1 for repellers.
func (k Kind) FlowSign() float64 {
	return -k.DensitySign()
}

// Source is an immutable attractor or repeller.
type Source struct {
	pos      [3]float64
	sigma    float64
	strength float64
	kind     Kind
}

// NewSource validates and builds a source. Strength is expected to be
// non-negative but is not checked.
func NewSource(pos [3]float64, sigma, strength float64, kind Kind) (Source, error) {
	if !kind.Valid() {
		return Source{}, ErrInvalidKind
	}
	if !(sigma > 0) || math.IsInf(sigma, 0) {
		return Source{}, fmt.Errorf("%w: got %v", ErrInvalidSigma, sigma)
	}
	return Source{pos: pos, sigma: sigma, strength: strength, kind: kind}, nil
}

func (s Source) Position() [3]float64 { return s.pos }
func (s Source) Sigma() float64       { return s.sigma }
func (s Source) Strength() float64    { return s.strength }
func (s Source) Kind() Kind           { return s.kind }

func (s Source) String() string {
	return fmt.Sprintf("kind=%s pos=(%.2f,%.2f,%.2f) sigma=%.2f strength=%.2f",
		s.kind, s.pos[0], s.pos[1], s.pos[2], s.sigma, s.strength)
}
