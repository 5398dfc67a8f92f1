package field

import (
	"errors"
	"math"
	"testing"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"attractor", Attractor, true},
		{"Repeller", Repeller, true},
		{" attractor ", Attractor, true},
		{"sink", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if tt.ok && (err != nil || got != tt.want) {
			t.Errorf("ParseKind(%q): expected %v, got %v (%v)", tt.in, tt.want, got, err)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidKind) {
			t.Errorf("ParseKind(%q): expected ErrInvalidKind, got %v", tt.in, err)
		}
	}
}

func TestKindSigns(t *testing.T) {
	if Attractor.DensitySign() != 1 || Attractor.FlowSign() != -1 {
		t.Error("attractor should add density and flow inward")
	}
	if Repeller.DensitySign() != -1 || Repeller.FlowSign() != 1 {
		t.Error("repeller should remove density and flow outward")
	}
}

func TestKindText(t *testing.T) {
	text, err := Repeller.MarshalText()
	if err != nil || string(text) != "repeller" {
		t.Fatalf("marshal: %q %v", text, err)
	}

	var k Kind
	if err := k.UnmarshalText([]byte("attractor")); err != nil || k != Attractor {
		t.Errorf("unmarshal: %v %v", k, err)
	}
	if _, err := Kind(9).MarshalText(); !errors.Is(err, ErrInvalidKind) {
		t.Errorf("expected ErrInvalidKind, got %v", err)
	}
}

func TestNewSourceValidation(t *testing.T) {
	pos := [3]float64{1, 2, 3}

	if _, err := NewSource(pos, 0, 1, Attractor); !errors.Is(err, ErrInvalidSigma) {
		t.Errorf("zero sigma: expected ErrInvalidSigma, got %v", err)
	}
	if _, err := NewSource(pos, -1, 1, Attractor); !errors.Is(err, ErrInvalidSigma) {
		t.Errorf("negative sigma: expected ErrInvalidSigma, got %v", err)
	}
	if _, err := NewSource(pos, math.NaN(), 1, Attractor); !errors.Is(err, ErrInvalidSigma) {
		t.Errorf("nan sigma: expected ErrInvalidSigma, got %v", err)
	}
	if _, err := NewSource(pos, 1, 1, Kind(0)); !errors.Is(err, ErrInvalidKind) {
		t.Errorf("zero kind: expected ErrInvalidKind, got %v", err)
	}

	s, err := NewSource(pos, 2.5, 0.7, Repeller)
	if err != nil {
		t.Fatalf("valid source: %v", err)
	}
	if s.Position() != pos || s.Sigma() != 2.5 || s.Strength() != 0.7 || s.Kind() != Repeller {
		t.Errorf("accessors returned %v", s)
	}
}
