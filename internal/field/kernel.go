package field

import (
	"fmt"
	"math"
)

// Softening is added to the squared radius in the radial-flow kernel so the
// velocity stays finite at the source position.
const Softening = 1e-6

// Contribution is one source's value at one grid point.
type Contribution struct {
	D, VX, VY, VZ float64
}

// Kernel shapes a single source's contribution given the offset
// (dx, dy, dz) = point - source position.
type Kernel interface {
	Name() string
	Contribute(dx, dy, dz float64, s Source) Contribution
}

// RadialFlow is the default kernel: a Gaussian density bump that ignores
// strength, and an inverse-square radial velocity scaled by strength.
type RadialFlow struct{}

func NewRadialFlow() *RadialFlow { return &RadialFlow{} }

func (RadialFlow) Name() string { return "radial" }

func (RadialFlow) Contribute(dx, dy, dz float64, s Source) Contribution {
	d2 := dx*dx + dy*dy + dz*dz
	density := s.kind.DensitySign() * math.Exp(-d2/(2*s.sigma*s.sigma))

	r2 := d2 + Softening
	r3 := math.Sqrt(r2) * r2
	coeff := s.kind.FlowSign() * s.strength / r3

	return Contribution{
		D:  density,
		VX: coeff * dx,
		VY: coeff * dy,
		VZ: coeff * dz,
	}
}

// GaussianGradient is the alternate kernel. The potential is
// phi = sign·strength·G, the velocity is -sign·strength·∇G and the density
// is sign·phi. It is never selected by default.
type GaussianGradient struct{}

func NewGaussianGradient() *GaussianGradient { return &GaussianGradient{} }

func (GaussianGradient) Name() string { return "gradient" }

func (GaussianGradient) Contribute(dx, dy, dz float64, s Source) Contribution {
	sign := s.kind.DensitySign()
	s2 := s.sigma * s.sigma
	g := math.Exp(-(dx*dx + dy*dy + dz*dz) / (2 * s2))
	phi := sign * s.strength * g

	// grad G = -(delta / sigma^2) G
	coeff := -sign * s.strength * (-g / s2)
	return Contribution{
		D:  sign * phi,
		VX: coeff * dx,
		VY: coeff * dy,
		VZ: coeff * dz,
	}
}

// KernelByName resolves "radial" or "gradient".
func KernelByName(name string) (Kernel, error) {
	switch name {
	case "", "radial":
		return NewRadialFlow(), nil
	case "gradient":
		return NewGaussianGradient(), nil
	}
	return nil, fmt.Errorf("unknown kernel: %s (available: radial, gradient)", name)
}
