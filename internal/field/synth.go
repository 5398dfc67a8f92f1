package field

import "fmt"

// Options controls superposition and post-processing.
type Options struct {
	DensityScale  float64
	VelocityScale float64
	Normalize     bool
	// Eps is the normalization variance floor; <= 0 means DefaultEps.
	Eps    float64
	Kernel Kernel
	// Workers > 1 splits the grid into x-slabs. Output does not depend on it.
	Workers int
}

func DefaultOptions() Options {
	return Options{
		DensityScale:  1.0,
		VelocityScale: 1.0,
		Normalize:     true,
		Eps:           DefaultEps,
		Kernel:        NewRadialFlow(),
		Workers:       1,
	}
}

// Synthesize evaluates every source on the grid and accumulates the four
// fields. Each cell sums sources in slice order in float64, applies the
// scale, and is rounded to float32 once.
func Synthesize(grid *Grid, sources []Source, opts Options) (*Fields, error) {
	if grid == nil || grid.n <= 0 {
		return nil, ErrInvalidResolution
	}
	for i, s := range sources {
		if !s.kind.Valid() {
			return nil, &SourceError{Index: i, Wrapped: ErrInvalidKind}
		}
		if !(s.sigma > 0) {
			return nil, &SourceError{Index: i, Wrapped: ErrInvalidSigma}
		}
	}

	kernel := opts.Kernel
	if kernel == nil {
		kernel = NewRadialFlow()
	}

	n := grid.n
	fs := NewFields(n)

	ParallelFor(n, opts.Workers, func(start, end int) {
		for i := start; i < end; i++ {
			accumulateSlab(grid, sources, kernel, opts, fs, i)
		}
	})

	if opts.Normalize {
		fs = fs.Normalize(opts.Eps)
	}
	return fs, nil
}

func accumulateSlab(grid *Grid, sources []Source, kernel Kernel, opts Options, fs *Fields, i int) {
	n := grid.n
	x := grid.axis[i]
	for j := 0; j < n; j++ {
		y := grid.axis[j]
		base := (i*n + j) * n
		for k := 0; k < n; k++ {
			z := grid.axis[k]

			var acc Contribution
			for _, s := range sources {
				c := kernel.Contribute(x-s.pos[0], y-s.pos[1], z-s.pos[2], s)
				acc.D += c.D
				acc.VX += c.VX
				acc.VY += c.VY
				acc.VZ += c.VZ
			}

			idx := base + k
			fs.D.Data[idx] = float32(opts.DensityScale * acc.D)
			fs.VX.Data[idx] = float32(opts.VelocityScale * acc.VX)
			fs.VY.Data[idx] = float32(opts.VelocityScale * acc.VY)
			fs.VZ.Data[idx] = float32(opts.VelocityScale * acc.VZ)
		}
	}
}

// Describe returns a short human-readable summary of the options.
func (o Options) Describe() string {
	name := "radial"
	if o.Kernel != nil {
		name = o.Kernel.Name()
	}
	return fmt.Sprintf("kernel=%s density_scale=%g velocity_scale=%g normalize=%t",
		name, o.DensityScale, o.VelocityScale, o.Normalize)
}
