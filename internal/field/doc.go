// Package field synthesizes toy 3D density and velocity fields from point
// sources on a regular grid.
//
// The package defines the core types and operations:
//
//   - [Grid]: the N×N×N coordinate lattice over [0, L)
//   - [Source]: an immutable attractor or repeller
//   - [Kernel]: the per-source contribution shape
//   - [Field]: a single-precision N×N×N array in ij order
//   - [Synthesize]: superposition of all sources into four fields
//   - [Normalize]: zero mean, unit variance rescaling
//
// # Example
//
//	grid, _ := field.NewGrid(64, 100)
//	src, _ := field.NewSource([3]float64{10, 20, 30}, 4, 1, field.Attractor)
//	fs, _ := field.Synthesize(grid, []field.Source{src}, field.DefaultOptions())
//
// # Determinism
//
// Every cell sums its sources in slice order in float64 and is rounded to
// float32 exactly once, so results are bit-identical for identical inputs
// regardless of [Options.Workers].
package field
