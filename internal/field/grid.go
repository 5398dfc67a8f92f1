package field

import "math"

// Grid is the cubic lattice of N samples per axis covering [0, L).
// All three axes share the same spacing, so only one axis is stored.
type Grid struct {
	n    int
	l    float64
	axis []float64
}

// NewGrid builds the lattice for resolution n and box size l. Cell (i,j,k)
// sits at (i·l/n, j·l/n, k·l/n); the right endpoint l is excluded.
func NewGrid(n int, l float64) (*Grid, error) {
	if n <= 0 {
		return nil, ErrInvalidResolution
	}
	if !(l > 0) || math.IsInf(l, 0) {
		return nil, ErrInvalidBoxSize
	}

	axis := make([]float64, n)
	for i := range axis {
		axis[i] = float64(i) * l / float64(n)
	}
	return &Grid{n: n, l: l, axis: axis}, nil
}

func (g *Grid) N() int              { return g.n }
func (g *Grid) L() float64          { return g.l }
func (g *Grid) Spacing() float64    { return g.l / float64(g.n) }
func (g *Grid) Shape() [3]int       { return [3]int{g.n, g.n, g.n} }
func (g *Grid) Coord(i int) float64 { return g.axis[i] }

// Axis returns a copy of the per-axis sample positions.
func (g *Grid) Axis() []float64 {
	out := make([]float64, len(g.axis))
	copy(out, g.axis)
	return out
}

// Point returns the physical position of cell (i,j,k).
func (g *Grid) Point(i, j, k int) [3]float64 {
	return [3]float64{g.axis[i], g.axis[j], g.axis[k]}
}

// Nearest returns the lattice index closest to coordinate x along one axis,
// clamped to [0, N).
func (g *Grid) Nearest(x float64) int {
	idx := int(math.Round(x / g.Spacing()))
	if idx < 0 {
		return 0
	}
	if idx >= g.n {
		return g.n - 1
	}
	return idx
}

// Coordinates materializes the three ij-indexed coordinate arrays, each of
// shape (N,N,N). X varies with the first index, Y with the second, Z with
// the third.
func (g *Grid) Coordinates() (x, y, z *Field) {
	x, y, z = NewField(g.n), NewField(g.n), NewField(g.n)
	idx := 0
	for i := 0; i < g.n; i++ {
		for j := 0; j < g.n; j++ {
			for k := 0; k < g.n; k++ {
				x.Data[idx] = float32(g.axis[i])
				y.Data[idx] = float32(g.axis[j])
				z.Data[idx] = float32(g.axis[k])
				idx++
			}
		}
	}
	return x, y, z
}
