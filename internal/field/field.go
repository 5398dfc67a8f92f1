package field

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Field is an N×N×N single-precision array. Cell (i,j,k) lives at flat
// index (i·N+j)·N+k.
type Field struct {
	N    int
	Data []float32
}

func NewField(n int) *Field {
	return &Field{N: n, Data: make([]float32, n*n*n)}
}

func (f *Field) Shape() [3]int { return [3]int{f.N, f.N, f.N} }
func (f *Field) Len() int      { return len(f.Data) }

func (f *Field) Index(i, j, k int) int {
	return (i*f.N+j)*f.N + k
}

func (f *Field) At(i, j, k int) float32 {
	return f.Data[f.Index(i, j, k)]
}

// Unravel converts a flat index back to (i,j,k).
func (f *Field) Unravel(idx int) (i, j, k int) {
	k = idx % f.N
	j = (idx / f.N) % f.N
	i = idx / (f.N * f.N)
	return
}

func (f *Field) Clone() *Field {
	c := &Field{N: f.N, Data: make([]float32, len(f.Data))}
	copy(c.Data, f.Data)
	return c
}

// Equal reports bit-level equality of shape and contents.
func (f *Field) Equal(other *Field) bool {
	if other == nil || f.N != other.N || len(f.Data) != len(other.Data) {
		return false
	}
	for i, v := range f.Data {
		if math.Float32bits(v) != math.Float32bits(other.Data[i]) {
			return false
		}
	}
	return true
}

// Float64s widens the data for statistics.
func (f *Field) Float64s() []float64 {
	out := make([]float64, len(f.Data))
	for i, v := range f.Data {
		out[i] = float64(v)
	}
	return out
}

// IsFinite reports whether every cell is neither NaN nor Inf.
func (f *Field) IsFinite() bool {
	for _, v := range f.Data {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return false
		}
	}
	return true
}

// ArgMax returns the cell holding the largest value. Ties resolve to the
// lowest flat index.
func (f *Field) ArgMax() (i, j, k int) {
	if len(f.Data) == 0 {
		return 0, 0, 0
	}
	return f.Unravel(floats.MaxIdx(f.Float64s()))
}

// Stats summarizes a field.
type Stats struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

func (f *Field) Stats() Stats {
	if len(f.Data) == 0 {
		return Stats{}
	}
	xs := f.Float64s()
	mean, std := stat.PopMeanStdDev(xs, nil)
	return Stats{
		Min:  floats.Min(xs),
		Max:  floats.Max(xs),
		Mean: mean,
		Std:  std,
	}
}

// Fields is the synthesized quartet. All four share the same resolution.
type Fields struct {
	D  *Field
	VX *Field
	VY *Field
	VZ *Field
}

// Names are the dataset names used by persistence, in canonical order.
var Names = [4]string{"d", "vx", "vy", "vz"}

func NewFields(n int) *Fields {
	return &Fields{D: NewField(n), VX: NewField(n), VY: NewField(n), VZ: NewField(n)}
}

// N returns the shared resolution.
func (fs *Fields) N() int { return fs.D.N }

// List returns the fields in the order of [Names].
func (fs *Fields) List() [4]*Field {
	return [4]*Field{fs.D, fs.VX, fs.VY, fs.VZ}
}

// ByName returns the field for a dataset name, or nil.
func (fs *Fields) ByName(name string) *Field {
	for i, n := range Names {
		if n == name {
			return fs.List()[i]
		}
	}
	return nil
}

// FromMap assembles fields from named arrays of shape (n,n,n).
func FromMap(n int, arrays map[string][]float32) (*Fields, error) {
	fs := &Fields{}
	out := [4]**Field{&fs.D, &fs.VX, &fs.VY, &fs.VZ}
	for i, name := range Names {
		data, ok := arrays[name]
		if !ok || len(data) != n*n*n {
			return nil, ErrShapeMismatch
		}
		*out[i] = &Field{N: n, Data: data}
	}
	return fs, nil
}

// Validate checks the shared-shape invariant.
func (fs *Fields) Validate() error {
	if fs.D == nil {
		return ErrShapeMismatch
	}
	for _, f := range fs.List() {
		if f == nil || f.N != fs.D.N || len(f.Data) != f.N*f.N*f.N {
			return ErrShapeMismatch
		}
	}
	return nil
}

func (fs *Fields) Equal(other *Fields) bool {
	a, b := fs.List(), other.List()
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
