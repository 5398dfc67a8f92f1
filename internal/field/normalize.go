package field

import "gonum.org/v1/gonum/stat"

// DefaultEps is the standard-deviation floor below which a field is treated
// as constant.
const DefaultEps = 1e-8

// Normalize returns (f - mean) / std using the population standard
// deviation. A field with std < eps maps to all zeros. eps <= 0 uses
// DefaultEps. f is not modified.
func Normalize(f *Field, eps float64) *Field {
	if eps <= 0 {
		eps = DefaultEps
	}

	out := NewField(f.N)
	if len(f.Data) == 0 {
		return out
	}

	mean, std := stat.PopMeanStdDev(f.Float64s(), nil)
	if std < eps {
		return out
	}

	for i, v := range f.Data {
		out.Data[i] = float32((float64(v) - mean) / std)
	}
	return out
}

// Normalize applies [Normalize] to each of the four fields independently.
func (fs *Fields) Normalize(eps float64) *Fields {
	return &Fields{
		D:  Normalize(fs.D, eps),
		VX: Normalize(fs.VX, eps),
		VY: Normalize(fs.VY, eps),
		VZ: Normalize(fs.VZ, eps),
	}
}

