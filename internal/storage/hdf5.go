package storage

import (
	"fmt"

	"github.com/san-kum/synthfield/internal/field"
	"gonum.org/v1/hdf5"
)

// WriteHDF5 writes the four fields as top-level float32 datasets d, vx, vy
// and vz, each with dims (N,N,N). An existing file is truncated.
func WriteHDF5(path string, fs *field.Fields) (err error) {
	if err := fs.Validate(); err != nil {
		return err
	}

	f, err := hdf5.CreateFile(path, hdf5.F_ACC_TRUNC)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	n := uint(fs.N())
	for i, name := range field.Names {
		if err := writeDataset(f, name, []uint{n, n, n}, fs.List()[i].Data); err != nil {
			return fmt.Errorf("writing dataset %s: %w", name, err)
		}
	}
	return nil
}

func writeDataset(f *hdf5.File, name string, dims []uint, data []float32) error {
	space, err := hdf5.CreateSimpleDataspace(dims, nil)
	if err != nil {
		return err
	}
	defer space.Close()

	dset, err := f.CreateDataset(name, hdf5.T_NATIVE_FLOAT, space)
	if err != nil {
		return err
	}
	defer dset.Close()

	return dset.Write(&data)
}

// ReadHDF5 loads the four datasets written by WriteHDF5. Each dataset must
// be a cube of the same resolution.
func ReadHDF5(path string) (*field.Fields, error) {
	f, err := hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	arrays := make(map[string][]float32, len(field.Names))
	n := -1
	for _, name := range field.Names {
		if !f.LinkExists(name) {
			return nil, fmt.Errorf("%w: %s in %s", ErrMissingDataset, name, path)
		}
		side, data, err := readDataset(f, name)
		if err != nil {
			return nil, fmt.Errorf("reading dataset %s: %w", name, err)
		}
		if n >= 0 && side != n {
			return nil, fmt.Errorf("dataset %s: %w", name, field.ErrShapeMismatch)
		}
		n = side
		arrays[name] = data
	}
	return field.FromMap(n, arrays)
}

func readDataset(f *hdf5.File, name string) (int, []float32, error) {
	dset, err := f.OpenDataset(name)
	if err != nil {
		return 0, nil, err
	}
	defer dset.Close()

	space := dset.Space()
	defer space.Close()

	dims, _, err := space.SimpleExtentDims()
	if err != nil {
		return 0, nil, err
	}
	side, err := cubeSide(dims)
	if err != nil {
		return 0, nil, err
	}

	data := make([]float32, side*side*side)
	if err := dset.Read(&data); err != nil {
		return 0, nil, err
	}
	return side, data, nil
}

func cubeSide(dims []uint) (int, error) {
	if len(dims) != 3 || dims[0] != dims[1] || dims[1] != dims[2] || dims[0] == 0 {
		return 0, fmt.Errorf("%w: expected (N,N,N), got %v", field.ErrShapeMismatch, dims)
	}
	return int(dims[0]), nil
}
