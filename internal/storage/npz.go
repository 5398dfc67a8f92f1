package storage

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/san-kum/synthfield/internal/field"
	"github.com/sbinet/npyio"
	"github.com/sbinet/npyio/npz"
)

// shapeKey holds the (N,N,N) dims, since arrays are stored flat.
const shapeKey = "shape"

// WriteNPZ writes the four fields plus any extra float32 arrays to a
// compressed archive. Arrays are stored flat with their dims under "shape".
func WriteNPZ(path string, fs *field.Fields, extra map[string][]float32) (err error) {
	if err := fs.Validate(); err != nil {
		return err
	}

	w, err := npz.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := w.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	n := int64(fs.N())
	if err := w.Write(shapeKey+".npy", []int64{n, n, n}); err != nil {
		return err
	}
	for i, name := range field.Names {
		if err := w.Write(name+".npy", fs.List()[i].Data); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}

	names := make([]string, 0, len(extra))
	for name := range extra {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if fs.ByName(name) != nil || name == shapeKey {
			return fmt.Errorf("extra array %q collides with a reserved name", name)
		}
		if err := w.Write(name+".npy", extra[name]); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}
	return nil
}

// ReadNPZ loads d, vx, vy and vz from an archive written by WriteNPZ or by
// numpy with (N,N,N) arrays.
func ReadNPZ(path string) (*field.Fields, error) {
	r, err := npz.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer r.Close()

	keys := make(map[string]string)
	for _, k := range r.Keys() {
		keys[strings.TrimSuffix(k, ".npy")] = k
	}

	var dims []int
	if key, ok := keys[shapeKey]; ok {
		var shape []int64
		if err := r.Read(key, &shape); err != nil {
			return nil, fmt.Errorf("reading shape: %w", err)
		}
		for _, d := range shape {
			dims = append(dims, int(d))
		}
	}

	arrays := make(map[string][]float32, len(field.Names))
	n := -1
	for _, name := range field.Names {
		key, ok := keys[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s in %s", ErrMissingDataset, name, path)
		}
		var data []float32
		if err := r.Read(key, &data); err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		shape := dims
		if hdr := r.Header(key); hdr != nil && len(hdr.Descr.Shape) == 3 {
			shape = hdr.Descr.Shape
		}
		side, err := sideFor(shape, len(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if n >= 0 && side != n {
			return nil, fmt.Errorf("%s: %w", name, field.ErrShapeMismatch)
		}
		n = side
		arrays[name] = data
	}
	return field.FromMap(n, arrays)
}

// ReadNPYDir loads d.npy, vx.npy, vy.npy and vz.npy from dir.
func ReadNPYDir(dir string) (*field.Fields, error) {
	arrays := make(map[string][]float32, len(field.Names))
	n := -1
	for _, name := range field.Names {
		path := filepath.Join(dir, name+".npy")
		side, data, err := readNPY(path)
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingDataset, path)
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		if n >= 0 && side != n {
			return nil, fmt.Errorf("%s: %w", path, field.ErrShapeMismatch)
		}
		n = side
		arrays[name] = data
	}
	return field.FromMap(n, arrays)
}

func readNPY(path string) (int, []float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, nil, err
	}
	defer f.Close()

	r, err := npyio.NewReader(f)
	if err != nil {
		return 0, nil, err
	}
	var data []float32
	if err := r.Read(&data); err != nil {
		return 0, nil, err
	}
	side, err := sideFor(r.Header.Descr.Shape, len(data))
	if err != nil {
		return 0, nil, err
	}
	return side, data, nil
}

// sideFor resolves the cube side from explicit dims, or from the element
// count of a flat array.
func sideFor(shape []int, count int) (int, error) {
	if len(shape) == 3 {
		if shape[0] != shape[1] || shape[1] != shape[2] || shape[0]*shape[1]*shape[2] != count {
			return 0, fmt.Errorf("%w: expected (N,N,N), got %v", field.ErrShapeMismatch, shape)
		}
		return shape[0], nil
	}
	side := int(math.Round(math.Cbrt(float64(count))))
	if side <= 0 || side*side*side != count {
		return 0, fmt.Errorf("%w: %d elements is not a cube", field.ErrShapeMismatch, count)
	}
	return side, nil
}
