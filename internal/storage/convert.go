package storage

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/san-kum/synthfield/internal/field"
)

// ReadArchive loads fields from an .hdf5 file, an .npz archive, or a
// directory holding d.npy, vx.npy, vy.npy and vz.npy.
func ReadArchive(input string) (*field.Fields, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, err
	}

	lower := strings.ToLower(input)
	switch {
	case info.IsDir():
		return ReadNPYDir(input)
	case strings.HasSuffix(lower, npzExt):
		return ReadNPZ(input)
	case strings.HasSuffix(lower, hdf5Ext), strings.HasSuffix(lower, ".h5"):
		return ReadHDF5(input)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, input)
}

// Convert rewrites an .npz archive or .npy directory as an HDF5 file.
func Convert(input, output string) error {
	if strings.HasSuffix(strings.ToLower(input), hdf5Ext) {
		return fmt.Errorf("%w: %s is already hdf5", ErrUnknownFormat, input)
	}

	fs, err := ReadArchive(input)
	if err != nil {
		return err
	}
	if err := WriteHDF5(output, fs); err != nil {
		return err
	}

	slog.Info("converted", "input", input, "output", output, "n", fs.N())
	return nil
}
