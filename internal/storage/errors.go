package storage

import "errors"

var (
	// ErrMissingDataset indicates an archive without one of d, vx, vy, vz.
	ErrMissingDataset = errors.New("storage: missing dataset")

	// ErrUnknownFormat indicates a conversion input that is neither an .npz
	// file nor a directory of .npy files.
	ErrUnknownFormat = errors.New("storage: unsupported input format")
)
