// Package storage persists generated samples: HDF5 and NPZ field archives,
// a JSON metadata sidecar and a CSV listing of the sources.
package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/san-kum/synthfield/internal/field"
	"github.com/san-kum/synthfield/internal/generate"
)

const (
	hdf5Ext    = ".hdf5"
	npzExt     = ".npz"
	metaExt    = ".json"
	sourcesExt = ".sources.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	if baseDir == "" {
		baseDir = "."
	}
	return &Store{baseDir: baseDir}
}

func (s *Store) Dir() string { return s.baseDir }

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type SaveOptions struct {
	Basename string
	HDF5     bool
	NPZ      bool
}

// Files lists the paths written for one sample, relative to the store.
type Files struct {
	HDF5    string `json:"hdf5,omitempty"`
	NPZ     string `json:"npz,omitempty"`
	Sources string `json:"sources"`
}

type SampleMetadata struct {
	ID            string                 `json:"id"`
	Timestamp     time.Time              `json:"timestamp"`
	N             int                    `json:"n"`
	L             float64                `json:"l"`
	Config        generate.RandomConfig  `json:"config"`
	Kernel        string                 `json:"kernel"`
	DensityScale  float64                `json:"density_scale"`
	VelocityScale float64                `json:"velocity_scale"`
	Normalize     bool                   `json:"normalize"`
	NumSources    int                    `json:"num_sources"`
	Files         Files                  `json:"files"`
	Stats         map[string]field.Stats `json:"stats"`
}

// Save writes the requested archives, the sources CSV and the metadata
// sidecar. The sample ID is the basename.
func (s *Store) Save(res *generate.Result, opts SaveOptions) (*SampleMetadata, error) {
	if opts.Basename == "" {
		return nil, fmt.Errorf("storage: empty basename")
	}
	if err := s.Init(); err != nil {
		return nil, err
	}

	kernel := "radial"
	if res.Options.Kernel != nil {
		kernel = res.Options.Kernel.Name()
	}

	meta := &SampleMetadata{
		ID:            opts.Basename,
		Timestamp:     time.Now(),
		N:             res.N,
		L:             res.L,
		Config:        res.Config,
		Kernel:        kernel,
		DensityScale:  res.Options.DensityScale,
		VelocityScale: res.Options.VelocityScale,
		Normalize:     res.Options.Normalize,
		NumSources:    len(res.Sources),
		Stats:         make(map[string]field.Stats, len(field.Names)),
	}
	for i, name := range field.Names {
		meta.Stats[name] = res.Fields.List()[i].Stats()
	}

	if opts.HDF5 {
		meta.Files.HDF5 = opts.Basename + hdf5Ext
		path := s.path(meta.Files.HDF5)
		if err := WriteHDF5(path, res.Fields); err != nil {
			return nil, err
		}
		slog.Info("saved hdf5", "path", path)
	}

	if opts.NPZ {
		meta.Files.NPZ = opts.Basename + npzExt
		path := s.path(meta.Files.NPZ)
		if err := WriteNPZ(path, res.Fields, nil); err != nil {
			return nil, err
		}
		slog.Info("saved npz", "path", path)
	}

	meta.Files.Sources = opts.Basename + sourcesExt
	if err := WriteSourcesCSV(s.path(meta.Files.Sources), res.Sources); err != nil {
		return nil, err
	}

	if err := s.writeMetadata(meta); err != nil {
		return nil, err
	}
	slog.Debug("saved metadata", "id", meta.ID, "dir", s.baseDir)
	return meta, nil
}

func (s *Store) writeMetadata(meta *SampleMetadata) error {
	f, err := os.Create(s.path(meta.ID + metaExt))
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return err
	}
	return f.Close()
}

// List returns every sample with a readable metadata sidecar, sorted by ID.
func (s *Store) List() ([]SampleMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SampleMetadata{}, nil
		}
		return nil, err
	}

	samples := make([]SampleMetadata, 0)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, metaExt) {
			continue
		}

		meta, err := s.Load(strings.TrimSuffix(name, metaExt))
		if err != nil {
			slog.Debug("skipping unreadable metadata", "file", name, "err", err)
			continue
		}
		samples = append(samples, *meta)
	}

	sort.Slice(samples, func(i, j int) bool { return samples[i].ID < samples[j].ID })
	return samples, nil
}

func (s *Store) Load(id string) (*SampleMetadata, error) {
	data, err := os.ReadFile(s.path(id + metaExt))
	if err != nil {
		return nil, err
	}

	var meta SampleMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadSources(id string) ([]field.Source, error) {
	return ReadSourcesCSV(s.path(id + sourcesExt))
}

// LoadFields reads the sample's HDF5 archive, falling back to NPZ.
func (s *Store) LoadFields(id string) (*field.Fields, error) {
	meta, err := s.Load(id)
	if err != nil {
		return nil, err
	}
	if meta.Files.HDF5 != "" {
		return ReadHDF5(s.path(meta.Files.HDF5))
	}
	if meta.Files.NPZ != "" {
		return ReadNPZ(s.path(meta.Files.NPZ))
	}
	return nil, fmt.Errorf("%w: sample %s has no field archive", ErrMissingDataset, id)
}

func (s *Store) path(name string) string {
	return filepath.Join(s.baseDir, name)
}
