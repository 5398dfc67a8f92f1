// Package config loads and validates generation settings.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/san-kum/synthfield/internal/field"
	"github.com/san-kum/synthfield/internal/generate"
	"gopkg.in/yaml.v3"
)

const (
	DefaultN             = 128
	DefaultL             = 160.0
	DefaultVelocityScale = 1.0
	DefaultDensityScale  = 1.0
	DefaultKernel        = "radial"
	DefaultOutputDir     = "output"
	DefaultWorkers       = 1
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	N             int                   `yaml:"n"`
	L             float64               `yaml:"l"`
	Random        generate.RandomConfig `yaml:"random"`
	VelocityScale float64               `yaml:"velocity_scale"`
	DensityScale  float64               `yaml:"density_scale"`
	Normalize     bool                  `yaml:"normalize"`
	Kernel        string                `yaml:"kernel"`
	Workers       int                   `yaml:"workers"`
	Output        OutputConfig          `yaml:"output"`
}

type OutputConfig struct {
	Dir      string `yaml:"dir"`
	Basename string `yaml:"basename"`
	HDF5     bool   `yaml:"hdf5"`
	NPZ      bool   `yaml:"npz"`
}

func DefaultConfig() *Config {
	return &Config{
		N:             DefaultN,
		L:             DefaultL,
		Random:        generate.DefaultRandomConfig(),
		VelocityScale: DefaultVelocityScale,
		DensityScale:  DefaultDensityScale,
		Normalize:     true,
		Kernel:        DefaultKernel,
		Workers:       DefaultWorkers,
		Output: OutputConfig{
			Dir:  DefaultOutputDir,
			HDF5: true,
		},
	}
}

// Load reads a YAML file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate fails fast on settings the synthesizer cannot use.
func (c *Config) Validate() error {
	if c.N <= 0 {
		return fmt.Errorf("%w: n must be positive, got %d", ErrInvalidConfig, c.N)
	}
	if !(c.L > 0) || math.IsInf(c.L, 0) {
		return fmt.Errorf("%w: l must be positive, got %v", ErrInvalidConfig, c.L)
	}
	if err := c.Random.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if math.IsNaN(c.VelocityScale) || math.IsNaN(c.DensityScale) {
		return fmt.Errorf("%w: scales must be numbers", ErrInvalidConfig)
	}
	if _, err := field.KernelByName(c.Kernel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be non-negative, got %d", ErrInvalidConfig, c.Workers)
	}
	if !c.Output.HDF5 && !c.Output.NPZ {
		return fmt.Errorf("%w: at least one of hdf5 or npz output must be enabled", ErrInvalidConfig)
	}
	return nil
}

// FieldOptions translates the config into synthesizer options.
func (c *Config) FieldOptions() (field.Options, error) {
	kernel, err := field.KernelByName(c.Kernel)
	if err != nil {
		return field.Options{}, err
	}
	opts := field.DefaultOptions()
	opts.DensityScale = c.DensityScale
	opts.VelocityScale = c.VelocityScale
	opts.Normalize = c.Normalize
	opts.Kernel = kernel
	opts.Workers = c.Workers
	return opts, nil
}

// Basename returns the explicit output basename or the derived default
// N{N}_L{int(L)}_A{a}_R{r}_seed{seed}.
func (c *Config) Basename() string {
	if c.Output.Basename != "" {
		return c.Output.Basename
	}
	return DefaultBasename(c.N, c.L, c.Random.NumAttractors, c.Random.NumRepellers, c.Random.Seed)
}

// DefaultBasename truncates l toward zero.
func DefaultBasename(n int, l float64, attractors, repellers int, seed uint64) string {
	return fmt.Sprintf("N%d_L%d_A%d_R%d_seed%d", n, int(l), attractors, repellers, seed)
}
