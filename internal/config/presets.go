package config

import (
	"sort"

	"github.com/san-kum/synthfield/internal/generate"
)

var Presets = map[string]func() *Config{
	"tiny": func() *Config {
		cfg := DefaultConfig()
		cfg.N, cfg.L = 16, 32.0
		return cfg
	},
	"default": DefaultConfig,
	"dipole": func() *Config {
		cfg := DefaultConfig()
		cfg.N, cfg.L = 64, 80.0
		cfg.Random = generate.RandomConfig{
			NumAttractors: 1,
			NumRepellers:  1,
			SigmaRange:    generate.Range{Min: 4, Max: 6},
			StrengthRange: generate.Range{Min: 1, Max: 1},
			Seed:          42,
		}
		return cfg
	},
	"crowded": func() *Config {
		cfg := DefaultConfig()
		cfg.N, cfg.L = 96, 160.0
		cfg.Random.NumAttractors = 8
		cfg.Random.NumRepellers = 4
		cfg.Random.SigmaRange = generate.Range{Min: 2, Max: 12}
		cfg.Workers = 4
		return cfg
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
