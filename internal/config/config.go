// Package config loads engine configuration from a YAML file. Every
// tunable threshold lives here; packages consume the typed sub-configs
// through the As* converters so defaults stay in one place.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/gate"
	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/integrity"
	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/reflection"
)

// #region config

// Config is the full engine configuration.
type Config struct {
	DBPath           string     `yaml:"db_path"`
	NearbyMarginDays int        `yaml:"nearby_margin_days"`
	Integrity        Integrity  `yaml:"integrity"`
	Reflection       Reflection `yaml:"reflection"`
	Gate             Gate       `yaml:"gate"`
}

// Integrity holds the advisory warning thresholds.
type Integrity struct {
	CoverageThreshold  float64 `yaml:"coverage_threshold"`
	ScopeCharThreshold int     `yaml:"scope_char_threshold"`
}

// Reflection holds the prompt validation thresholds.
type Reflection struct {
	MinWords       int `yaml:"min_words"`
	NgramSize      int `yaml:"ngram_size"`
	MinRepetitions int `yaml:"min_repetitions"`
}

// Gate holds the resolution gate window.
type Gate struct {
	MarginDays int `yaml:"margin_days"`
}

// #endregion config

// #region defaults

// Default returns the shipped thresholds.
func Default() Config {
	ic := integrity.DefaultConfig()
	rc := reflection.DefaultConfig()
	gc := gate.DefaultConfig()
	return Config{
		DBPath:           "guidebook.db",
		NearbyMarginDays: 7,
		Integrity: Integrity{
			CoverageThreshold:  ic.CoverageThreshold,
			ScopeCharThreshold: ic.ScopeCharThreshold,
		},
		Reflection: Reflection{
			MinWords:       rc.MinWords,
			NgramSize:      rc.NgramSize,
			MinRepetitions: rc.MinRepetitions,
		},
		Gate: Gate{MarginDays: gc.MarginDays},
	}
}

// #endregion defaults

// #region load

// Load reads a YAML config file, layering it over the defaults.
// A missing file yields the defaults without error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal %s: %w", path, err)
	}
	return cfg, nil
}

// #endregion load

// #region converters

// AsIntegrity returns the integrity package configuration.
func (c Config) AsIntegrity() integrity.Config {
	return integrity.Config{
		CoverageThreshold:  c.Integrity.CoverageThreshold,
		ScopeCharThreshold: c.Integrity.ScopeCharThreshold,
	}
}

// AsReflection returns the reflection package configuration.
func (c Config) AsReflection() reflection.Config {
	return reflection.Config{
		MinWords:       c.Reflection.MinWords,
		NgramSize:      c.Reflection.NgramSize,
		MinRepetitions: c.Reflection.MinRepetitions,
	}
}

// AsGate returns the gate package configuration.
func (c Config) AsGate() gate.Config {
	return gate.Config{MarginDays: c.Gate.MarginDays}
}

// #endregion converters
