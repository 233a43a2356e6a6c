// Package config provides the YAML configuration of the emulsim CLI.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alexshd/emulsion"
)

// Environment variables that override file settings.
const (
	EnvLogLevel = "EMULSIM_LOG_LEVEL"
	EnvCatalog  = "EMULSIM_CATALOG"
	EnvStarts   = "EMULSIM_STARTS"
)

// Config holds all emulsim configuration.
type Config struct {
	Composition CompositionConfig `yaml:"composition"`
	Stability   StabilityConfig   `yaml:"stability"`
	Optimizer   OptimizerConfig   `yaml:"optimizer"`
	Catalog     CatalogConfig     `yaml:"catalog"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// CompositionConfig configures interactive formulation validation.
type CompositionConfig struct {
	AqueousFloor float64 `yaml:"aqueous_floor"`
	Tolerance    float64 `yaml:"tolerance"`
}

// StabilityConfig configures the qualitative assessment.
type StabilityConfig struct {
	HLDBand float64 `yaml:"hld_band"`
}

// Range is a [min, max] pair.
type Range [2]float64

// BoundsConfig is the optimizer search box.
type BoundsConfig struct {
	Solvent      Range `yaml:"solvent"`
	Surfactant   Range `yaml:"surfactant"`
	Cosurfactant Range `yaml:"cosurfactant"`
	Salinity     Range `yaml:"salinity"`
}

// OptimizerConfig configures the stability optimizer.
type OptimizerConfig struct {
	AqueousFloor      float64      `yaml:"aqueous_floor"`
	Penalty           float64      `yaml:"penalty"`
	MaxIterations     int          `yaml:"max_iterations"`
	GradientTolerance float64      `yaml:"gradient_tolerance"`
	FunctionTolerance float64      `yaml:"function_tolerance"`
	Starts            int          `yaml:"starts"`
	Workers           int          `yaml:"workers"`
	Seed              uint64       `yaml:"seed"`
	Bounds            BoundsConfig `yaml:"bounds"`
}

// CatalogConfig selects the component catalog.
type CatalogConfig struct {
	// Path to a TOML catalog. Empty uses the built-in catalog.
	Path string `yaml:"path"`
}

// LoggingConfig configures the CLI logger.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	JSON  bool   `yaml:"json"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() *Config {
	rules := emulsion.DefaultCompositionRules()
	opt := emulsion.DefaultOptimizerConfig()
	b := emulsion.DefaultBounds()

	return &Config{
		Composition: CompositionConfig{
			AqueousFloor: rules.AqueousFloor,
			Tolerance:    rules.Tolerance,
		},
		Stability: StabilityConfig{
			HLDBand: emulsion.DefaultHLDBand,
		},
		Optimizer: OptimizerConfig{
			AqueousFloor:      opt.AqueousFloor,
			Penalty:           opt.Penalty,
			MaxIterations:     opt.MaxIterations,
			GradientTolerance: opt.GradientTolerance,
			FunctionTolerance: opt.FunctionTolerance,
			Starts:            opt.Starts,
			Workers:           opt.Workers,
			Seed:              opt.Seed,
			Bounds: BoundsConfig{
				Solvent:      Range{b.Solvent.Min, b.Solvent.Max},
				Surfactant:   Range{b.Surfactant.Min, b.Surfactant.Max},
				Cosurfactant: Range{b.Cosurfactant.Min, b.Cosurfactant.Max},
				Salinity:     Range{b.Salinity.Min, b.Salinity.Max},
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Defaults
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Logging.Level = level
	}
	if path := os.Getenv(EnvCatalog); path != "" {
		c.Catalog.Path = path
	}
	if s := os.Getenv(EnvStarts); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvStarts, s, err)
		}
		c.Optimizer.Starts = n
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Composition.AqueousFloor < 0 || c.Composition.AqueousFloor >= 100 {
		return fmt.Errorf("%w: composition.aqueous_floor %g must be in [0, 100)",
			emulsion.ErrInvalidConfig, c.Composition.AqueousFloor)
	}
	if !(c.Composition.Tolerance > 0) {
		return fmt.Errorf("%w: composition.tolerance %g must be positive",
			emulsion.ErrInvalidConfig, c.Composition.Tolerance)
	}
	if !(c.Stability.HLDBand > 0) {
		return fmt.Errorf("%w: stability.hld_band %g must be positive",
			emulsion.ErrInvalidConfig, c.Stability.HLDBand)
	}
	if err := c.OptimizerSettings().Validate(); err != nil {
		return fmt.Errorf("optimizer: %w", err)
	}
	if err := c.Bounds().Validate(); err != nil {
		return fmt.Errorf("optimizer: %w", err)
	}
	if _, err := c.Logging.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// CompositionRules converts the composition section.
func (c *Config) CompositionRules() emulsion.CompositionRules {
	return emulsion.CompositionRules{
		AqueousFloor: c.Composition.AqueousFloor,
		Tolerance:    c.Composition.Tolerance,
	}
}

// OptimizerSettings converts the optimizer section. Weights always use the
// engine defaults; Logger and Observer are left for the caller.
func (c *Config) OptimizerSettings() emulsion.OptimizerConfig {
	o := emulsion.DefaultOptimizerConfig()
	o.AqueousFloor = c.Optimizer.AqueousFloor
	o.Penalty = c.Optimizer.Penalty
	o.MaxIterations = c.Optimizer.MaxIterations
	o.GradientTolerance = c.Optimizer.GradientTolerance
	o.FunctionTolerance = c.Optimizer.FunctionTolerance
	o.Starts = c.Optimizer.Starts
	o.Workers = c.Optimizer.Workers
	o.Seed = c.Optimizer.Seed
	return o
}

// Bounds converts the optimizer search box.
func (c *Config) Bounds() emulsion.Bounds {
	b := c.Optimizer.Bounds
	return emulsion.Bounds{
		Solvent:      emulsion.Range{Min: b.Solvent[0], Max: b.Solvent[1]},
		Surfactant:   emulsion.Range{Min: b.Surfactant[0], Max: b.Surfactant[1]},
		Cosurfactant: emulsion.Range{Min: b.Cosurfactant[0], Max: b.Cosurfactant[1]},
		Salinity:     emulsion.Range{Min: b.Salinity[0], Max: b.Salinity[1]},
	}
}

// SlogLevel parses the configured level.
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(l.Level))); err != nil {
		return 0, fmt.Errorf("invalid logging.level %q (valid: debug, info, warn, error)", l.Level)
	}
	return level, nil
}
