package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"equilibrium-sim/internal/model"
	"equilibrium-sim/internal/simulate"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load model parameters from a separate YAML (e.g. examples/economies/*.yaml).
	// If both ModelFile and Model are provided, Model overrides ModelFile.
	ModelFile string      `yaml:"model_file"`
	Model     ModelConfig `yaml:"model"`

	// PriceMode applies to every run of an invocation: "exogenous" or
	// "endogenous".
	PriceMode string       `yaml:"price_mode"`
	Solver    SolverConfig `yaml:"solver"`

	// HorizonLength truncates each input table to periods 0..T.
	// Zero keeps the full table.
	HorizonLength int `yaml:"horizon_length"`

	// Workers caps how many runs solve concurrently.
	Workers int `yaml:"workers"`

	InputDir         string `yaml:"input_dir"`
	OutputExogenous  string `yaml:"output_exogenous"`
	OutputEndogenous string `yaml:"output_endogenous"`

	// Baseline names the run treated as the baseline for base_only
	// invocations and comparison summaries.
	Baseline string `yaml:"baseline"`

	// BaseOnly restricts an invocation to the baseline run.
	BaseOnly bool `yaml:"base_only"`

	// Force recomputes runs whose output file already exists.
	Force bool `yaml:"force"`

	// Inertial lists run ids whose endogenous solve pins a single price.
	Inertial []string `yaml:"inertial"`

	// Roll declares runs that continue a base run, keyed by run id.
	Roll map[string]RollConfig `yaml:"roll"`
}

// ModelConfig carries the economy's parameters under their conventional
// short names.
type ModelConfig struct {
	Interest       float64 `yaml:"r"`
	Depreciation   float64 `yaml:"delta"`
	AdjustCost     float64 `yaml:"w"`
	CapitalPrice   float64 `yaml:"pk"`
	Elasticity     float64 `yaml:"elast"`
	DemandScale    float64 `yaml:"scale"`
	SteadyPrice    float64 `yaml:"p0"`
	InitialCapital float64 `yaml:"cap0"`
}

type SolverConfig struct {
	Damping       float64 `yaml:"damping"`
	Tolerance     float64 `yaml:"tolerance"`
	MaxIterations int     `yaml:"max_iterations"`
	PriceFloor    float64 `yaml:"price_floor"`
	PriceCeiling  float64 `yaml:"price_ceiling"`
}

type RollConfig struct {
	Base string `yaml:"base"`
	Year int    `yaml:"year"`

	// Cap0, when positive, overrides the capital inherited from the base.
	Cap0 float64 `yaml:"cap0"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but neither defaults nor validates
// it. Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	// If model_file is set, load it and merge in any explicit overrides from c.Model.
	if c.ModelFile != "" {
		modelPath := c.ModelFile
		if !filepath.IsAbs(modelPath) {
			// Prefer interpreting relative paths as relative to the config file directory,
			// but fall back to the provided path (relative to cwd) if that doesn't exist.
			cand := filepath.Join(filepath.Dir(path), modelPath)
			if _, err := os.Stat(cand); err == nil {
				modelPath = cand
			}
		}
		loaded, err := loadModelFile(modelPath)
		if err != nil {
			return nil, err
		}
		c.Model = MergeModel(loaded, c.Model)
	}
	return &c, nil
}

// ApplyDefaults fills the fields a concise config leaves out.
func (c *Config) ApplyDefaults() {
	if c.PriceMode == "" {
		c.PriceMode = string(model.PriceExogenous)
	}
	if c.InputDir == "" {
		c.InputDir = "inputs"
	}
	if c.OutputExogenous == "" {
		c.OutputExogenous = filepath.Join("results", "exogenous")
	}
	if c.OutputEndogenous == "" {
		c.OutputEndogenous = filepath.Join("results", "endogenous")
	}
	if c.Baseline == "" {
		c.Baseline = "r01-baseline"
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	fp := c.ToFixedPointConfig().WithDefaults()
	c.Solver.Damping = fp.Damping
	c.Solver.Tolerance = fp.Tolerance
	c.Solver.MaxIterations = fp.MaxIterations
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	// Validate the economy by constructing model.Parameters.
	if err := c.ToParameters().Validate(); err != nil {
		return fmt.Errorf("model config invalid: %w", err)
	}
	if _, err := model.ParseMode(c.PriceMode); err != nil {
		return fmt.Errorf("price_mode invalid: %w", err)
	}
	// Validate solver settings by constructing the expectations solver.
	if _, err := simulate.NewFixedPoint(c.ToFixedPointConfig()); err != nil {
		return fmt.Errorf("solver config invalid: %w", err)
	}
	if c.HorizonLength < 0 {
		return fmt.Errorf("horizon_length must be >= 0, got %d", c.HorizonLength)
	}
	for run, roll := range c.Roll {
		if roll.Base == "" {
			return fmt.Errorf("roll %s: base is required", run)
		}
		if roll.Base == run {
			return fmt.Errorf("roll %s: cannot roll from itself", run)
		}
		if roll.Year < 0 {
			return fmt.Errorf("roll %s: year must be >= 0, got %d", run, roll.Year)
		}
		if roll.Cap0 < 0 {
			return fmt.Errorf("roll %s: cap0 must be >= 0, got %g", run, roll.Cap0)
		}
	}
	return nil
}

// Mode returns the parsed price mode. Call Validate first.
func (c *Config) Mode() model.Mode {
	m, err := model.ParseMode(c.PriceMode)
	if err != nil {
		return model.PriceExogenous
	}
	return m
}

// OutputDir returns the results directory for the given mode.
func (c *Config) OutputDir(m model.Mode) string {
	if m == model.PriceEndogenous {
		return c.OutputEndogenous
	}
	return c.OutputExogenous
}

func (c *Config) ToParameters() model.Parameters {
	return model.Parameters{
		Interest:       c.Model.Interest,
		Depreciation:   c.Model.Depreciation,
		AdjustCost:     c.Model.AdjustCost,
		CapitalPrice:   c.Model.CapitalPrice,
		Elasticity:     c.Model.Elasticity,
		DemandScale:    c.Model.DemandScale,
		SteadyPrice:    c.Model.SteadyPrice,
		InitialCapital: c.Model.InitialCapital,
	}
}

func (c *Config) ToFixedPointConfig() simulate.FixedPointConfig {
	return simulate.FixedPointConfig{
		Damping:       c.Solver.Damping,
		Tolerance:     c.Solver.Tolerance,
		MaxIterations: c.Solver.MaxIterations,
		PriceFloor:    c.Solver.PriceFloor,
		PriceCeiling:  c.Solver.PriceCeiling,
	}
}

type modelFileWrapper struct {
	Model ModelConfig `yaml:"model"`
}

func loadModelFile(path string) (ModelConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ModelConfig{}, err
	}
	var w modelFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return ModelConfig{}, err
	}
	return w.Model, nil
}

// MergeModel overlays non-zero fields from override onto base.
// This is used when loading a model file and then applying overrides from the
// config or an API request.
func MergeModel(base, override ModelConfig) ModelConfig {
	out := base
	if override.Interest != 0 {
		out.Interest = override.Interest
	}
	if override.Depreciation != 0 {
		out.Depreciation = override.Depreciation
	}
	if override.AdjustCost != 0 {
		out.AdjustCost = override.AdjustCost
	}
	if override.CapitalPrice != 0 {
		out.CapitalPrice = override.CapitalPrice
	}
	if override.Elasticity != 0 {
		out.Elasticity = override.Elasticity
	}
	if override.DemandScale != 0 {
		out.DemandScale = override.DemandScale
	}
	if override.SteadyPrice != 0 {
		out.SteadyPrice = override.SteadyPrice
	}
	if override.InitialCapital != 0 {
		out.InitialCapital = override.InitialCapital
	}
	return out
}

// MergeSolver overlays non-zero fields from override onto base.
func MergeSolver(base, override SolverConfig) SolverConfig {
	out := base
	if override.Damping != 0 {
		out.Damping = override.Damping
	}
	if override.Tolerance != 0 {
		out.Tolerance = override.Tolerance
	}
	if override.MaxIterations != 0 {
		out.MaxIterations = override.MaxIterations
	}
	if override.PriceFloor != 0 {
		out.PriceFloor = override.PriceFloor
	}
	if override.PriceCeiling != 0 {
		out.PriceCeiling = override.PriceCeiling
	}
	return out
}
