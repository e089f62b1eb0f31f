package models

import "equilibrium-sim/internal/model"

// EconomyConfig carries model parameters in request bodies. Field names
// match the YAML config keys.
type EconomyConfig struct {
	Interest       float64 `json:"r"`
	Depreciation   float64 `json:"delta"`
	AdjustCost     float64 `json:"w"`
	CapitalPrice   float64 `json:"pk"`
	Elasticity     float64 `json:"elast"`
	DemandScale    float64 `json:"scale"`
	SteadyPrice    float64 `json:"p0"`
	InitialCapital float64 `json:"cap0"`
}

// SolverConfig carries expectations-solver settings. Omitted fields take the
// server defaults.
type SolverConfig struct {
	Damping       float64 `json:"damping,omitempty"`
	Tolerance     float64 `json:"tolerance,omitempty"`
	MaxIterations int     `json:"max_iterations,omitempty"`
	PriceFloor    float64 `json:"price_floor,omitempty"`
	PriceCeiling  float64 `json:"price_ceiling,omitempty"`
}

// SimulateRequest represents the request body for running one simulation.
type SimulateRequest struct {
	RunID string `json:"run_id,omitempty"` // default: "adhoc"
	Mode  string `json:"mode,omitempty"`   // "exogenous" (default) or "endogenous"

	Model  EconomyConfig `json:"model"`
	Solver SolverConfig  `json:"solver,omitempty"`

	// Exo is the run's period table; rows use the input-file column names.
	Exo []model.ExoRecord `json:"exo" binding:"required"`

	// Prices is the expected price path (exogenous) or starting candidate
	// (endogenous). Empty means a constant path at p0.
	Prices []float64 `json:"prices,omitempty"`

	InitialCapital float64 `json:"initial_capital,omitempty"`
	Inertial       bool    `json:"inertial,omitempty"`

	// HorizonLength truncates the run to periods 0..T. Zero keeps the full
	// table.
	HorizonLength int `json:"horizon_length,omitempty"`

	Options SimulateOptions `json:"options,omitempty"`
}

// SimulateOptions contains optional response controls.
type SimulateOptions struct {
	IncludeTrajectory bool `json:"include_trajectory,omitempty"` // default: false
	IncludeResiduals  bool `json:"include_residuals,omitempty"`  // per-iteration residual history
}

// BatchRequest represents a request to solve several runs against one
// parameter set.
type BatchRequest struct {
	Model  EconomyConfig `json:"model"`
	Solver SolverConfig  `json:"solver,omitempty"`

	// Mode is the batch-wide default; individual runs may override it.
	Mode    string `json:"mode,omitempty"`
	Workers int    `json:"workers,omitempty"` // default: 1

	HorizonLength int `json:"horizon_length,omitempty"`

	Runs []BatchRun `json:"runs" binding:"required,dive"`
}

// BatchRun defines one run inside a batch or comparison.
type BatchRun struct {
	ID   string `json:"id" binding:"required"`
	Mode string `json:"mode,omitempty"`

	Exo    []model.ExoRecord `json:"exo" binding:"required"`
	Prices []float64         `json:"prices,omitempty"`

	InitialCapital float64  `json:"initial_capital,omitempty"`
	Inertial       bool     `json:"inertial,omitempty"`
	Roll           *RollRef `json:"roll,omitempty"`
}

// RollRef grafts a run onto a base run solved earlier in the same request.
type RollRef struct {
	Base    string  `json:"base" binding:"required"`
	Year    int     `json:"year,omitempty"`
	Capital float64 `json:"cap0,omitempty"`
}

// CompareRequest represents a request to solve a baseline plus variations and
// rank the variations against it.
type CompareRequest struct {
	Model  EconomyConfig `json:"model"`
	Solver SolverConfig  `json:"solver,omitempty"`
	Mode   string        `json:"mode,omitempty"`

	HorizonLength int `json:"horizon_length,omitempty"`

	Base       BatchRun   `json:"base"`
	Variations []BatchRun `json:"variations" binding:"required,dive"`

	Options CompareOptions `json:"options,omitempty"`
}

// CompareOptions contains optional response controls.
type CompareOptions struct {
	IncludeDeltas bool `json:"include_deltas,omitempty"` // per-period delta rows
}
