package model

import "errors"

// Parameters defines the time-invariant coefficients of the economy.
// Symbols follow the usual write-up:
// - Interest (r): required return per period
// - Depreciation (delta): fraction of capital lost per period, (0, 1]
// - AdjustCost (w): quadratic adjustment cost coefficient
// - CapitalPrice (pk): purchase price of one unit of capital
// - Elasticity: price elasticity of demand, strictly negative
// - DemandScale: demand at a market price of 1
// - SteadyPrice (p0): output price anchoring seeds and steady-state diagnostics
// - InitialCapital (cap0): capital stock entering period 0
type Parameters struct {
	Interest       float64
	Depreciation   float64
	AdjustCost     float64
	CapitalPrice   float64
	Elasticity     float64
	DemandScale    float64
	SteadyPrice    float64
	InitialCapital float64
}

func (p Parameters) Validate() error {
	if p.Interest < 0 {
		return errors.New("Interest must be >= 0")
	}
	if p.Depreciation <= 0 || p.Depreciation > 1 {
		return errors.New("Depreciation must be in (0, 1]")
	}
	if p.AdjustCost <= 0 {
		return errors.New("AdjustCost must be > 0")
	}
	if p.CapitalPrice <= 0 {
		return errors.New("CapitalPrice must be > 0")
	}
	if p.Elasticity >= 0 {
		return errors.New("Elasticity must be < 0 (demand slopes down)")
	}
	if p.DemandScale <= 0 {
		return errors.New("DemandScale must be > 0")
	}
	if p.SteadyPrice <= 0 {
		return errors.New("SteadyPrice must be > 0")
	}
	if p.InitialCapital <= 0 {
		return errors.New("InitialCapital must be > 0")
	}
	return nil
}

// State captures the stock carried across a period boundary.
type State struct {
	// Capital is the installed stock available for production this period.
	Capital float64
}
