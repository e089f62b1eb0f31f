package simulate

import (
	"context"
	"errors"
	"fmt"
	"math"

	"equilibrium-sim/internal/model"
)

// FixedPointConfig tunes the expectations solver.
type FixedPointConfig struct {
	// Damping scales each update toward the realized path, in (0, 1].
	// 1 replaces the candidate outright.
	Damping float64

	// Tolerance is the largest absolute expectation miss accepted as
	// converged, taken across all periods.
	Tolerance float64

	// MaxIterations caps fixed-point sweeps, and bisection steps for
	// inertial runs.
	MaxIterations int

	// PriceFloor and PriceCeiling bracket the single-price search used by
	// inertial runs. Left at zero they default to seed/5 and seed*5.
	PriceFloor   float64
	PriceCeiling float64
}

func (c FixedPointConfig) Validate() error {
	if c.Damping <= 0 || c.Damping > 1 {
		return errors.New("Damping must be in (0, 1]")
	}
	if c.Tolerance <= 0 {
		return errors.New("Tolerance must be > 0")
	}
	if c.MaxIterations < 1 {
		return errors.New("MaxIterations must be >= 1")
	}
	if c.PriceFloor < 0 || c.PriceCeiling < 0 {
		return errors.New("price bracket must be >= 0")
	}
	if c.PriceCeiling > 0 && c.PriceFloor >= c.PriceCeiling {
		return errors.New("PriceFloor must be below PriceCeiling")
	}
	return nil
}

// DefaultFixedPointConfig returns the solver settings used when a config
// leaves them unset.
func DefaultFixedPointConfig() FixedPointConfig {
	return FixedPointConfig{
		Damping:       0.5,
		Tolerance:     1e-8,
		MaxIterations: 200,
	}
}

// WithDefaults fills unset fields from DefaultFixedPointConfig. Explicit
// values pass through untouched.
func (c FixedPointConfig) WithDefaults() FixedPointConfig {
	def := DefaultFixedPointConfig()
	if c.Damping == 0 {
		c.Damping = def.Damping
	}
	if c.Tolerance == 0 {
		c.Tolerance = def.Tolerance
	}
	if c.MaxIterations == 0 {
		c.MaxIterations = def.MaxIterations
	}
	return c
}

// ConvergenceError reports an expectations solve that exhausted its iteration
// budget before the candidate price path reproduced itself.
type ConvergenceError struct {
	Iterations int
	Residual   float64
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("expectations did not converge after %d iterations (residual %g)", e.Iterations, e.Residual)
}

// FixedPoint searches for a self-consistent expected price path: simulated
// under the candidate, the economy must reproduce the candidate.
type FixedPoint struct {
	cfg    FixedPointConfig
	engine *Engine
}

func NewFixedPoint(cfg FixedPointConfig) (*FixedPoint, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &FixedPoint{cfg: cfg, engine: New()}, nil
}

// Solve iterates damped updates of the candidate price path until the
// realized market prices match it within tolerance. seed is the starting
// candidate, conventionally a constant path at the steady price; it is
// cloned, never written.
//
// The returned trajectory is the pass simulated under the accepted candidate,
// with the iteration count, final residual, and per-iteration residual
// history attached.
func (f *FixedPoint) Solve(ctx context.Context, par model.Parameters, exo model.ExogenousPath, initial model.State, seed model.PricePath) (*Trajectory, error) {
	cand := seed.Clone()
	history := make([]float64, 0, f.cfg.MaxIterations)

	for it := 1; it <= f.cfg.MaxIterations; it++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		traj, err := f.engine.Simulate(par, exo, initial, cand)
		if err != nil {
			return nil, err
		}
		realized := traj.RealizedPrices()

		resid := maxAbsGap(cand, realized)
		history = append(history, resid)
		if resid <= f.cfg.Tolerance {
			traj.Iterations = it
			traj.Residual = resid
			traj.ResidualHistory = history
			return traj, nil
		}

		for i := range cand {
			cand[i] += f.cfg.Damping * (realized[i] - cand[i])
		}
	}

	return nil, &ConvergenceError{
		Iterations: f.cfg.MaxIterations,
		Residual:   history[len(history)-1],
	}
}

func maxAbsGap(a, b model.PricePath) float64 {
	max := 0.0
	for i := range a {
		if gap := math.Abs(a[i] - b[i]); gap > max {
			max = gap
		}
	}
	return max
}
