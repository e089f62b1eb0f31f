package simulate

import (
	"context"
	"errors"
	"fmt"

	"equilibrium-sim/internal/model"
	"equilibrium-sim/internal/solver"
)

// SolveInertial finds the single price that, held flat over the whole
// horizon, clears the first period's market. This is the regime where the
// firm pins all expectations to the current price, so period 0 is the only
// market asked to clear; later periods keep whatever gap the flat path
// leaves them.
func (f *FixedPoint) SolveInertial(ctx context.Context, par model.Parameters, exo model.ExogenousPath, initial model.State, seed float64) (*Trajectory, error) {
	if seed <= 0 {
		return nil, fmt.Errorf("seed price must be > 0, got %g", seed)
	}
	lo, hi := f.cfg.PriceFloor, f.cfg.PriceCeiling
	if lo <= 0 {
		lo = seed / 5
	}
	if hi <= 0 {
		hi = seed * 5
	}

	miss := func(p float64) (float64, error) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		traj, err := f.engine.Simulate(par, exo, initial, model.ConstantPrices(len(exo), p))
		if err != nil {
			return 0, err
		}
		return traj.Results[0].PriceGap, nil
	}

	res, err := solver.Bisect(miss, lo, hi, f.cfg.Tolerance, f.cfg.MaxIterations)
	if err != nil {
		var eqErr *model.EquilibriumError
		if errors.As(err, &eqErr) || ctx.Err() != nil {
			return nil, err
		}
		return nil, &model.EquilibriumError{
			Period: 0,
			Value:  res.Residual,
			Reason: fmt.Sprintf("no clearing price in [%g, %g]: %v", lo, hi, err),
		}
	}

	traj, err := f.engine.Simulate(par, exo, initial, model.ConstantPrices(len(exo), res.Root))
	if err != nil {
		return nil, err
	}
	traj.Iterations = res.Iterations
	traj.Residual = res.Residual
	return traj, nil
}
