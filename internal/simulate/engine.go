package simulate

import (
	"fmt"

	"equilibrium-sim/internal/model"
)

type Engine struct{}

func New() *Engine { return &Engine{} }

// Simulate evaluates the economy over periods 0..T under one expected price
// path. The expectation block is derived once from the whole path, then each
// period is solved in order with the capital stock carried forward. The first
// period that fails aborts the pass; no partial trajectory is returned.
//
// Inputs are never mutated, and the same inputs always produce the same
// trajectory.
func (e *Engine) Simulate(par model.Parameters, exo model.ExogenousPath, initial model.State, prices model.PricePath) (*Trajectory, error) {
	if err := exo.Validate(); err != nil {
		return nil, err
	}
	if len(prices) != len(exo) {
		return nil, fmt.Errorf("price path has %d periods, exogenous path has %d", len(prices), len(exo))
	}

	exps, err := model.BuildExpectations(par, exo, prices)
	if err != nil {
		return nil, err
	}

	results := make([]model.PeriodResult, 0, len(exo))
	st := initial
	for t, rec := range exo {
		res, next, err := model.SolvePeriod(par, rec, exps[t], st)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
		st = next
	}

	return &Trajectory{Results: results, FinalState: st}, nil
}
