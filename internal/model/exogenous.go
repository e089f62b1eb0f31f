package model

import (
	"errors"
	"fmt"
)

// ExoRecord represents one period's exogenous inputs. JSON tags match the
// column names used by the run input tables:
// a = technology factor, td = dividend tax rate,
// sub = production credit rate, itc = investment credit rate.
type ExoRecord struct {
	Period int `json:"period"`

	Technology       float64 `json:"a"`
	DividendTax      float64 `json:"td"`
	ProductionCredit float64 `json:"sub"`
	InvestmentCredit float64 `json:"itc"`
}

// ExogenousPath is the ordered policy and technology environment for one run,
// one record per period 0..T. Simulation passes treat it as read-only.
type ExogenousPath []ExoRecord

// Horizon returns T, the index of the final period.
func (x ExogenousPath) Horizon() int {
	return len(x) - 1
}

// Validate checks that the path is non-empty with contiguous periods from 0.
// Per-period domain checks (technology, tax rates) happen during the solve so
// the failure can name the offending period.
func (x ExogenousPath) Validate() error {
	if len(x) == 0 {
		return errors.New("exogenous path is empty")
	}
	for i, rec := range x {
		if rec.Period != i {
			return fmt.Errorf("exogenous record %d has period %d, want %d", i, rec.Period, i)
		}
	}
	return nil
}

// Truncate shortens the path to periods 0..horizon. Paths shorter than the
// requested horizon cannot be extended and are rejected.
func (x ExogenousPath) Truncate(horizon int) (ExogenousPath, error) {
	if horizon < 0 {
		return nil, fmt.Errorf("horizon must be >= 0, got %d", horizon)
	}
	if horizon > x.Horizon() {
		return nil, fmt.Errorf("input path ends at period %d, cannot cover horizon %d", x.Horizon(), horizon)
	}
	out := make(ExogenousPath, horizon+1)
	copy(out, x[:horizon+1])
	return out, nil
}

// ConstantPath builds a path of periods 0..horizon that repeats rec's rates
// every period. Useful for steady environments and fixtures.
func ConstantPath(horizon int, rec ExoRecord) ExogenousPath {
	out := make(ExogenousPath, horizon+1)
	for i := range out {
		rec.Period = i
		out[i] = rec
	}
	return out
}
