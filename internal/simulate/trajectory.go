package simulate

import (
	"fmt"
	"math"

	"equilibrium-sim/internal/model"
)

// Trajectory is the full solved path for one run.
// This is the primary artifact for "what happened" in a simulation.
type Trajectory struct {
	RunID string
	Mode  model.Mode

	Results    []model.PeriodResult
	FinalState model.State

	// Expectations solve metadata. Zero for plain exogenous passes.
	Iterations      int
	Residual        float64
	ResidualHistory []float64
}

// Horizon returns the index of the last period.
func (tr *Trajectory) Horizon() int {
	return len(tr.Results) - 1
}

// RealizedPrices extracts the market-clearing price path the results imply.
func (tr *Trajectory) RealizedPrices() model.PricePath {
	out := make(model.PricePath, len(tr.Results))
	for i, r := range tr.Results {
		out[i] = r.MarketPrice
	}
	return out
}

// ExpectedPrices extracts the price path the firm acted on.
func (tr *Trajectory) ExpectedPrices() model.PricePath {
	out := make(model.PricePath, len(tr.Results))
	for i, r := range tr.Results {
		out[i] = r.Price
	}
	return out
}

// MaxAbsPriceGap returns the largest absolute expectation miss on the path.
func (tr *Trajectory) MaxAbsPriceGap() float64 {
	max := 0.0
	for _, r := range tr.Results {
		if gap := math.Abs(r.PriceGap); gap > max {
			max = gap
		}
	}
	return max
}

// CapitalAt returns the capital stock entering the given period.
func (tr *Trajectory) CapitalAt(period int) (float64, error) {
	if period < 0 || period >= len(tr.Results) {
		return 0, fmt.Errorf("period %d outside trajectory 0..%d", period, tr.Horizon())
	}
	return tr.Results[period].Capital, nil
}

// FinalStateFrom rebuilds the end-of-path state for results read back from a
// trajectory file. Each row's Capital is the stock entering its period, so
// the last period's transition is applied once more.
func FinalStateFrom(results []model.PeriodResult, depreciation float64) model.State {
	if len(results) == 0 {
		return model.State{}
	}
	last := results[len(results)-1]
	return model.State{Capital: last.Investment + (1-depreciation)*last.Capital}
}
