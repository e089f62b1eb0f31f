package analysis

import (
	"math"

	"equilibrium-sim/internal/model"
)

// SteadyBlock is the closed-form steady state implied by one period's policy
// at a given output price. It anchors seeds, terminal conditions, and
// calibration, and does not depend on any simulated path.
type SteadyBlock struct {
	Price           float64
	NetPrice        float64
	NetCapitalPrice float64
	Gamma           float64
	Shadow          float64
	Investment      float64
	Capital         float64
	Output          float64

	// MarketPrice is the price the demand curve asks for the steady output.
	// It equals Price only when the economy is calibrated to this policy.
	MarketPrice float64
}

// SteadyState solves the repeated-forever version of one period: the stock,
// flow, and price levels the economy holds if rec and price never change.
func SteadyState(par model.Parameters, rec model.ExoRecord, price float64) (SteadyBlock, error) {
	if price <= 0 {
		return SteadyBlock{}, &model.EquilibriumError{Period: rec.Period, Value: price, Reason: "price must be > 0"}
	}
	if rec.Technology <= 0 {
		return SteadyBlock{}, &model.EquilibriumError{Period: rec.Period, Value: rec.Technology, Reason: "technology factor must be > 0"}
	}
	if rec.DividendTax >= 1 {
		return SteadyBlock{}, &model.EquilibriumError{Period: rec.Period, Value: rec.DividendTax, Reason: "dividend tax must be < 1"}
	}

	pNet := price * (1 + rec.ProductionCredit)
	if pNet <= 0 {
		return SteadyBlock{}, &model.EquilibriumError{Period: rec.Period, Value: pNet, Reason: "net output price must be > 0"}
	}
	pkNet := par.CapitalPrice * (1 - rec.InvestmentCredit)
	gamma := pNet * pNet * rec.Technology * rec.Technology / (4 * par.AdjustCost)
	inv := (gamma/(par.Interest+par.Depreciation) - pkNet) / (2 * par.AdjustCost)
	cap := inv / par.Depreciation
	if cap <= 0 {
		return SteadyBlock{}, &model.EquilibriumError{Period: rec.Period, Value: cap, Reason: "no positive steady capital at this price"}
	}
	q := pNet * rec.Technology * rec.Technology * cap / (2 * par.AdjustCost)

	return SteadyBlock{
		Price:           price,
		NetPrice:        pNet,
		NetCapitalPrice: pkNet,
		Gamma:           gamma,
		Shadow:          gamma * (1 - rec.DividendTax) / (par.Interest + par.Depreciation),
		Investment:      inv,
		Capital:         cap,
		Output:          q,
		MarketPrice:     math.Pow(q/par.DemandScale, 1/par.Elasticity),
	}, nil
}

// CalibrateDemandScale returns the demand scale that makes price the
// steady-state clearing price under rec: demand at that price exactly
// absorbs the steady output.
func CalibrateDemandScale(par model.Parameters, rec model.ExoRecord, price float64) (float64, error) {
	block, err := SteadyState(par, rec, price)
	if err != nil {
		return 0, err
	}
	return block.Output / math.Pow(price, par.Elasticity), nil
}
