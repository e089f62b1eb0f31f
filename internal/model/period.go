package model

import "math"

// PeriodResult captures everything solved for one period. Field order mirrors
// the trajectory CSV columns.
type PeriodResult struct {
	Period int

	// Exogenous inputs, echoed for the output table.
	Technology       float64
	DividendTax      float64
	ProductionCredit float64
	InvestmentCredit float64

	// Expected prices and the shadow-value block.
	Price           float64
	NetPrice        float64
	NetCapitalPrice float64
	Gamma           float64
	ShadowSteady    float64
	InvestSteady    float64
	CapitalSteady   float64
	Shadow          float64

	// Solved quantities.
	Capital     float64 // stock installed entering the period
	Investment  float64
	Output      float64
	Consumption float64 // demand absorbed at the market price

	// Credit outlays.
	RevPTC float64
	RevITC float64

	// Market clearing.
	MarketPrice float64 // price at which demand absorbs the period's output
	PriceGap    float64 // MarketPrice - Price, the expectation miss
}

// SolvePeriod solves the within-period equilibrium for one period, given its
// exogenous record, its expectation entry, and the state carried in from the
// previous period. It enforces:
// - technology factor > 0
// - dividend tax < 1
// - capital stock > 0
// - output > 0, so the demand curve can be inverted
//
// It returns the solved period and the state handed to the next period. The
// function is pure; callers own all inputs and outputs.
func SolvePeriod(par Parameters, rec ExoRecord, exp Expectation, st State) (PeriodResult, State, error) {
	if rec.Technology <= 0 {
		return PeriodResult{}, State{}, &EquilibriumError{Period: rec.Period, Value: rec.Technology, Reason: "technology factor must be > 0"}
	}
	if rec.DividendTax >= 1 {
		return PeriodResult{}, State{}, &EquilibriumError{Period: rec.Period, Value: rec.DividendTax, Reason: "dividend tax must be < 1"}
	}
	if st.Capital <= 0 {
		return PeriodResult{}, State{}, &EquilibriumError{Period: rec.Period, Value: st.Capital, Reason: "capital stock must be > 0"}
	}

	// Investment follows the shadow value; supply follows installed capital.
	inv := (exp.Shadow/(1-rec.DividendTax) - exp.NetCapitalPrice) / (2 * par.AdjustCost)
	q := exp.NetPrice * rec.Technology * rec.Technology * st.Capital / (2 * par.AdjustCost)
	if q <= 0 {
		return PeriodResult{}, State{}, &EquilibriumError{Period: rec.Period, Value: q, Reason: "output must be > 0"}
	}

	// Invert the demand curve to find the price that absorbs q.
	pm := math.Pow(q/par.DemandScale, 1/par.Elasticity)
	cons := par.DemandScale * math.Pow(pm, par.Elasticity)

	invSS := (exp.Gamma/(par.Interest+par.Depreciation) - exp.NetCapitalPrice) / (2 * par.AdjustCost)

	res := PeriodResult{
		Period:           rec.Period,
		Technology:       rec.Technology,
		DividendTax:      rec.DividendTax,
		ProductionCredit: rec.ProductionCredit,
		InvestmentCredit: rec.InvestmentCredit,
		Price:            exp.Price,
		NetPrice:         exp.NetPrice,
		NetCapitalPrice:  exp.NetCapitalPrice,
		Gamma:            exp.Gamma,
		ShadowSteady:     exp.ShadowSteady,
		InvestSteady:     invSS,
		CapitalSteady:    invSS / par.Depreciation,
		Shadow:           exp.Shadow,
		Capital:          st.Capital,
		Investment:       inv,
		Output:           q,
		Consumption:      cons,
		RevPTC:           rec.ProductionCredit * exp.Price * q,
		RevITC:           rec.InvestmentCredit * par.CapitalPrice * inv,
		MarketPrice:      pm,
		PriceGap:         pm - exp.Price,
	}
	next := State{Capital: inv + (1-par.Depreciation)*st.Capital}
	return res, next, nil
}
