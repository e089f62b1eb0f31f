package model

import "fmt"

// PricePath holds one expected output price per period, aligned with an
// ExogenousPath. The expectations solver updates its own candidate copy
// between iterations; everything else treats a path as read-only.
type PricePath []float64

// ConstantPrices returns a path of n periods pinned at price p.
func ConstantPrices(n int, p float64) PricePath {
	out := make(PricePath, n)
	for i := range out {
		out[i] = p
	}
	return out
}

// Clone returns an independent copy of the path.
func (p PricePath) Clone() PricePath {
	return append(PricePath(nil), p...)
}

// Expectation is the forward-looking block for one period, derived from the
// whole expected price path: the prices the firm acts on and the shadow value
// of installed capital implied by everything it expects after this period.
type Expectation struct {
	Price           float64 // expected output price, p
	NetPrice        float64 // p_net = p*(1+sub)
	NetCapitalPrice float64 // pk_net = pk*(1-itc)
	Gamma           float64 // marginal profitability of capital
	Shadow          float64 // lam, present value of capital's future returns
	ShadowSteady    float64 // lam_ss, shadow value if this period repeated forever
}

// BuildExpectations derives the per-period expectation entries from a
// candidate price path. The shadow value is pinned at the terminal steady
// state, lam[T] = lam_ss[T], and recurses backward through
//
//	lam[t] = (lam[t+1] + gamma[t]*(1-td[t])) / (1 + r + delta)
//
// Shadow values depend only on prices and policy, never on the capital stock,
// which is what lets the forward pass solve each period on its own.
func BuildExpectations(par Parameters, exo ExogenousPath, prices PricePath) ([]Expectation, error) {
	if len(prices) != len(exo) {
		return nil, fmt.Errorf("price path has %d periods, exogenous path has %d", len(prices), len(exo))
	}
	if len(exo) == 0 {
		return nil, fmt.Errorf("exogenous path is empty")
	}

	out := make([]Expectation, len(exo))
	for t := len(exo) - 1; t >= 0; t-- {
		rec := exo[t]
		p := prices[t]
		if p <= 0 {
			return nil, &EquilibriumError{Period: t, Value: p, Reason: "expected price must be > 0"}
		}
		if rec.Technology <= 0 {
			return nil, &EquilibriumError{Period: t, Value: rec.Technology, Reason: "technology factor must be > 0"}
		}
		if rec.DividendTax >= 1 {
			return nil, &EquilibriumError{Period: t, Value: rec.DividendTax, Reason: "dividend tax must be < 1"}
		}

		pNet := p * (1 + rec.ProductionCredit)
		if pNet <= 0 {
			return nil, &EquilibriumError{Period: t, Value: pNet, Reason: "net output price must be > 0"}
		}
		gamma := pNet * pNet * rec.Technology * rec.Technology / (4 * par.AdjustCost)
		e := Expectation{
			Price:           p,
			NetPrice:        pNet,
			NetCapitalPrice: par.CapitalPrice * (1 - rec.InvestmentCredit),
			Gamma:           gamma,
			ShadowSteady:    gamma * (1 - rec.DividendTax) / (par.Interest + par.Depreciation),
		}
		if t == len(exo)-1 {
			e.Shadow = e.ShadowSteady
		} else {
			e.Shadow = (out[t+1].Shadow + gamma*(1-rec.DividendTax)) / (1 + par.Interest + par.Depreciation)
		}
		out[t] = e
	}
	return out, nil
}
