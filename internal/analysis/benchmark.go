package analysis

import "equilibrium-sim/internal/model"

// BenchmarkITC converts a production credit rate into the investment credit
// rate with the same pull on steady-state investment, at the given price and
// technology factor. The (2+sub)*sub term comes from the credit entering the
// profitability of capital through the squared net price.
func BenchmarkITC(par model.Parameters, price, tech, sub float64) float64 {
	gamma := price * price * tech * tech / (4 * par.AdjustCost)
	return gamma / ((par.Interest + par.Depreciation) * par.CapitalPrice) * (2 + sub) * sub
}
