package solver

import (
	"errors"
	"fmt"
	"math"
)

// ErrBracket reports that the interval endpoints do not straddle a root.
var ErrBracket = errors.New("root not bracketed")

// Result describes a finished root search.
type Result struct {
	Root       float64
	Iterations int
	Residual   float64 // f at the returned root
}

// Bisect finds x in [lo, hi] with f(x) = 0 by interval halving. The endpoint
// residuals must have opposite signs. The search stops once |f(mid)| falls
// below tol and never runs more than maxIter halvings; hitting the cap
// returns the last midpoint alongside the error so callers can report how
// close the search got.
//
// f may fail (the objective is usually a model evaluation); its error aborts
// the search unchanged.
func Bisect(f func(float64) (float64, error), lo, hi, tol float64, maxIter int) (Result, error) {
	if !(lo < hi) {
		return Result{}, fmt.Errorf("invalid bracket [%g, %g]", lo, hi)
	}
	if tol <= 0 {
		return Result{}, fmt.Errorf("tolerance must be > 0, got %g", tol)
	}
	if maxIter < 1 {
		return Result{}, fmt.Errorf("iteration cap must be >= 1, got %d", maxIter)
	}

	flo, err := f(lo)
	if err != nil {
		return Result{}, err
	}
	if math.Abs(flo) <= tol {
		return Result{Root: lo, Residual: flo}, nil
	}
	fhi, err := f(hi)
	if err != nil {
		return Result{}, err
	}
	if math.Abs(fhi) <= tol {
		return Result{Root: hi, Residual: fhi}, nil
	}
	if (flo > 0) == (fhi > 0) {
		return Result{}, fmt.Errorf("%w by [%g, %g]: f(lo)=%g, f(hi)=%g", ErrBracket, lo, hi, flo, fhi)
	}

	var res Result
	for i := 1; i <= maxIter; i++ {
		mid := 0.5 * (lo + hi)
		fmid, err := f(mid)
		if err != nil {
			return Result{}, err
		}
		res = Result{Root: mid, Iterations: i, Residual: fmid}
		if math.Abs(fmid) <= tol {
			return res, nil
		}
		if (fmid > 0) == (flo > 0) {
			lo, flo = mid, fmid
		} else {
			hi = mid
		}
	}
	return res, fmt.Errorf("no root after %d iterations (residual %g at %g)", res.Iterations, res.Residual, res.Root)
}
