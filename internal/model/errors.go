package model

import "fmt"

// EquilibriumError reports a period whose equilibrium conditions cannot be
// solved: an out-of-domain input, a non-positive stock, or a market that no
// admissible price clears. Value carries the offending quantity.
type EquilibriumError struct {
	Period int
	Value  float64
	Reason string
}

func (e *EquilibriumError) Error() string {
	return fmt.Sprintf("period %d: %s (value %g)", e.Period, e.Reason, e.Value)
}
