package simulate

import (
	"fmt"

	"equilibrium-sim/internal/model"
)

// Splice grafts a rolled run onto its base: the base's first `year` periods
// followed by the rolled run's periods re-labeled onto the base axis. The
// rolled run's final `year` periods fall off the end, keeping the horizon
// fixed. Both trajectories are left untouched.
func Splice(base, rolled *Trajectory, year int) (*Trajectory, error) {
	if year < 0 {
		return nil, fmt.Errorf("roll year must be >= 0, got %d", year)
	}
	if len(base.Results) != len(rolled.Results) {
		return nil, fmt.Errorf("base run has %d periods, rolled run has %d", len(base.Results), len(rolled.Results))
	}
	if year >= len(base.Results) {
		return nil, fmt.Errorf("roll year %d is beyond the %d-period horizon", year, len(base.Results))
	}

	out := &Trajectory{
		RunID:           rolled.RunID,
		Mode:            rolled.Mode,
		Results:         make([]model.PeriodResult, 0, len(base.Results)),
		FinalState:      rolled.FinalState,
		Iterations:      rolled.Iterations,
		Residual:        rolled.Residual,
		ResidualHistory: rolled.ResidualHistory,
	}
	out.Results = append(out.Results, base.Results[:year]...)
	for i := 0; i < len(rolled.Results)-year; i++ {
		r := rolled.Results[i]
		r.Period = year + i
		out.Results = append(out.Results, r)
	}
	if year > 0 {
		// Dropping the rolled run's tail moves the end of the horizon: the
		// final state is the stock entering the first dropped period.
		out.FinalState = model.State{Capital: rolled.Results[len(rolled.Results)-year].Capital}
	}
	return out, nil
}
