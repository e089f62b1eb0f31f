package batch

import (
	"fmt"

	"equilibrium-sim/internal/model"
)

// RunSpec identifies one named simulation run within a batch.
type RunSpec struct {
	ID   string
	Mode model.Mode

	// Exo is the run's policy and technology environment, periods 0..T.
	Exo model.ExogenousPath

	// Prices is the expected price path for exogenous runs and the starting
	// candidate for endogenous ones. Empty means a constant path at the
	// steady price.
	Prices model.PricePath

	// Initial overrides the starting capital stock; zero falls back to
	// Parameters.InitialCapital (or the roll base's stock for rolled runs).
	Initial model.State

	// Inertial pins endogenous expectations to a single flat price instead
	// of solving the full path.
	Inertial bool

	// Roll continues a prior run instead of starting fresh.
	Roll *RollSpec
}

// RollSpec grafts a run onto a base run: initial capital is inherited from
// the base's stock at Year, and the finished trajectory is spliced onto the
// base's first Year periods.
type RollSpec struct {
	Base string
	Year int

	// Capital, when positive, overrides the inherited stock.
	Capital float64
}

// InvalidRunSpecError reports a run rejected before any simulation started.
type InvalidRunSpecError struct {
	Run    string
	Reason string
}

func (e *InvalidRunSpecError) Error() string {
	return fmt.Sprintf("run %s: invalid spec: %s", e.Run, e.Reason)
}

func (s RunSpec) Validate() error {
	if s.ID == "" {
		return &InvalidRunSpecError{Run: s.ID, Reason: "missing run id"}
	}
	if !s.Mode.Valid() {
		return &InvalidRunSpecError{Run: s.ID, Reason: fmt.Sprintf("invalid price mode %q", s.Mode)}
	}
	if err := s.Exo.Validate(); err != nil {
		return &InvalidRunSpecError{Run: s.ID, Reason: err.Error()}
	}
	if len(s.Prices) != 0 && len(s.Prices) != len(s.Exo) {
		return &InvalidRunSpecError{Run: s.ID, Reason: fmt.Sprintf("price path has %d periods, exogenous path has %d", len(s.Prices), len(s.Exo))}
	}
	if s.Inertial && s.Mode != model.PriceEndogenous {
		return &InvalidRunSpecError{Run: s.ID, Reason: "inertial pricing applies only to endogenous runs"}
	}
	if s.Initial.Capital < 0 {
		return &InvalidRunSpecError{Run: s.ID, Reason: fmt.Sprintf("initial capital must be >= 0, got %g", s.Initial.Capital)}
	}
	if s.Roll != nil {
		if s.Roll.Base == "" {
			return &InvalidRunSpecError{Run: s.ID, Reason: "roll is missing its base run"}
		}
		if s.Roll.Base == s.ID {
			return &InvalidRunSpecError{Run: s.ID, Reason: "run cannot roll from itself"}
		}
		if s.Roll.Year < 0 {
			return &InvalidRunSpecError{Run: s.ID, Reason: fmt.Sprintf("roll year must be >= 0, got %d", s.Roll.Year)}
		}
		if s.Roll.Capital < 0 {
			return &InvalidRunSpecError{Run: s.ID, Reason: fmt.Sprintf("roll capital must be >= 0, got %g", s.Roll.Capital)}
		}
	}
	return nil
}
