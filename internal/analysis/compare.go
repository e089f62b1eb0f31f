package analysis

import (
	"fmt"
	"math"

	"equilibrium-sim/internal/simulate"
)

// Delta is one period's difference between a scenario and its baseline,
// scenario minus base.
type Delta struct {
	Period      int
	Price       float64
	MarketPrice float64
	Output      float64
	Investment  float64
	Capital     float64
	RevPTC      float64
	RevITC      float64
}

// Comparison is a run-level summary of a scenario against a baseline.
// Peak values keep their sign; they are the deltas largest in magnitude.
type Comparison struct {
	BaseID     string
	ScenarioID string

	Deltas []Delta

	MeanOutput  float64
	PeakOutput  float64
	PeakCapital float64

	// Total credit outlays of the scenario beyond the baseline.
	TotalRevPTC float64
	TotalRevITC float64
}

// Compare lines two trajectories up period by period. Both runs must cover
// the same horizon.
func Compare(base, scenario *simulate.Trajectory) (*Comparison, error) {
	if len(base.Results) == 0 {
		return nil, fmt.Errorf("base trajectory is empty")
	}
	if len(base.Results) != len(scenario.Results) {
		return nil, fmt.Errorf("base run has %d periods, scenario has %d", len(base.Results), len(scenario.Results))
	}

	c := &Comparison{
		BaseID:     base.RunID,
		ScenarioID: scenario.RunID,
		Deltas:     make([]Delta, 0, len(base.Results)),
	}

	sumOutput := 0.0
	for i, b := range base.Results {
		s := scenario.Results[i]
		d := Delta{
			Period:      b.Period,
			Price:       s.Price - b.Price,
			MarketPrice: s.MarketPrice - b.MarketPrice,
			Output:      s.Output - b.Output,
			Investment:  s.Investment - b.Investment,
			Capital:     s.Capital - b.Capital,
			RevPTC:      s.RevPTC - b.RevPTC,
			RevITC:      s.RevITC - b.RevITC,
		}
		c.Deltas = append(c.Deltas, d)

		sumOutput += d.Output
		if math.Abs(d.Output) > math.Abs(c.PeakOutput) {
			c.PeakOutput = d.Output
		}
		if math.Abs(d.Capital) > math.Abs(c.PeakCapital) {
			c.PeakCapital = d.Capital
		}
		c.TotalRevPTC += d.RevPTC
		c.TotalRevITC += d.RevITC
	}
	c.MeanOutput = sumOutput / float64(len(c.Deltas))

	return c, nil
}
