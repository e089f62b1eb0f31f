package analysis

import (
	"sort"

	"equilibrium-sim/internal/simulate"
)

type RankedComparison struct {
	Comparison
}

// RankByOutputGain compares each scenario to the base and sorts descending
// by mean output delta, so the most expansionary policy comes first. Ties
// fall back to the run id to keep the order stable.
func RankByOutputGain(base *simulate.Trajectory, scenarios map[string]*simulate.Trajectory) ([]RankedComparison, error) {
	out := make([]RankedComparison, 0, len(scenarios))
	for _, tr := range scenarios {
		c, err := Compare(base, tr)
		if err != nil {
			return nil, err
		}
		out = append(out, RankedComparison{Comparison: *c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MeanOutput != out[j].MeanOutput {
			return out[i].MeanOutput > out[j].MeanOutput
		}
		return out[i].ScenarioID < out[j].ScenarioID
	})
	return out, nil
}
