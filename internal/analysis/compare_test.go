package analysis

import (
	"testing"

	"github.com/stretchr/testify/require"

	"equilibrium-sim/internal/model"
	"equilibrium-sim/internal/simulate"
)

func runConstant(t *testing.T, id string, rec model.ExoRecord, horizon int) *simulate.Trajectory {
	t.Helper()
	par := calibratedParams()
	exo := model.ConstantPath(horizon, rec)
	traj, err := simulate.New().Simulate(par, exo, model.State{Capital: 80}, model.ConstantPrices(len(exo), 1))
	require.NoError(t, err)
	traj.RunID = id
	return traj
}

func TestCompareCreditScenario(t *testing.T) {
	base := runConstant(t, "base", model.ExoRecord{Technology: 1}, 12)
	cred := runConstant(t, "ptc", model.ExoRecord{Technology: 1, ProductionCredit: 0.1}, 12)

	c, err := Compare(base, cred)
	require.NoError(t, err)
	require.Equal(t, "base", c.BaseID)
	require.Equal(t, "ptc", c.ScenarioID)
	require.Len(t, c.Deltas, 13)

	// Same starting stock, so the period 0 gap is pure price support:
	// output 88 vs 80, outlay 0.1*1*88.
	require.InDelta(t, 0.0, c.Deltas[0].Capital, 1e-9)
	require.InDelta(t, 8.0, c.Deltas[0].Output, 1e-9)
	require.InDelta(t, 8.8, c.Deltas[0].RevPTC, 1e-9)

	// The credit pulls in extra investment, so the stock gap opens up and
	// keeps widening toward the new steady state.
	require.InDelta(t, 1.05, c.Deltas[1].Capital, 1e-6)
	for i := 2; i < len(c.Deltas); i++ {
		require.Greater(t, c.Deltas[i].Capital, c.Deltas[i-1].Capital, "period %d", i)
	}

	require.Greater(t, c.MeanOutput, 8.0)
	require.GreaterOrEqual(t, c.PeakOutput, c.MeanOutput)
	require.Greater(t, c.TotalRevPTC, 0.0)
	require.InDelta(t, 0.0, c.TotalRevITC, 1e-12)
}

func TestCompareIdenticalRuns(t *testing.T) {
	a := runConstant(t, "a", model.ExoRecord{Technology: 1}, 8)
	b := runConstant(t, "b", model.ExoRecord{Technology: 1}, 8)

	c, err := Compare(a, b)
	require.NoError(t, err)
	require.Zero(t, c.MeanOutput)
	require.Zero(t, c.PeakOutput)
	require.Zero(t, c.PeakCapital)
	for _, d := range c.Deltas {
		require.Zero(t, d.Output)
		require.Zero(t, d.Capital)
	}
}

func TestCompareErrors(t *testing.T) {
	a := runConstant(t, "a", model.ExoRecord{Technology: 1}, 8)
	b := runConstant(t, "b", model.ExoRecord{Technology: 1}, 5)

	_, err := Compare(a, b)
	require.EqualError(t, err, "base run has 9 periods, scenario has 6")

	_, err = Compare(&simulate.Trajectory{}, &simulate.Trajectory{})
	require.EqualError(t, err, "base trajectory is empty")
}

func TestRankByOutputGain(t *testing.T) {
	base := runConstant(t, "base", model.ExoRecord{Technology: 1}, 10)
	scenarios := map[string]*simulate.Trajectory{
		"small": runConstant(t, "small", model.ExoRecord{Technology: 1, ProductionCredit: 0.05}, 10),
		"large": runConstant(t, "large", model.ExoRecord{Technology: 1, ProductionCredit: 0.2}, 10),
		"mid":   runConstant(t, "mid", model.ExoRecord{Technology: 1, ProductionCredit: 0.1}, 10),
	}

	ranked, err := RankByOutputGain(base, scenarios)
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	require.Equal(t, "large", ranked[0].ScenarioID)
	require.Equal(t, "mid", ranked[1].ScenarioID)
	require.Equal(t, "small", ranked[2].ScenarioID)
}

func TestRankBreaksTiesByID(t *testing.T) {
	base := runConstant(t, "base", model.ExoRecord{Technology: 1}, 10)
	same := model.ExoRecord{Technology: 1, ProductionCredit: 0.1}
	scenarios := map[string]*simulate.Trajectory{
		"zeta":  runConstant(t, "zeta", same, 10),
		"alpha": runConstant(t, "alpha", same, 10),
	}

	ranked, err := RankByOutputGain(base, scenarios)
	require.NoError(t, err)
	require.Equal(t, "alpha", ranked[0].ScenarioID)
	require.Equal(t, "zeta", ranked[1].ScenarioID)
}
