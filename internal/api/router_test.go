package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"equilibrium-sim/internal/api/models"
	"equilibrium-sim/internal/api/store"
	"equilibrium-sim/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

// testRouter serves requests against a fresh store.
func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	st := store.New(time.Minute)
	t.Cleanup(st.Close)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return Router(logger, st)
}

// steadyEconomy is calibrated so a constant price of 1 is the exact
// equilibrium: capital holds at 80 and output at 80 every period.
func steadyEconomy() models.EconomyConfig {
	return models.EconomyConfig{
		Interest:       0.05,
		Depreciation:   0.05,
		AdjustCost:     0.5,
		CapitalPrice:   1,
		Elasticity:     -2,
		DemandScale:    80,
		SteadyPrice:    1,
		InitialCapital: 80,
	}
}

func neutralExo(horizon int) []model.ExoRecord {
	return model.ConstantPath(horizon, model.ExoRecord{Technology: 1})
}

// poisonedExo breaks period 1 with a zero technology factor.
func poisonedExo(horizon int) []model.ExoRecord {
	exo := neutralExo(horizon)
	exo[1].Technology = 0
	return exo
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func getPath(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorDetail {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func TestHealth(t *testing.T) {
	w := getPath(t, testRouter(t), "/health")

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestSimulateExogenousSteady(t *testing.T) {
	router := testRouter(t)

	w := postJSON(t, router, "/api/v1/simulate", models.SimulateRequest{
		RunID: "r01-baseline",
		Model: steadyEconomy(),
		Exo:   neutralExo(2),
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.SimulateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Equal(t, "completed", resp.Status)
	require.Equal(t, "r01-baseline", resp.RunID)
	require.NotEmpty(t, resp.ID)
	require.Equal(t, "exogenous", resp.Summary.Mode)
	require.Equal(t, 3, resp.Summary.Periods)
	require.Zero(t, resp.Summary.Iterations)
	require.InDelta(t, 80, resp.Summary.MeanOutput, 1e-9)
	require.InDelta(t, 80, resp.Summary.FinalCapital, 1e-9)
	require.InDelta(t, 0, resp.Summary.MaxPriceGap, 1e-9)
	require.Empty(t, resp.Trajectory)
}

func TestSimulateEndogenousWithTrajectory(t *testing.T) {
	router := testRouter(t)

	w := postJSON(t, router, "/api/v1/simulate", models.SimulateRequest{
		Mode:  "endogenous",
		Model: steadyEconomy(),
		Exo:   neutralExo(2),
		Options: models.SimulateOptions{
			IncludeTrajectory: true,
			IncludeResiduals:  true,
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.SimulateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Equal(t, "adhoc", resp.RunID)
	require.Equal(t, "endogenous", resp.Summary.Mode)
	// Seeded at the exact fixed point, the solver accepts the first pass.
	require.Equal(t, 1, resp.Summary.Iterations)
	require.Len(t, resp.ResidualHistory, 1)
	require.Len(t, resp.Trajectory, 3)
	for _, row := range resp.Trajectory {
		require.InDelta(t, 1, row.Price, 1e-9)
		require.InDelta(t, 80, row.Output, 1e-9)
		require.InDelta(t, 80, row.Capital, 1e-9)
	}
}

func TestSimulateStoresTrajectory(t *testing.T) {
	router := testRouter(t)

	w := postJSON(t, router, "/api/v1/simulate", models.SimulateRequest{
		RunID: "r02-ptc",
		Model: steadyEconomy(),
		Exo:   neutralExo(1),
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resp models.SimulateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ID)

	got := getPath(t, router, "/api/v1/runs/"+resp.ID+"/trajectory")
	require.Equal(t, http.StatusOK, got.Code)

	var stored models.TrajectoryResponse
	require.NoError(t, json.Unmarshal(got.Body.Bytes(), &stored))
	require.Equal(t, resp.ID, stored.ID)
	require.Equal(t, "r02-ptc", stored.RunID)
	require.Equal(t, "exogenous", stored.Mode)
	require.Len(t, stored.Trajectory, 2)
	require.InDelta(t, 80, stored.Trajectory[1].Output, 1e-9)
}

func TestSimulateErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		expectCode int
		expectErr  string
	}{
		{
			name:       "malformed body",
			body:       "not json",
			expectCode: http.StatusBadRequest,
			expectErr:  "INVALID_REQUEST",
		},
		{
			name: "missing exo",
			body: models.SimulateRequest{
				Model: steadyEconomy(),
			},
			expectCode: http.StatusBadRequest,
			expectErr:  "INVALID_REQUEST",
		},
		{
			name: "unknown mode",
			body: models.SimulateRequest{
				Mode:  "oracle",
				Model: steadyEconomy(),
				Exo:   neutralExo(2),
			},
			expectCode: http.StatusBadRequest,
			expectErr:  "INVALID_REQUEST",
		},
		{
			name: "invalid model",
			body: models.SimulateRequest{
				Model: models.EconomyConfig{Interest: 0.05},
				Exo:   neutralExo(2),
			},
			expectCode: http.StatusBadRequest,
			expectErr:  "INVALID_REQUEST",
		},
		{
			name: "period failure",
			body: models.SimulateRequest{
				Model: steadyEconomy(),
				Exo:   poisonedExo(2),
			},
			expectCode: http.StatusUnprocessableEntity,
			expectErr:  "EQUILIBRIUM_ERROR",
		},
		{
			name: "non-convergence",
			body: models.SimulateRequest{
				Mode:   "endogenous",
				Model:  steadyEconomy(),
				Exo:    neutralExo(2),
				Prices: []float64{1.3, 1.3, 1.3},
				Solver: models.SolverConfig{MaxIterations: 1},
			},
			expectCode: http.StatusUnprocessableEntity,
			expectErr:  "CONVERGENCE_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, testRouter(t), "/api/v1/simulate", tt.body)

			require.Equal(t, tt.expectCode, w.Code)
			require.Equal(t, tt.expectErr, decodeError(t, w).Code)
		})
	}
}

func TestBatchIsolatesFailures(t *testing.T) {
	router := testRouter(t)

	w := postJSON(t, router, "/api/v1/batch", models.BatchRequest{
		Model: steadyEconomy(),
		Runs: []models.BatchRun{
			{ID: "r01-baseline", Exo: neutralExo(2)},
			{ID: "r02-poisoned", Exo: poisonedExo(2)},
			{ID: "r03-endog", Mode: "endogenous", Exo: neutralExo(2)},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.BatchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Equal(t, "completed_with_failures", resp.Status)
	require.Len(t, resp.Runs, 3)

	require.Equal(t, "r01-baseline", resp.Runs[0].RunID)
	require.Equal(t, "completed", resp.Runs[0].Status)
	require.NotEmpty(t, resp.Runs[0].ID)
	require.InDelta(t, 80, resp.Runs[0].Summary.MeanOutput, 1e-9)

	require.Equal(t, "r02-poisoned", resp.Runs[1].RunID)
	require.Equal(t, "failed", resp.Runs[1].Status)
	require.Equal(t, "EQUILIBRIUM_ERROR", resp.Runs[1].Error.Code)
	require.Nil(t, resp.Runs[1].Summary)

	require.Equal(t, "r03-endog", resp.Runs[2].RunID)
	require.Equal(t, "completed", resp.Runs[2].Status)
	require.Equal(t, "endogenous", resp.Runs[2].Summary.Mode)
}

func TestBatchRoll(t *testing.T) {
	router := testRouter(t)

	w := postJSON(t, router, "/api/v1/batch", models.BatchRequest{
		Model: steadyEconomy(),
		Runs: []models.BatchRun{
			{ID: "r04-roll", Exo: neutralExo(4), Roll: &models.RollRef{Base: "r01-baseline", Year: 2}},
			{ID: "r01-baseline", Exo: neutralExo(4)},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.BatchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Equal(t, "completed", resp.Status)
	for _, run := range resp.Runs {
		require.Equal(t, "completed", run.Status)
		require.Equal(t, 5, run.Summary.Periods)
		require.InDelta(t, 80, run.Summary.FinalCapital, 1e-9)
	}
}

func TestBatchRejectsDuplicateIDs(t *testing.T) {
	w := postJSON(t, testRouter(t), "/api/v1/batch", models.BatchRequest{
		Model: steadyEconomy(),
		Runs: []models.BatchRun{
			{ID: "r01-baseline", Exo: neutralExo(2)},
			{ID: "r01-baseline", Exo: neutralExo(2)},
		},
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	detail := decodeError(t, w)
	require.Equal(t, "INVALID_REQUEST", detail.Code)
	require.Contains(t, detail.Message, `duplicate run id "r01-baseline"`)
}

func TestCompareRanksVariations(t *testing.T) {
	router := testRouter(t)

	ptcExo := neutralExo(2)
	for i := range ptcExo {
		ptcExo[i].ProductionCredit = 0.1
	}

	w := postJSON(t, router, "/api/v1/compare", models.CompareRequest{
		Model: steadyEconomy(),
		Base:  models.BatchRun{ID: "r01-baseline", Exo: neutralExo(2)},
		Variations: []models.BatchRun{
			{ID: "r05-neutral", Exo: neutralExo(2)},
			{ID: "r02-ptc", Exo: ptcExo},
			{ID: "r06-poisoned", Exo: poisonedExo(2)},
		},
		Options: models.CompareOptions{IncludeDeltas: true},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.CompareResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Equal(t, "r01-baseline", resp.BaseID)
	require.Len(t, resp.Rankings, 2)

	// The production credit expands output, so it ranks first.
	require.Equal(t, 1, resp.Rankings[0].Rank)
	require.Equal(t, "r02-ptc", resp.Rankings[0].ScenarioID)
	require.Greater(t, resp.Rankings[0].MeanOutput, 0.0)
	require.Greater(t, resp.Rankings[0].TotalRevPTC, 0.0)
	require.Len(t, resp.Rankings[0].Deltas, 3)

	require.Equal(t, 2, resp.Rankings[1].Rank)
	require.Equal(t, "r05-neutral", resp.Rankings[1].ScenarioID)
	require.InDelta(t, 0, resp.Rankings[1].MeanOutput, 1e-12)

	require.Len(t, resp.Failures, 1)
	require.Equal(t, "r06-poisoned", resp.Failures[0].RunID)
	require.Equal(t, "EQUILIBRIUM_ERROR", resp.Failures[0].Error.Code)
}

func TestCompareFailsWhenBaseFails(t *testing.T) {
	w := postJSON(t, testRouter(t), "/api/v1/compare", models.CompareRequest{
		Model:      steadyEconomy(),
		Base:       models.BatchRun{ID: "r01-baseline", Exo: poisonedExo(2)},
		Variations: []models.BatchRun{{ID: "r02-ptc", Exo: neutralExo(2)}},
	})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Equal(t, "EQUILIBRIUM_ERROR", decodeError(t, w).Code)
}

func TestListModes(t *testing.T) {
	w := getPath(t, testRouter(t), "/api/v1/modes")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Modes []models.ModeInfo `json:"modes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.Modes, 2)
	require.Equal(t, "exogenous", resp.Modes[0].Name)
	require.Equal(t, "endogenous", resp.Modes[1].Name)
	require.Len(t, resp.Modes[1].Parameters, 3)
}

func TestGetTrajectoryNotFound(t *testing.T) {
	w := getPath(t, testRouter(t), "/api/v1/runs/deadbeef/trajectory")

	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "RESULT_NOT_FOUND", decodeError(t, w).Code)
}
