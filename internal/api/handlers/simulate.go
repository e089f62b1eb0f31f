package handlers

import (
	"errors"
	"net/http"

	"equilibrium-sim/internal/api/models"
	"equilibrium-sim/internal/api/store"
	"equilibrium-sim/internal/batch"
	"equilibrium-sim/internal/model"
	"equilibrium-sim/internal/simulate"

	"github.com/gin-gonic/gin"
)

// SimulateHandler handles single-run requests.
type SimulateHandler struct {
	store *store.Store
}

// NewSimulateHandler creates a new simulate handler.
func NewSimulateHandler(st *store.Store) *SimulateHandler {
	return &SimulateHandler{store: st}
}

// RunSimulation handles POST /api/v1/simulate
func (h *SimulateHandler) RunSimulation(c *gin.Context) {
	var req models.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	runID := req.RunID
	if runID == "" {
		runID = "adhoc"
	}
	mode, err := parseModeOr(req.Mode, model.PriceExogenous)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	spec, err := buildSpec(models.BatchRun{
		ID:             runID,
		Exo:            req.Exo,
		Prices:         req.Prices,
		InitialCapital: req.InitialCapital,
		Inertial:       req.Inertial,
	}, mode, req.HorizonLength)
	if err != nil {
		respondFailure(c, err)
		return
	}

	summary, err := batch.Run(c.Request.Context(), toParameters(req.Model), []batch.RunSpec{spec}, batch.Options{
		FixedPoint: toFixedPointConfig(req.Solver),
	}, nil)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if runErr := summary.Failures[runID]; runErr != nil {
		respondFailure(c, runErr)
		return
	}

	tr := summary.Trajectories[runID]
	resp := models.SimulateResponse{
		RunID:   runID,
		Status:  "completed",
		Summary: buildSummary(tr),
	}
	if h.store != nil {
		resp.ID = h.store.Put(tr)
	}
	if req.Options.IncludeTrajectory {
		resp.Trajectory = convertTrajectory(tr.Results)
	}
	if req.Options.IncludeResiduals {
		resp.ResidualHistory = tr.ResidualHistory
	}

	c.JSON(http.StatusOK, resp)
}

// Helper methods shared across handlers

func toParameters(m models.EconomyConfig) model.Parameters {
	return model.Parameters{
		Interest:       m.Interest,
		Depreciation:   m.Depreciation,
		AdjustCost:     m.AdjustCost,
		CapitalPrice:   m.CapitalPrice,
		Elasticity:     m.Elasticity,
		DemandScale:    m.DemandScale,
		SteadyPrice:    m.SteadyPrice,
		InitialCapital: m.InitialCapital,
	}
}

func toFixedPointConfig(s models.SolverConfig) simulate.FixedPointConfig {
	return simulate.FixedPointConfig{
		Damping:       s.Damping,
		Tolerance:     s.Tolerance,
		MaxIterations: s.MaxIterations,
		PriceFloor:    s.PriceFloor,
		PriceCeiling:  s.PriceCeiling,
	}
}

// parseModeOr parses a request mode string, falling back to def when empty.
func parseModeOr(s string, def model.Mode) (model.Mode, error) {
	if s == "" {
		return def, nil
	}
	return model.ParseMode(s)
}

// buildSpec converts one request run into an orchestrator spec. The run's
// own mode, when set, wins over the request default.
func buildSpec(run models.BatchRun, defaultMode model.Mode, horizon int) (batch.RunSpec, error) {
	mode := defaultMode
	if run.Mode != "" {
		m, err := model.ParseMode(run.Mode)
		if err != nil {
			return batch.RunSpec{}, &batch.InvalidRunSpecError{Run: run.ID, Reason: err.Error()}
		}
		mode = m
	}

	exo := model.ExogenousPath(run.Exo)
	prices := model.PricePath(run.Prices)
	if horizon > 0 {
		t, err := exo.Truncate(horizon)
		if err != nil {
			return batch.RunSpec{}, &batch.InvalidRunSpecError{Run: run.ID, Reason: err.Error()}
		}
		exo = t
		if len(prices) > len(exo) {
			prices = prices[:len(exo)]
		}
	}

	spec := batch.RunSpec{
		ID:       run.ID,
		Mode:     mode,
		Exo:      exo,
		Prices:   prices,
		Initial:  model.State{Capital: run.InitialCapital},
		Inertial: run.Inertial,
	}
	if run.Roll != nil {
		spec.Roll = &batch.RollSpec{
			Base:    run.Roll.Base,
			Year:    run.Roll.Year,
			Capital: run.Roll.Capital,
		}
	}
	return spec, nil
}

func buildSummary(tr *simulate.Trajectory) models.RunSummary {
	s := models.RunSummary{
		Mode:         string(tr.Mode),
		Periods:      len(tr.Results),
		Iterations:   tr.Iterations,
		Residual:     tr.Residual,
		FinalCapital: tr.FinalState.Capital,
		MaxPriceGap:  tr.MaxAbsPriceGap(),
	}
	for _, r := range tr.Results {
		s.MeanOutput += r.Output
		s.TotalRevPTC += r.RevPTC
		s.TotalRevITC += r.RevITC
	}
	if len(tr.Results) > 0 {
		s.MeanOutput /= float64(len(tr.Results))
	}
	return s
}

func convertTrajectory(results []model.PeriodResult) []models.PeriodRow {
	rows := make([]models.PeriodRow, len(results))
	for i, r := range results {
		rows[i] = models.PeriodRow{
			Period:           r.Period,
			Technology:       r.Technology,
			DividendTax:      r.DividendTax,
			ProductionCredit: r.ProductionCredit,
			InvestmentCredit: r.InvestmentCredit,
			Price:            r.Price,
			NetPrice:         r.NetPrice,
			NetCapitalPrice:  r.NetCapitalPrice,
			Gamma:            r.Gamma,
			ShadowSteady:     r.ShadowSteady,
			InvestSteady:     r.InvestSteady,
			CapitalSteady:    r.CapitalSteady,
			Shadow:           r.Shadow,
			Capital:          r.Capital,
			Investment:       r.Investment,
			Output:           r.Output,
			Consumption:      r.Consumption,
			RevPTC:           r.RevPTC,
			RevITC:           r.RevITC,
			MarketPrice:      r.MarketPrice,
			PriceGap:         r.PriceGap,
		}
	}
	return rows
}

// errorDetail classifies a run failure for transport.
func errorDetail(err error) (int, models.ErrorDetail) {
	var spec *batch.InvalidRunSpecError
	if errors.As(err, &spec) {
		return http.StatusBadRequest, models.ErrorDetail{
			Code:    "INVALID_RUN",
			Message: err.Error(),
			Details: map[string]interface{}{"run": spec.Run},
		}
	}
	var conv *simulate.ConvergenceError
	if errors.As(err, &conv) {
		return http.StatusUnprocessableEntity, models.ErrorDetail{
			Code:    "CONVERGENCE_ERROR",
			Message: err.Error(),
			Details: map[string]interface{}{
				"iterations": conv.Iterations,
				"residual":   conv.Residual,
			},
		}
	}
	var eq *model.EquilibriumError
	if errors.As(err, &eq) {
		return http.StatusUnprocessableEntity, models.ErrorDetail{
			Code:    "EQUILIBRIUM_ERROR",
			Message: err.Error(),
			Details: map[string]interface{}{"period": eq.Period},
		}
	}
	return http.StatusInternalServerError, models.ErrorDetail{
		Code:    "INTERNAL_ERROR",
		Message: err.Error(),
	}
}

func respondFailure(c *gin.Context, err error) {
	status, detail := errorDetail(err)
	c.JSON(status, models.ErrorResponse{Error: detail})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
