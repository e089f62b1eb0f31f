package handlers

import (
	"fmt"
	"net/http"

	"equilibrium-sim/internal/analysis"
	"equilibrium-sim/internal/api/models"
	"equilibrium-sim/internal/batch"
	"equilibrium-sim/internal/model"
	"equilibrium-sim/internal/simulate"

	"github.com/gin-gonic/gin"
)

// CompareHandler handles baseline-versus-variations requests.
type CompareHandler struct{}

// NewCompareHandler creates a new compare handler.
func NewCompareHandler() *CompareHandler {
	return &CompareHandler{}
}

// CompareRuns handles POST /api/v1/compare
func (h *CompareHandler) CompareRuns(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if req.Base.ID == "" {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "base run needs an id")
		return
	}

	mode, err := parseModeOr(req.Mode, model.PriceExogenous)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	// The base must be solvable; a variation that is not still leaves the
	// rest of the comparison standing.
	baseSpec, err := buildSpec(req.Base, mode, req.HorizonLength)
	if err != nil {
		respondFailure(c, err)
		return
	}
	failures := []models.RunResult{}
	specs := []batch.RunSpec{baseSpec}
	for _, run := range req.Variations {
		spec, err := buildSpec(run, mode, req.HorizonLength)
		if err != nil {
			_, detail := errorDetail(err)
			failures = append(failures, models.RunResult{RunID: run.ID, Status: "failed", Error: &detail})
			continue
		}
		specs = append(specs, spec)
	}

	summary, err := batch.Run(c.Request.Context(), toParameters(req.Model), specs, batch.Options{
		FixedPoint: toFixedPointConfig(req.Solver),
	}, nil)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if baseErr := summary.Failures[req.Base.ID]; baseErr != nil {
		respondFailure(c, baseErr)
		return
	}
	base := summary.Trajectories[req.Base.ID]

	scenarios := make(map[string]*simulate.Trajectory)
	for _, run := range req.Variations {
		if runErr, ok := summary.Failures[run.ID]; ok {
			_, detail := errorDetail(runErr)
			failures = append(failures, models.RunResult{RunID: run.ID, Status: "failed", Error: &detail})
			continue
		}
		tr, ok := summary.Trajectories[run.ID]
		if !ok {
			continue
		}
		if len(tr.Results) != len(base.Results) {
			failures = append(failures, models.RunResult{RunID: run.ID, Status: "failed", Error: &models.ErrorDetail{
				Code:    "COMPARE_ERROR",
				Message: fmt.Sprintf("run %s covers %d periods, base covers %d", run.ID, len(tr.Results), len(base.Results)),
			}})
			continue
		}
		scenarios[run.ID] = tr
	}

	ranked, err := analysis.RankByOutputGain(base, scenarios)
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, "COMPARE_ERROR", err.Error())
		return
	}

	resp := models.CompareResponse{
		BaseID:   req.Base.ID,
		Rankings: make([]models.RankedDelta, len(ranked)),
		Failures: failures,
	}
	for i, r := range ranked {
		rd := models.RankedDelta{
			Rank:        i + 1,
			ScenarioID:  r.ScenarioID,
			MeanOutput:  r.MeanOutput,
			PeakOutput:  r.PeakOutput,
			PeakCapital: r.PeakCapital,
			TotalRevPTC: r.TotalRevPTC,
			TotalRevITC: r.TotalRevITC,
		}
		if req.Options.IncludeDeltas {
			rd.Deltas = convertDeltas(r.Deltas)
		}
		resp.Rankings[i] = rd
	}

	c.JSON(http.StatusOK, resp)
}

func convertDeltas(deltas []analysis.Delta) []models.DeltaRow {
	rows := make([]models.DeltaRow, len(deltas))
	for i, d := range deltas {
		rows[i] = models.DeltaRow{
			Period:      d.Period,
			Price:       d.Price,
			MarketPrice: d.MarketPrice,
			Output:      d.Output,
			Investment:  d.Investment,
			Capital:     d.Capital,
			RevPTC:      d.RevPTC,
			RevITC:      d.RevITC,
		}
	}
	return rows
}
