package handlers

import (
	"net/http"

	"equilibrium-sim/internal/api/models"
	"equilibrium-sim/internal/api/store"
	"equilibrium-sim/internal/batch"
	"equilibrium-sim/internal/model"

	"github.com/gin-gonic/gin"
)

// BatchHandler handles multi-run requests.
type BatchHandler struct {
	store *store.Store
}

// NewBatchHandler creates a new batch handler.
func NewBatchHandler(st *store.Store) *BatchHandler {
	return &BatchHandler{store: st}
}

// RunBatch handles POST /api/v1/batch
func (h *BatchHandler) RunBatch(c *gin.Context) {
	var req models.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	mode, err := parseModeOr(req.Mode, model.PriceExogenous)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	// Runs with malformed specs are reported in the response, not dropped;
	// the rest of the batch still solves.
	preFailed := make(map[string]models.ErrorDetail)
	specs := make([]batch.RunSpec, 0, len(req.Runs))
	for _, run := range req.Runs {
		spec, err := buildSpec(run, mode, req.HorizonLength)
		if err != nil {
			_, detail := errorDetail(err)
			preFailed[run.ID] = detail
			continue
		}
		specs = append(specs, spec)
	}

	summary, err := batch.Run(c.Request.Context(), toParameters(req.Model), specs, batch.Options{
		FixedPoint: toFixedPointConfig(req.Solver),
		Workers:    req.Workers,
	}, nil)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	resp := models.BatchResponse{Status: "completed"}
	for _, run := range req.Runs {
		resp.Runs = append(resp.Runs, h.buildRunResult(run.ID, preFailed, summary))
	}
	for _, r := range resp.Runs {
		if r.Status == "failed" {
			resp.Status = "completed_with_failures"
			break
		}
	}

	c.JSON(http.StatusOK, resp)
}

// buildRunResult assembles one run's terminal status in request order.
func (h *BatchHandler) buildRunResult(id string, preFailed map[string]models.ErrorDetail, summary *batch.Summary) models.RunResult {
	if detail, ok := preFailed[id]; ok {
		return models.RunResult{RunID: id, Status: "failed", Error: &detail}
	}
	if runErr, ok := summary.Failures[id]; ok {
		_, detail := errorDetail(runErr)
		return models.RunResult{RunID: id, Status: "failed", Error: &detail}
	}

	tr := summary.Trajectories[id]
	out := models.RunResult{RunID: id, Status: "completed"}
	runSummary := buildSummary(tr)
	out.Summary = &runSummary
	if h.store != nil {
		out.ID = h.store.Put(tr)
	}
	return out
}
