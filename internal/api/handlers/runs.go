package handlers

import (
	"fmt"
	"net/http"

	"equilibrium-sim/internal/api/models"
	"equilibrium-sim/internal/api/store"

	"github.com/gin-gonic/gin"
)

// RunsHandler serves stored results.
type RunsHandler struct {
	store *store.Store
}

// NewRunsHandler creates a new runs handler.
func NewRunsHandler(st *store.Store) *RunsHandler {
	return &RunsHandler{store: st}
}

// GetTrajectory handles GET /api/v1/runs/:id/trajectory
func (h *RunsHandler) GetTrajectory(c *gin.Context) {
	id := c.Param("id")

	if h.store == nil {
		respondError(c, http.StatusNotFound, "RESULT_NOT_FOUND", "result storage is disabled")
		return
	}
	tr, ok := h.store.Get(id)
	if !ok {
		respondError(c, http.StatusNotFound, "RESULT_NOT_FOUND",
			fmt.Sprintf("no stored result with id %q (results expire after a while)", id))
		return
	}

	c.JSON(http.StatusOK, models.TrajectoryResponse{
		ID:              id,
		RunID:           tr.RunID,
		Mode:            string(tr.Mode),
		Trajectory:      convertTrajectory(tr.Results),
		ResidualHistory: tr.ResidualHistory,
	})
}
