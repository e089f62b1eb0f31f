package handlers

import (
	"net/http"

	"equilibrium-sim/internal/api/models"
	"equilibrium-sim/internal/simulate"

	"github.com/gin-gonic/gin"
)

// MetaHandler serves static metadata about the solver.
type MetaHandler struct{}

// NewMetaHandler creates a new meta handler.
func NewMetaHandler() *MetaHandler {
	return &MetaHandler{}
}

// ListModes handles GET /api/v1/modes
func (h *MetaHandler) ListModes(c *gin.Context) {
	def := simulate.DefaultFixedPointConfig()

	modes := []models.ModeInfo{
		{
			Name:        "exogenous",
			Description: "Takes the expected price path as given and runs a single simulation pass under it.",
		},
		{
			Name:        "endogenous",
			Description: "Searches for the price path the model itself reproduces, so expectations are consistent with market clearing.",
			Parameters: []models.ParameterInfo{
				{
					Name:        "damping",
					Type:        "float",
					Description: "Fraction of each update applied toward the realized path, in (0, 1]",
					Default:     def.Damping,
				},
				{
					Name:        "tolerance",
					Type:        "float",
					Description: "Largest absolute expectation miss accepted as converged",
					Default:     def.Tolerance,
				},
				{
					Name:        "max_iterations",
					Type:        "int",
					Description: "Iteration budget for the fixed point, and for bisection on inertial runs",
					Default:     def.MaxIterations,
				},
			},
		},
	}

	c.JSON(http.StatusOK, gin.H{"modes": modes})
}
