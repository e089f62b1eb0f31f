package api

import (
	"log/slog"
	"net/http"

	"equilibrium-sim/internal/api/handlers"
	"equilibrium-sim/internal/api/middleware"
	"equilibrium-sim/internal/api/store"

	"github.com/gin-gonic/gin"
)

// Router assembles the HTTP surface. The store holds solved trajectories for
// later retrieval; pass nil to disable result storage.
func Router(logger *slog.Logger, st *store.Store) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler())

	simulateHandler := handlers.NewSimulateHandler(st)
	batchHandler := handlers.NewBatchHandler(st)
	compareHandler := handlers.NewCompareHandler()
	runsHandler := handlers.NewRunsHandler(st)
	metaHandler := handlers.NewMetaHandler()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		v1.POST("/simulate", simulateHandler.RunSimulation)
		v1.POST("/batch", batchHandler.RunBatch)
		v1.POST("/compare", compareHandler.CompareRuns)
		v1.GET("/runs/:id/trajectory", runsHandler.GetTrajectory)
		v1.GET("/modes", metaHandler.ListModes)
	}

	return router
}
