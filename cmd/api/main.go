package main

import (
	"fmt"
	"os"

	"equilibrium-sim/internal/api"
	"equilibrium-sim/internal/api/store"
	"equilibrium-sim/internal/runlog"

	"github.com/gin-gonic/gin"
)

func main() {
	// Get configuration from environment
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}
	logger := runlog.New(runlog.LevelFromString(os.Getenv("API_LOG_LEVEL")))

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	st := store.New(store.DefaultTTL)
	defer st.Close()

	router := api.Router(logger, st)

	addr := fmt.Sprintf(":%s", port)
	logger.Info("starting API server", "addr", addr)
	if err := router.Run(addr); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}
