package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sales-batch-service/telemetry"
)

func SetupRoutes(r *gin.Engine, h *Handlers) {
	// Only POST is accepted on the batch endpoint; everything else is 405.
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	r.POST("/transactions/batch", h.BatchCreateTransactions)
	r.GET("/events", h.EventsPoll)

	r.GET("/health", h.Health)
	r.GET("/metrics", telemetry.MetricsHandler())
}
