package api

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codyseavey/tcg-price-digest/internal/api/handlers"
	"github.com/codyseavey/tcg-price-digest/internal/snapshot"
)

// SetupRouter builds the serve-mode HTTP API. snapshots may be nil when the
// archive is disabled.
func SetupRouter(cache *handlers.ReportCache, snapshots *snapshot.Service) *gin.Engine {
	router := gin.Default()

	// CORS configuration - allow origins from environment or use defaults
	config := cors.DefaultConfig()
	if corsOrigins := os.Getenv("CORS_ALLOWED_ORIGINS"); corsOrigins != "" {
		config.AllowOrigins = strings.Split(corsOrigins, ",")
	} else {
		config.AllowOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	config.AllowMethods = []string{"GET", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(config))

	reportHandler := handlers.NewReportHandler(cache)
	historyHandler := handlers.NewHistoryHandler(snapshots)

	api := router.Group("/api")
	{
		api.GET("/report", reportHandler.GetReport)
		api.GET("/items", reportHandler.GetItems)
		api.GET("/history/:owner", historyHandler.GetOwnerHistory)
	}

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return router
}
