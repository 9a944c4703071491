package api

import (
	"embed"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/emcr30/chicago-web/internal/auth"
	"github.com/emcr30/chicago-web/internal/handler"
	"github.com/emcr30/chicago-web/internal/middleware"
	"github.com/emcr30/chicago-web/internal/service"
)

//go:embed web
var webFS embed.FS

// SetupRouter wires handlers, middleware, and the embedded dashboard.
func SetupRouter(incidents *service.IncidentService, authService *auth.Service, log *logrus.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(log))

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	incidentHandler := handler.NewIncidentHandler(incidents)
	statsHandler := handler.NewStatsHandler(incidents)
	authHandler := handler.NewAuthHandler(authService)
	adminHandler := handler.NewAdminHandler(incidents)

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Chicago incident dashboard is running",
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Dashboard
	r.GET("/", func(c *gin.Context) {
		page, err := webFS.ReadFile("web/index.html")
		if err != nil {
			c.String(http.StatusInternalServerError, "dashboard page missing")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	})

	api := r.Group("/api/v1")
	{
		api.POST("/auth/login", authHandler.Login)

		// One fetch per interaction is the model; the limiter just keeps
		// misbehaving clients off the public endpoint.
		api.POST("/fetch", middleware.RateLimit(30, time.Minute), incidentHandler.Fetch)

		api.GET("/incidents", incidentHandler.List)
		api.GET("/summary", statsHandler.Summary)
		api.GET("/export", incidentHandler.Export)
		api.GET("/zones", incidentHandler.Zones)

		stats := api.Group("/stats")
		{
			stats.GET("/categories", statsHandler.Categories)
			stats.GET("/monthly", statsHandler.Monthly)
			stats.GET("/locations", statsHandler.Locations)
			stats.GET("/hotspots", statsHandler.Hotspots)
		}

		api.GET("/map/points", statsHandler.MapPoints)

		admin := api.Group("/admin", middleware.RequireAdmin(authService))
		{
			admin.POST("/generate", adminHandler.Generate)
			admin.POST("/store/save", adminHandler.SaveStore)
			admin.POST("/store/load", adminHandler.LoadStore)
			admin.DELETE("/store", adminHandler.ClearStore)
			admin.POST("/session/clear", adminHandler.ClearSession)
			admin.GET("/store/incidents", adminHandler.ListStored)
			admin.GET("/store/incidents/:id", adminHandler.GetStored)
			admin.DELETE("/store/incidents/:id", adminHandler.DeleteStored)
		}
	}

	return r
}
