package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/emcr30/chicago-web/internal/service"
	"github.com/emcr30/chicago-web/pkg/response"
)

// StatsHandler serves the aggregated views over the working set.
type StatsHandler struct {
	service *service.IncidentService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(service *service.IncidentService) *StatsHandler {
	return &StatsHandler{service: service}
}

// Summary handles GET /api/v1/summary
func (h *StatsHandler) Summary(c *gin.Context) {
	response.Success(c, h.service.Summary())
}

// Categories handles GET /api/v1/stats/categories
func (h *StatsHandler) Categories(c *gin.Context) {
	response.Success(c, h.service.Categories())
}

// Monthly handles GET /api/v1/stats/monthly
func (h *StatsHandler) Monthly(c *gin.Context) {
	response.Success(c, h.service.Monthly())
}

// Locations handles GET /api/v1/stats/locations
func (h *StatsHandler) Locations(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		response.BadRequest(c, "Invalid limit parameter")
		return
	}
	response.Success(c, h.service.TopLocations(limit))
}

// Hotspots handles GET /api/v1/stats/hotspots
func (h *StatsHandler) Hotspots(c *gin.Context) {
	threshold, err := strconv.Atoi(c.DefaultQuery("threshold", "30"))
	if err != nil || threshold < 0 {
		response.BadRequest(c, "Invalid threshold parameter")
		return
	}
	response.Success(c, h.service.Hotspots(threshold))
}

// MapPoints handles GET /api/v1/map/points
func (h *StatsHandler) MapPoints(c *gin.Context) {
	points := h.service.MapPoints()
	response.Success(c, gin.H{
		"data":  points,
		"count": len(points),
	})
}
