package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emcr30/chicago-web/internal/models"
	"github.com/emcr30/chicago-web/internal/service"
	"github.com/emcr30/chicago-web/internal/storage"
	"github.com/emcr30/chicago-web/internal/synth"
	"github.com/emcr30/chicago-web/pkg/response"
)

// IncidentHandler handles HTTP requests for the fetch pipeline and the
// working-set listing.
type IncidentHandler struct {
	service *service.IncidentService
}

// NewIncidentHandler creates a new incident handler
func NewIncidentHandler(service *service.IncidentService) *IncidentHandler {
	return &IncidentHandler{service: service}
}

// Fetch handles POST /api/v1/fetch
func (h *IncidentHandler) Fetch(c *gin.Context) {
	var req models.FetchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid fetch request body")
		return
	}

	result, err := h.service.Fetch(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, result)
}

// List handles GET /api/v1/incidents
func (h *IncidentHandler) List(c *gin.Context) {
	var filter models.IncidentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	incidents := h.service.List(filter)
	response.Success(c, gin.H{
		"data":  incidents,
		"count": len(incidents),
	})
}

// Export handles GET /api/v1/export
func (h *IncidentHandler) Export(c *gin.Context) {
	filename := "chicago_incidents_" + time.Now().Format("20060102") + ".csv"
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := h.service.ExportCSV(c.Writer); err != nil {
		// Headers are already out; log-and-drop is all that is left.
		c.Error(err)
	}
}

// Zones handles GET /api/v1/zones
func (h *IncidentHandler) Zones(c *gin.Context) {
	response.Success(c, h.service.Zones())
}

// respondError maps the error taxonomy to HTTP statuses. Everything is
// rendered as an inline dashboard message, never a process failure.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, synth.ErrInvalidCount):
		response.BadRequest(c, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrMemoryOnly):
		response.Error(c, http.StatusServiceUnavailable, err.Error())
	default:
		response.InternalError(c, err.Error())
	}
}
