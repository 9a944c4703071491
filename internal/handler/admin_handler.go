package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emcr30/chicago-web/internal/models"
	"github.com/emcr30/chicago-web/internal/service"
	"github.com/emcr30/chicago-web/pkg/response"
)

// AdminHandler handles the authenticated store and generator endpoints.
type AdminHandler struct {
	service *service.IncidentService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(service *service.IncidentService) *AdminHandler {
	return &AdminHandler{service: service}
}

// Generate handles POST /api/v1/admin/generate
func (h *AdminHandler) Generate(c *gin.Context) {
	var req models.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid generate request body")
		return
	}

	result, err := h.service.Generate(req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, result)
}

// SaveStore handles POST /api/v1/admin/store/save
func (h *AdminHandler) SaveStore(c *gin.Context) {
	inserted, err := h.service.SaveWorkingSet()
	if err != nil {
		respondError(c, err)
		return
	}

	total, err := h.service.StoreCount()
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{
		"inserted": inserted,
		"stored":   total,
	})
}

// LoadStore handles POST /api/v1/admin/store/load
func (h *AdminHandler) LoadStore(c *gin.Context) {
	filter, ok := parseStoreFilter(c)
	if !ok {
		return
	}

	added, err := h.service.LoadStored(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{"added": added})
}

// ClearStore handles DELETE /api/v1/admin/store
func (h *AdminHandler) ClearStore(c *gin.Context) {
	removed, err := h.service.StoreClear()
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{"removed": removed})
}

type clearSessionRequest struct {
	SyntheticOnly bool `json:"syntheticOnly"`
}

// ClearSession handles POST /api/v1/admin/session/clear
func (h *AdminHandler) ClearSession(c *gin.Context) {
	var req clearSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid clear request body")
			return
		}
	}

	remaining := h.service.ClearSession(req.SyntheticOnly)
	response.Success(c, gin.H{"remaining": remaining})
}

// ListStored handles GET /api/v1/admin/store/incidents
func (h *AdminHandler) ListStored(c *gin.Context) {
	filter, ok := parseStoreFilter(c)
	if !ok {
		return
	}

	incidents, err := h.service.StoreList(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{
		"data":  incidents,
		"count": len(incidents),
	})
}

// GetStored handles GET /api/v1/admin/store/incidents/:id
func (h *AdminHandler) GetStored(c *gin.Context) {
	incident, err := h.service.StoreGet(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, incident)
}

// DeleteStored handles DELETE /api/v1/admin/store/incidents/:id
func (h *AdminHandler) DeleteStored(c *gin.Context) {
	deleted, err := h.service.StoreDelete(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !deleted {
		response.NotFound(c, "Incident not found")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// parseStoreFilter reads from/to/limit query parameters; dates are
// YYYY-MM-DD. Writes the error response itself when parsing fails.
func parseStoreFilter(c *gin.Context) (models.StoreFilter, bool) {
	var filter models.StoreFilter

	if s := c.Query("from"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			response.BadRequest(c, "Invalid from date, expected YYYY-MM-DD")
			return filter, false
		}
		filter.From = t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			response.BadRequest(c, "Invalid to date, expected YYYY-MM-DD")
			return filter, false
		}
		filter.To = t
	}

	limitStr := c.DefaultQuery("limit", "5000")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 0 {
		response.BadRequest(c, "Invalid limit parameter")
		return filter, false
	}
	filter.Limit = limit

	return filter, true
}
