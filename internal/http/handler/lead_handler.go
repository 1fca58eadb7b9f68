package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prospectly/leadtrack/internal/domain"
	"github.com/prospectly/leadtrack/internal/http/middleware"
	"github.com/prospectly/leadtrack/internal/repository"
	"github.com/prospectly/leadtrack/internal/service"
)

// LeadHandler exposes lead CRUD endpoints.
type LeadHandler struct {
	Leads  *service.LeadService
	Logger *zap.Logger
}

func NewLeadHandler(leads *service.LeadService, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{Leads: leads, Logger: logger}
}

func (h *LeadHandler) Create(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	var input service.LeadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid payload."})
		return
	}

	lead, err := h.Leads.Create(c.Request.Context(), identity.UserID, input)
	if err != nil {
		respondServiceError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"lead": lead})
}

func (h *LeadHandler) List(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	filter := repository.LeadFilter{
		Status:    domain.LeadStatus(strings.TrimSpace(c.Query("status"))),
		Source:    strings.TrimSpace(c.Query("source")),
		Search:    strings.TrimSpace(c.Query("search")),
		SortBy:    strings.TrimSpace(c.Query("sort_by")),
		SortOrder: strings.TrimSpace(c.Query("sort_order")),
		Page:      queryInt(c, "page", 1),
		Limit:     queryInt(c, "limit", 10),
	}

	page, err := h.Leads.List(c.Request.Context(), identity.UserID, filter)
	if err != nil {
		respondServiceError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *LeadHandler) Get(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	leadID, ok := pathID(c)
	if !ok {
		return
	}

	lead, err := h.Leads.Get(c.Request.Context(), identity.UserID, leadID)
	if err != nil {
		respondServiceError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"lead": lead})
}

func (h *LeadHandler) Update(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	leadID, ok := pathID(c)
	if !ok {
		return
	}

	var input service.UpdateLeadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid payload."})
		return
	}

	lead, err := h.Leads.Update(c.Request.Context(), identity.UserID, leadID, input)
	if err != nil {
		respondServiceError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"lead": lead})
}

func (h *LeadHandler) Delete(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	leadID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.Leads.Delete(c.Request.Context(), identity.UserID, leadID); err != nil {
		respondServiceError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Lead deleted successfully"})
}

// pathID parses the :id segment. Non-numeric IDs read as a resource that
// does not exist.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "error_description": "Resource not found."})
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
