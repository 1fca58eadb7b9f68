package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prospectly/leadtrack/internal/http/middleware"
	"github.com/prospectly/leadtrack/internal/service"
)

// FollowUpHandler exposes follow-up task endpoints.
type FollowUpHandler struct {
	FollowUps *service.FollowUpService
	Logger    *zap.Logger
}

func NewFollowUpHandler(followUps *service.FollowUpService, logger *zap.Logger) *FollowUpHandler {
	return &FollowUpHandler{FollowUps: followUps, Logger: logger}
}

func (h *FollowUpHandler) Create(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		DueDate     string `json:"due_date"`
		LeadID      int64  `json:"lead_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid payload."})
		return
	}
	if req.LeadID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Lead ID is required."})
		return
	}

	dueDate, ok := parseDueDate(c, req.DueDate)
	if !ok {
		return
	}

	followUp, err := h.FollowUps.Create(c.Request.Context(), identity.UserID, service.FollowUpInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     dueDate,
		LeadID:      req.LeadID,
	})
	if err != nil {
		respondServiceError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"follow_up": followUp})
}

func (h *FollowUpHandler) List(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	var leadID int64
	if raw := c.Query("lead_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid lead ID."})
			return
		}
		leadID = parsed
	}
	upcoming := strings.EqualFold(c.Query("upcoming"), "true")

	followUps, err := h.FollowUps.List(c.Request.Context(), identity.UserID, leadID, upcoming)
	if err != nil {
		respondServiceError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"follow_ups": followUps})
}

func (h *FollowUpHandler) Update(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	followUpID, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		DueDate     *string `json:"due_date"`
		Completed   *bool   `json:"completed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid payload."})
		return
	}

	input := service.UpdateFollowUpInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}
	if req.DueDate != nil {
		dueDate, ok := parseDueDate(c, *req.DueDate)
		if !ok {
			return
		}
		input.DueDate = &dueDate
	}

	followUp, err := h.FollowUps.Update(c.Request.Context(), identity.UserID, followUpID, input)
	if err != nil {
		respondServiceError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"follow_up": followUp})
}

func (h *FollowUpHandler) Delete(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	followUpID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.FollowUps.Delete(c.Request.Context(), identity.UserID, followUpID); err != nil {
		respondServiceError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Follow-up deleted successfully"})
}

// parseDueDate accepts RFC 3339 timestamps and bare dates.
func parseDueDate(c *gin.Context, raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Due date is required."})
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid date format."})
	return time.Time{}, false
}
