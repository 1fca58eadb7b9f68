package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prospectly/leadtrack/internal/http/middleware"
	"github.com/prospectly/leadtrack/internal/service"
)

// NoteHandler exposes note endpoints, scoped through lead ownership.
type NoteHandler struct {
	Notes  *service.NoteService
	Logger *zap.Logger
}

func NewNoteHandler(notes *service.NoteService, logger *zap.Logger) *NoteHandler {
	return &NoteHandler{Notes: notes, Logger: logger}
}

func (h *NoteHandler) Create(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	var req struct {
		LeadID  int64  `json:"lead_id"`
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid payload."})
		return
	}
	if req.LeadID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Lead ID is required."})
		return
	}

	note, err := h.Notes.Create(c.Request.Context(), identity.UserID, req.LeadID, req.Content)
	if err != nil {
		respondServiceError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"note": note})
}

func (h *NoteHandler) List(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	leadID, err := strconv.ParseInt(c.Query("lead_id"), 10, 64)
	if err != nil || leadID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Lead ID is required."})
		return
	}

	notes, err := h.Notes.ListByLead(c.Request.Context(), identity.UserID, leadID)
	if err != nil {
		respondServiceError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

func (h *NoteHandler) Delete(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	noteID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.Notes.Delete(c.Request.Context(), identity.UserID, noteID); err != nil {
		respondServiceError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Note deleted successfully"})
}
