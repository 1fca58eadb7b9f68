package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prospectly/leadtrack/internal/http/middleware"
	"github.com/prospectly/leadtrack/internal/service"
)

// StatsHandler serves the dashboard aggregates.
type StatsHandler struct {
	Stats  *service.StatsService
	Logger *zap.Logger
}

func NewStatsHandler(stats *service.StatsService, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{Stats: stats, Logger: logger}
}

func (h *StatsHandler) Dashboard(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	stats, err := h.Stats.Dashboard(c.Request.Context(), identity.UserID)
	if err != nil {
		respondServiceError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
