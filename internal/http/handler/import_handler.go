package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prospectly/leadtrack/internal/config"
	"github.com/prospectly/leadtrack/internal/http/middleware"
	"github.com/prospectly/leadtrack/internal/importer"
)

// ImportHandler accepts CSV and Excel uploads for bulk lead import.
type ImportHandler struct {
	Importer *importer.Importer
	Config   config.Config
	Logger   *zap.Logger
}

func NewImportHandler(imp *importer.Importer, cfg config.Config, logger *zap.Logger) *ImportHandler {
	return &ImportHandler{Importer: imp, Config: cfg, Logger: logger}
}

func (h *ImportHandler) BulkImport(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "No file uploaded"})
		return
	}
	if fileHeader.Size > h.Config.MaxImportBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "File too large. Maximum size is 10MB."})
		return
	}

	skipDuplicates := strings.EqualFold(c.PostForm("skipDuplicates"), "true")

	file, err := fileHeader.Open()
	if err != nil {
		respondServiceError(c, h.Logger, err)
		return
	}
	defer file.Close()

	result, err := h.Importer.Import(c.Request.Context(), identity.UserID, fileHeader.Filename, file, skipDuplicates)
	if err != nil {
		respondServiceError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
