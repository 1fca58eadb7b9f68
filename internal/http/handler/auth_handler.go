package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prospectly/leadtrack/internal/config"
	"github.com/prospectly/leadtrack/internal/http/middleware"
	"github.com/prospectly/leadtrack/internal/service"
	"github.com/prospectly/leadtrack/internal/token"
)

// AuthHandler exposes signup, signin, and session introspection endpoints.
type AuthHandler struct {
	Auth   *service.AuthService
	Signer *token.Signer
	Config config.Config
	Logger *zap.Logger
}

func NewAuthHandler(auth *service.AuthService, signer *token.Signer, cfg config.Config, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, Signer: signer, Config: cfg, Logger: logger}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid payload."})
		return
	}
	if len(strings.TrimSpace(req.Name)) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Name must be at least 2 characters."})
		return
	}
	if !strings.Contains(req.Email, "@") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid email address."})
		return
	}
	if len(req.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Password must be at least 6 characters."})
		return
	}

	session, err := h.Auth.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondServiceError(c, h.Logger, err)
		return
	}

	h.setSessionCookie(c, session.Token)
	c.JSON(http.StatusCreated, session)
}

func (h *AuthHandler) Signin(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid payload."})
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Email and password are required."})
		return
	}

	session, err := h.Auth.Signin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, h.Logger, err)
		return
	}

	h.setSessionCookie(c, session.Token)
	c.JSON(http.StatusOK, session)
}

func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "error_description": "Authentication required."})
		return
	}

	user, err := h.Auth.Me(c.Request.Context(), identity.UserID)
	if err != nil {
		respondServiceError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string) {
	maxAge := int(h.Signer.TTL().Seconds())
	c.SetCookie(middleware.SessionCookie, value, maxAge, "/", h.Config.CookieDomain, h.Config.CookieSecure, true)
}
