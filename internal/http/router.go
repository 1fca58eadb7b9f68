package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/prospectly/leadtrack/internal/config"
	"github.com/prospectly/leadtrack/internal/http/handler"
	httpmiddleware "github.com/prospectly/leadtrack/internal/http/middleware"
	"github.com/prospectly/leadtrack/internal/middleware"
)

// Handlers groups the route handlers the router mounts.
type Handlers struct {
	Auth      *handler.AuthHandler
	Leads     *handler.LeadHandler
	Import    *handler.ImportHandler
	Notes     *handler.NoteHandler
	FollowUps *handler.FollowUpHandler
	Stats     *handler.StatsHandler
}

// NewRouter wires Gin routes and middleware.
func NewRouter(cfg config.Config, handlers Handlers, auth *httpmiddleware.Auth, rateLimiter *middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpmiddleware.RequestLogger(nil))
	if rateLimiter != nil {
		r.Use(rateLimiter.Handler())
	}
	r.Use(middleware.CORS(cfg))
	r.Use(otelgin.Middleware(cfg.ServiceName))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/signup", handlers.Auth.Signup)
			authGroup.POST("/signin", handlers.Auth.Signin)
			authGroup.GET("/me", auth.RequireSession, handlers.Auth.Me)
		}

		protected := api.Group("", auth.RequireSession)
		{
			leads := protected.Group("/leads")
			{
				leads.GET("", handlers.Leads.List)
				leads.POST("", handlers.Leads.Create)
				leads.POST("/bulk-import", handlers.Import.BulkImport)
				leads.GET("/:id", handlers.Leads.Get)
				leads.PUT("/:id", handlers.Leads.Update)
				leads.DELETE("/:id", handlers.Leads.Delete)
			}

			notes := protected.Group("/notes")
			{
				notes.GET("", handlers.Notes.List)
				notes.POST("", handlers.Notes.Create)
				notes.DELETE("/:id", handlers.Notes.Delete)
			}

			followUps := protected.Group("/follow-ups")
			{
				followUps.GET("", handlers.FollowUps.List)
				followUps.POST("", handlers.FollowUps.Create)
				followUps.PUT("/:id", handlers.FollowUps.Update)
				followUps.DELETE("/:id", handlers.FollowUps.Delete)
			}

			protected.GET("/dashboard/stats", handlers.Stats.Dashboard)
		}
	}

	return r
}
