package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/criminaldb/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(requestLogger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())

	router.Use(auth.JSONBodyMiddleware())
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	health := NewHealthController(cfg.Provider, cfg.Version)
	router.GET("/health", health.Status)

	api := router.Group("/api")
	api.GET("/csrf", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"token": auth.GetCSRFToken(c), "header": auth.CSRFTokenHeader})
	})

	state := cfg.AuthService.State()
	authController := NewAuthController(cfg.AuthService, cfg.Limiter, cfg.Official)
	api.POST("/auth/register", authController.Register)
	api.POST("/auth/login", authController.Login)
	api.POST("/auth/logout", authController.Logout)

	protected := api.Group("", auth.RequireIdentity(state))
	protected.GET("/auth/me", authController.Me)
	protected.POST("/auth/password", authController.ChangePassword)

	recordsController := NewRecordsController(cfg.Engine)
	protected.GET("/schema", recordsController.Schema)
	protected.GET("/schema/:entity", recordsController.EntitySchema)
	protected.GET("/records/:entity", recordsController.List)
	protected.POST("/records/:entity", recordsController.Create)
	protected.GET("/records/:entity/:id", recordsController.Get)
	protected.PUT("/records/:entity/:id", recordsController.Update)
	protected.DELETE("/records/:entity/:id", recordsController.Delete)
	protected.GET("/dashboard", recordsController.Dashboard)

	if cfg.Official != nil {
		profileController := NewProfileController(cfg.Official)
		protected.GET("/profile/official", profileController.Official)
		protected.PUT("/profile/official", profileController.SetOfficial)
	}

	return router
}
