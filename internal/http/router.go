package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/taskmanager/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.HSTSMaxAge > 0 {
		router.Use(auth.StrictTransportSecurityMiddleware(cfg.HSTSMaxAge))
	}

	// The SPA is served from another origin
	if len(cfg.AllowedOrigins) > 0 {
		router.Use(cors.New(corsConfig(cfg.AllowedOrigins)))
	}

	checkers := map[string]HealthChecker{}
	if cfg.Database != nil {
		checkers["database"] = cfg.Database
	}
	if cfg.Revocation != nil {
		checkers["revocation"] = cfg.Revocation
	}
	health := NewHealthController(checkers, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	authController := auth.NewAuthController(cfg.AuthService)
	authController.RegisterRoutes(router)

	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.Handler())
	{
		authController.RegisterProtectedRoutes(protected)
		NewProfileController(cfg.AuthService).RegisterRoutes(protected)
		NewTasksController(cfg.TaskStore).RegisterRoutes(protected)
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", RequestIDHeader},
		ExposeHeaders:    []string{RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
}
