package http

import (
	"github.com/mrlokans/taskmanager/internal/auth"
	"github.com/mrlokans/taskmanager/internal/database"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database  *database.Database
	TaskStore TaskStore

	// Authentication
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware

	// Optional Redis-backed revocation store, reported by /health
	Revocation HealthChecker

	// Origins allowed to call the API from a browser
	AllowedOrigins []string

	// HSTS max-age in seconds, 0 disables the header
	HSTSMaxAge int

	// Application info
	Version string
}
