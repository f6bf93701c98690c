package http

import (
	"context"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	checkers map[string]HealthChecker
	version  string
	timeout  time.Duration
}

// NewHealthController creates a health endpoint. Nil checkers are reported
// as "not configured" and do not make the service unhealthy.
func NewHealthController(checkers map[string]HealthChecker, version string) *HealthController {
	return &HealthController{
		checkers: checkers,
		version:  version,
		timeout:  2 * time.Second,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	names := make([]string, 0, len(h.checkers))
	for name := range h.checkers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		checker := h.checkers[name]
		if checker == nil {
			checks[name] = "not configured"
			continue
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		err := checker.Ping(ctx)
		cancel()

		if err != nil {
			log.Printf("Health check %s failed [request %s]: %v", name, GetRequestID(c), err)
			checks[name] = "error"
			status = "unhealthy"
		} else {
			checks[name] = "ok"
		}
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}

// Ping handles GET /ping.
func (h *HealthController) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
