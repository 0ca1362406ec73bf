package health

import (
	"time"

	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers the liveness probe on a pre-configured group.
func RegisterRoutes(g *echo.Group, environment string) {
	h := &handler{environment: environment, startedAt: time.Now()}

	g.GET("", h.status)
}
