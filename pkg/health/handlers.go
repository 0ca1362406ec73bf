package health

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mebookmeta/backend/pkg/version"
	"github.com/pkg/errors"
)

type handler struct {
	environment string
	startedAt   time.Time
}

type statusResponse struct {
	Status      string  `json:"status"`
	Version     string  `json:"version"`
	Timestamp   string  `json:"timestamp"`
	Uptime      float64 `json:"uptime"`
	Environment string  `json:"environment"`
}

func (h *handler) status(c echo.Context) error {
	resp := statusResponse{
		Status:      "OK",
		Version:     version.Version,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Uptime:      time.Since(h.startedAt).Seconds(),
		Environment: h.environment,
	}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}
