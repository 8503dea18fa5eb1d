package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"eventhub/internal/delivery/http/helpers"
)

const readinessTimeout = time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// StatusResponse is the data payload of the probe endpoints.
type StatusResponse struct {
	Status string `json:"status"`
}

type SystemController struct {
	Logger *slog.Logger
	DB     Pinger
}

func NewSystemController(logger *slog.Logger, db Pinger) *SystemController {
	return &SystemController{Logger: logger, DB: db}
}

// Health godoc
// @Summary Liveness probe
// @Tags system
// @Produce json
// @Success 200 {object} helpers.APIResponse "data.status: ok"
// @Router /health [get]
func (c *SystemController) Health(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONSuccess(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// Ready godoc
// @Summary Readiness probe
// @Description Pings the database with a one second timeout.
// @Tags system
// @Produce json
// @Success 200 {object} helpers.APIResponse "data.status: ready"
// @Failure 503 {object} helpers.APIResponse "error.code: unavailable"
// @Router /ready [get]
func (c *SystemController) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()
	if err := c.DB.PingContext(ctx); err != nil {
		c.Logger.WarnContext(r.Context(), "readiness check failed", "err", err)
		helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeUnavailable, "database unavailable")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, StatusResponse{Status: "ready"})
}

// MediaHandler serves stored images from root. Directory listings are not exposed.
func MediaHandler(root string) http.Handler {
	files := http.StripPrefix("/media", http.FileServer(http.Dir(root)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "not found")
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=86400")
		files.ServeHTTP(w, r)
	})
}
