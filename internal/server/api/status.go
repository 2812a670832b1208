package api

import (
	"net/http"
	"time"

	"github.com/ayusman/mudra/internal/app"
)

// Pipeline supplies the live snapshot served by the status endpoint.
type Pipeline interface {
	Status() app.Status
}

// StatusHandler reports the current pipeline state: latched command, wheel
// setpoint, capture mode and frame counters.
type StatusHandler struct {
	pipeline Pipeline
}

// NewStatusHandler creates a new StatusHandler reading from the given pipeline.
func NewStatusHandler(p Pipeline) *StatusHandler {
	return &StatusHandler{pipeline: p}
}

type statusResponse struct {
	app.Status
	Uptime string `json:"uptime"`
}

// ServeHTTP handles GET requests to /api/status.
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap := h.pipeline.Status()

	uptime := ""
	if !snap.StartedAt.IsZero() {
		uptime = time.Since(snap.StartedAt).Round(time.Second).String()
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: snap, Uptime: uptime})
}
