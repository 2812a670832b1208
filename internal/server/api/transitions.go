// Package api provides the HTTP API handlers for the gesture teleop daemon.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ayusman/mudra/internal/store"
)

// defaultListLimit bounds an unqualified history request.
const defaultListLimit = 50

// TransitionsHandler handles HTTP requests for the command transition log.
// The log is written by the pipeline only; the API reads and prunes it.
type TransitionsHandler struct {
	store *store.Store
}

// NewTransitionsHandler creates a new TransitionsHandler with the given store.
func NewTransitionsHandler(s *store.Store) *TransitionsHandler {
	return &TransitionsHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *TransitionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/transitions or /api/transitions/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/transitions")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		// Collection endpoint: /api/transitions
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodDelete:
			h.prune(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	// Item endpoint: /api/transitions/{id}
	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Response types

type transitionResponse struct {
	ID        string  `json:"id"`
	Command   string  `json:"command"`
	Previous  string  `json:"previous"`
	Fingers   int     `json:"fingers"`
	Left      float64 `json:"left"`
	Right     float64 `json:"right"`
	CreatedAt string  `json:"created_at"`
}

type listTransitionsResponse struct {
	Transitions []transitionResponse `json:"transitions"`
	Total       int                  `json:"total"`
	Counts      map[string]int       `json:"counts"`
}

type pruneResponse struct {
	Deleted int64 `json:"deleted"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a store.Transition to a transitionResponse.
func toResponse(t *store.Transition) transitionResponse {
	return transitionResponse{
		ID:        t.ID,
		Command:   t.Command,
		Previous:  t.Previous,
		Fingers:   t.Fingers,
		Left:      t.LeftVelocity,
		Right:     t.RightVelocity,
		CreatedAt: t.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/transitions and returns the most recent transitions,
// newest first. ?limit= overrides the default page size; limit=0 returns the
// full history.
func (h *TransitionsHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	transitions, err := h.store.Transitions().List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list transitions")
		return
	}

	total, err := h.store.Transitions().Count()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count transitions")
		return
	}

	counts, err := h.store.Transitions().CountByCommand()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count transitions")
		return
	}

	response := listTransitionsResponse{
		Transitions: make([]transitionResponse, 0, len(transitions)),
		Total:       total,
		Counts:      counts,
	}

	for _, t := range transitions {
		response.Transitions = append(response.Transitions, toResponse(t))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/transitions/{id} and returns a single transition.
func (h *TransitionsHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	transition, err := h.store.Transitions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Transition not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get transition")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(transition))
}

// prune handles DELETE /api/transitions?keep=N and removes all but the N
// newest transitions. The keep parameter is mandatory so a stray DELETE
// cannot wipe the history.
func (h *TransitionsHandler) prune(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("keep")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "keep is required")
		return
	}

	keep, err := strconv.Atoi(raw)
	if err != nil || keep < 0 {
		writeError(w, http.StatusBadRequest, "Invalid keep")
		return
	}

	deleted, err := h.store.Transitions().Prune(keep)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to prune transitions")
		return
	}

	writeJSON(w, http.StatusOK, pruneResponse{Deleted: deleted})
}
