package monitor

import (
	"encoding/json"
	"net/http"
	"regexp"
	"time"
)

// setupRoutes registers all HTTP routes on the monitor's mux.
func (m *Monitor) setupRoutes() {
	// Health, no auth required
	m.mux.HandleFunc("GET /health", m.handleHealth)

	// API v1, all behind auth
	m.mux.HandleFunc("GET /api/v1/queues", m.requireAuth(m.handleListQueues))
	m.mux.HandleFunc("GET /api/v1/queues/{name}", m.requireAuth(m.handleGetQueue))
	m.mux.HandleFunc("GET /api/v1/consumers", m.requireAuth(m.handleListConsumers))

	// Write endpoints require the admin role
	m.mux.HandleFunc("POST /api/v1/gc/collect", m.requireAuth(m.requireAdmin(m.handleCollect)))
}

// response is the standard JSON envelope for successful responses.
type response struct {
	Data any `json:"data"`
}

// errorResponse is the standard JSON envelope for errors.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg, code string) {
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

// maxRequestBody is the maximum allowed request body size (1 MB).
const maxRequestBody = 1 << 20

// validPathParam matches safe path parameter values for use in Redis key
// lookups. Mirrors the name rules enforced on queues and consumer ids:
// colons would collide with the key layout, so they are rejected here too.
var validPathParam = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,128}$`)

// validatePathParam checks a path parameter value is safe to use in Redis
// keys. Writes a 400 error and returns false if invalid.
func validatePathParam(w http.ResponseWriter, name, value string) bool {
	if !validPathParam.MatchString(value) {
		writeError(w, http.StatusBadRequest, name+" contains invalid characters", "BAD_REQUEST")
		return false
	}
	return true
}

// handleHealth is the health check endpoint (no auth required).
func (m *Monitor) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := "ok"
	redisOK := true
	if p, ok := m.transport.(pinger); ok {
		if err := p.Ping(ctx); err != nil {
			status = "degraded"
			redisOK = false
		}
	}

	uptime := time.Since(m.startedAt).Truncate(time.Second).String()

	writeJSON(w, http.StatusOK, map[string]any{
		"status": status,
		"redis":  redisOK,
		"uptime": uptime,
	})
}
