package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

const maxRequestBody = 1 << 20 // 1MB max request body

// handleAction serves GET and POST /api/v1/{skill}/{action}, forwarding
// directly to the execution collaborator. Query parameters always apply;
// a POST JSON body overrides them key by key. A body that fails to decode
// is treated as empty rather than rejected, matching how argless list/get
// invocations arrive.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	skill := chi.URLParam(r, "skill")
	action := chi.URLParam(r, "action")

	params := map[string]any{}
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}
	if r.Method == http.MethodPost {
		var body map[string]any
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&body); err == nil {
			for key, value := range body {
				params[key] = value
			}
		}
	}

	result := s.executor.Execute(r.Context(), skill, action, params)
	status := http.StatusOK
	if st, _ := result["status"].(string); st != "ok" {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, result)
}

type healthResponse struct {
	Status     string `json:"status"`
	UptimeSecs int64  `json:"uptime_seconds"`
	Skills     int    `json:"skills"`
}

// handleHealth serves GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:     "ok",
		UptimeSecs: int64(time.Since(s.startTime).Seconds()),
		Skills:     len(s.catalog.List()),
	})
}
