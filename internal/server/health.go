// internal/server/health.go
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Pinger reports liveness of one backing service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependency is a named backing service surfaced on the probes.
type Dependency struct {
	Name   string
	Pinger Pinger
}

// handleHealth reports liveness. The process is healthy as long as it can
// answer; failing dependencies only degrade the status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if len(s.deps) > 0 {
		statuses := make(map[string]string, len(s.deps))
		for _, dep := range s.deps {
			if err := dep.Pinger.Ping(r.Context()); err != nil {
				statuses[dep.Name] = "down"
				body["status"] = "degraded"
			} else {
				statuses[dep.Name] = "up"
			}
		}
		body["dependencies"] = statuses
	}

	writeJSON(w, http.StatusOK, body)
}

// handleReady gates traffic on every dependency answering.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	for _, dep := range s.deps {
		if err := dep.Pinger.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": fmt.Sprintf("%s: %v", dep.Name, err),
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
