// Package handler serves health over HTTP and the standard gRPC health protocol.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

// ReadinessChecker reports whether the server can take traffic.
type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

type statusBody struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func writeStatus(w http.ResponseWriter, code int, body statusBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

// Live answers 200 while the process is serving.
func Live(w http.ResponseWriter, r *http.Request) {
	writeStatus(w, http.StatusOK, statusBody{Status: "ok"})
}

// Ready answers 200 when checker passes, 503 otherwise. The failure cause is logged, not returned.
func Ready(checker ReadinessChecker, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := checker.Ready(r.Context()); err != nil {
			log.WarnContext(r.Context(), "readiness check failed", "error", err)
			writeStatus(w, http.StatusServiceUnavailable, statusBody{Status: "unavailable", Error: "dependency check failed"})
			return
		}
		writeStatus(w, http.StatusOK, statusBody{Status: "ok"})
	}
}
