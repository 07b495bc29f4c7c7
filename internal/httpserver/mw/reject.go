package mw

import (
	"net/http"

	"github.com/MrSnakeDoc/quicklink/internal/metrics"
)

// reject answers a guarded request with a small JSON error and counts it.
func reject(w http.ResponseWriter, status int, reason string) {
	metrics.Rejected(reason)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + http.StatusText(status) + `"}` + "\n"))
}
