package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/quicklink/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready  bool   `json:"ready"`
	Reason string `json:"reason,omitempty"`
}

// Readyz is ready once the index has been loaded and the store answers.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.MemoryIndex.GetLastReload().IsZero() {
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Reason: "index not loaded"})
			return
		}

		if d.Store != nil {
			ctx, cancel := context.WithTimeout(r.Context(), time.Second)
			defer cancel()
			if err := d.Store.Ping(ctx); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Reason: "store unavailable"})
				return
			}
		}

		writeJSON(w, http.StatusOK, readyzResponse{Ready: true})
	}
}
