package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/quicklink/internal/httpserver/deps"
	"github.com/MrSnakeDoc/quicklink/internal/logger"
)

type reloadResponse struct {
	Triggered       bool `json:"triggered"`
	ListingsCleared int  `json:"listings_cleared"`
}

// Reload triggers a manual reload of items and commands and drops every
// cached directory listing
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cleared := 0
		if d.Directories != nil {
			cleared = d.Directories.ClearCache("")
		}

		// Trigger immediate reload
		triggered := false
		select {
		case d.ReloadTrigger <- struct{}{}:
			triggered = true
			d.Logger.Info("manual reload triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr),
				logger.Int("listings_cleared", cleared))
		default:
			d.Logger.Warn("reload already in progress",
				logger.String("remote_ip", r.RemoteAddr))
		}

		status := http.StatusAccepted
		if !triggered {
			status = http.StatusTooManyRequests
		}
		writeJSON(w, status, reloadResponse{Triggered: triggered, ListingsCleared: cleared})
	}
}
