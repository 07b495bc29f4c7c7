package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/quicklink/internal/httpserver/deps"
)

type componentStatus struct {
	OK         bool   `json:"ok"`
	Loaded     *int   `json:"loaded,omitempty"`
	LastReload string `json:"last_reload,omitempty"`
	Mode       string `json:"mode,omitempty"`
	Impact     string `json:"impact,omitempty"`
	Error      string `json:"error,omitempty"`
}

type infraResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemsCount := d.MemoryIndex.Count()
		commandsCount := d.MemoryIndex.CommandCount()

		components := map[string]componentStatus{
			"items": {
				OK:         !d.MemoryIndex.GetLastReload().IsZero(),
				Loaded:     &itemsCount,
				LastReload: formatReload(d.MemoryIndex.GetLastReload()),
			},
			"commands": {
				OK:         !d.MemoryIndex.GetLastCommandReload().IsZero(),
				Loaded:     &commandsCount,
				LastReload: formatReload(d.MemoryIndex.GetLastCommandReload()),
			},
			"store":    checkStore(r.Context(), d),
			"resolver": {OK: true, Mode: "substring+usage-log2"},
		}

		if d.Directories != nil {
			entries := d.Directories.Len()
			components["directory_cache"] = componentStatus{OK: true, Loaded: &entries}
		}

		if d.Usage != nil {
			status := componentStatus{OK: true, Mode: "debounced"}
			if d.Usage.Dirty() {
				status.Impact = "pending-flush"
			}
			components["usage"] = status
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Status:     determineStatus(components),
			Components: components,
		})
	}
}

func formatReload(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Format("2006-01-02 15:04:05")
}

func determineStatus(components map[string]componentStatus) string {
	// Nothing loaded = nothing to search
	if items, exists := components["items"]; exists && !items.OK {
		return "critical"
	}

	// Store down = queries still served from memory, edits fail
	if store, exists := components["store"]; exists && !store.OK {
		return "degraded"
	}

	return "ok"
}

func checkStore(parent context.Context, d deps.Deps) componentStatus {
	if d.Store == nil {
		return componentStatus{
			OK:     false,
			Mode:   d.StoreBackend,
			Impact: "edits-not-persisted",
			Error:  "store not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(parent, 2*time.Second)
	defer cancel()

	if err := d.Store.Ping(ctx); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   d.StoreBackend,
			Impact: "edits-not-persisted",
			Error:  err.Error(),
		}
	}

	return componentStatus{
		OK:   true,
		Mode: d.StoreBackend,
	}
}
