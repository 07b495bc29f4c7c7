package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/quicklink/internal/domain"
	"github.com/MrSnakeDoc/quicklink/internal/httpserver/deps"
	"github.com/MrSnakeDoc/quicklink/internal/logger"
)

type executeRequest struct {
	Item domain.ListItem `json:"item"`
}

type executeResponse struct {
	Action   domain.Action `json:"action"`
	Recorded bool          `json:"recorded"`
}

// Execute records the activation of a row and returns the action the client
// should perform. Stored items are looked up by id so encrypted values never
// need to travel back from the client.
func Execute(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req executeRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		item := req.Item
		if item.ItemID != "" {
			stored, ok := d.MemoryIndex.GetItem(item.ItemID)
			if !ok {
				writeError(w, http.StatusNotFound, "item not found")
				return
			}
			item = domain.FromStoredItem(stored)
		}

		action := item.Action()
		if action.Type == domain.ActionNone {
			writeError(w, http.StatusUnprocessableEntity, "row has no action")
			return
		}

		recorded := false
		if key := item.UsageKey(); action.RecordsUsage() && key != "" {
			d.Usage.RecordUsage(key)
			recorded = true
		}

		d.Logger.Debug("row executed",
			logger.String("kind", string(item.Kind)),
			logger.String("action", string(action.Type)),
			logger.Bool("recorded", recorded))

		writeJSON(w, http.StatusOK, executeResponse{Action: action, Recorded: recorded})
	}
}
