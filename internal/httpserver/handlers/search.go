package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/quicklink/internal/domain"
	"github.com/MrSnakeDoc/quicklink/internal/httpserver/deps"
	"github.com/MrSnakeDoc/quicklink/internal/logger"
	"github.com/MrSnakeDoc/quicklink/internal/resolver"
)

// maxSearchLimit caps the limit query parameter.
const maxSearchLimit = 50

// Row is one ranked result as sent to clients.
type Row struct {
	Kind       domain.ListKind `json:"kind"`
	Title      string          `json:"title"`
	Value      string          `json:"value"`
	Icon       string          `json:"icon"`
	Editable   bool            `json:"editable"`
	UsageKey   string          `json:"usage_key,omitempty"`
	Score      float64         `json:"score"`
	TextScore  float64         `json:"text_score"`
	UsageScore float64         `json:"usage_score"`
	Action     domain.Action   `json:"action"`
	Item       domain.ListItem `json:"item"`
}

type searchResponse struct {
	Query   string           `json:"query"`
	Mode    domain.QueryMode `json:"mode"`
	Results []Row            `json:"results"`
}

// Search resolves ?q= against the live collections.
//
// Query parameters:
//   - q: raw search box text
//   - limit: result cap (default from config)
//   - builtins: offer built-ins in browse mode (default from config);
//     a non-empty query always searches them
func Search(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		raw := q.Get("q")

		limit := d.ResultLimit
		if v := q.Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				writeError(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			limit = min(n, maxSearchLimit)
		}

		hideFooter := d.IncludeBuiltins
		if v := q.Get("builtins"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "builtins must be a boolean")
				return
			}
			hideFooter = b
		}

		resp := d.Resolver.Resolve(r.Context(), resolver.Request{
			Query:           raw,
			Items:           d.MemoryIndex.GetAllItems(),
			Commands:        d.MemoryIndex.GetAllCommands(),
			IncludeBuiltins: hideFooter || strings.TrimSpace(raw) != "",
			Limit:           limit,
		})

		d.Logger.Debug("search request",
			logger.String("query", raw),
			logger.String("mode", string(resp.Mode)),
			logger.Int("results", len(resp.Results)))

		writeJSON(w, http.StatusOK, searchResponse{
			Query:   raw,
			Mode:    resp.Mode,
			Results: Rows(resp.Results),
		})
	}
}

// Rows converts ranked results for the wire. Encrypted values never leave in
// clear except inside the action payload.
func Rows(results []domain.RankedResult) []Row {
	rows := make([]Row, len(results))
	for i, res := range results {
		item := res.Item
		action := item.Action()
		usageKey := item.UsageKey()
		if item.Encrypted {
			item.Value = ""
			usageKey = ""
		}
		rows[i] = Row{
			Kind:       item.Kind,
			Title:      res.Item.DisplayTitle(),
			Value:      res.Item.DisplayValue(),
			Icon:       res.Item.Icon(),
			Editable:   res.Item.Editable(),
			UsageKey:   usageKey,
			Score:      res.Score,
			TextScore:  res.TextScore,
			UsageScore: res.UsageScore,
			Action:     action,
			Item:       item,
		}
	}
	return rows
}
