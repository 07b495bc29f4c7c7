package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/quicklink/internal/domain"
	"github.com/MrSnakeDoc/quicklink/internal/httpserver/deps"
	"github.com/MrSnakeDoc/quicklink/internal/items"
	"github.com/MrSnakeDoc/quicklink/internal/logger"
)

type itemResponse struct {
	ID           string          `json:"id"`
	Title        string          `json:"title,omitempty"`
	Value        string          `json:"value,omitempty"`
	DisplayTitle string          `json:"display_title"`
	DisplayValue string          `json:"display_value"`
	Kind         domain.ItemKind `json:"kind"`
	IsEncrypted  bool            `json:"is_encrypted"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// toItemResponse hides encrypted values unless reveal is set.
func toItemResponse(it domain.StoredItem, reveal bool) itemResponse {
	out := itemResponse{
		ID:           it.ID,
		Title:        it.Title,
		Value:        it.Value,
		DisplayTitle: it.DisplayTitle(),
		DisplayValue: it.DisplayValue(),
		Kind:         it.Kind(),
		IsEncrypted:  it.IsEncrypted,
		CreatedAt:    it.CreatedAt,
		UpdatedAt:    it.UpdatedAt,
	}
	if it.IsEncrypted && !reveal {
		out.Value = ""
	}
	return out
}

func revealParam(r *http.Request) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get("reveal"))
	return b
}

// ListItems returns every stored item in display order.
func ListItems(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reveal := revealParam(r)
		all := d.Items.List()
		out := make([]itemResponse, len(all))
		for i, it := range all {
			out[i] = toItemResponse(it, reveal)
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// GetItem returns one item.
func GetItem(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		it, err := d.Items.Get(chi.URLParam(r, "id"))
		if err != nil {
			itemError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, toItemResponse(it, revealParam(r)))
	}
}

// CreateItem appends an item.
func CreateItem(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var draft items.Draft
		if err := decodeJSON(w, r, &draft); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		it, err := d.Items.Add(r.Context(), draft)
		if err != nil {
			itemError(w, d.Logger, err)
			return
		}

		d.Logger.Info("item created", logger.String("id", it.ID))
		writeJSON(w, http.StatusCreated, toItemResponse(it, false))
	}
}

// UpdateItem replaces the editable fields of an item.
func UpdateItem(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var draft items.Draft
		if err := decodeJSON(w, r, &draft); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		it, err := d.Items.Update(r.Context(), chi.URLParam(r, "id"), draft)
		if err != nil {
			itemError(w, d.Logger, err)
			return
		}

		d.Logger.Info("item updated", logger.String("id", it.ID))
		writeJSON(w, http.StatusOK, toItemResponse(it, false))
	}
}

// DeleteItem removes an item.
func DeleteItem(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := d.Items.Delete(r.Context(), id); err != nil {
			itemError(w, d.Logger, err)
			return
		}

		d.Logger.Info("item deleted", logger.String("id", id))
		w.WriteHeader(http.StatusNoContent)
	}
}

func itemError(w http.ResponseWriter, log logger.Logger, err error) {
	switch {
	case errors.Is(err, items.ErrNotFound):
		writeError(w, http.StatusNotFound, "item not found")
	case errors.Is(err, items.ErrEmptyValue):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		internalError(w, log, "item operation failed", err)
	}
}
