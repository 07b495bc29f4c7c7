package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/quicklink/internal/httpserver/deps"
	"github.com/MrSnakeDoc/quicklink/internal/httpserver/handlers"
)

func init() { Register("search", registerSearch) }

func registerSearch(r chi.Router, d deps.Deps) {
	r.With(guarded(d)...).Get("/search", handlers.Search(d))
	r.With(limited(d)...).Post("/execute", handlers.Execute(d))
}
