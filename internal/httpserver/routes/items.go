package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/quicklink/internal/httpserver/deps"
	"github.com/MrSnakeDoc/quicklink/internal/httpserver/handlers"
)

func init() { Register("items", registerItems) }

func registerItems(r chi.Router, d deps.Deps) {
	read := r.With(guarded(d)...)
	read.Get("/items", handlers.ListItems(d))
	read.Get("/items/{id}", handlers.GetItem(d))

	write := r.With(limited(d)...)
	write.Post("/items", handlers.CreateItem(d))
	write.Put("/items/{id}", handlers.UpdateItem(d))
	write.Delete("/items/{id}", handlers.DeleteItem(d))
}
