package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/quicklink/internal/httpserver/deps"
	"github.com/MrSnakeDoc/quicklink/internal/httpserver/handlers"
)

func init() { Register("commands", registerCommands) }

func registerCommands(r chi.Router, d deps.Deps) {
	r.With(guarded(d)...).Get("/commands", handlers.ListCommands(d))

	write := r.With(limited(d)...)
	write.Post("/commands", handlers.CreateCommand(d))
	write.Put("/commands/{prefix}", handlers.UpdateCommand(d))
	write.Delete("/commands/{prefix}", handlers.DeleteCommand(d))
}
