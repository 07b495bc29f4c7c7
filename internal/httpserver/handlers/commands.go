package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/quicklink/internal/commands"
	"github.com/MrSnakeDoc/quicklink/internal/domain"
	"github.com/MrSnakeDoc/quicklink/internal/httpserver/deps"
	"github.com/MrSnakeDoc/quicklink/internal/logger"
)

type commandResponse struct {
	domain.UserCommand
	Description string `json:"description"`
	IconDisplay string `json:"icon_display"`
	Valid       bool   `json:"valid"`
}

func toCommandResponse(c domain.UserCommand) commandResponse {
	return commandResponse{
		UserCommand: c,
		Description: c.Description(),
		IconDisplay: c.IconDisplay(),
		Valid:       c.Validate() == nil,
	}
}

// prefixParam reads {prefix}; the leading sigil is optional in the URL
// (/commands/docs addresses "/docs").
func prefixParam(r *http.Request) string {
	p := chi.URLParam(r, "prefix")
	if !strings.HasPrefix(p, domain.UserCommandSigil) {
		p = domain.UserCommandSigil + p
	}
	return p
}

// ListCommands returns every command in enumeration order.
func ListCommands(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all := d.Commands.List()
		out := make([]commandResponse, len(all))
		for i, c := range all {
			out[i] = toCommandResponse(c)
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// CreateCommand appends a command.
func CreateCommand(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var cmd domain.UserCommand
		if err := decodeJSON(w, r, &cmd); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := d.Commands.Add(r.Context(), cmd); err != nil {
			commandError(w, d.Logger, err)
			return
		}

		d.Logger.Info("command created", logger.String("prefix", cmd.Prefix))
		writeJSON(w, http.StatusCreated, toCommandResponse(cmd))
	}
}

// UpdateCommand replaces the first command matching {prefix}.
func UpdateCommand(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var cmd domain.UserCommand
		if err := decodeJSON(w, r, &cmd); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		prefix := prefixParam(r)
		if err := d.Commands.Update(r.Context(), prefix, cmd); err != nil {
			commandError(w, d.Logger, err)
			return
		}

		d.Logger.Info("command updated",
			logger.String("prefix", prefix),
			logger.String("new_prefix", cmd.Prefix))
		writeJSON(w, http.StatusOK, toCommandResponse(cmd))
	}
}

// DeleteCommand removes the first command matching {prefix}.
func DeleteCommand(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prefix := prefixParam(r)
		if err := d.Commands.Delete(r.Context(), prefix); err != nil {
			commandError(w, d.Logger, err)
			return
		}

		d.Logger.Info("command deleted", logger.String("prefix", prefix))
		w.WriteHeader(http.StatusNoContent)
	}
}

func commandError(w http.ResponseWriter, log logger.Logger, err error) {
	switch {
	case errors.Is(err, commands.ErrNotFound):
		writeError(w, http.StatusNotFound, "command not found")
	case errors.Is(err, commands.ErrInvalidCommand):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		internalError(w, log, "command operation failed", err)
	}
}
