// Package logout завершает сессию оператора.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/subscribers-admin/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscribers-admin/internal/lib/sl"
	"github.com/magabrotheeeer/subscribers-admin/internal/subscriberapi"
)

// SessionStore читает и очищает сессию.
type SessionStore interface {
	Load(r *http.Request) (subscriberapi.Credential, string, bool)
	Clear(w http.ResponseWriter, r *http.Request) error
}

// Registry удаляет экран оператора.
type Registry interface {
	Remove(id string)
}

type Handler struct {
	log      *slog.Logger
	sessions SessionStore
	registry Registry
}

func New(log *slog.Logger, sessions SessionStore, registry Registry) *Handler {
	return &Handler{log: log, sessions: sessions, registry: registry}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if _, viewID, ok := h.sessions.Load(r); ok && viewID != "" {
		h.registry.Remove(viewID)
	}
	if err := h.sessions.Clear(w, r); err != nil {
		log.Error("failed to clear session", sl.Err(err))
	}
	log.Info("operator signed out")
	http.Redirect(w, r, middlewarectx.LoginPath, http.StatusSeeOther)
}
