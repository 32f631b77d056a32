// Package reload перезапрашивает список подписчиков с текущими фильтрами.
package reload

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/subscribers-admin/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscribers-admin/internal/lib/sl"
)

// Service — экран оператора.
type Service interface {
	Load(ctx context.Context) error
}

type Handler struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscribers.reload"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	service, ok := r.Context().Value(middlewarectx.View).(Service)
	if !ok {
		log.Error("view not found in context")
		http.Redirect(w, r, middlewarectx.LoginPath, http.StatusSeeOther)
		return
	}

	if err := service.Load(r.Context()); err != nil {
		log.Warn("reload failed", sl.Err(err))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
