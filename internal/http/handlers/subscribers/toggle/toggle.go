// Package toggle обрабатывает нажатие на переключатель подписки.
//
// Первый POST показывает диалог подтверждения. Подтверждённый POST
// (confirmed=1) отправляет отмену подписки в сервис. Отменённую подписку
// возобновить нельзя, поэтому для неактивного подписчика ничего не происходит.
package toggle

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscribers-admin/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscribers-admin/internal/http/page"
	"github.com/magabrotheeeer/subscribers-admin/internal/lib/sl"
	"github.com/magabrotheeeer/subscribers-admin/internal/services/subscriberlist"
)

// Service — экран оператора.
type Service interface {
	ToggleSubscription(ctx context.Context, id string, confirm subscriberlist.ConfirmFunc) error
}

// Pages отрисовывает диалог подтверждения.
type Pages interface {
	Confirm(w http.ResponseWriter, r *http.Request, data page.ConfirmData) error
}

type Handler struct {
	log   *slog.Logger
	pages Pages
}

func New(log *slog.Logger, pages Pages) *Handler {
	return &Handler{log: log, pages: pages}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscribers.toggle"
	id := chi.URLParam(r, "id")
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("subscriber_id", id),
	)

	service, ok := r.Context().Value(middlewarectx.View).(Service)
	if !ok {
		log.Error("view not found in context")
		http.Redirect(w, r, middlewarectx.LoginPath, http.StatusSeeOther)
		return
	}

	confirmed := r.FormValue("confirmed") == "1"
	var asked *subscriberlist.Prompt
	confirm := func(p subscriberlist.Prompt) bool {
		if confirmed {
			return true
		}
		asked = &p
		return false
	}

	err := service.ToggleSubscription(r.Context(), id, confirm)
	switch {
	case errors.Is(err, subscriberlist.ErrNotFound):
		log.Warn("subscriber not found")
		render.Status(r, http.StatusNotFound)
		render.PlainText(w, r, "subscriber not found")
		return
	case err != nil:
		log.Error("failed to cancel subscription", sl.Err(err))
	case asked != nil:
		if err := h.pages.Confirm(w, r, page.ConfirmData{Title: asked.Title, Prompt: *asked}); err != nil {
			log.Error("failed to render confirmation", sl.Err(err))
		}
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
