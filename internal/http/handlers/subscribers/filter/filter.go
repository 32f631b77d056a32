// Package filter переключает фильтры экрана: «подписались сегодня» и
// «только активные». Второй фильтр перезагружает список с сервера.
package filter

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscribers-admin/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscribers-admin/internal/lib/sl"
	"github.com/magabrotheeeer/subscribers-admin/internal/services/subscriberlist"
)

const (
	// Today — имя фильтра подписавшихся сегодня
	Today = "today"
	// Active — имя фильтра активных подписок
	Active = "active"
)

// Service — экран оператора.
type Service interface {
	ToggleTodayFilter() subscriberlist.Page
	ToggleActiveFilter(ctx context.Context) error
}

type Handler struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscribers.filter"
	name := chi.URLParam(r, "name")
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("filter", name),
	)

	service, ok := r.Context().Value(middlewarectx.View).(Service)
	if !ok {
		log.Error("view not found in context")
		http.Redirect(w, r, middlewarectx.LoginPath, http.StatusSeeOther)
		return
	}

	switch name {
	case Today:
		service.ToggleTodayFilter()
	case Active:
		err := service.ToggleActiveFilter(r.Context())
		if errors.Is(err, subscriberlist.ErrActiveFilterDisabled) {
			notFound(w, r)
			return
		}
		if err != nil {
			// Уведомление уже поставлено экраном.
			log.Warn("reload after filter toggle failed", sl.Err(err))
		}
	default:
		notFound(w, r)
		return
	}

	log.Debug("filter toggled")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusNotFound)
	render.PlainText(w, r, "unknown filter")
}
