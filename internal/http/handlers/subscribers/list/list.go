// Package list отрисовывает главный экран: таблицу подписчиков с фильтрами
// и уведомлениями, накопленными после прошлых действий оператора.
package list

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/subscribers-admin/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscribers-admin/internal/http/page"
	"github.com/magabrotheeeer/subscribers-admin/internal/lib/sl"
	"github.com/magabrotheeeer/subscribers-admin/internal/services/subscriberlist"
)

// Service — экран оператора.
type Service interface {
	Render() subscriberlist.Page
	Notices() []subscriberlist.Notice
}

// Pages отрисовывает таблицу.
type Pages interface {
	List(w http.ResponseWriter, r *http.Request, data page.ListData) error
}

type Handler struct {
	log   *slog.Logger
	pages Pages
}

func New(log *slog.Logger, pages Pages) *Handler {
	return &Handler{log: log, pages: pages}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscribers.list"
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

	p := service.Render()
	if err := h.pages.List(w, r, page.ListData{Page: p, Notices: service.Notices()}); err != nil {
		log.Error("failed to render subscribers", sl.Err(err))
		return
	}
	log.Debug("subscribers rendered", slog.Int("rows", len(p.Rows)), slog.Int("total", p.Total))
}
