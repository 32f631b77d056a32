// Package subscribers отдаёт модель экрана подписчиков в JSON с учётом
// текущих фильтров оператора.
package subscribers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscribers-admin/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscribers-admin/internal/http/response"
	"github.com/magabrotheeeer/subscribers-admin/internal/services/subscriberlist"
)

// Service — экран оператора.
type Service interface {
	Render() subscriberlist.Page
}

type Handler struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.api.subscribers"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	service, ok := r.Context().Value(middlewarectx.View).(Service)
	if !ok {
		log.Error("view not found in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	p := service.Render()
	log.Debug("subscribers page built", slog.Int("rows", len(p.Rows)))
	render.JSON(w, r, response.StatusOKWithData(p))
}
