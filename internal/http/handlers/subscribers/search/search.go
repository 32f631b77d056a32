// Package search задаёт строку поиска по имени и почте подписчика.
package search

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/subscribers-admin/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscribers-admin/internal/http/response"
	"github.com/magabrotheeeer/subscribers-admin/internal/lib/sl"
	"github.com/magabrotheeeer/subscribers-admin/internal/services/subscriberlist"
)

// Request — данные формы поиска.
type Request struct {
	Query string `validate:"max=200"`
}

// Service — экран оператора.
type Service interface {
	SetSearchQuery(text string) subscriberlist.Page
}

type Handler struct {
	log      *slog.Logger
	validate *validator.Validate
}

func New(log *slog.Logger) *Handler {
	return &Handler{log: log, validate: validator.New()}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscribers.search"
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

	req := Request{Query: r.FormValue("q")}
	if err := h.validate.Struct(req); err != nil {
		log.Warn("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	p := service.SetSearchQuery(req.Query)
	log.Debug("search query applied", slog.Int("rows", len(p.Rows)))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
