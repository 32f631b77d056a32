// Package charge показывает диалог списания и отправляет списание в сервис.
//
// Сумма вводится в рублях. Если она не целое положительное число, диалог
// показывается снова с подсказкой и запрос в сервис не уходит.
package charge

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/subscribers-admin/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscribers-admin/internal/http/page"
	"github.com/magabrotheeeer/subscribers-admin/internal/lib/sl"
	"github.com/magabrotheeeer/subscribers-admin/internal/services/subscriberlist"
)

const (
	title            = "Списать средства"
	msgInvalidAmount = "Введите целую сумму больше нуля"
)

// Request — данные формы списания.
type Request struct {
	Amount string `validate:"required,numeric,max=19"`
}

// Service — экран оператора.
type Service interface {
	Subscriber(id string) (subscriberlist.Row, bool)
	RequestCharge(ctx context.Context, id string, input string) error
}

// Pages отрисовывает диалог списания.
type Pages interface {
	Charge(w http.ResponseWriter, r *http.Request, status int, data page.ChargeData) error
}

type Handler struct {
	log      *slog.Logger
	pages    Pages
	validate *validator.Validate
}

func New(log *slog.Logger, pages Pages) *Handler {
	return &Handler{log: log, pages: pages, validate: validator.New()}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscribers.charge"
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

	row, found := service.Subscriber(id)
	if !found {
		log.Warn("subscriber not found")
		notFound(w, r)
		return
	}
	if !row.Chargeable {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if r.Method == http.MethodGet {
		h.show(w, r, log, http.StatusOK, page.ChargeData{Title: title, Row: row})
		return
	}

	req := Request{Amount: r.FormValue("amount")}
	if err := h.validate.Struct(req); err != nil {
		log.Warn("validation failed", sl.Err(err))
		h.show(w, r, log, http.StatusUnprocessableEntity, page.ChargeData{Title: title, Row: row, Error: msgInvalidAmount, Input: req.Amount})
		return
	}

	err := service.RequestCharge(r.Context(), id, req.Amount)
	switch {
	case errors.Is(err, subscriberlist.ErrInvalidAmount):
		log.Warn("invalid amount", slog.String("amount", req.Amount))
		h.show(w, r, log, http.StatusUnprocessableEntity, page.ChargeData{Title: title, Row: row, Error: msgInvalidAmount, Input: req.Amount})
		return
	case errors.Is(err, subscriberlist.ErrNotFound):
		notFound(w, r)
		return
	case err != nil:
		log.Error("charge failed", sl.Err(err))
	default:
		log.Info("charge accepted")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request, log *slog.Logger, status int, data page.ChargeData) {
	if err := h.pages.Charge(w, r, status, data); err != nil {
		log.Error("failed to render charge dialog", sl.Err(err))
	}
}

func notFound(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusNotFound)
	render.PlainText(w, r, "subscriber not found")
}
