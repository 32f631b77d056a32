// Package list отдаёт последние записи журнала действий оператора:
// отмены подписок и списания, включая неудачные.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscribers-admin/internal/http/response"
	"github.com/magabrotheeeer/subscribers-admin/internal/journal"
	"github.com/magabrotheeeer/subscribers-admin/internal/lib/sl"
)

const (
	defaultLimit = 50
	maxLimit     = 1000
)

// Service читает журнал.
type Service interface {
	Recent(ctx context.Context, n int64) ([]journal.Entry, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.journal.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit := int64(defaultLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 || n > maxLimit {
			log.Warn("invalid limit", slog.String("limit", raw))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("limit must be between 1 and 1000"))
			return
		}
		limit = n
	}

	entries, err := h.service.Recent(r.Context(), limit)
	if err != nil {
		log.Error("failed to read journal", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read journal"))
		return
	}

	log.Debug("journal read", slog.Int("entries", len(entries)))
	render.JSON(w, r, response.StatusOKWithData(entries))
}
