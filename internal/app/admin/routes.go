package admin

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/magabrotheeeer/subscribers-admin/internal/http/handlers/api/subscribers"
	"github.com/magabrotheeeer/subscribers-admin/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/subscribers-admin/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/subscribers-admin/internal/http/handlers/health"
	journallist "github.com/magabrotheeeer/subscribers-admin/internal/http/handlers/journal/list"
	"github.com/magabrotheeeer/subscribers-admin/internal/http/handlers/subscribers/charge"
	"github.com/magabrotheeeer/subscribers-admin/internal/http/handlers/subscribers/filter"
	"github.com/magabrotheeeer/subscribers-admin/internal/http/handlers/subscribers/list"
	"github.com/magabrotheeeer/subscribers-admin/internal/http/handlers/subscribers/reload"
	"github.com/magabrotheeeer/subscribers-admin/internal/http/handlers/subscribers/search"
	"github.com/magabrotheeeer/subscribers-admin/internal/http/handlers/subscribers/toggle"
	"github.com/magabrotheeeer/subscribers-admin/internal/http/middlewarectx"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, d Deps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
	)

	// Служебные конечные точки
	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(d.CSRF)
		registerScreen(r, logger, d)
	})
}

func registerScreen(r chi.Router, logger *slog.Logger, d Deps) {
	// Открытые конечные точки
	loginHandler := login.New(logger, d.Title, d.Pages, d.Sessions, d.Registry, d.Factory)
	r.Get(middlewarectx.LoginPath, loginHandler.ServeHTTP)
	r.Post(middlewarectx.LoginPath, loginHandler.ServeHTTP)
	r.Post("/logout", logout.New(logger, d.Sessions, d.Registry).ServeHTTP)

	// Группа с экраном оператора
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.ViewMiddleware(logger, d.Sessions, d.Registry, d.Factory))

		r.Get("/", list.New(logger, d.Pages).ServeHTTP)
		r.Post("/filters/search", search.New(logger).ServeHTTP)
		r.Post("/filters/{name}", filter.New(logger).ServeHTTP)
		r.Post("/reload", reload.New(logger).ServeHTTP)

		chargeHandler := charge.New(logger, d.Pages)
		r.Get("/subscribers/{id}/charge", chargeHandler.ServeHTTP)

		// Действия над подписками уходят в сервис, их частоту ограничиваем
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger, d.Limiter))
			r.Post("/subscribers/{id}/toggle", toggle.New(logger, d.Pages).ServeHTTP)
			r.Post("/subscribers/{id}/charge", chargeHandler.ServeHTTP)
		})

		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/subscribers", subscribers.New(logger).ServeHTTP)
			if d.Journal != nil {
				r.Get("/journal", journallist.New(logger, d.Journal).ServeHTTP)
			}
		})
	})
}
