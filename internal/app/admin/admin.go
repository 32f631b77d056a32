// Package admin собирает сервис экрана подписчиков: клиент сервиса подписок,
// журнал в redis, сессии операторов и HTTP-сервер.
package admin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/subscribers-admin/internal/config"
	"github.com/magabrotheeeer/subscribers-admin/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscribers-admin/internal/http/page"
	"github.com/magabrotheeeer/subscribers-admin/internal/journal"
	"github.com/magabrotheeeer/subscribers-admin/internal/lib/metrics"
	"github.com/magabrotheeeer/subscribers-admin/internal/services/subscriberlist"
	"github.com/magabrotheeeer/subscribers-admin/internal/subscriberapi"
)

type App struct {
	server  *http.Server
	logger  *slog.Logger
	journal *journal.Journal
}

// Deps — зависимости маршрутов.
type Deps struct {
	Title    string
	CSRF     func(http.Handler) http.Handler
	Sessions *middlewarectx.Sessions
	Registry *subscriberlist.Registry
	Pages    *page.Renderer
	Limiter  *rate.Limiter
	Factory  middlewarectx.ViewFactory
	Journal  *journal.Journal // nil, если журнал выключен
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	var j *journal.Journal
	if cfg.AddressRedis != "" {
		var err error
		j, err = journal.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			return nil, err
		}
		logger.Info("action journal enabled", slog.String("key", cfg.JournalKey))
	}

	pages, err := page.New()
	if err != nil {
		return nil, err
	}

	registry := subscriberlist.NewRegistry(cfg.SessionMaxAge, cfg.MaxViews)
	metrics.WatchViews(registry.Len)

	deps := Deps{
		Title:    cfg.Title,
		CSRF:     middlewarectx.CSRFMiddleware(logger, cfg.Session),
		Sessions: middlewarectx.NewSessions(cfg.Session),
		Registry: registry,
		Pages:    pages,
		Limiter:  rate.NewLimiter(rate.Limit(cfg.ActionRate), cfg.ActionBurst),
		Factory:  NewViewFactory(subscriberapi.NewClient(cfg.BaseURL, cfg.TimeoutAPI), logger, cfg.List, j),
		Journal:  j,
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, deps)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:  srv,
		logger:  logger,
		journal: j,
	}, nil
}

// NewViewFactory возвращает фабрику экранов. Каждый оператор получает свой экран
// со своим паролем, клиент и журнал общие.
func NewViewFactory(provider subscriberlist.Provider, logger *slog.Logger, cfg config.List, j *journal.Journal) middlewarectx.ViewFactory {
	opts := subscriberlist.Options{Title: cfg.Title, ActiveFilter: cfg.ActiveFilter}
	if j != nil {
		opts.Journal = j
	}
	return func(cred subscriberapi.Credential) *subscriberlist.View {
		return subscriberlist.NewView(provider, cred, logger, opts)
	}
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if a.journal != nil {
			_ = a.journal.Close()
		}
		return err
	}
}
