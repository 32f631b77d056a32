// Package middlewarectx содержит HTTP middleware экрана подписчиков.
//
// ViewMiddleware достаёт из сессии пароль менеджера и кладёт в контекст запроса
// экран оператора (*subscriberlist.View). Если пароля нет, оператор отправляется
// на страницу входа. После перезапуска сервиса экран создаётся заново по
// сохранённому паролю.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/magabrotheeeer/subscribers-admin/internal/http/response"
	"github.com/magabrotheeeer/subscribers-admin/internal/lib/sl"
	"github.com/magabrotheeeer/subscribers-admin/internal/services/subscriberlist"
	"github.com/magabrotheeeer/subscribers-admin/internal/subscriberapi"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// View — ключ экрана оператора в контексте
	View Key = "view"
	// LoginPath — адрес страницы входа
	LoginPath = "/login"
)

// ViewFactory создаёт экран для оператора с паролем cred.
type ViewFactory func(cred subscriberapi.Credential) *subscriberlist.View

// SessionStore описывает хранилище сессий.
type SessionStore interface {
	Load(r *http.Request) (subscriberapi.Credential, string, bool)
	Save(w http.ResponseWriter, r *http.Request, cred subscriberapi.Credential, viewID string) error
	Clear(w http.ResponseWriter, r *http.Request) error
}

// ViewRegistry описывает реестр экранов.
type ViewRegistry interface {
	Get(id string) (*subscriberlist.View, bool)
	Put(id string, v *subscriberlist.View)
}

// ViewMiddleware возвращает middleware, который кладёт экран оператора в контекст.
// Экран восстанавливается под идентификатором из cookie, поэтому старая cookie
// продолжает работать. Параллельные запросы одной сессии восстанавливают его один раз.
func ViewMiddleware(log *slog.Logger, store SessionStore, registry ViewRegistry, factory ViewFactory) func(http.Handler) http.Handler {
	var restores singleflight.Group
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.ViewMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			cred, viewID, ok := store.Load(r)
			if !ok {
				unauthorized(w, r)
				return
			}

			view, found := registry.Get(viewID)
			if !found {
				issued := viewID == ""
				if issued {
					viewID = uuid.NewString()
				}
				res, err, shared := restores.Do(viewID, func() (any, error) {
					if v, ok := registry.Get(viewID); ok {
						return v, nil
					}
					v := factory(cred)
					if err := v.Load(r.Context()); err != nil && subscriberapi.IsForbidden(err) {
						return nil, err
					}
					registry.Put(viewID, v)
					return v, nil
				})
				if err != nil {
					log.Warn("stored credential rejected, asking again")
					if err := store.Clear(w, r); err != nil {
						log.Error("failed to clear session", sl.Err(err))
					}
					unauthorized(w, r)
					return
				}
				view = res.(*subscriberlist.View)
				if issued {
					if err := store.Save(w, r, cred, viewID); err != nil {
						log.Error("failed to save session", sl.Err(err))
					}
				}
				log.Info("view restored from session", slog.String("view_id", viewID), slog.Bool("shared", shared))
			}

			ctx := context.WithValue(r.Context(), View, view)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("access password required"))
		return
	}
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}
