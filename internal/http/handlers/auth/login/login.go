// Package login реализует страницу входа оператора.
//
// GET показывает форму пароля менеджера. POST создаёт экран оператора с
// введённым паролем и сразу загружает подписчиков: пароль сохраняется в
// сессии, только если сервис подписок его принял. Если в сессии уже есть
// экран, новый экран занимает его место.
package login

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/subscribers-admin/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscribers-admin/internal/http/page"
	"github.com/magabrotheeeer/subscribers-admin/internal/lib/sl"
	"github.com/magabrotheeeer/subscribers-admin/internal/services/subscriberlist"
	"github.com/magabrotheeeer/subscribers-admin/internal/subscriberapi"
)

const (
	msgPasswordRequired = "Введите пароль менеджера."
	msgUnavailable      = "Сервис подписок недоступен, попробуйте позже."
)

// Request — данные формы входа.
type Request struct {
	Password string `validate:"required,max=256"`
}

// Pages отрисовывает страницу входа.
type Pages interface {
	Login(w http.ResponseWriter, r *http.Request, status int, data page.LoginData) error
}

// SessionStore сохраняет пароль в сессии.
type SessionStore interface {
	Load(r *http.Request) (subscriberapi.Credential, string, bool)
	Save(w http.ResponseWriter, r *http.Request, cred subscriberapi.Credential, viewID string) error
}

// Registry хранит экраны операторов.
type Registry interface {
	Add(v *subscriberlist.View) string
	Put(id string, v *subscriberlist.View)
}

// Handler обрабатывает вход оператора.
type Handler struct {
	log      *slog.Logger
	title    string
	pages    Pages
	sessions SessionStore
	registry Registry
	factory  middlewarectx.ViewFactory
	validate *validator.Validate
}

// New создает Handler.
func New(log *slog.Logger, title string, pages Pages, sessions SessionStore, registry Registry, factory middlewarectx.ViewFactory) *Handler {
	return &Handler{
		log:      log,
		title:    title,
		pages:    pages,
		sessions: sessions,
		registry: registry,
		factory:  factory,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if r.Method == http.MethodGet {
		h.show(w, r, log, http.StatusOK, nil)
		return
	}

	req := Request{Password: r.PostFormValue("password")}
	if err := h.validate.Struct(req); err != nil {
		log.Warn("validation failed", sl.Err(err))
		h.show(w, r, log, http.StatusUnprocessableEntity, []subscriberlist.Notice{
			{Kind: subscriberlist.NoticeAlert, Message: msgPasswordRequired},
		})
		return
	}

	cred := subscriberapi.Credential(req.Password)
	view := h.factory(cred)
	if err := view.Load(r.Context()); err != nil {
		log.Warn("first load failed", sl.Err(err))
		notices := view.Notices()
		if len(notices) == 0 {
			notices = append(notices, subscriberlist.Notice{Kind: subscriberlist.NoticeAlert, Message: msgUnavailable})
		}
		status := http.StatusBadGateway
		if subscriberapi.IsForbidden(err) {
			status = http.StatusUnauthorized
		}
		h.show(w, r, log, status, notices)
		return
	}

	// повторный вход без выхода заменяет экран под тем же идентификатором
	_, viewID, _ := h.sessions.Load(r)
	if viewID != "" {
		h.registry.Put(viewID, view)
	} else {
		viewID = h.registry.Add(view)
	}
	if err := h.sessions.Save(w, r, cred, viewID); err != nil {
		log.Error("failed to save session", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.PlainText(w, r, "could not save session")
		return
	}

	log.Info("operator signed in", slog.String("view_id", viewID))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request, log *slog.Logger, status int, notices []subscriberlist.Notice) {
	if err := h.pages.Login(w, r, status, page.LoginData{Title: h.title, Notices: notices}); err != nil {
		log.Error("failed to render login page", sl.Err(err))
	}
}
