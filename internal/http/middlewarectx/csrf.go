package middlewarectx

import (
	"crypto/sha256"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/gorilla/csrf"

	"github.com/magabrotheeeer/subscribers-admin/internal/config"
	"github.com/magabrotheeeer/subscribers-admin/internal/lib/sl"
)

// CSRFField — имя скрытого поля форм с CSRF-токеном.
const CSRFField = "csrf_token"

// CSRFMiddleware проверяет CSRF-токен у всех форм экрана.
// Ключ выводится из секрета сессий. Без secure_cookie запросы считаются
// пришедшими по HTTP и Referer не проверяется.
func CSRFMiddleware(log *slog.Logger, cfg config.Session) func(http.Handler) http.Handler {
	key := sha256.Sum256([]byte("csrf:" + cfg.SessionSecret))
	protect := csrf.Protect(key[:],
		csrf.Secure(cfg.SecureCookie),
		csrf.Path("/"),
		csrf.CookieName(cfg.SessionName+"-csrf"),
		csrf.FieldName(CSRFField),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Warn("csrf check failed", slog.String("path", r.URL.Path), sl.Err(csrf.FailureReason(r)))
			render.Status(r, http.StatusForbidden)
			render.PlainText(w, r, "invalid csrf token")
		})),
	)
	return func(next http.Handler) http.Handler {
		h := protect(next)
		if cfg.SecureCookie {
			return h
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}
