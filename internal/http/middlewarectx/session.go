package middlewarectx

import (
	"crypto/sha256"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/magabrotheeeer/subscribers-admin/internal/config"
	"github.com/magabrotheeeer/subscribers-admin/internal/subscriberapi"
)

const (
	credentialKey = "access-password"
	viewIDKey     = "view-id"
)

// Sessions хранит пароль менеджера и идентификатор его экрана в подписанной и зашифрованной cookie.
type Sessions struct {
	store sessions.Store
	name  string
}

// NewSessions создаёт хранилище сессий на cookie.
// Ключ шифрования (AES-256) выводится из того же секрета, что и ключ подписи.
func NewSessions(cfg config.Session) *Sessions {
	blockKey := sha256.Sum256([]byte("session-block:" + cfg.SessionSecret))
	store := sessions.NewCookieStore([]byte(cfg.SessionSecret), blockKey[:])
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	return &Sessions{store: store, name: cfg.SessionName}
}

// Load возвращает сохранённый пароль и идентификатор экрана.
// ok равен false, если пароля в сессии нет.
func (s *Sessions) Load(r *http.Request) (cred subscriberapi.Credential, viewID string, ok bool) {
	sess, err := s.store.Get(r, s.name)
	if err != nil {
		return "", "", false
	}
	c, _ := sess.Values[credentialKey].(string)
	id, _ := sess.Values[viewIDKey].(string)
	if c == "" {
		return "", "", false
	}
	return subscriberapi.Credential(c), id, true
}

// Save запоминает пароль и идентификатор экрана.
func (s *Sessions) Save(w http.ResponseWriter, r *http.Request, cred subscriberapi.Credential, viewID string) error {
	sess, _ := s.store.Get(r, s.name)
	sess.Values[credentialKey] = string(cred)
	sess.Values[viewIDKey] = viewID
	return sess.Save(r, w)
}

// Clear удаляет пароль из сессии.
func (s *Sessions) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, _ := s.store.Get(r, s.name)
	delete(sess.Values, credentialKey)
	delete(sess.Values, viewIDKey)
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}
