// Package page отрисовывает HTML-страницы экрана подписчиков из моделей
// subscriberlist.Page. Шаблоны встроены в бинарник.
package page

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gorilla/csrf"

	"github.com/magabrotheeeer/subscribers-admin/internal/services/subscriberlist"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Renderer хранит разобранные шаблоны.
type Renderer struct {
	pages map[string]*template.Template
}

// New разбирает встроенные шаблоны.
func New() (*Renderer, error) {
	const op = "page.New"
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, name := range []string{"login", "list", "confirm", "charge"} {
		t, err := template.ParseFS(templatesFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Must — как New, но паникует при ошибке.
func Must() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// ListData — данные главной страницы.
type ListData struct {
	Page      subscriberlist.Page
	Notices   []subscriberlist.Notice
	CSRFToken string
}

// LoginData — данные страницы входа.
type LoginData struct {
	Title     string
	Notices   []subscriberlist.Notice
	CSRFToken string
}

// ConfirmData — данные диалога подтверждения.
type ConfirmData struct {
	Title     string
	Prompt    subscriberlist.Prompt
	CSRFToken string
}

// ChargeData — данные диалога списания.
type ChargeData struct {
	Title     string
	Row       subscriberlist.Row
	Error     string
	Input     string
	CSRFToken string
}

// Формы страниц отправляют CSRF-токен запроса req. Без csrf-middleware токен пустой.

// List отрисовывает таблицу подписчиков.
func (r *Renderer) List(w http.ResponseWriter, req *http.Request, data ListData) error {
	data.CSRFToken = csrf.Token(req)
	return r.render(w, "list", http.StatusOK, data)
}

// Login отрисовывает запрос пароля менеджера.
func (r *Renderer) Login(w http.ResponseWriter, req *http.Request, status int, data LoginData) error {
	data.CSRFToken = csrf.Token(req)
	return r.render(w, "login", status, data)
}

// Confirm отрисовывает диалог подтверждения.
func (r *Renderer) Confirm(w http.ResponseWriter, req *http.Request, data ConfirmData) error {
	data.CSRFToken = csrf.Token(req)
	return r.render(w, "confirm", http.StatusOK, data)
}

// Charge отрисовывает диалог списания.
func (r *Renderer) Charge(w http.ResponseWriter, req *http.Request, status int, data ChargeData) error {
	data.CSRFToken = csrf.Token(req)
	return r.render(w, "charge", status, data)
}

// render сначала собирает страницу в буфер, чтобы ошибка шаблона не оставила полупустой ответ.
func (r *Renderer) render(w http.ResponseWriter, name string, status int, data any) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("page.render: unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("page.render: %w", err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
