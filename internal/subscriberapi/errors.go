package subscriberapi

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrBuildRequest — запрос не удалось сформировать.
	ErrBuildRequest = errors.New("cannot build request")
	// ErrNoResponse — запрос отправлен, но ответ не получен.
	ErrNoResponse = errors.New("no response from subscriber service")
	// ErrMalformedResponse — сервер ответил 2xx, но тело не разобрать.
	ErrMalformedResponse = errors.New("malformed response body")
)

// APIError — сервер ответил статусом вне диапазона 2xx.
type APIError struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Detail     string // Сообщение из поля detail, если сервер его прислал
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

// Detail возвращает сообщение сервера из ошибки, если оно есть.
func Detail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}

// IsForbidden сообщает, что сервер отклонил пароль менеджера.
func IsForbidden(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden
}
