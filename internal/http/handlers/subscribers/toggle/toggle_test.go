package toggle

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/subscribers-admin/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscribers-admin/internal/http/page"
	"github.com/magabrotheeeer/subscribers-admin/internal/services/subscriberlist"
)

// ServiceMock спрашивает подтверждение так же, как экран: отмена уходит,
// только если confirm вернул true.
type ServiceMock struct {
	mock.Mock
	prompt *subscriberlist.Prompt
}

func (m *ServiceMock) ToggleSubscription(ctx context.Context, id string, confirm subscriberlist.ConfirmFunc) error {
	if m.prompt != nil && !confirm(*m.prompt) {
		return nil
	}
	return m.Called(id).Error(0)
}

var testPrompt = &subscriberlist.Prompt{
	SubscriberID: "1",
	Title:        "Отменить подписку",
	Message:      "Точно хотите отменить подписку для пользователя a@x.com?",
	Accept:       "Продолжить",
}

func TestToggleHandler_ServeHTTP(t *testing.T) {
	handler := New(slog.New(slog.NewTextHandler(io.Discard, nil)), page.Must())

	tests := []struct {
		name         string
		confirmed    bool
		prompt       *subscriberlist.Prompt
		cancelErr    error
		wantCancel   bool
		wantCode     int
		wantBody     string
		wantLocation string
	}{
		{
			name:     "asks for confirmation",
			prompt:   testPrompt,
			wantCode: http.StatusOK,
			wantBody: `name="confirmed" value="1"`,
		},
		{
			name:         "confirmed",
			confirmed:    true,
			prompt:       testPrompt,
			wantCancel:   true,
			wantCode:     http.StatusSeeOther,
			wantLocation: "/",
		},
		{
			name:         "cancel failed",
			confirmed:    true,
			prompt:       testPrompt,
			cancelErr:    subscriberlist.ErrCancelFailed,
			wantCancel:   true,
			wantCode:     http.StatusSeeOther,
			wantLocation: "/",
		},
		{
			name:         "inactive is a no-op",
			wantCancel:   true,
			wantCode:     http.StatusSeeOther,
			wantLocation: "/",
		},
		{
			name:       "unknown subscriber",
			cancelErr:  subscriberlist.ErrNotFound,
			wantCancel: true,
			wantCode:   http.StatusNotFound,
		},
		{
			name:       "wrapped not found",
			cancelErr:  errors.Join(errors.New("op"), subscriberlist.ErrNotFound),
			wantCancel: true,
			wantCode:   http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &ServiceMock{prompt: tt.prompt}
			if tt.wantCancel {
				svc.On("ToggleSubscription", "1").Return(tt.cancelErr).Once()
			}

			form := url.Values{}
			if tt.confirmed {
				form.Set("confirmed", "1")
			}
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", "1")
			req := httptest.NewRequest(http.MethodPost, "/subscribers/1/toggle", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = context.WithValue(ctx, middlewarectx.View, svc)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req.WithContext(ctx))

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
			}
			svc.AssertExpectations(t)
		})
	}
}
