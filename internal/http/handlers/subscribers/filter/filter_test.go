package filter

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/subscribers-admin/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscribers-admin/internal/services/subscriberlist"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) ToggleTodayFilter() subscriberlist.Page {
	return m.Called().Get(0).(subscriberlist.Page)
}

func (m *ServiceMock) ToggleActiveFilter(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestFilterHandler_ServeHTTP(t *testing.T) {
	handler := New(slog.New(slog.NewTextHandler(io.Discard, nil)))

	tests := []struct {
		name     string
		filter   string
		setup    func(m *ServiceMock)
		wantCode int
	}{
		{
			name:   "today",
			filter: Today,
			setup: func(m *ServiceMock) {
				m.On("ToggleTodayFilter").Return(subscriberlist.Page{}).Once()
			},
			wantCode: http.StatusSeeOther,
		},
		{
			name:   "active",
			filter: Active,
			setup: func(m *ServiceMock) {
				m.On("ToggleActiveFilter", mock.Anything).Return(nil).Once()
			},
			wantCode: http.StatusSeeOther,
		},
		{
			name:   "active reload failed still redirects",
			filter: Active,
			setup: func(m *ServiceMock) {
				m.On("ToggleActiveFilter", mock.Anything).Return(errors.New("boom")).Once()
			},
			wantCode: http.StatusSeeOther,
		},
		{
			name:   "active disabled",
			filter: Active,
			setup: func(m *ServiceMock) {
				m.On("ToggleActiveFilter", mock.Anything).Return(subscriberlist.ErrActiveFilterDisabled).Once()
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:     "unknown",
			filter:   "paid",
			setup:    func(m *ServiceMock) {},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			tt.setup(svc)

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("name", tt.filter)
			req := httptest.NewRequest(http.MethodPost, "/filters/"+tt.filter, nil)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = context.WithValue(ctx, middlewarectx.View, svc)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req.WithContext(ctx))

			assert.Equal(t, tt.wantCode, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}
