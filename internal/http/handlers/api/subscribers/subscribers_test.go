package subscribers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscribers-admin/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscribers-admin/internal/services/subscriberlist"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Render() subscriberlist.Page {
	return m.Called().Get(0).(subscriberlist.Page)
}

func TestSubscribersHandler_ServeHTTP(t *testing.T) {
	handler := New(slog.New(slog.NewTextHandler(io.Discard, nil)))

	t.Run("page as json", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("Render").Return(subscriberlist.Page{
			Title: "Подписчики",
			Total: 2,
			Rows:  []subscriberlist.Row{{ID: "1", Name: "Anna", GuardianName: "Kid", Active: true}},
		}).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/subscribers", nil)
		req = req.WithContext(context.WithValue(req.Context(), middlewarectx.View, svc))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var got struct {
			Status string              `json:"status"`
			Data   subscriberlist.Page `json:"data"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "OK", got.Status)
		assert.Equal(t, 2, got.Data.Total)
		require.Len(t, got.Data.Rows, 1)
		assert.Equal(t, "Kid", got.Data.Rows[0].GuardianName)
		svc.AssertExpectations(t)
	})

	t.Run("no view", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/subscribers", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), `"error":"unauthorized"`)
	})
}
