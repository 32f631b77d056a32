package subscriberlist

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscribers-admin/internal/journal"
	"github.com/magabrotheeeer/subscribers-admin/internal/models"
	"github.com/magabrotheeeer/subscribers-admin/internal/subscriberapi"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) ListSubscribers(ctx context.Context, cred subscriberapi.Credential, includeInactive bool) ([]models.SubscriberRecord, error) {
	args := m.Called(ctx, cred, includeInactive)
	recs, _ := args.Get(0).([]models.SubscriberRecord)
	return recs, args.Error(1)
}

func (m *MockProvider) CancelSubscription(ctx context.Context, cred subscriberapi.Credential, email string) (*subscriberapi.CancelResponse, error) {
	args := m.Called(ctx, cred, email)
	resp, _ := args.Get(0).(*subscriberapi.CancelResponse)
	return resp, args.Error(1)
}

func (m *MockProvider) Charge(ctx context.Context, cred subscriberapi.Credential, id models.ID, amount int64) (*subscriberapi.ChargeResponse, error) {
	args := m.Called(ctx, cred, id.String(), amount)
	resp, _ := args.Get(0).(*subscriberapi.ChargeResponse)
	return resp, args.Error(1)
}

type MockJournal struct {
	mock.Mock
}

func (m *MockJournal) Record(ctx context.Context, e journal.Entry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

const testCred = subscriberapi.Credential("secret")

func newTestView(p Provider, opts Options) *View {
	opts.Now = func() time.Time { return testNow }
	return NewView(p, testCred, newNoopLogger(), opts)
}

func sampleRecords() []models.SubscriberRecord {
	return []models.SubscriberRecord{
		record("1", "Anna", "a@x.com", true, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)),
		record("2", "Ben", "b@x.com", false, testNow),
	}
}

func loadedView(t *testing.T, p *MockProvider, opts Options) *View {
	t.Helper()
	p.On("ListSubscribers", mock.Anything, testCred, false).Return(sampleRecords(), nil).Once()
	v := newTestView(p, opts)
	require.NoError(t, v.Load(context.Background()))
	return v
}

func rowNames(p Page) []string {
	out := make([]string, 0, len(p.Rows))
	for _, r := range p.Rows {
		out = append(out, r.Name)
	}
	return out
}

func TestView_LoadReplacesCollection(t *testing.T) {
	p := new(MockProvider)
	v := loadedView(t, p, Options{Title: "Подписчики"})

	page := v.Render()
	assert.True(t, page.Loaded)
	assert.Equal(t, "Подписчики", page.Title)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, []string{"Anna", "Ben"}, rowNames(page))
	assert.Empty(t, v.Notices())

	p.On("ListSubscribers", mock.Anything, testCred, false).
		Return([]models.SubscriberRecord{record("9", "Zoe", "z@x.com", true, testNow)}, nil).Once()
	require.NoError(t, v.Load(context.Background()))
	assert.Equal(t, []string{"Zoe"}, rowNames(v.Render()))

	p.AssertExpectations(t)
}

func TestView_LoadResetsPaidFlag(t *testing.T) {
	p := new(MockProvider)
	v := loadedView(t, p, Options{})

	p.On("Charge", mock.Anything, testCred, "1", int64(10000)).
		Return(&subscriberapi.ChargeResponse{ChargedSubscriberID: models.NewID("1"), ChargedAmount: 10000}, nil).Once()
	require.NoError(t, v.RequestCharge(context.Background(), "1", "100"))
	row, ok := v.Subscriber("1")
	require.True(t, ok)
	assert.True(t, row.Paid)

	p.On("ListSubscribers", mock.Anything, testCred, false).Return(sampleRecords(), nil).Once()
	require.NoError(t, v.Load(context.Background()))
	row, _ = v.Subscriber("1")
	assert.False(t, row.Paid)
}

func TestView_LoadErrors(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantAlert string
	}{
		{
			name:      "server detail",
			err:       &subscriberapi.APIError{StatusCode: http.StatusForbidden, Detail: "Неверный пароль"},
			wantAlert: "Неверный пароль",
		},
		{
			name:      "server without detail",
			err:       &subscriberapi.APIError{StatusCode: http.StatusInternalServerError},
			wantAlert: msgLoadFailed,
		},
		{
			name:      "malformed body",
			err:       subscriberapi.ErrMalformedResponse,
			wantAlert: msgLoadFailed,
		},
		{
			name: "no response is logged only",
			err:  subscriberapi.ErrNoResponse,
		},
		{
			name: "build error is logged only",
			err:  subscriberapi.ErrBuildRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := new(MockProvider)
			v := loadedView(t, p, Options{})
			p.On("ListSubscribers", mock.Anything, testCred, false).Return(nil, tt.err).Once()

			err := v.Load(context.Background())
			assert.ErrorIs(t, err, tt.err)

			notices := v.Notices()
			if tt.wantAlert == "" {
				assert.Empty(t, notices)
			} else {
				require.Len(t, notices, 1)
				assert.Equal(t, NoticeAlert, notices[0].Kind)
				assert.Equal(t, tt.wantAlert, notices[0].Message)
			}
			// Прежний список остаётся на месте.
			assert.Equal(t, []string{"Anna", "Ben"}, rowNames(v.Render()))
		})
	}
}

type funcProvider struct {
	MockProvider
	list func(includeInactive bool) ([]models.SubscriberRecord, error)
}

func (f *funcProvider) ListSubscribers(_ context.Context, _ subscriberapi.Credential, includeInactive bool) ([]models.SubscriberRecord, error) {
	return f.list(includeInactive)
}

func TestView_LoadDropsStaleResponse(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls int32

	p := &funcProvider{list: func(bool) ([]models.SubscriberRecord, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
			<-release
			return []models.SubscriberRecord{record("1", "Stale", "s@x.com", true, testNow)}, nil
		}
		return []models.SubscriberRecord{record("2", "Fresh", "f@x.com", true, testNow)}, nil
	}}
	v := newTestView(p, Options{})

	done := make(chan error, 1)
	go func() { done <- v.Load(context.Background()) }()
	<-started

	require.NoError(t, v.Load(context.Background()))
	close(release)
	require.NoError(t, <-done)

	assert.Equal(t, []string{"Fresh"}, rowNames(v.Render()))
}

func TestView_SetSearchQuery(t *testing.T) {
	p := new(MockProvider)
	v := loadedView(t, p, Options{})

	page := v.SetSearchQuery("  ann  ")
	assert.Equal(t, "ann", page.Query)
	assert.Equal(t, []string{"Anna"}, rowNames(page))

	page = v.SetSearchQuery("   ")
	assert.Equal(t, "", page.Query)
	assert.Equal(t, []string{"Anna", "Ben"}, rowNames(page))
	assert.Equal(t, "", v.State().SearchQuery)
}

func TestView_ToggleTodayFilter(t *testing.T) {
	p := new(MockProvider)
	v := loadedView(t, p, Options{})

	page := v.ToggleTodayFilter()
	assert.True(t, page.Today.On)
	assert.Equal(t, "check_box", page.Today.Icon)
	assert.Equal(t, []string{"Ben"}, rowNames(page))

	// Фильтры складываются: Анна подписана не сегодня, Бен не подходит под поиск.
	page = v.SetSearchQuery("ann")
	assert.Empty(t, page.Rows)

	v.SetSearchQuery("")
	page = v.ToggleTodayFilter()
	assert.False(t, page.Today.On)
	assert.Equal(t, "check_box_outline_blank", page.Today.Icon)
	assert.Equal(t, []string{"Anna", "Ben"}, rowNames(page))
}

func TestView_ToggleActiveFilter(t *testing.T) {
	p := new(MockProvider)
	v := loadedView(t, p, Options{ActiveFilter: true})

	page := v.Render()
	assert.True(t, page.Active.Enabled)
	assert.True(t, page.Active.On)

	p.On("ListSubscribers", mock.Anything, testCred, true).Return(sampleRecords(), nil).Once()
	require.NoError(t, v.ToggleActiveFilter(context.Background()))
	assert.False(t, v.State().OnlyActive)
	assert.Equal(t, "check_box_outline_blank", v.Render().Active.Icon)

	p.On("ListSubscribers", mock.Anything, testCred, false).Return(sampleRecords(), nil).Once()
	require.NoError(t, v.ToggleActiveFilter(context.Background()))
	assert.True(t, v.State().OnlyActive)

	p.AssertExpectations(t)
}

func TestView_ToggleActiveFilterDisabled(t *testing.T) {
	p := new(MockProvider)
	v := loadedView(t, p, Options{})

	err := v.ToggleActiveFilter(context.Background())
	assert.ErrorIs(t, err, ErrActiveFilterDisabled)
	assert.True(t, v.State().OnlyActive)
	assert.False(t, v.Render().Active.Enabled)

	p.AssertNumberOfCalls(t, "ListSubscribers", 1)
}

func TestView_RenderIsIdempotent(t *testing.T) {
	p := new(MockProvider)
	v := loadedView(t, p, Options{})
	v.SetSearchQuery("x.com")

	assert.Equal(t, v.Render(), v.Render())
}

func TestView_NoticesAreDrained(t *testing.T) {
	p := new(MockProvider)
	v := loadedView(t, p, Options{})
	p.On("ListSubscribers", mock.Anything, testCred, false).
		Return(nil, &subscriberapi.APIError{StatusCode: http.StatusBadGateway}).Once()

	_ = v.Load(context.Background())
	assert.Len(t, v.Notices(), 1)
	assert.Empty(t, v.Notices())
}
