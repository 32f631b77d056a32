// Package subscriberlist содержит логику экрана подписчиков: загрузку списка,
// фильтры, действия над подписчиками и построение модели страницы.
package subscriberlist

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/magabrotheeeer/subscribers-admin/internal/journal"
	"github.com/magabrotheeeer/subscribers-admin/internal/lib/metrics"
	"github.com/magabrotheeeer/subscribers-admin/internal/lib/sl"
	"github.com/magabrotheeeer/subscribers-admin/internal/models"
	"github.com/magabrotheeeer/subscribers-admin/internal/subscriberapi"
)

const (
	msgLoadFailed = "Не удалось загрузить подписчиков."
	labelToday    = "Подписались сегодня"
	labelActive   = "Только активные"
)

var (
	// ErrNotFound — подписчика с таким ID нет в загруженном списке.
	ErrNotFound = errors.New("subscriber not found")
	// ErrActiveFilterDisabled — фильтр активных подписок выключен в настройках экрана.
	ErrActiveFilterDisabled = errors.New("active filter is disabled")
)

// Provider — сервис подписок.
type Provider interface {
	ListSubscribers(ctx context.Context, cred subscriberapi.Credential, includeInactive bool) ([]models.SubscriberRecord, error)
	CancelSubscription(ctx context.Context, cred subscriberapi.Credential, email string) (*subscriberapi.CancelResponse, error)
	Charge(ctx context.Context, cred subscriberapi.Credential, id models.ID, amount int64) (*subscriberapi.ChargeResponse, error)
}

// Journal сохраняет историю действий оператора.
type Journal interface {
	Record(ctx context.Context, e journal.Entry) error
}

// Options настраивает экран. Один компонент обслуживает оба варианта экрана:
// с фильтром активных подписок и без него.
type Options struct {
	Title        string
	ActiveFilter bool
	Journal      Journal          // Может быть nil
	Now          func() time.Time // По умолчанию time.Now
}

// ListState — состояние фильтров.
type ListState struct {
	SearchQuery string
	OnlyToday   bool
	OnlyActive  bool
}

// View владеет списком подписчиков и состоянием фильтров.
// Мьютекс не удерживается во время запросов к сервису.
type View struct {
	mu       sync.Mutex
	provider Provider
	cred     subscriberapi.Credential
	opts     Options
	log      *slog.Logger

	subscribers []*Subscriber
	state       ListState
	loaded      bool
	seq         uint64
	notices     []Notice
}

// NewView создаёт экран для оператора с паролем cred.
// Как и раньше, по умолчанию запрашиваются только активные подписки.
func NewView(provider Provider, cred subscriberapi.Credential, log *slog.Logger, opts Options) *View {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &View{
		provider: provider,
		cred:     cred,
		opts:     opts,
		log:      log,
		state:    ListState{OnlyActive: true},
	}
}

// Load запрашивает подписчиков и заменяет ими текущий список.
// Ответ на устаревший запрос отбрасывается: побеждает последний отправленный запрос.
func (v *View) Load(ctx context.Context) error {
	const op = "subscriberlist.View.Load"
	log := v.log.With(slog.String("op", op))

	v.mu.Lock()
	v.seq++
	seq := v.seq
	includeInactive := !v.state.OnlyActive
	v.mu.Unlock()

	records, err := v.provider.ListSubscribers(ctx, v.cred, includeInactive)

	v.mu.Lock()
	defer v.mu.Unlock()

	if seq != v.seq {
		log.Debug("dropping stale subscribers response", slog.Uint64("seq", seq), slog.Uint64("latest", v.seq))
		metrics.Actions.WithLabelValues("load", metrics.OutcomeStale).Inc()
		return nil
	}

	if err != nil {
		metrics.Actions.WithLabelValues("load", outcome(err)).Inc()
		v.reportLoadError(log, err)
		return err
	}

	subs := make([]*Subscriber, 0, len(records))
	for _, r := range records {
		subs = append(subs, NewSubscriber(r))
	}
	v.subscribers = subs
	v.loaded = true
	metrics.Actions.WithLabelValues("load", metrics.OutcomeOK).Inc()
	log.Info("subscribers loaded", slog.Int("count", len(subs)), slog.Bool("include_inactive", includeInactive))
	return nil
}

// reportLoadError логирует ошибку загрузки и ставит уведомление, если оно положено.
// Вызывается под мьютексом.
func (v *View) reportLoadError(log *slog.Logger, err error) {
	var apiErr *subscriberapi.APIError
	switch {
	case errors.As(err, &apiErr):
		log.Error("subscriber service responded with error",
			slog.Int("status", apiErr.StatusCode),
			slog.Any("headers", apiErr.Header),
			slog.String("body", string(apiErr.Body)),
		)
		msg := apiErr.Detail
		if msg == "" {
			msg = msgLoadFailed
		}
		v.alert(msg)
	case errors.Is(err, subscriberapi.ErrNoResponse):
		log.Error("no response from subscriber service", sl.Err(err))
	case errors.Is(err, subscriberapi.ErrBuildRequest):
		log.Error("cannot build subscribers request", sl.Err(err))
	default:
		log.Error("failed to load subscribers", sl.Err(err))
		v.alert(msgLoadFailed)
	}
}

// SetSearchQuery задаёт строку поиска. Пустая строка снимает фильтр.
func (v *View) SetSearchQuery(text string) Page {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.SearchQuery = strings.TrimSpace(text)
	return v.renderLocked()
}

// ToggleTodayFilter переключает фильтр подписавшихся сегодня.
func (v *View) ToggleTodayFilter() Page {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.OnlyToday = !v.state.OnlyToday
	return v.renderLocked()
}

// ToggleActiveFilter переключает фильтр активных подписок и перезагружает список:
// отбор активных выполняет сервер.
func (v *View) ToggleActiveFilter(ctx context.Context) error {
	v.mu.Lock()
	if !v.opts.ActiveFilter {
		v.mu.Unlock()
		return ErrActiveFilterDisabled
	}
	v.state.OnlyActive = !v.state.OnlyActive
	v.mu.Unlock()
	return v.Load(ctx)
}

// State возвращает текущее состояние фильтров.
func (v *View) State() ListState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Render строит модель страницы из текущего состояния.
func (v *View) Render() Page {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.renderLocked()
}

func (v *View) renderLocked() Page {
	visible := Filter(v.subscribers, v.state.SearchQuery, v.state.OnlyToday, v.opts.Now())
	rows := make([]Row, 0, len(visible))
	for _, s := range visible {
		rows = append(rows, s.Row())
	}
	return Page{
		Title:  v.opts.Title,
		Query:  v.state.SearchQuery,
		Today:  newToggle(true, v.state.OnlyToday, labelToday),
		Active: newToggle(v.opts.ActiveFilter, v.state.OnlyActive, labelActive),
		Loaded: v.loaded,
		Total:  len(v.subscribers),
		Rows:   rows,
	}
}

// Subscriber возвращает строку подписчика по ID.
func (v *View) Subscriber(id string) (Row, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	s := v.findLocked(id)
	if s == nil {
		return Row{}, false
	}
	return s.Row(), true
}

func (v *View) findLocked(id string) *Subscriber {
	for _, s := range v.subscribers {
		if s.id.String() == id {
			return s
		}
	}
	return nil
}

// Notices возвращает накопленные уведомления и очищает очередь.
func (v *View) Notices() []Notice {
	v.mu.Lock()
	defer v.mu.Unlock()
	n := v.notices
	v.notices = nil
	return n
}

func (v *View) alert(msg string) {
	v.notices = append(v.notices, Notice{Kind: NoticeAlert, Message: msg})
}

func (v *View) inform(title, msg string) {
	v.notices = append(v.notices, Notice{Kind: NoticeInfo, Title: title, Message: msg})
}

func (v *View) record(ctx context.Context, e journal.Entry) {
	if v.opts.Journal == nil {
		return
	}
	e.At = v.opts.Now()
	if err := v.opts.Journal.Record(ctx, e); err != nil {
		v.log.Warn("failed to record journal entry", slog.String("action", e.Action), sl.Err(err))
	}
}

func outcome(err error) string {
	var apiErr *subscriberapi.APIError
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.As(err, &apiErr):
		return metrics.OutcomeStatus
	case errors.Is(err, subscriberapi.ErrNoResponse):
		return metrics.OutcomeNoResponse
	case errors.Is(err, subscriberapi.ErrBuildRequest):
		return metrics.OutcomeBuild
	case errors.Is(err, subscriberapi.ErrMalformedResponse):
		return metrics.OutcomeDecode
	default:
		return metrics.OutcomeRejected
	}
}
