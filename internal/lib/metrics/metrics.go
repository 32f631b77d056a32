// Package metrics объявляет счётчики Prometheus, которые отдаются на /metrics.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Исходы запросов и действий.
const (
	OutcomeOK         = "ok"
	OutcomeStatus     = "status"
	OutcomeNoResponse = "no_response"
	OutcomeBuild      = "build"
	OutcomeDecode     = "decode"
	OutcomeRejected   = "rejected"
	OutcomeStale      = "stale"
)

// APIRequests считает запросы к сервису подписок по операции и исходу.
var APIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "subscribers_admin",
	Name:      "api_requests_total",
	Help:      "Requests sent to the subscriber service.",
}, []string{"op", "outcome"})

// Actions считает действия оператора: загрузку, отмену подписки, списание.
var Actions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "subscribers_admin",
	Name:      "actions_total",
	Help:      "Operator actions by outcome.",
}, []string{"action", "outcome"})

var (
	viewsOnce  sync.Once
	viewsGauge prometheus.GaugeFunc
)

// WatchViews отдаёт на /metrics число экранов операторов в памяти.
// Регистрируется один раз за процесс, повторные вызовы игнорируются.
func WatchViews(count func() int) {
	viewsOnce.Do(func() {
		viewsGauge = promauto.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "subscribers_admin",
			Name:      "views",
			Help:      "Operator views held in memory.",
		}, func() float64 { return float64(count()) })
	})
}
