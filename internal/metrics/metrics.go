// Package metrics provides centralized Prometheus metrics registry for the betting API.
package metrics

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "f1_api"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	WagersSettledTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "wagers_settled_total",
		Help:      "Total number of wagers settled, by category and outcome",
	}, []string{"category", "outcome"})
	WagersRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "wagers_rejected_total",
		Help:      "Total number of wagers rejected, by failing state and error kind",
	}, []string{"state", "kind"})
	StakeTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stake_total",
		Help:      "Sum of stakes debited by settled wagers",
	})
	PayoutTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payout_total",
		Help:      "Sum of payouts credited by winning wagers",
	})
	CacheLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Cache lookups by backend and result",
	}, []string{"backend", "result"})
	EventsPublishedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Settlement events handed to the broker, by result",
	}, []string{"result"})
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status code",
	}, []string{"route", "method", "status"})
)

// Histogram metrics
var (
	SettlementDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "settlement_duration_seconds",
		Help:      "Duration of a wager settlement from validation to commit",
		Buckets:   prometheus.DefBuckets,
	}, []string{"result"})
	WagerOdds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "wager_odds",
		Help:      "Distribution of odds priced for settled wagers",
		Buckets:   []float64{1.5, 2, 3, 4, 5, 6, 7, 8, 9},
	})
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(collectors.NewGoCollector())
		registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		registry.MustRegister(WagersSettledTotal)
		registry.MustRegister(WagersRejectedTotal)
		registry.MustRegister(StakeTotal)
		registry.MustRegister(PayoutTotal)
		registry.MustRegister(CacheLookupsTotal)
		registry.MustRegister(EventsPublishedTotal)
		registry.MustRegister(HTTPRequestsTotal)

		registry.MustRegister(SettlementDuration)
		registry.MustRegister(WagerOdds)
		registry.MustRegister(HTTPRequestDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordWagerSettled records a committed wager.
func RecordWagerSettled(category string, won bool, stake, payout, odds, durationSeconds float64) {
	outcome := "lost"
	if won {
		outcome = "won"
	}
	WagersSettledTotal.WithLabelValues(category, outcome).Inc()
	StakeTotal.Add(stake)
	PayoutTotal.Add(payout)
	WagerOdds.Observe(odds)
	SettlementDuration.WithLabelValues("settled").Observe(durationSeconds)
}

// RecordWagerRejected records a wager that failed before or during settlement.
func RecordWagerRejected(state, kind string, durationSeconds float64) {
	WagersRejectedTotal.WithLabelValues(state, kind).Inc()
	SettlementDuration.WithLabelValues("rejected").Observe(durationSeconds)
}

// RecordCacheLookup records a cache hit or miss.
func RecordCacheLookup(backend string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookupsTotal.WithLabelValues(backend, result).Inc()
}

// RecordEventPublished records the outcome of handing an event to the broker.
func RecordEventPublished(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	EventsPublishedTotal.WithLabelValues(result).Inc()
}

// RecordEventSkipped counts an event dropped while the publisher breaker is open.
func RecordEventSkipped() {
	EventsPublishedTotal.WithLabelValues("skipped").Inc()
}

// RecordHTTPRequest records a served request.
func RecordHTTPRequest(route, method string, status int, durationSeconds float64) {
	HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(route, method).Observe(durationSeconds)
}
