// Package metrics exposes the Prometheus collectors recorded by winelocals.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	feedFetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "winelocals_feed_fetch_total",
		Help: "Content API feed fetches by outcome",
	}, []string{"outcome"}) // outcome=success|failure

	feedItemsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "winelocals_feed_items_dropped_total",
		Help: "Products dropped during normalization by reason",
	}, []string{"reason"})

	mediaResolveTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "winelocals_media_resolve_total",
		Help: "Media descriptors resolved by kind and playability",
	}, []string{"kind", "playable"})

	feedTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "winelocals_feed_transitions_total",
		Help: "Active index changes by triggering gesture",
	}, []string{"trigger"})

	gesturesSuppressed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "winelocals_feed_gestures_suppressed_total",
		Help: "Index-changing gestures ignored during the cooldown window",
	})

	playRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "winelocals_player_play_rejected_total",
		Help: "Play attempts rejected by the element (e.g. autoplay policy) and swallowed",
	})

	apiRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "winelocals_api_requests_total",
		Help: "Requests sent to remote APIs by endpoint and status class",
	}, []string{"endpoint", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "winelocals_http_request_duration_seconds",
		Help:    "Local shell host request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "code"})
)

// RecordFeedFetch counts a feed fetch outcome.
func RecordFeedFetch(ok bool) {
	if ok {
		feedFetchTotal.WithLabelValues("success").Inc()
		return
	}
	feedFetchTotal.WithLabelValues("failure").Inc()
}

// RecordItemDropped counts a product dropped during normalization.
func RecordItemDropped(reason string) {
	feedItemsDropped.WithLabelValues(reason).Inc()
}

// RecordResolve counts a media resolution.
func RecordResolve(kind string, playable bool) {
	mediaResolveTotal.WithLabelValues(kind, strconv.FormatBool(playable)).Inc()
}

// RecordTransition counts an active index change.
func RecordTransition(trigger string) {
	feedTransitions.WithLabelValues(trigger).Inc()
}

// RecordSuppressedGesture counts a gesture dropped by the cooldown.
func RecordSuppressedGesture() {
	gesturesSuppressed.Inc()
}

// RecordPlayRejected counts a swallowed play failure.
func RecordPlayRejected() {
	playRejected.Inc()
}

// RecordAPIRequest counts a remote API call; status 0 means transport failure.
func RecordAPIRequest(endpoint string, status int) {
	class := "error"
	if status > 0 {
		class = strconv.Itoa(status/100) + "xx"
	}
	apiRequests.WithLabelValues(endpoint, class).Inc()
}

// ObserveHTTP records one local host request.
func ObserveHTTP(method, route string, code int, elapsed time.Duration) {
	httpRequestDuration.WithLabelValues(method, route, strconv.Itoa(code)).Observe(elapsed.Seconds())
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
