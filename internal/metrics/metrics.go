package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smmpanel_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	ResponseTimeHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "smmpanel_http_response_time_seconds",
			Help:    "Histogram of response times",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	OrdersPlaced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smmpanel_orders_placed_total",
			Help: "Orders created, by placement kind",
		},
		[]string{"kind"},
	)

	OrderFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smmpanel_order_failures_total",
			Help: "Rejected order placements, by error code",
		},
		[]string{"code"},
	)

	OrderRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "smmpanel_order_retries_total",
			Help: "Order placements retried after a concurrent update conflict",
		},
	)

	CommissionsApplied = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "smmpanel_referral_commissions_applied_total",
			Help: "Referral commissions credited to referrers",
		},
	)

	CommissionFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "smmpanel_referral_commission_failures_total",
			Help: "Referral commissions left pending after a failed apply",
		},
	)

	FulfillmentRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smmpanel_fulfillment_requests_total",
			Help: "Calls to the fulfillment provider, by action and result",
		},
		[]string{"action", "result"},
	)

	Refunds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smmpanel_refunds_total",
			Help: "Refunds credited for canceled and partial orders",
		},
		[]string{"status"},
	)
)

// Middleware records request counts and latencies by chi route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		ResponseTimeHistogram.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
