// Package metrics holds the Prometheus collectors for bookings and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics implements domain.BookingMetrics and instruments HTTP handlers.
type Metrics struct {
	gatherer prometheus.Gatherer

	bookingsCreated   prometheus.Counter
	ticketsBooked     prometheus.Counter
	bookingsCancelled prometheus.Counter
	ticketsReleased   prometheus.Counter
	bookingsRejected  *prometheus.CounterVec
	conflictRetries   *prometheus.CounterVec
	notifications     *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New registers all collectors with reg. Pass prometheus.NewRegistry() in
// tests so repeated construction does not collide.
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		gatherer: reg,
		bookingsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Total number of confirmed bookings",
		}),
		ticketsBooked: f.NewCounter(prometheus.CounterOpts{
			Name: "tickets_booked_total",
			Help: "Total number of tickets reserved by confirmed bookings",
		}),
		bookingsCancelled: f.NewCounter(prometheus.CounterOpts{
			Name: "bookings_cancelled_total",
			Help: "Total number of cancelled bookings",
		}),
		ticketsReleased: f.NewCounter(prometheus.CounterOpts{
			Name: "tickets_released_total",
			Help: "Total number of tickets returned to inventory by cancellations",
		}),
		bookingsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bookings_rejected_total",
			Help: "Booking attempts refused, by reason",
		}, []string{"reason"}),
		conflictRetries: f.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_conflict_retries_total",
			Help: "Retries caused by transient store conflicts, by operation",
		}, []string{"operation"}),
		notifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_delivered_total",
			Help: "Booking notifications handled by the consumer, by outcome",
		}, []string{"outcome"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (m *Metrics) BookingCreated(tickets int) {
	m.bookingsCreated.Inc()
	m.ticketsBooked.Add(float64(tickets))
}

func (m *Metrics) BookingCancelled(tickets int) {
	m.bookingsCancelled.Inc()
	m.ticketsReleased.Add(float64(tickets))
}

func (m *Metrics) BookingRejected(reason string) {
	m.bookingsRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) ConflictRetried(operation string) {
	m.conflictRetries.WithLabelValues(operation).Inc()
}

// NotificationHandled counts consumer outcomes ("delivered" or "failed").
func (m *Metrics) NotificationHandled(outcome string) {
	m.notifications.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Instrument records request count and latency. The route label is the chi
// route pattern so path parameters do not explode cardinality.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
