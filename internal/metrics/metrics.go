// Package metrics exposes Prometheus counters for bookings, scans and
// ticket delivery. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Booking outcomes.
const (
	BookingCreated  = "created"
	BookingSeatTake = "seat_taken"
	BookingInvalid  = "invalid"
	BookingFailed   = "error"
)

// Metrics groups the service counters.
type Metrics struct {
	reg           *prometheus.Registry
	bookings      *prometheus.CounterVec
	scans         *prometheus.CounterVec
	notifications *prometheus.CounterVec
}

// New registers the service counters, plus the Go and process collectors,
// on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		reg: reg,
		bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ssems",
			Name:      "bookings_total",
			Help:      "Seat booking attempts by outcome.",
		}, []string{"outcome"}),
		scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ssems",
			Name:      "ticket_scans_total",
			Help:      "Ticket verification attempts by outcome.",
		}, []string{"outcome"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ssems",
			Name:      "ticket_notifications_total",
			Help:      "Ticket deliveries by mode and result.",
		}, []string{"mode", "result"}),
	}
	reg.MustRegister(
		m.bookings, m.scans, m.notifications,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Booking counts one booking attempt.
func (m *Metrics) Booking(outcome string) {
	if m == nil {
		return
	}
	m.bookings.WithLabelValues(outcome).Inc()
}

// Scan counts one verification attempt; outcome is "valid" or the reason.
func (m *Metrics) Scan(outcome string) {
	if m == nil {
		return
	}
	m.scans.WithLabelValues(outcome).Inc()
}

// Notification counts one ticket delivery attempt.
func (m *Metrics) Notification(mode string, ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.notifications.WithLabelValues(mode, result).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
