package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()
	m.Booking(BookingCreated)
	m.Booking(BookingCreated)
	m.Booking(BookingSeatTake)
	m.Scan("valid")
	m.Notification("sync", false)

	require.Equal(t, 2.0, testutil.ToFloat64(m.bookings.WithLabelValues(BookingCreated)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.bookings.WithLabelValues(BookingSeatTake)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.scans.WithLabelValues("valid")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.notifications.WithLabelValues("sync", "failed")))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.Booking(BookingFailed)
		m.Scan("not_found")
		m.Notification("queue", true)
	})
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler(t *testing.T) {
	m := New()
	m.Scan("already_used")
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `ssems_ticket_scans_total{outcome="already_used"} 1`)
}
