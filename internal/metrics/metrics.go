package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymhub_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gymhub_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	GymsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymhub_gyms_created_total",
			Help: "Total number of gyms created",
		},
	)

	MembershipsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymhub_memberships_total",
			Help: "Total number of memberships registered",
		},
	)

	PaymentVerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymhub_payment_verifications_total",
			Help: "Total number of payment verification attempts",
		},
		[]string{"result"},
	)

	TransfersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymhub_transfers_total",
			Help: "Total number of outbound ledger transfers",
		},
		[]string{"status"},
	)

	ReservationsExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymhub_reservations_expired_total",
			Help: "Total number of payment reservations discarded by expiry",
		},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymhub_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordGymCreated() {
	GymsCreatedTotal.Inc()
}

func RecordMembership() {
	MembershipsTotal.Inc()
}

func RecordVerification(result string) {
	PaymentVerificationsTotal.WithLabelValues(result).Inc()
}

func RecordTransfer(status string) {
	TransfersTotal.WithLabelValues(status).Inc()
}

func RecordReservationExpired() {
	ReservationsExpiredTotal.Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}
