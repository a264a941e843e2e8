package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	AuthLoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Total number of login attempts by outcome.",
		},
		[]string{"result"},
	)

	SessionsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_sessions_created_total",
			Help: "Total number of session rows created.",
		},
	)

	LogoutsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logouts_total",
			Help: "Total number of logout calls by outcome.",
		},
		[]string{"result"},
	)

	GateDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_gate_decisions_total",
			Help: "Request gate outcomes.",
		},
		[]string{"result"},
	)
)

// MustRegister registers every collector on the default registry with a
// constant service label.
func MustRegister(serviceName string) {
	reg := prometheus.WrapRegistererWith(prometheus.Labels{"service": serviceName}, prometheus.DefaultRegisterer)
	reg.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		AuthLoginsTotal,
		SessionsCreatedTotal,
		LogoutsTotal,
		GateDecisionsTotal,
	)
}
