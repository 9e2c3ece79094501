package services

import "github.com/prometheus/client_golang/prometheus"

const (
	opRegister = "register"
	opLogin    = "login"

	outcomeSuccess   = "success"
	outcomeDuplicate = "duplicate"
	outcomeInvalid   = "invalid"
	outcomeRejected  = "rejected"
	outcomeError     = "error"
)

// AuthMetrics counts registration and login outcomes.
type AuthMetrics struct {
	outcomes *prometheus.CounterVec
}

func NewAuthMetrics(reg prometheus.Registerer) *AuthMetrics {
	m := &AuthMetrics{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookapi",
			Subsystem: "auth",
			Name:      "outcomes_total",
			Help:      "Registration and login attempts by outcome.",
		}, []string{"op", "outcome"}),
	}
	reg.MustRegister(m.outcomes)
	return m
}

func (m *AuthMetrics) observe(op, outcome string) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(op, outcome).Inc()
}
