// Package metrics exposes the account workflow counters in Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "trusthire"

// Outcome label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics owns its registry so tests and multiple instances never collide on
// the global default registerer. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	registrations    prometheus.Counter
	logins           *prometheus.CounterVec
	otpVerifications *prometheus.CounterVec
	otpIssued        prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Count of accounts created through public registration",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Count of login attempts by result",
		}, []string{"result"}),
		otpVerifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "otp_verifications_total",
			Help:      "Count of OTP verification attempts by result",
		}, []string{"result"}),
		otpIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "otp_issued_total",
			Help:      "Count of one-time codes issued, including resends",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.registrations,
		m.logins,
		m.otpVerifications,
		m.otpIssued,
	)

	return m
}

func (m *Metrics) Registration() {
	if m == nil {
		return
	}
	m.registrations.Inc()
}

func (m *Metrics) Login(success bool) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(result(success)).Inc()
}

func (m *Metrics) OTPVerification(success bool) {
	if m == nil {
		return
	}
	m.otpVerifications.WithLabelValues(result(success)).Inc()
}

func (m *Metrics) OTPIssued() {
	if m == nil {
		return
	}
	m.otpIssued.Inc()
}

// Handler serves the registry in the text exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func result(success bool) string {
	if success {
		return ResultSuccess
	}
	return ResultFailure
}
