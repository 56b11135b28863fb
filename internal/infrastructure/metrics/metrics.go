// Package metrics expone métricas Prometheus de los servidores web y API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics registro propio (no el global) con las métricas de un binario.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	backendTotal    *prometheus.CounterVec
	backendDuration *prometheus.HistogramVec
	sessions        prometheus.Gauge
}

// New inicializa el registro. namespace: "cotizador_web" | "cotizador_api".
func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Requests HTTP por ruta, método y status.",
	}, []string{"route", "method", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duración de requests HTTP por ruta.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
	backendTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_requests_total",
		Help:      "Llamadas a la API REST por recurso y status (0 = error de red).",
	}, []string{"method", "route", "code"})
	backendDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duración de llamadas a la API REST.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
	sessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions_active",
		Help:      "Sesiones de navegador en memoria.",
	})
	registry.MustRegister(requests, duration, backendTotal, backendDuration, sessions)
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		backendTotal:    backendTotal,
		backendDuration: backendDuration,
		sessions:        sessions,
	}
}

// Handler http.Handler para /metrics (montado en fiber con adaptor).
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware registra cada request de fiber. La ruta es el patrón (/quotations/:id), no el path.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m == nil {
			return c.Next()
		}
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		if route == "" {
			route = "unmatched"
		}
		m.requestsTotal.WithLabelValues(route, c.Method(), strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		return err
	}
}

// ObserveBackend firma compatible con backend.Observer.
func (m *Metrics) ObserveBackend(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.backendTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.backendDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// SetSessions actualiza el gauge de sesiones (session.Manager.OnCountChange).
func (m *Metrics) SetSessions(n int) {
	if m == nil {
		return
	}
	m.sessions.Set(float64(n))
}

// Registerer expone el registro para métricas propias.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}
