package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Resultados posibles de una reserva de stock (label `outcome`).
const (
	OutcomeSuccess      = "success"
	OutcomeMissing      = "missing"
	OutcomeInsufficient = "insufficient"
	OutcomeError        = "error"
)

// Metrics agrupa los instrumentos Prometheus de la aplicación. Usa un registro
// propio para que los tests puedan construir instancias sin colisiones.
type Metrics struct {
	registry *prometheus.Registry

	// ReservationsTotal cuenta reservas de stock por resultado.
	ReservationsTotal *prometheus.CounterVec
	// HTTPRequestDuration latencia por método/ruta/código.
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics construye y registra los instrumentos.
func NewMetrics(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		ReservationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_reservations_total",
			Help:      "Reservas de stock por resultado (success, missing, insufficient, error).",
		}, []string{"outcome"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duración de las peticiones HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}
	registry.MustRegister(m.ReservationsTotal, m.HTTPRequestDuration)
	return m
}

// ObserveReservation registra el resultado de una reserva.
func (m *Metrics) ObserveReservation(outcome string) {
	m.ReservationsTotal.WithLabelValues(outcome).Inc()
}

// Handler expone el endpoint /metrics sobre el registro propio.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
