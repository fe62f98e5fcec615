// Package metrics define los collectors de prometheus del servicio.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Resultados de login.
const (
	LoginOK          = "ok"
	LoginInvalid     = "invalid"
	LoginUnavailable = "unavailable"
)

// Metrics agrupa los collectors. Cada instancia usa su propio registry.
type Metrics struct {
	Registry             *prometheus.Registry
	Logins               *prometheus.CounterVec
	ReportsCreated       *prometheus.CounterVec
	ClientUpsertFailures prometheus.Counter
	Exports              *prometheus.CounterVec
	ExportDuration       prometheus.Histogram
}

// New crea y registra los collectors (más los de proceso y runtime de Go).
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "visitas_logins_total",
				Help: "Intentos de inicio de sesión por resultado",
			},
			[]string{"result"},
		),
		ReportsCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "visitas_reports_created_total",
				Help: "Reportes registrados por tipo de actividad",
			},
			[]string{"activity"},
		),
		ClientUpsertFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "visitas_client_upsert_failures_total",
				Help: "Reportes guardados cuyo cliente no se pudo registrar",
			},
		),
		Exports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "visitas_exports_total",
				Help: "Exportaciones por formato y estado",
			},
			[]string{"format", "status"},
		),
		ExportDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "visitas_export_duration_seconds",
				Help:    "Tiempo de generación de exportaciones",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
	m.Registry.MustRegister(
		m.Logins, m.ReportsCreated, m.ClientUpsertFailures, m.Exports, m.ExportDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveExport registra una exportación y devuelve la función que detiene el temporizador.
func (m *Metrics) ObserveExport() func(format, status string) {
	timer := prometheus.NewTimer(m.ExportDuration)
	return func(format, status string) {
		timer.ObserveDuration()
		m.Exports.WithLabelValues(format, status).Inc()
	}
}
