// Package metrics declares the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Count of HTTP requests"},
		[]string{"path", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method"},
	)

	PedidosTransiciones = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "pedidos_transiciones_total", Help: "Pedidos que alcanzaron cada estado"},
		[]string{"estado"},
	)
	Ventas = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "ventas_total", Help: "Ventas registradas y anuladas"},
		[]string{"tipo", "operacion"},
	)
	MovimientosStock = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "movimientos_stock_total", Help: "Movimientos de stock escritos"},
		[]string{"tipo"},
	)
	EmailJobs = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "email_jobs_total", Help: "Trabajos de e-mail procesados"},
		[]string{"resultado"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequests, HTTPLatency,
		PedidosTransiciones, Ventas, MovimientosStock, EmailJobs,
	)
}
