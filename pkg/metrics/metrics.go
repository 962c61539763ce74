// Package metrics instrumentación Prometheus del libro de stock y de las órdenes de servicio.
//
// Se expone en GET /metrics (ver cmd/api) cuando METRICS_ENABLED=true.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "taller"

var (
	// StockMovements movimientos aplicados por tipo y resultado ("ok" | motivo del rechazo).
	StockMovements = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "movements_total",
			Help:      "Movimientos de stock procesados por tipo y resultado.",
		},
		[]string{"type", "result"},
	)

	// OrderTransitions transiciones de órdenes de servicio por estado destino y resultado.
	OrderTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "service_orders",
			Name:      "transitions_total",
			Help:      "Intentos de transición de órdenes de servicio.",
		},
		[]string{"to", "result"},
	)

	// TxRetries reintentos de transacción por conflicto de escritura.
	TxRetries = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "db",
		Name:      "tx_retries_total",
		Help:      "Transacciones reintentadas por serialización o deadlock.",
	})
)

// Registry registro propio de la aplicación (no el global de Prometheus).
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	Registry.MustRegister(StockMovements, OrderTransitions, TxRetries)
}

// Handler devuelve el handler HTTP de exposición.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
