// Package metrics expone los contadores Prometheus de la aplicación.
// Se registran en el registry por defecto y se sirven en /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OrdersCreated órdenes creadas, por tipo (SALE | PURCHASE).
	OrdersCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gestion",
		Name:      "orders_created_total",
		Help:      "Órdenes creadas por tipo",
	}, []string{"type"})

	// OrdersCancelled órdenes anuladas, por tipo.
	OrdersCancelled = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gestion",
		Name:      "orders_cancelled_total",
		Help:      "Órdenes anuladas por tipo",
	}, []string{"type"})

	// AlertsEmitted alertas creadas por el disparador, por tipo.
	AlertsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gestion",
		Name:      "alerts_emitted_total",
		Help:      "Alertas emitidas por el disparador, por tipo",
	}, []string{"type"})
)
