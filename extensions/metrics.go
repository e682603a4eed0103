package extensions

import (
	"github.com/prometheus/client_golang/prometheus"

	treectx "github.com/treectx/treectx-go"
)

// MetricsExtension counts tree operations with prometheus.
//
// Usage:
//
//	reg := prometheus.NewRegistry()
//	t := treectx.NewTree(treectx.WithExtension(extensions.NewMetricsExtension(reg)))
type MetricsExtension struct {
	treectx.BaseExtension
	operations    *prometheus.CounterVec
	notifications prometheus.Counter
}

// NewMetricsExtension creates a metrics extension and registers its
// collectors on reg
func NewMetricsExtension(reg prometheus.Registerer) *MetricsExtension {
	operations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "treectx_operations_total",
			Help: "Total tree operations by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)
	notifications := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "treectx_notifications_delivered_total",
			Help: "Total change signals delivered to subscribers",
		},
	)
	reg.MustRegister(operations, notifications)

	return &MetricsExtension{
		BaseExtension: treectx.NewBaseExtension("metrics"),
		operations:    operations,
		notifications: notifications,
	}
}

func (e *MetricsExtension) Wrap(next func() (any, error), op *treectx.Operation) (any, error) {
	result, err := next()

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	e.operations.WithLabelValues(string(op.Kind), outcome).Inc()

	// The notify operation yields the number of subscribers it signalled.
	if op.Kind == treectx.OpNotify && err == nil {
		if delivered, ok := result.(int); ok {
			e.notifications.Add(float64(delivered))
		}
	}

	return result, err
}
