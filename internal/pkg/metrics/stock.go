// Package metrics exports Prometheus collectors for the stock ledger.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StockMetrics counts ledger activity. It satisfies commands.StockRecorder.
type StockMetrics struct {
	movements  *prometheus.CounterVec
	rejections *prometheus.CounterVec
	drift      prometheus.Counter
}

// NewStockMetrics registers the stock collectors on reg. A nil reg yields a
// StockMetrics that records nothing.
func NewStockMetrics(reg prometheus.Registerer) *StockMetrics {
	if reg == nil {
		return &StockMetrics{}
	}
	movements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_movements_total",
		Help: "Committed stock movements by type.",
	}, []string{"type"})
	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_adjust_rejections_total",
		Help: "Rejected stock adjustments by reason.",
	}, []string{"reason"})
	drift := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stock_reconciliation_drift_total",
		Help: "Equipment found inconsistent with its ledger during reconciliation.",
	})
	reg.MustRegister(movements, rejections, drift)
	return &StockMetrics{
		movements:  movements,
		rejections: rejections,
		drift:      drift,
	}
}

// MovementCommitted increments stock_movements_total for movementType.
func (m *StockMetrics) MovementCommitted(movementType string) {
	if m == nil || m.movements == nil {
		return
	}
	m.movements.WithLabelValues(normalizeLabel(movementType)).Inc()
}

// AdjustRejected increments stock_adjust_rejections_total for reason.
func (m *StockMetrics) AdjustRejected(reason string) {
	if m == nil || m.rejections == nil {
		return
	}
	m.rejections.WithLabelValues(normalizeLabel(reason)).Inc()
}

// DriftDetected increments stock_reconciliation_drift_total.
func (m *StockMetrics) DriftDetected() {
	if m == nil || m.drift == nil {
		return
	}
	m.drift.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
