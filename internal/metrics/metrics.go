package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	borrowOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "library_borrow_operations_total",
		Help: "Count of borrow attempts by result",
	}, []string{"result"})

	returnOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "library_return_operations_total",
		Help: "Count of return attempts by result",
	}, []string{"result"})

	activeBorrows = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "library_active_borrows",
		Help: "Number of copies currently out with readers",
	})

	ledgerConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "library_ledger_conflicts_total",
		Help: "Count of borrow/return attempts that surfaced a write conflict",
	})
)

// ObserveBorrow records a borrow attempt with a result label ("success" or
// the failed precondition).
func ObserveBorrow(result string) {
	borrowOperations.WithLabelValues(result).Inc()
	if result == "success" {
		activeBorrows.Inc()
	}
}

// ObserveReturn records a return attempt with a result label.
func ObserveReturn(result string) {
	returnOperations.WithLabelValues(result).Inc()
	if result == "success" {
		activeBorrows.Dec()
	}
}

// ObserveConflict counts a surfaced ledger conflict.
func ObserveConflict() {
	ledgerConflicts.Inc()
}
