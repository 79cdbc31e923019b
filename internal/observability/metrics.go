// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the engine.
type Metrics struct {
	// Command metrics
	CommandsTotal   *prometheus.CounterVec
	CommandLatency  *prometheus.HistogramVec
	CommandFailures *prometheus.CounterVec

	// Combat metrics
	AttacksResolved *prometheus.CounterVec
	WealthStolen    prometheus.Counter
	RaidsTriggered  prometheus.Counter

	// Pool metrics
	SwapVolume    *prometheus.CounterVec
	PoolReserves  *prometheus.GaugeVec
	SwapsRejected *prometheus.CounterVec

	// Account metrics
	AccountsKnown    prometheus.Gauge
	VersionConflicts prometheus.Counter
}

// NewMetrics creates a Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "wealth_arena"
	}

	return &Metrics{
		CommandsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "economy",
			Name:      "commands_total",
			Help:      "Total number of commands applied by type and outcome",
		}, []string{"command", "outcome"}),
		CommandLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "economy",
			Name:      "command_latency_seconds",
			Help:      "Command application latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"command"}),
		CommandFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "economy",
			Name:      "command_failures_total",
			Help:      "Total number of rejected commands by typed reason",
		}, []string{"reason"}),

		AttacksResolved: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "combat",
			Name:      "attacks_resolved_total",
			Help:      "Total number of resolved attacks by type and outcome",
		}, []string{"attack_type", "outcome"}),
		WealthStolen: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "combat",
			Name:      "wealth_stolen_total",
			Help:      "Total wealth looted across all successful attacks",
		}),
		RaidsTriggered: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "combat",
			Name:      "raids_triggered_total",
			Help:      "Total number of raids triggered",
		}),

		SwapVolume: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "swap_volume_total",
			Help:      "Total swap input volume by direction",
		}, []string{"direction"}),
		PoolReserves: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "reserves",
			Help:      "Current pool reserves by currency",
		}, []string{"currency"}),
		SwapsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "swaps_rejected_total",
			Help:      "Total number of rejected swaps by reason",
		}, []string{"reason"}),

		AccountsKnown: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "accounts",
			Name:      "known",
			Help:      "Number of accounts in the store",
		}),
		VersionConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "accounts",
			Name:      "version_conflicts_total",
			Help:      "Total number of optimistic-concurrency conflicts",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordCommand records one applied command.
func RecordCommand(command, outcome string, seconds float64) {
	DefaultMetrics.CommandsTotal.WithLabelValues(command, outcome).Inc()
	DefaultMetrics.CommandLatency.WithLabelValues(command).Observe(seconds)
}

// RecordFailure records a typed command rejection.
func RecordFailure(reason string) {
	DefaultMetrics.CommandFailures.WithLabelValues(reason).Inc()
}

// RecordAttack records a resolved attack.
func RecordAttack(attackType string, won bool, loot int64) {
	outcome := "failure"
	if won {
		outcome = "success"
	}
	DefaultMetrics.AttacksResolved.WithLabelValues(attackType, outcome).Inc()
	if loot > 0 {
		DefaultMetrics.WealthStolen.Add(float64(loot))
	}
}

// RecordSwap records an executed swap and the new reserves.
func RecordSwap(direction string, amountIn, reserveCredits, reserveWealth float64) {
	DefaultMetrics.SwapVolume.WithLabelValues(direction).Add(amountIn)
	DefaultMetrics.PoolReserves.WithLabelValues("credits").Set(reserveCredits)
	DefaultMetrics.PoolReserves.WithLabelValues("wealth").Set(reserveWealth)
}

// RecordVersionConflict records one optimistic-concurrency retry.
func RecordVersionConflict() {
	DefaultMetrics.VersionConflicts.Inc()
}
