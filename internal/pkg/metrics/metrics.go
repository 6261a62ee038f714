package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry is the collector registry served on /metrics.
var Registry = prometheus.NewRegistry()

var (
	// PeripheralReady reports whether the peripheral registry finished setup.
	// 1 = Ready, 0 = Not Ready
	PeripheralReady = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "roadsense_peripheral_ready",
			Help: "Whether every peripheral completed setup (1=Ready, 0=NotReady).",
		},
	)

	// PeripheralSetupFailures counts failed setup calls per slot.
	PeripheralSetupFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadsense_peripheral_setup_failures_total",
			Help: "Total number of failed peripheral setup calls.",
		},
		[]string{"slot"},
	)

	// PeripheralHealthy holds the last heartbeat outcome per slot.
	PeripheralHealthy = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "roadsense_peripheral_healthy",
			Help: "Last heartbeat result per peripheral slot (1=Healthy, 0=Unhealthy).",
		},
		[]string{"slot"},
	)

	// StateEntries counts behavior state entries.
	StateEntries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadsense_state_entries_total",
			Help: "Total number of behavior state entries.",
		},
		[]string{"context", "state"},
	)

	// DeferredActions counts drained deferred actions by outcome.
	DeferredActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadsense_deferred_actions_total",
			Help: "Total number of deferred actions run to completion.",
		},
		[]string{"result"}, // result: success/failed
	)

	// Cycles counts driver cycles by decision.
	Cycles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadsense_cycles_total",
			Help: "Total number of wake cycles by decision.",
		},
		[]string{"decision"}, // decision: continue/stop
	)

	// CycleDuration observes how long one cycle takes, deferred work included.
	CycleDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "roadsense_cycle_duration_seconds",
			Help:    "Duration of one wake cycle including the deferred-action drain.",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 5, 30, 120, 600},
		},
	)

	// RadioFrames counts uplink frames by status.
	RadioFrames = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadsense_radio_frames_total",
			Help: "Total number of detection frames handed to the radio.",
		},
		[]string{"status"}, // status: success/failed
	)

	// Parks counts power-downs.
	Parks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "roadsense_power_parks_total",
			Help: "Total number of low-power periods entered.",
		},
	)
)

func init() {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	Registry.MustRegister(PeripheralReady)
	Registry.MustRegister(PeripheralSetupFailures)
	Registry.MustRegister(PeripheralHealthy)
	Registry.MustRegister(StateEntries)
	Registry.MustRegister(DeferredActions)
	Registry.MustRegister(Cycles)
	Registry.MustRegister(CycleDuration)
	Registry.MustRegister(RadioFrames)
	Registry.MustRegister(Parks)
}

// BoolValue converts a flag into a gauge value.
func BoolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
