package vm

import "github.com/prometheus/client_golang/prometheus"

// metrics.go instruments the driver at frame boundaries only (§4.9): the
// hot per-instruction dispatch loop never touches a Prometheus label set,
// since a counter increment on every one of millions of instructions
// would dwarf the cost of the instruction itself.

var (
	framesEntered = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gvm",
		Subsystem: "interpreter",
		Name:      "frames_entered_total",
		Help:      "Number of call frames pushed onto the frame stack.",
	})

	gasUsedHistogram = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gvm",
		Subsystem: "interpreter",
		Name:      "gas_used",
		Help:      "Gas consumed by completed transaction executions.",
		Buckets:   prometheus.ExponentialBuckets(100, 4, 10),
	})

	executionsAborted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gvm",
		Subsystem: "interpreter",
		Name:      "executions_aborted_total",
		Help:      "Executions that ended in StateAborted, labeled by opcode.",
	}, []string{"op"})

	callDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "gvm",
		Subsystem: "interpreter",
		Name:      "call_depth",
		Help:      "Current call-frame depth of the most recently scheduled execution.",
	})
)

func init() {
	prometheus.MustRegister(framesEntered, gasUsedHistogram, executionsAborted, callDepth)
}
