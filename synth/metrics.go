package synth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts the work of synthesis runs. A nil *Metrics records
// nothing.
type Metrics struct {
	reg *prometheus.Registry

	lengths      *prometheus.CounterVec
	solutions    prometheus.Counter
	clauses      prometheus.Histogram
	solveSeconds prometheus.Histogram
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		// outcome: sat, unsat or error
		lengths: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wfsynth",
			Name:      "lengths_total",
			Help:      "Workflow lengths searched by outcome",
		}, []string{"outcome"}),
		solutions: f.NewCounter(prometheus.CounterOpts{
			Namespace: "wfsynth",
			Name:      "solutions_total",
			Help:      "Workflows found",
		}),
		clauses: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wfsynth",
			Name:      "clauses",
			Help:      "Clauses of one length's encoding",
			Buckets:   prometheus.ExponentialBuckets(1000, 4, 8),
		}),
		solveSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wfsynth",
			Name:      "length_seconds",
			Help:      "Time spent encoding and enumerating one length",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// WriteFile writes the metrics in the text exposition format, for the node
// exporter textfile collector.
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}

func (m *Metrics) observe(l Length) {
	if m == nil {
		return
	}
	outcome := "unsat"
	switch {
	case l.Err != nil:
		outcome = "error"
	case l.Solutions > 0:
		outcome = "sat"
	}
	m.lengths.WithLabelValues(outcome).Inc()
	m.solutions.Add(float64(l.Solutions))
	m.clauses.Observe(float64(l.Clauses))
	m.solveSeconds.Observe(l.Elapsed.Seconds())
}
