// Package metrics exposes Prometheus instrumentation for a Solve run:
// message traffic between workers and the outcome of resolved vertices.
// Grounded on the teacher's metrics.Averager pattern — counters and
// gauges registered against a caller-supplied prometheus.Registerer,
// defined with the same two-phase "build collectors, then register them"
// shape as the averager's NewAverager/NewAveragerWithErrs pair, but no
// err-collection variant here since a Collector is short-lived and
// construction failures are simple enough to return directly.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector accumulates counters for one Solve invocation. Safe for
// concurrent use by multiple workers, since every update goes through a
// prometheus metric's own internal synchronization rather than a
// collector-level lock.
type Collector struct {
	messagesSent     *prometheus.CounterVec
	vertexResolved   *prometheus.CounterVec
	releaseRounds    prometheus.Counter
	resultsTrue      prometheus.Counter
	resultsFalse     prometheus.Counter
}

// NewCollector builds and registers a Collector's metrics against reg. The
// namespace groups every series under "atlcheck_solver_*".
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		messagesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "atlcheck",
			Subsystem: "solver",
			Name:      "messages_sent_total",
			Help:      "Mailbox messages sent by the worker pool, by kind.",
		}, []string{"kind"}),
		vertexResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "atlcheck",
			Subsystem: "solver",
			Name:      "vertices_resolved_total",
			Help:      "EDG vertices resolved to a final value, by outcome.",
		}, []string{"value"}),
		releaseRounds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "atlcheck",
			Subsystem: "solver",
			Name:      "release_rounds_total",
			Help:      "Negation-depth RELEASE broadcasts issued by the coordinator.",
		}),
		resultsTrue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "atlcheck",
			Subsystem: "solver",
			Name:      "results_true_total",
			Help:      "Solve calls whose query resolved to TRUE.",
		}),
		resultsFalse: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "atlcheck",
			Subsystem: "solver",
			Name:      "results_false_total",
			Help:      "Solve calls whose query resolved to FALSE.",
		}),
	}

	for _, c2 := range []prometheus.Collector{c.messagesSent, c.vertexResolved, c.releaseRounds, c.resultsTrue, c.resultsFalse} {
		if err := reg.Register(c2); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ObserveMessage records one message of the given kind leaving a worker's
// outbox.
func (c *Collector) ObserveMessage(kind string) {
	if c == nil {
		return
	}
	c.messagesSent.WithLabelValues(kind).Inc()
}

// ObserveVertex records one vertex reaching a final TRUE/FALSE assignment.
func (c *Collector) ObserveVertex(value string) {
	if c == nil {
		return
	}
	c.vertexResolved.WithLabelValues(value).Inc()
}

// ObserveRelease records one RELEASE broadcast.
func (c *Collector) ObserveRelease() {
	if c == nil {
		return
	}
	c.releaseRounds.Inc()
}

// ObserveResult records a Solve call's final outcome.
func (c *Collector) ObserveResult(result bool) {
	if c == nil {
		return
	}
	if result {
		c.resultsTrue.Inc()
		return
	}
	c.resultsFalse.Inc()
}
