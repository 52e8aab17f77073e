package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/warriorguo/pipeline/types"
)

const namespace = "pipeline"

var _ types.Listener = &Collector{}

// Collector turns store events into prometheus series. It owns its registry
// so several editors can live in one process.
type Collector struct {
	registry *prometheus.Registry

	runsStarted prometheus.Counter
	runs        *prometheus.CounterVec
	nodeRuns    *prometheus.CounterVec
	rejections  *prometheus.CounterVec
	logs        *prometheus.CounterVec
	nodeSeconds *prometheus.HistogramVec

	mu      sync.Mutex
	started map[string]time.Time
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		runsStarted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_started_total",
				Help:      "Started pipeline runs",
			},
		),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Finished pipeline runs by outcome",
			},
			[]string{"outcome"},
		),
		nodeRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "node_runs_total",
				Help:      "Processed nodes by type and final status",
			},
			[]string{"node_type", "status"},
		),
		rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "connection_rejections_total",
				Help:      "Refused connections by rule",
			},
			[]string{"reason"},
		),
		logs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "log_entries_total",
				Help:      "Appended log entries by type",
			},
			[]string{"type"},
		),
		nodeSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "node_processing_seconds",
				Help:      "Time from running to a final status",
				Buckets:   []float64{0.01, 0.1, 0.5, 1, 1.5, 2, 5},
			},
			[]string{"node_type"},
		),
		started: make(map[string]time.Time),
	}
	c.registry.MustRegister(c.runsStarted, c.runs, c.nodeRuns, c.rejections, c.logs, c.nodeSeconds)
	return c
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) OnEvent(e *types.Event) {
	switch e.Type {
	case types.EventExecutionState:
		switch e.State {
		case types.ExecutionRunning:
			c.runsStarted.Inc()
		case types.ExecutionCompleted, types.ExecutionError:
			c.runs.WithLabelValues(string(e.State)).Inc()
		}
	case types.EventNodeStatus:
		c.observeNode(e)
	case types.EventConnectionRejected:
		c.rejections.WithLabelValues(string(e.Reason)).Inc()
	case types.EventLogAppended:
		if e.Log != nil {
			c.logs.WithLabelValues(string(e.Log.Type)).Inc()
		}
	}
}

func (c *Collector) observeNode(e *types.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch e.Status {
	case types.NodeRunning:
		c.started[e.NodeID] = e.Time
	case types.NodeCompleted, types.NodeError:
		c.nodeRuns.WithLabelValues(string(e.NodeType), string(e.Status)).Inc()
		if start, exists := c.started[e.NodeID]; exists {
			c.nodeSeconds.WithLabelValues(string(e.NodeType)).Observe(e.Time.Sub(start).Seconds())
			delete(c.started, e.NodeID)
		}
	default:
		delete(c.started, e.NodeID)
	}
}
