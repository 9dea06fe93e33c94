package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Rajgohel2908/Memora/pkg/domain/model/graph"
)

const namespace = "memora"

// Collector holds the Prometheus metrics of the service. Each collector has
// its own registry so tests can create as many as they like. All methods
// are safe on a nil receiver.
type Collector struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	GraphBuilds      *prometheus.CounterVec
	GraphNodes       *prometheus.HistogramVec
	GraphEdges       *prometheus.HistogramVec
	SkippedRecords   prometheus.Counter
	OpenViews        prometheus.Gauge
	RendererFailures prometheus.Counter
}

func New() *Collector {
	registry := prometheus.NewRegistry()

	sizeBuckets := prometheus.ExponentialBuckets(1, 2, 12)

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		GraphBuilds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "graph_builds_total",
				Help:      "Total number of memory graph builds",
			},
			[]string{"resolution"},
		),
		GraphNodes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "graph_nodes",
				Help:      "Number of nodes per built graph",
				Buckets:   sizeBuckets,
			},
			[]string{"resolution"},
		),
		GraphEdges: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "graph_edges",
				Help:      "Number of edges per built graph",
				Buckets:   sizeBuckets,
			},
			[]string{"resolution"},
		),
		SkippedRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graph_skipped_records_total",
			Help:      "Total number of malformed memory records left out of graphs",
		}),
		OpenViews: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "network_views_open",
			Help:      "Number of mounted network views",
		}),
		RendererFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renderer_failures_total",
			Help:      "Total number of renderer construction failures",
		}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.HTTPRequests,
		c.HTTPDuration,
		c.GraphBuilds,
		c.GraphNodes,
		c.GraphEdges,
		c.SkippedRecords,
		c.OpenViews,
		c.RendererFailures,
	)

	return c
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// ObserveBuild records one graph build
func (c *Collector) ObserveBuild(g *graph.Graph) {
	if c == nil || g == nil {
		return
	}
	res := g.Resolution.String()
	c.GraphBuilds.WithLabelValues(res).Inc()
	c.GraphNodes.WithLabelValues(res).Observe(float64(len(g.Nodes)))
	c.GraphEdges.WithLabelValues(res).Observe(float64(len(g.Edges)))
	c.SkippedRecords.Add(float64(g.Skipped))
}

// ObserveRequest records one HTTP request
func (c *Collector) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ViewOpened and ViewClosed track mounted network views
func (c *Collector) ViewOpened() {
	if c != nil {
		c.OpenViews.Inc()
	}
}

func (c *Collector) ViewClosed() {
	if c != nil {
		c.OpenViews.Dec()
	}
}

// RendererFailed records a renderer that could not be constructed
func (c *Collector) RendererFailed() {
	if c != nil {
		c.RendererFailures.Inc()
	}
}
