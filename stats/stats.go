// Package stats tracks per-frame statistics (frame rate, frame time, layout
// state) and exposes them through a Prometheus registry.
package stats

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records one sample per frame.
type Collector struct {
	registry *prometheus.Registry

	FramesTotal     prometheus.Counter
	FrameDuration   prometheus.Histogram
	LayoutConverged prometheus.Gauge
	Nodes           prometheus.Gauge
	Edges           prometheus.Gauge

	now          func() time.Time
	windowStart  time.Time
	windowFrames int
	fps          float64
	last         time.Duration
}

// NewCollector creates a collector with its own registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		now:      time.Now,
	}

	c.FramesTotal = promauto.With(reg).NewCounter(
		prometheus.CounterOpts{
			Name: "simplegraph_frames_total",
			Help: "Total number of frames ticked",
		},
	)

	c.FrameDuration = promauto.With(reg).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "simplegraph_frame_duration_seconds",
			Help:    "Time spent in one frame tick",
			Buckets: []float64{.001, .002, .004, .008, .016, .033, .066, .133, .266, .5, 1},
		},
	)

	c.LayoutConverged = promauto.With(reg).NewGauge(
		prometheus.GaugeOpts{
			Name: "simplegraph_layout_converged",
			Help: "1 once the layout has converged, 0 while calculating",
		},
	)

	c.Nodes = promauto.With(reg).NewGauge(
		prometheus.GaugeOpts{
			Name: "simplegraph_nodes",
			Help: "Number of nodes in the graph",
		},
	)

	c.Edges = promauto.With(reg).NewGauge(
		prometheus.GaugeOpts{
			Name: "simplegraph_edges",
			Help: "Number of edges in the graph",
		},
	)

	return c
}

// Update records a finished frame that took d.
func (c *Collector) Update(d time.Duration) {
	c.FramesTotal.Inc()
	c.FrameDuration.Observe(d.Seconds())
	c.last = d

	now := c.now()
	if c.windowStart.IsZero() {
		c.windowStart = now
	}
	c.windowFrames++
	if elapsed := now.Sub(c.windowStart); elapsed >= time.Second {
		c.fps = float64(c.windowFrames) / elapsed.Seconds()
		c.windowStart = now
		c.windowFrames = 0
	}
}

// SetLayout records layout state and graph size.
func (c *Collector) SetLayout(converged bool, nodes, edges int) {
	if converged {
		c.LayoutConverged.Set(1)
	} else {
		c.LayoutConverged.Set(0)
	}
	c.Nodes.Set(float64(nodes))
	c.Edges.Set(float64(edges))
}

// FPS returns the frame rate measured over the last complete one-second window.
func (c *Collector) FPS() float64 {
	return c.fps
}

// View returns a one-line summary in the style of an FPS meter.
func (c *Collector) View() string {
	return fmt.Sprintf("%.0f FPS (%s/frame)", c.fps, c.last.Round(time.Microsecond))
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
