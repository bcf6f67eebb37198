// Package metrics exports per-frame render counters in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"solar-system/internal/render"
)

// Collector records render statistics into its own registry.
type Collector struct {
	registry      *prometheus.Registry
	frames        prometheus.Counter
	frameDuration prometheus.Histogram
	triangles     *prometheus.CounterVec
	pixels        prometheus.Counter
	lastPixels    prometheus.Gauge
	simTime       prometheus.Gauge
}

// New returns a collector with every metric registered.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "solarsystem_frames_total",
			Help: "Frames rendered.",
		}),
		frameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "solarsystem_frame_duration_seconds",
			Help:    "Time spent rendering one frame.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		}),
		triangles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solarsystem_triangles_total",
				Help: "Triangles by pipeline outcome.",
			},
			[]string{"outcome"},
		),
		pixels: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "solarsystem_pixels_written_total",
			Help: "Fragments that passed the depth test.",
		}),
		lastPixels: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "solarsystem_last_frame_pixels",
			Help: "Fragments written in the most recent frame.",
		}),
		simTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "solarsystem_simulation_seconds",
			Help: "Current simulation time.",
		}),
	}
	c.registry.MustRegister(c.frames, c.frameDuration, c.triangles, c.pixels, c.lastPixels, c.simTime)
	return c
}

// Observe records one rendered frame.
func (c *Collector) Observe(st render.Stats, d time.Duration) {
	c.frames.Inc()
	c.frameDuration.Observe(d.Seconds())
	c.triangles.WithLabelValues("submitted").Add(float64(st.Triangles))
	c.triangles.WithLabelValues("culled").Add(float64(st.Culled))
	c.triangles.WithLabelValues("degenerate").Add(float64(st.Degenerate))
	c.triangles.WithLabelValues("clipped").Add(float64(st.Clipped))
	c.triangles.WithLabelValues("rasterized").Add(float64(st.Rasterized))
	c.pixels.Add(float64(st.Pixels))
	c.lastPixels.Set(float64(st.Pixels))
}

// SetSimulationTime publishes the scene clock.
func (c *Collector) SetSimulationTime(t float64) { c.simTime.Set(t) }

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry over HTTP.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
