package sampler

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the sampler's prometheus collectors.
type Metrics struct {
	FramesAcquired     prometheus.Counter
	Reallocations      prometheus.Counter
	SkippedConversions prometheus.Counter
	TextureWidth       prometheus.Gauge
	TextureHeight      prometheus.Gauge
	State              prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg, if non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FramesAcquired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "depthcam",
			Name:      "frames_acquired_total",
			Help:      "Depth frames acquired from the provider.",
		}),
		Reallocations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "depthcam",
			Name:      "texture_reallocations_total",
			Help:      "Times the depth texture was recreated due to a size or format change.",
		}),
		SkippedConversions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "depthcam",
			Name:      "conversions_skipped_total",
			Help:      "Depth frames that could not be copied into the texture.",
		}),
		TextureWidth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "depthcam",
			Name:      "texture_width_pixels",
			Help:      "Width of the current depth texture.",
		}),
		TextureHeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "depthcam",
			Name:      "texture_height_pixels",
			Help:      "Height of the current depth texture.",
		}),
		State: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "depthcam",
			Name:      "sampler_state",
			Help:      "Sampler state: 0 uninitialized, 1 active, 2 unavailable.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.FramesAcquired, m.Reallocations, m.SkippedConversions,
			m.TextureWidth, m.TextureHeight, m.State)
	}
	return m
}
