// Package sampler polls a depth provider once per frame, keeps the depth
// texture in sync and publishes diagnostics.
//
// The sampler is driven by its owner calling Tick from a single goroutine; it
// starts no goroutines of its own.
package sampler

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"depthcam/depth"
	"depthcam/status"
	"depthcam/texture"
	"depthcam/util"
)

const (
	// DefaultStartupDelay is how long the sampler waits after Start before
	// checking the provider.
	DefaultStartupDelay = 3 * time.Second

	// UnavailableMessage is shown when no depth provider can be used.
	UnavailableMessage = "Occlusion manager or descriptor is null"
)

type State int

const (
	Uninitialized State = iota
	Active
	// Unavailable is terminal: the provider was missing at startup.
	Unavailable
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Active:
		return "Active"
	case Unavailable:
		return "Unavailable"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// TextureListener is notified when the depth texture is (re)created. The
// texture's contents change every frame without further notification.
type TextureListener interface {
	TextureReady(tex *texture.Texture)
}

// TextureListenerFunc adapts a function to TextureListener.
type TextureListenerFunc func(tex *texture.Texture)

func (f TextureListenerFunc) TextureReady(tex *texture.Texture) {
	f(tex)
}

type Options struct {
	// StartupDelay defaults to DefaultStartupDelay; use a negative value for
	// no delay.
	StartupDelay time.Duration
	Transform    texture.Transform
	// Metrics may be nil.
	Metrics *Metrics
}

type Sampler struct {
	Listeners []TextureListener

	provider depth.Provider
	sink     status.Sink
	sync     *texture.Synchronizer
	metrics  *Metrics

	delay      time.Duration
	started    bool
	activateAt time.Time
	state      State
	ready      *util.Event
}

// New creates a sampler. provider may be nil, in which case the sampler
// becomes Unavailable once started.
func New(provider depth.Provider, sink status.Sink, opts Options) *Sampler {
	delay := opts.StartupDelay
	switch {
	case delay == 0:
		delay = DefaultStartupDelay
	case delay < 0:
		delay = 0
	}
	m := opts.Metrics
	if m == nil {
		m = NewMetrics(nil)
	}
	return &Sampler{
		provider: provider,
		sink:     sink,
		sync:     texture.NewSynchronizer(opts.Transform),
		metrics:  m,
		delay:    delay,
		ready:    util.NewEvent(),
	}
}

// Start schedules initialization for the first Tick at or after now plus the
// startup delay. Later calls have no effect.
func (s *Sampler) Start(now time.Time) {
	if s.started {
		return
	}
	s.started = true
	s.activateAt = now.Add(s.delay)
}

// Tick advances the sampler by one frame.
func (s *Sampler) Tick(now time.Time) {
	switch s.state {
	case Uninitialized:
		if !s.started || now.Before(s.activateAt) {
			return
		}
		s.initialize()
	case Active:
		if f, ok := s.provider.TryAcquire(); ok {
			s.process(f)
		}
		s.report()
	}
}

func (s *Sampler) initialize() {
	defer s.ready.Notify()

	if s.provider == nil || s.provider.Descriptor() == nil {
		log.Errorf("Depth provider unavailable; sampler will stay idle")
		s.sink.Error(UnavailableMessage)
		s.setState(Unavailable)
		return
	}
	s.report()
	s.setState(Active)
	log.Infof("Depth sampler active (%v, %v)", s.provider.DepthMode(), s.provider.OcclusionMode())
}

// process handles one acquired frame. The frame is released on every path.
func (s *Sampler) process(f depth.Frame) {
	defer f.Release()
	s.metrics.FramesAcquired.Inc()

	skipped := s.sync.Skipped()
	tex, reallocated := s.sync.Reconcile(f)
	if s.sync.Skipped() != skipped {
		s.metrics.SkippedConversions.Inc()
	}
	if !reallocated {
		return
	}

	s.metrics.Reallocations.Inc()
	s.metrics.TextureWidth.Set(float64(tex.Width()))
	s.metrics.TextureHeight.Set(float64(tex.Height()))
	log.Infof("Depth texture (re)created: %v %v", tex, tex.Format())
	for _, l := range s.Listeners {
		l.TextureReady(tex)
	}
}

func (s *Sampler) report() {
	s.sink.Info(status.Render(status.SnapshotOf(s.provider, s.sync.Texture())))
}

func (s *Sampler) setState(st State) {
	s.state = st
	s.metrics.State.Set(float64(st))
}

func (s *Sampler) State() State {
	return s.state
}

// Texture returns the current depth texture, or nil.
func (s *Sampler) Texture() *texture.Texture {
	return s.sync.Texture()
}

// Ready is notified once the sampler leaves Uninitialized.
func (s *Sampler) Ready() *util.Event {
	return s.ready
}
