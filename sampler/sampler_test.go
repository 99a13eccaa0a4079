package sampler

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depthcam/depth"
	"depthcam/status"
	"depthcam/texture"
)

// scripted hands out one queued frame per TryAcquire and counts releases.
type scripted struct {
	desc   *depth.Descriptor
	frames []depth.Frame

	acquired int
	released int
	attempts int
}

func (p *scripted) Descriptor() *depth.Descriptor { return p.desc }
func (p *scripted) DepthMode() depth.DepthMode { return depth.Medium }
func (p *scripted) OcclusionMode() depth.OcclusionMode { return depth.PreferEnvironmentOcclusion }

func (p *scripted) TryAcquire() (depth.Frame, bool) {
	p.attempts += 1
	if len(p.frames) == 0 {
		return nil, false
	}
	f := p.frames[0]
	p.frames = p.frames[1:]
	p.acquired += 1
	return &counted{Frame: f, p: p}, true
}

func (p *scripted) queue(fs ...depth.Frame) {
	p.frames = append(p.frames, fs...)
}

type counted struct {
	depth.Frame
	p *scripted
}

func (c *counted) Release() {
	c.p.released += 1
	c.Frame.Release()
}

// shortFrame claims more pixels than it carries.
type shortFrame struct {
	*depth.Image
}

func (f *shortFrame) Plane() []byte {
	return f.Image.Plane()[:1]
}

func frame(w, h int) depth.Frame {
	return depth.NewImage(w, h, depth.DepthUint16, nil)
}

func newActive(t *testing.T, p depth.Provider, sink status.Sink, opts Options) *Sampler {
	opts.StartupDelay = -1
	s := New(p, sink, opts)
	now := time.Now()
	s.Start(now)
	s.Tick(now)
	require.Equal(t, Active, s.State())
	return s
}

func TestStartupDelay(t *testing.T) {
	p := &scripted{desc: &depth.Descriptor{}}
	label := status.NewLabel()
	s := New(p, label, Options{StartupDelay: 3 * time.Second})

	t0 := time.Now()
	s.Tick(t0)
	assert.Equal(t, Uninitialized, s.State(), "not started")

	s.Start(t0)
	s.Tick(t0.Add(2 * time.Second))
	assert.Equal(t, Uninitialized, s.State())
	assert.False(t, s.Ready().HasBeenNotified())
	assert.Equal(t, 0, p.attempts)

	s.Tick(t0.Add(3 * time.Second))
	assert.Equal(t, Active, s.State())
	assert.True(t, s.Ready().HasBeenNotified())
	assert.Contains(t, label.Text(), "Depth texture: 0x0")
	assert.Equal(t, 0, p.attempts, "initialization tick does not sample")

	s.Tick(t0.Add(4 * time.Second))
	assert.Equal(t, 1, p.attempts)
}

func TestUnavailable(t *testing.T) {
	specs := map[string]depth.Provider{
		"no provider":   nil,
		"no descriptor": &scripted{},
	}
	for name, p := range specs {
		label := status.NewLabel()
		reg := prometheus.NewRegistry()
		m := NewMetrics(reg)
		s := New(p, label, Options{StartupDelay: -1, Metrics: m})
		now := time.Now()
		s.Start(now)
		for i := 0; i < 3; i++ {
			s.Tick(now)
		}
		assert.Equal(t, Unavailable, s.State(), name)
		assert.True(t, s.Ready().HasBeenNotified(), name)
		assert.True(t, label.IsError(), name)
		assert.Equal(t, status.ErrorMarkup(UnavailableMessage), label.Text(), name)
		assert.Equal(t, float64(Unavailable), testutil.ToFloat64(m.State), name)
		if sp, ok := p.(*scripted); ok {
			assert.Equal(t, 0, sp.attempts, name)
		}
	}
}

func TestSubscriberNotifiedOnReallocation(t *testing.T) {
	p := &scripted{desc: &depth.Descriptor{SupportsEnvironmentDepthImage: true}}
	label := status.NewLabel()
	s := newActive(t, p, label, Options{Transform: texture.MirrorX})

	var got []*texture.Texture
	s.Listeners = append(s.Listeners, TextureListenerFunc(func(tex *texture.Texture) {
		got = append(got, tex)
	}))

	p.queue(frame(240, 180), frame(480, 360), frame(480, 360))
	now := time.Now()
	for i := 0; i < 3; i++ {
		s.Tick(now)
	}

	require.Len(t, got, 2)
	assert.Equal(t, 240, got[0].Width())
	assert.Equal(t, 180, got[0].Height())
	assert.Same(t, got[1], s.Texture())
	assert.Equal(t, 480, s.Texture().Width())
	assert.Equal(t, 360, s.Texture().Height())
	assert.Equal(t, uint64(2), s.Texture().Version())
	assert.Contains(t, label.Text(), "Depth texture: 480x360\n")
	assert.Equal(t, 3, p.released)
}

func TestReleasedOnEveryPath(t *testing.T) {
	p := &scripted{desc: &depth.Descriptor{}}
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	s := newActive(t, p, status.NewLabel(), Options{Metrics: m})

	p.queue(
		frame(4, 4),
		&shortFrame{Image: depth.NewImage(4, 4, depth.DepthUint16, nil)},
		depth.NewImage(4, 4, depth.Unknown, nil),
		frame(4, 4),
	)
	now := time.Now()
	for i := 0; i < 6; i++ {
		s.Tick(now)
		assert.Equal(t, p.acquired, p.released, "tick %d", i)
	}

	assert.Equal(t, 4, p.acquired)
	assert.Equal(t, 6, p.attempts)
	assert.Equal(t, float64(4), testutil.ToFloat64(m.FramesAcquired))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Reallocations))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.SkippedConversions))
	assert.Equal(t, float64(4), testutil.ToFloat64(m.TextureWidth))
	// First and last frames converted.
	assert.Equal(t, uint64(2), s.Texture().Version())
}

func TestStatusPublishedWithoutFrames(t *testing.T) {
	p := &scripted{desc: &depth.Descriptor{}}
	label := status.NewLabel()
	s := newActive(t, p, label, Options{})

	label.Info("")
	s.Tick(time.Now())
	assert.Equal(t, status.Render(status.SnapshotOf(p, nil)), label.Text())
}
