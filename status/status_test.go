package status

import (
	"bytes"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"depthcam/depth"
	"depthcam/texture"
)

type fakeProvider struct {
	desc *depth.Descriptor
}

func (p *fakeProvider) Descriptor() *depth.Descriptor { return p.desc }
func (p *fakeProvider) TryAcquire() (depth.Frame, bool) { return nil, false }
func (p *fakeProvider) DepthMode() depth.DepthMode { return depth.Best }
func (p *fakeProvider) OcclusionMode() depth.OcclusionMode { return depth.NoOcclusion }

func TestRenderFull(t *testing.T) {
	p := &fakeProvider{desc: &depth.Descriptor{SupportsEnvironmentDepthImage: true}}
	s := SnapshotOf(p, texture.New(240, 180, texture.R16))

	want := "Environment depth image: true\n" +
		"Environment depth confidence image: false\n" +
		"Environment depth mode: Best\n" +
		"Occlusion preference mode: NoOcclusion\n" +
		"Depth texture: 240x180\n"
	assert.Equal(t, want, Render(s))
}

func TestRenderUnknownFields(t *testing.T) {
	want := "Environment depth image: unknown\n" +
		"Environment depth confidence image: unknown\n" +
		"Environment depth mode: unknown\n" +
		"Occlusion preference mode: unknown\n" +
		"Depth texture: 0x0\n"
	assert.Equal(t, want, Render(SnapshotOf(nil, nil)))

	// A provider without a descriptor still reports its modes.
	out := Render(SnapshotOf(&fakeProvider{}, nil))
	assert.Contains(t, out, "Environment depth image: unknown\n")
	assert.Contains(t, out, "Environment depth mode: Best\n")
}

func TestRenderPure(t *testing.T) {
	p := &fakeProvider{desc: &depth.Descriptor{}}
	specs := []*texture.Texture{nil, texture.New(1, 1, texture.Alpha8), texture.New(3, 2, texture.R16)}
	for _, tex := range specs {
		s := SnapshotOf(p, tex)
		assert.Equal(t, Render(s), Render(s))
		assert.Equal(t, tex == nil, s.Dimensions() == "0x0")
	}
}

func TestLabel(t *testing.T) {
	l := NewLabel()
	l.Info("hello")
	assert.Equal(t, "hello", l.Text())
	assert.False(t, l.IsError())

	l.Error("Occlusion manager or descriptor is null")
	assert.Equal(t, "<color=red>Occlusion manager or descriptor is null</color>", l.Text())
	assert.True(t, l.IsError())
}

func TestMultiSink(t *testing.T) {
	a, b := NewLabel(), NewLabel()
	var buf bytes.Buffer
	logger := log.New()
	logger.SetOutput(&buf)
	logger.SetLevel(log.DebugLevel)

	m := MultiSink{a, b, &LogSink{Entry: log.NewEntry(logger).WithField("component", "test")}}
	m.Info("line one\n")
	assert.Equal(t, "line one\n", a.Text())
	assert.Equal(t, "line one\n", b.Text())
	assert.Contains(t, buf.String(), "line one")

	m.Error("broken")
	assert.True(t, a.IsError())
	assert.True(t, b.IsError())
	assert.Contains(t, buf.String(), "level=error")
}
