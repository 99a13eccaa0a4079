package depth

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageReleaseOnce(t *testing.T) {
	img := NewImage(4, 3, DepthFloat32, nil)
	assert.Equal(t, 48, img.DataLen())
	img.Release()
	assert.Panics(t, func() { img.Release() })
}

func TestBufferPoolReuse(t *testing.T) {
	p := NewBufferPool()
	defer p.Close()

	a := p.Get(16)
	a[0] = 7
	p.Put(a)
	assert.Equal(t, PoolStats{Allocated: 1, Available: 1}, p.Stats())

	b := p.Get(8)
	assert.Len(t, b, 8)
	assert.Equal(t, byte(0), b[0], "reused buffers are zeroed")
	assert.Equal(t, PoolStats{Allocated: 1, Available: 0}, p.Stats())

	c := p.Get(32)
	assert.Len(t, c, 32)
	assert.Equal(t, 2, p.Stats().Allocated)
}

func TestRawRoundTrip(t *testing.T) {
	src := NewImage(3, 2, DepthUint16, nil)
	for i := range src.Plane() {
		src.Plane()[i] = byte(i)
	}
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, src))

	pool := NewBufferPool()
	defer pool.Close()
	got, err := ReadFrame(&buf, pool)
	require.NoError(t, err)
	defer got.Release()
	assert.Equal(t, 3, got.Width())
	assert.Equal(t, 2, got.Height())
	assert.Equal(t, DepthUint16, got.Format())
	assert.Equal(t, src.Plane(), got.Plane())
}

func TestReadFrameErrors(t *testing.T) {
	_, err := ReadFrame(bytes.NewReader([]byte("NOPE\x01\x00\x01\x00\x02")), nil)
	assert.True(t, errors.Is(err, ErrBadHeader), "%v", err)

	_, err = ReadFrame(bytes.NewReader([]byte("DPTH\x01\x00\x01\x00\x09")), nil)
	assert.True(t, errors.Is(err, ErrBadHeader), "%v", err)

	// Header promises 2 bytes; only 1 follows.
	_, err = ReadFrame(bytes.NewReader([]byte("DPTH\x01\x00\x01\x00\x02\x05")), nil)
	assert.Error(t, err)
}

func TestDecodePNG16(t *testing.T) {
	g := image.NewGray16(image.Rect(0, 0, 2, 2))
	g.Pix[0], g.Pix[1] = 0x03, 0xe8 // 1000 mm at (0,0)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, g))

	img, err := DecodePNG(&buf, nil)
	require.NoError(t, err)
	assert.Equal(t, DepthUint16, img.Format())
	assert.Equal(t, uint16(1000), binary.LittleEndian.Uint16(img.Plane()))
	assert.Equal(t, 8, img.DataLen())
}

func TestMailboxKeepsNewest(t *testing.T) {
	var m mailbox
	a, b := NewImage(1, 1, OneComponent8, nil), NewImage(1, 1, OneComponent8, nil)
	m.put(a)
	m.put(b)
	assert.Equal(t, uint64(1), m.dropped())
	assert.Panics(t, func() { a.Release() }, "replaced frame was released")

	f, ok := m.take()
	require.True(t, ok)
	assert.Same(t, b, f)
	_, ok = m.take()
	assert.False(t, ok)
}

func writeFrames(t *testing.T, dir string, sizes ...image.Point) {
	for i, sz := range sizes {
		f, err := os.Create(filepath.Join(dir, string(rune('a'+i))+ExtRaw))
		require.NoError(t, err)
		require.NoError(t, WriteFrame(f, NewImage(sz.X, sz.Y, DepthUint16, nil)))
		require.NoError(t, f.Close())
	}
	// Ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
}

func TestDirProviderPlays(t *testing.T) {
	dir := t.TempDir()
	writeFrames(t, dir, image.Pt(4, 3), image.Pt(8, 6))

	d, err := NewDirProvider(DirOptions{Path: dir, FPS: 200, Loop: true, Descriptor: &Descriptor{}, DepthMode: Medium})
	require.NoError(t, err)
	defer d.Close()
	assert.Len(t, d.Files(), 2)
	assert.Equal(t, Medium, d.DepthMode())

	seen := map[int]bool{}
	deadline := time.Now().Add(5 * time.Second)
	for len(seen) < 2 && time.Now().Before(deadline) {
		if f, ok := d.TryAcquire(); ok {
			seen[f.Width()] = true
			f.Release()
		}
		time.Sleep(time.Millisecond)
	}
	assert.Equal(t, map[int]bool{4: true, 8: true}, seen)
}

func TestDirProviderEmpty(t *testing.T) {
	_, err := NewDirProvider(DirOptions{Path: t.TempDir()})
	assert.Error(t, err)
}

func TestSynthetic(t *testing.T) {
	s := NewSynthetic(240, 180)
	defer s.Close()

	f, ok := s.TryAcquire()
	require.True(t, ok)
	assert.Equal(t, 240, f.Width())
	assert.Equal(t, DepthUint16, f.Format())
	assert.Equal(t, 240*180*2, f.DataLen())
	// Top rows are the near wall.
	assert.Equal(t, uint16(500), binary.LittleEndian.Uint16(f.Plane()[2*10:]))
	f.Release()

	s.SetSize(480, 360)
	f, ok = s.TryAcquire()
	require.True(t, ok)
	assert.Equal(t, 360, f.Height())
	f.Release()

	s.SetSize(0, 0)
	_, ok = s.TryAcquire()
	assert.False(t, ok)
}

func TestParseModes(t *testing.T) {
	m, err := ParseDepthMode("medium")
	require.NoError(t, err)
	assert.Equal(t, Medium, m)
	_, err = ParseDepthMode("ultra")
	assert.Error(t, err)

	o, err := ParseOcclusionMode("NoOcclusion")
	require.NoError(t, err)
	assert.Equal(t, "NoOcclusion", o.String())
}
