package depth

import (
	"encoding/binary"
	"sync"
	"time"
)

// Synthetic generates DepthUint16 frames on demand: a ramp from 0.5 m at the
// left edge to 4.5 m at the right, drifting one column per frame, with the
// top quarter held at 0.5 m so orientation is obvious on screen.
type Synthetic struct {
	Desc      *Descriptor
	Mode      DepthMode
	Occlusion OcclusionMode

	l             sync.Mutex
	width, height int
	count         int
	pool          *BufferPool
}

func NewSynthetic(width, height int) *Synthetic {
	return &Synthetic{
		Desc: &Descriptor{
			SupportsEnvironmentDepthImage:           true,
			SupportsEnvironmentDepthConfidenceImage: false,
		},
		Mode:      Fastest,
		Occlusion: PreferEnvironmentOcclusion,
		width:     width,
		height:    height,
		pool:      NewBufferPool(),
	}
}

// SetSize changes the dimensions of subsequent frames.
func (s *Synthetic) SetSize(width, height int) {
	s.l.Lock()
	defer s.l.Unlock()
	s.width, s.height = width, height
}

func (s *Synthetic) Descriptor() *Descriptor { return s.Desc }
func (s *Synthetic) DepthMode() DepthMode { return s.Mode }
func (s *Synthetic) OcclusionMode() OcclusionMode { return s.Occlusion }

func (s *Synthetic) TryAcquire() (Frame, bool) {
	s.l.Lock()
	w, h, n := s.width, s.height, s.count
	s.count += 1
	s.l.Unlock()

	if w <= 0 || h <= 0 {
		return nil, false
	}

	img := NewImage(w, h, DepthUint16, s.pool)
	img.SetTimestamp(time.Now())
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			mm := 500
			if y >= h/4 {
				mm += ((x + n) % w) * 4000 / w
			}
			binary.LittleEndian.PutUint16(img.data[(y*w+x)*2:], uint16(mm))
		}
	}
	return img, true
}

func (s *Synthetic) Close() {
	s.pool.Close()
}
