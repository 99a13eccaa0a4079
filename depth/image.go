package depth

import (
	"time"
)

// Image is the Frame implementation used by the providers in this package.
// Its pixel data is borrowed from a BufferPool and returned on Release.
type Image struct {
	width, height int
	format        Format
	time          time.Time
	data          []byte

	pool     *BufferPool
	released bool
}

// NewImage allocates a zeroed image. pool may be nil.
func NewImage(width, height int, format Format, pool *BufferPool) *Image {
	n := width * height * format.BytesPerPixel()
	var data []byte
	if pool != nil {
		data = pool.Get(n)
	} else {
		data = make([]byte, n)
	}
	return &Image{
		width:  width,
		height: height,
		format: format,
		time:   time.Now(),
		data:   data,
		pool:   pool,
	}
}

func (i *Image) Width() int { return i.width }
func (i *Image) Height() int { return i.height }
func (i *Image) Format() Format { return i.format }
func (i *Image) Timestamp() time.Time { return i.time }
func (i *Image) DataLen() int { return len(i.data) }
func (i *Image) Plane() []byte { return i.data }

// SetTimestamp overrides the capture time, which defaults to allocation time.
func (i *Image) SetTimestamp(t time.Time) {
	i.time = t
}

func (i *Image) Release() {
	if i.released {
		panic("depth: frame already released")
	}
	i.released = true
	if i.pool != nil {
		i.pool.Put(i.data)
	}
	i.data = nil
}
