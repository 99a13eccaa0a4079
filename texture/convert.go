package texture

import (
	"errors"
	"fmt"
	"strings"

	"depthcam/depth"
)

var (
	// ErrSizeMismatch means the destination does not hold exactly the number
	// of bytes the conversion produces. No bytes are written.
	ErrSizeMismatch = errors.New("texture: destination size mismatch")
	// ErrPlaneSize means the frame's pixel data disagrees with its dimensions.
	ErrPlaneSize = errors.New("texture: frame data size mismatch")
	// ErrUnsupportedFormat means there is no conversion for the requested formats.
	ErrUnsupportedFormat = errors.New("texture: unsupported format")
	// ErrUnsupportedResize means the output dimensions differ from the frame's.
	ErrUnsupportedResize = errors.New("texture: resizing not supported")
)

// Transform is a set of mirror flags applied while converting.
type Transform int

const (
	None Transform = 0
	// MirrorX mirrors about the horizontal axis: row order is reversed, pixels
	// within a row keep their order.
	MirrorX Transform = 1
	// MirrorY mirrors about the vertical axis: pixel order within each row is
	// reversed.
	MirrorY Transform = 2
)

var transformNames = map[string]Transform{
	"none":      None,
	"mirror-x":  MirrorX,
	"mirror-y":  MirrorY,
	"mirror-xy": MirrorX | MirrorY,
}

func (t Transform) String() string {
	for n, v := range transformNames {
		if v == t {
			return n
		}
	}
	return fmt.Sprintf("Transform(%d)", int(t))
}

// ParseTransform accepts none, mirror-x, mirror-y and mirror-xy. The empty
// string means mirror-x.
func ParseTransform(s string) (Transform, error) {
	if s == "" {
		return MirrorX, nil
	}
	if t, ok := transformNames[strings.ToLower(s)]; ok {
		return t, nil
	}
	return None, fmt.Errorf("unknown transform %q", s)
}

// ConversionParams describes how a frame is converted into texture bytes.
type ConversionParams struct {
	OutputWidth, OutputHeight int
	OutputFormat              Format
	Transform                 Transform
}

// NewConversionParams converts the whole frame at its native size.
func NewConversionParams(f depth.Frame, format Format, t Transform) ConversionParams {
	return ConversionParams{
		OutputWidth:  f.Width(),
		OutputHeight: f.Height(),
		OutputFormat: format,
		Transform:    t,
	}
}

// Convert writes f's pixels into dst in the requested format and orientation.
// dst must be exactly ConvertedSize(p.OutputWidth, p.OutputHeight,
// p.OutputFormat) bytes long; nothing is written otherwise.
func Convert(f depth.Frame, p ConversionParams, dst []byte) error {
	target, ok := TargetFormat(f.Format())
	if !ok || target != p.OutputFormat {
		return fmt.Errorf("%w: %v to %v", ErrUnsupportedFormat, f.Format(), p.OutputFormat)
	}
	if p.OutputWidth != f.Width() || p.OutputHeight != f.Height() {
		return fmt.Errorf("%w: %dx%d to %dx%d", ErrUnsupportedResize, f.Width(), f.Height(), p.OutputWidth, p.OutputHeight)
	}
	n := ConvertedSize(p.OutputWidth, p.OutputHeight, p.OutputFormat)
	if len(dst) != n {
		return fmt.Errorf("%w: have %d bytes, need %d", ErrSizeMismatch, len(dst), n)
	}
	src := f.Plane()
	if len(src) != n {
		return fmt.Errorf("%w: %dx%d %v frame carries %d bytes", ErrPlaneSize, f.Width(), f.Height(), f.Format(), len(src))
	}

	w, h := p.OutputWidth, p.OutputHeight
	bpp := p.OutputFormat.BytesPerPixel()
	stride := w * bpp
	for y := 0; y < h; y++ {
		sy := y
		if p.Transform&MirrorX != 0 {
			sy = h - 1 - y
		}
		srow := src[sy*stride : (sy+1)*stride]
		drow := dst[y*stride : (y+1)*stride]
		if p.Transform&MirrorY == 0 {
			copy(drow, srow)
			continue
		}
		for x := 0; x < w; x++ {
			sx := w - 1 - x
			copy(drow[x*bpp:(x+1)*bpp], srow[sx*bpp:(sx+1)*bpp])
		}
	}
	return nil
}
