package depth

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	// ExtRaw is the extension of raw depth frame files.
	ExtRaw = ".depth"
	ExtPNG = ".png"

	rawMagic = "DPTH"
)

var ErrBadHeader = errors.New("depth: bad frame header")

// rawHeader precedes the pixel data of a .depth file. All fields are
// little-endian.
type rawHeader struct {
	Magic  [4]byte
	Width  uint16
	Height uint16
	Format uint8
}

// WriteFrame encodes f in the raw .depth format.
func WriteFrame(w io.Writer, f Frame) error {
	if f.Width() > 0xffff || f.Height() > 0xffff {
		return fmt.Errorf("depth: frame %dx%d too large to encode", f.Width(), f.Height())
	}
	h := rawHeader{
		Width:  uint16(f.Width()),
		Height: uint16(f.Height()),
		Format: uint8(f.Format()),
	}
	copy(h.Magic[:], rawMagic)
	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return err
	}
	_, err := w.Write(f.Plane())
	return err
}

// ReadFrame decodes a raw .depth frame. The pixel buffer is taken from pool,
// which may be nil.
func ReadFrame(r io.Reader, pool *BufferPool) (*Image, error) {
	var h rawHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	if string(h.Magic[:]) != rawMagic {
		return nil, fmt.Errorf("%w: magic %q", ErrBadHeader, h.Magic[:])
	}
	format := Format(h.Format)
	if format.BytesPerPixel() == 0 {
		return nil, fmt.Errorf("%w: unsupported format %v", ErrBadHeader, format)
	}
	img := NewImage(int(h.Width), int(h.Height), format, pool)
	if _, err := io.ReadFull(r, img.data); err != nil {
		img.Release()
		return nil, fmt.Errorf("depth: short pixel data: %w", err)
	}
	return img, nil
}

// DecodePNG converts a grayscale PNG into a frame. 16-bit images become
// DepthUint16 (millimeters), 8-bit images become OneComponent8.
func DecodePNG(r io.Reader, pool *BufferPool) (*Image, error) {
	src, err := png.Decode(r)
	if err != nil {
		return nil, err
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	switch g := src.(type) {
	case *image.Gray16:
		img := NewImage(w, h, DepthUint16, pool)
		for y := 0; y < h; y++ {
			row := g.Pix[y*g.Stride : y*g.Stride+w*2]
			out := img.data[y*w*2 : (y+1)*w*2]
			for x := 0; x < w; x++ {
				// PNG stores big-endian samples.
				out[2*x] = row[2*x+1]
				out[2*x+1] = row[2*x]
			}
		}
		return img, nil
	case *image.Gray:
		img := NewImage(w, h, OneComponent8, pool)
		for y := 0; y < h; y++ {
			copy(img.data[y*w:(y+1)*w], g.Pix[y*g.Stride:y*g.Stride+w])
		}
		return img, nil
	}
	return nil, fmt.Errorf("depth: unsupported PNG color model %T", src)
}

// IsFrameFile reports whether path has a known frame extension.
func IsFrameFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtRaw, ExtPNG:
		return true
	}
	return false
}

// LoadFile reads a frame from disk, choosing the decoder by extension.
func LoadFile(path string, pool *BufferPool) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := bufio.NewReader(f)
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtRaw:
		return ReadFrame(r, pool)
	case ExtPNG:
		return DecodePNG(r, pool)
	}
	return nil, fmt.Errorf("depth: unknown frame file type %q", path)
}
