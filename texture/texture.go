// Package texture keeps a display texture in sync with incoming depth frames.
//
// A Texture is reallocated only when a frame's dimensions or mapped format
// differ from it; otherwise its bytes are overwritten in place. Callers holding
// a *Texture can tell "new buffer" from "refreshed contents" by pointer
// identity and by Version.
package texture

import (
	"fmt"
)

// Texture is a 2-D pixel buffer without mipmaps.
type Texture struct {
	width, height int
	format        Format
	pix           []byte

	version uint64
}

// New allocates a zero-initialized texture.
func New(width, height int, format Format) *Texture {
	return &Texture{
		width:  width,
		height: height,
		format: format,
		pix:    make([]byte, ConvertedSize(width, height, format)),
	}
}

func (t *Texture) Width() int { return t.width }
func (t *Texture) Height() int { return t.height }
func (t *Texture) Format() Format { return t.format }

// RawData returns the backing storage, rows top first. Writes through it are
// visible to every holder of the texture.
func (t *Texture) RawData() []byte {
	return t.pix
}

// Apply marks the current contents as ready for consumers.
func (t *Texture) Apply() {
	t.version += 1
}

// Version counts Apply calls. Consumers compare it against the last version
// they rendered to skip unchanged textures.
func (t *Texture) Version() uint64 {
	return t.version
}

// Matches reports whether the texture has the given dimensions and format.
func (t *Texture) Matches(width, height int, format Format) bool {
	return t != nil && t.width == width && t.height == height && t.format == format
}

func (t *Texture) String() string {
	if t == nil {
		return "0x0"
	}
	return fmt.Sprintf("%dx%d", t.width, t.height)
}
