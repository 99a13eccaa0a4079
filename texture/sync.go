package texture

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"depthcam/depth"
)

// Reconcile brings cur in line with frame f and copies the frame into it.
//
// A new texture is allocated when cur is nil or its width, height or format
// differ from the frame's (mapped) ones; reallocated reports exactly that.
// The copy runs either way. When the copy is refused (see Convert) the
// returned texture keeps its previous contents and err says why.
func Reconcile(cur *Texture, f depth.Frame, t Transform) (tex *Texture, reallocated bool, err error) {
	target, ok := TargetFormat(f.Format())
	if !ok {
		return cur, false, fmt.Errorf("%w: no display format for %v", ErrUnsupportedFormat, f.Format())
	}

	if !cur.Matches(f.Width(), f.Height(), target) {
		cur = New(f.Width(), f.Height(), target)
		reallocated = true
	}

	p := NewConversionParams(f, target, t)
	if err := Convert(f, p, cur.RawData()); err != nil {
		return cur, reallocated, err
	}
	cur.Apply()
	return cur, reallocated, nil
}

// Synchronizer owns the single texture fed by a stream of depth frames. It is
// not safe for concurrent use; it belongs to the frame loop.
type Synchronizer struct {
	Transform Transform

	tex     *Texture
	skipped uint64
}

func NewSynchronizer(t Transform) *Synchronizer {
	return &Synchronizer{Transform: t}
}

// Reconcile updates the texture from f. Conversion failures are logged and
// leave the texture contents stale for this frame.
func (s *Synchronizer) Reconcile(f depth.Frame) (*Texture, bool) {
	tex, reallocated, err := Reconcile(s.tex, f, s.Transform)
	s.tex = tex
	if err != nil {
		s.skipped += 1
		log.WithField("frame", fmt.Sprintf("%dx%d %v", f.Width(), f.Height(), f.Format())).
			Warnf("Skipped depth conversion: %v", err)
	}
	return tex, reallocated
}

// Texture returns the current texture, or nil before the first usable frame.
func (s *Synchronizer) Texture() *Texture {
	return s.tex
}

// Skipped counts frames whose conversion was refused.
func (s *Synchronizer) Skipped() uint64 {
	return s.skipped
}
