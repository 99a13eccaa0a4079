// Package status renders the depth sampler diagnostics and delivers them to
// text sinks.
package status

import (
	"fmt"
	"strconv"
	"strings"

	"depthcam/depth"
	"depthcam/texture"
)

// Placeholder is shown for any field the provider could not report.
const Placeholder = "unknown"

// Snapshot is the state shown on screen for one frame. Nil fields are unknown.
type Snapshot struct {
	SupportsDepthImage      *bool
	SupportsConfidenceImage *bool
	DepthMode               *depth.DepthMode
	OcclusionMode           *depth.OcclusionMode

	// HasTexture is false until the first texture is allocated.
	HasTexture    bool
	Width, Height int
}

// SnapshotOf collects a Snapshot; p and tex may both be nil.
func SnapshotOf(p depth.Provider, tex *texture.Texture) Snapshot {
	var s Snapshot
	if p != nil {
		if d := p.Descriptor(); d != nil {
			img, conf := d.SupportsEnvironmentDepthImage, d.SupportsEnvironmentDepthConfidenceImage
			s.SupportsDepthImage = &img
			s.SupportsConfidenceImage = &conf
		}
		dm, om := p.DepthMode(), p.OcclusionMode()
		s.DepthMode = &dm
		s.OcclusionMode = &om
	}
	if tex != nil {
		s.HasTexture = true
		s.Width, s.Height = tex.Width(), tex.Height()
	}
	return s
}

// Dimensions formats the texture size as WxH, or 0x0 without a texture.
func (s Snapshot) Dimensions() string {
	if !s.HasTexture {
		return "0x0"
	}
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

func optBool(b *bool) string {
	if b == nil {
		return Placeholder
	}
	return strconv.FormatBool(*b)
}

// Render formats s, one field per line.
func Render(s Snapshot) string {
	dm, om := Placeholder, Placeholder
	if s.DepthMode != nil {
		dm = s.DepthMode.String()
	}
	if s.OcclusionMode != nil {
		om = s.OcclusionMode.String()
	}

	var b strings.Builder
	b.WriteString("Environment depth image: " + optBool(s.SupportsDepthImage) + "\n")
	b.WriteString("Environment depth confidence image: " + optBool(s.SupportsConfidenceImage) + "\n")
	b.WriteString("Environment depth mode: " + dm + "\n")
	b.WriteString("Occlusion preference mode: " + om + "\n")
	b.WriteString("Depth texture: " + s.Dimensions() + "\n")
	return b.String()
}
