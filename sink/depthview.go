package sink

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"depthcam/texture"
)

// DefaultMaxMeters is the distance mapped to the top of the colormap.
const DefaultMaxMeters = 5.0

// Visualize converts a depth texture into an 8-bit BGR image: near is blue,
// far (maxMeters and beyond) is red. The caller must Close the result.
func Visualize(tex *texture.Texture, maxMeters float64) (gocv.Mat, error) {
	if maxMeters <= 0 {
		maxMeters = DefaultMaxMeters
	}
	var mt gocv.MatType
	var alpha float64
	switch tex.Format() {
	case texture.R16:
		// Millimeters.
		mt, alpha = gocv.MatTypeCV16UC1, 255/(maxMeters*1000)
	case texture.RFloat:
		// Meters.
		mt, alpha = gocv.MatTypeCV32FC1, 255/maxMeters
	case texture.Alpha8:
		mt, alpha = gocv.MatTypeCV8UC1, 1
	default:
		return gocv.NewMat(), fmt.Errorf("cannot visualize %v texture", tex.Format())
	}

	src, err := gocv.NewMatFromBytes(tex.Height(), tex.Width(), mt, tex.RawData())
	if err != nil {
		return gocv.NewMat(), err
	}
	defer src.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	src.ConvertToWithParams(&gray, gocv.MatTypeCV8UC1, float32(alpha), 0)

	out := gocv.NewMat()
	gocv.ApplyColorMap(gray, &out, gocv.ColormapJet)
	return out, nil
}

// DepthView renders the depth texture to its sinks whenever the texture has
// been applied since the last refresh. Bind it to a sampler as a
// TextureListener and call Refresh once per frame.
type DepthView struct {
	Sinks []Sink
	Name  string
	// MaxMeters is consulted on every refresh, so it may follow live config.
	MaxMeters func() float64

	tex      *texture.Texture
	rendered uint64
}

func NewDepthView(name string, sinks ...Sink) *DepthView {
	return &DepthView{
		Sinks:     sinks,
		Name:      name,
		MaxMeters: func() float64 { return DefaultMaxMeters },
	}
}

// TextureReady binds a newly allocated texture.
func (v *DepthView) TextureReady(tex *texture.Texture) {
	v.tex = tex
	v.rendered = 0
}

// Refresh pushes the texture to the sinks if its contents changed.
func (v *DepthView) Refresh() {
	if v.tex == nil || v.tex.Version() == v.rendered {
		return
	}
	v.rendered = v.tex.Version()

	img, err := Visualize(v.tex, v.MaxMeters())
	defer img.Close()
	if err != nil {
		log.WithField("view", v.Name).Errorf("Failed to visualize depth texture: %v", err)
		return
	}
	DrawLabel(&img, fmt.Sprintf("%s %v - %s", v.Name, v.tex, time.Now().Format("15:04:05")))
	for _, s := range v.Sinks {
		s.Put(img)
	}
}

func (v *DepthView) Close() {
	for _, s := range v.Sinks {
		s.Close()
	}
}
