// Package sink displays depth textures: colorized, labelled and pushed to
// MJPEG streams or a desktop window.
package sink

import (
	"gocv.io/x/gocv"
)

// Sink defines a destination for rendered images, such as a monitor or an
// HTTP stream.
type Sink interface {
	// Put delivers an image to the sink. The sink must not modify it or keep a
	// reference to it after returning.
	Put(img gocv.Mat)

	// Close should be called to finalize the Sink.
	Close()
}
