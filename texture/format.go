package texture

import (
	"fmt"

	"depthcam/depth"
)

// Format is the pixel layout of a display texture.
type Format int

const (
	Unknown Format = iota
	// Alpha8 is a single 8-bit channel.
	Alpha8
	// R16 is a single 16-bit unsigned channel.
	R16
	// RFloat is a single 32-bit float channel.
	RFloat
)

func (f Format) String() string {
	switch f {
	case Alpha8:
		return "Alpha8"
	case R16:
		return "R16"
	case RFloat:
		return "RFloat"
	case Unknown:
		return "Unknown"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

func (f Format) BytesPerPixel() int {
	switch f {
	case Alpha8:
		return 1
	case R16:
		return 2
	case RFloat:
		return 4
	}
	return 0
}

// TargetFormat maps a native depth format to the texture format it is
// displayed with.
func TargetFormat(f depth.Format) (Format, bool) {
	switch f {
	case depth.DepthFloat32:
		return RFloat, true
	case depth.DepthUint16:
		return R16, true
	case depth.OneComponent8:
		return Alpha8, true
	}
	return Unknown, false
}

// ConvertedSize is the number of bytes a conversion to the given dimensions
// and format produces.
func ConvertedSize(width, height int, f Format) int {
	if width <= 0 || height <= 0 {
		return 0
	}
	return width * height * f.BytesPerPixel()
}
