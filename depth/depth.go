package depth

import (
	"fmt"
	"strings"
	"time"
)

// Format is the native pixel format of a depth frame.
type Format int

const (
	Unknown Format = iota
	// DepthFloat32 stores distance in meters as little-endian float32.
	DepthFloat32
	// DepthUint16 stores distance in millimeters as little-endian uint16.
	DepthUint16
	// OneComponent8 is a single 8-bit channel, e.g. a confidence image.
	OneComponent8
)

var formatNames = map[Format]string{
	Unknown:       "Unknown",
	DepthFloat32:  "DepthFloat32",
	DepthUint16:   "DepthUint16",
	OneComponent8: "OneComponent8",
}

func (f Format) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// BytesPerPixel returns the storage size of one pixel, or 0 for unknown formats.
func (f Format) BytesPerPixel() int {
	switch f {
	case DepthFloat32:
		return 4
	case DepthUint16:
		return 2
	case OneComponent8:
		return 1
	}
	return 0
}

// DepthMode is the environment depth quality requested from the provider.
type DepthMode int

const (
	Disabled DepthMode = iota
	Fastest
	Medium
	Best
)

var depthModeNames = []string{"Disabled", "Fastest", "Medium", "Best"}

func (m DepthMode) String() string {
	if int(m) >= 0 && int(m) < len(depthModeNames) {
		return depthModeNames[m]
	}
	return fmt.Sprintf("DepthMode(%d)", int(m))
}

// ParseDepthMode is case insensitive. The empty string maps to Fastest.
func ParseDepthMode(s string) (DepthMode, error) {
	if s == "" {
		return Fastest, nil
	}
	for i, n := range depthModeNames {
		if strings.EqualFold(s, n) {
			return DepthMode(i), nil
		}
	}
	return Disabled, fmt.Errorf("unknown depth mode %q", s)
}

// OcclusionMode is the occlusion preference of the provider.
type OcclusionMode int

const (
	PreferEnvironmentOcclusion OcclusionMode = iota
	PreferHumanOcclusion
	NoOcclusion
)

var occlusionModeNames = []string{"PreferEnvironmentOcclusion", "PreferHumanOcclusion", "NoOcclusion"}

func (m OcclusionMode) String() string {
	if int(m) >= 0 && int(m) < len(occlusionModeNames) {
		return occlusionModeNames[m]
	}
	return fmt.Sprintf("OcclusionMode(%d)", int(m))
}

// ParseOcclusionMode is case insensitive. The empty string maps to
// PreferEnvironmentOcclusion.
func ParseOcclusionMode(s string) (OcclusionMode, error) {
	if s == "" {
		return PreferEnvironmentOcclusion, nil
	}
	for i, n := range occlusionModeNames {
		if strings.EqualFold(s, n) {
			return OcclusionMode(i), nil
		}
	}
	return PreferEnvironmentOcclusion, fmt.Errorf("unknown occlusion mode %q", s)
}

// Descriptor lists what the depth subsystem is able to produce.
type Descriptor struct {
	SupportsEnvironmentDepthImage           bool
	SupportsEnvironmentDepthConfidenceImage bool
}

// Frame is a single depth image. It is only valid until Release is called,
// and Release must be called exactly once.
type Frame interface {
	Width() int
	Height() int
	Format() Format
	Timestamp() time.Time

	// DataLen is the length of the raw pixel data in bytes.
	DataLen() int

	// Plane returns the raw pixel rows, top row first, tightly packed. The
	// slice must not be retained after Release.
	Plane() []byte

	Release()
}

// Provider produces depth frames, such as an occlusion subsystem.
type Provider interface {
	// Descriptor returns nil if the subsystem is not available.
	Descriptor() *Descriptor

	// TryAcquire returns the latest frame if a new one is ready. It never
	// blocks; false is the normal "nothing new yet" answer.
	TryAcquire() (Frame, bool)

	DepthMode() DepthMode
	OcclusionMode() OcclusionMode
}
