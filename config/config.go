package config

import (
	"time"

	"depthcam/depth"
	"depthcam/texture"
)

type Config struct {
	// Source is a directory of recorded depth frames. Empty means synthetic
	// frames.
	Source string `json:"source" yaml:"source"`

	// Loop restarts playback of Source at the end.
	Loop bool `json:"loop" yaml:"loop"`
	FPS  int  `json:"fps" yaml:"fps"`

	// StartupDelaySec is the wait before the sampler checks the provider.
	StartupDelaySec float64 `json:"startup_delay_sec" yaml:"startup_delay_sec"`

	// Transform is one of none, mirror-x, mirror-y, mirror-xy.
	Transform string `json:"transform" yaml:"transform"`

	// Reported provider capabilities. Leaving SupportsDepthImage out makes
	// the provider report no descriptor at all.
	SupportsDepthImage      *bool  `json:"supports_depth_image" yaml:"supports_depth_image"`
	SupportsConfidenceImage bool   `json:"supports_confidence_image" yaml:"supports_confidence_image"`
	DepthMode               string `json:"depth_mode" yaml:"depth_mode"`
	OcclusionMode           string `json:"occlusion_mode" yaml:"occlusion_mode"`

	SyntheticWidth  int `json:"synthetic_width" yaml:"synthetic_width"`
	SyntheticHeight int `json:"synthetic_height" yaml:"synthetic_height"`

	// MaxDepthMeters maps to the far end of the preview colormap. Reloaded live.
	MaxDepthMeters float64 `json:"max_depth_meters" yaml:"max_depth_meters"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	supported := true
	return &Config{
		FPS:                30,
		Loop:               true,
		StartupDelaySec:    3,
		Transform:          "mirror-x",
		SupportsDepthImage: &supported,
		DepthMode:          "Fastest",
		OcclusionMode:      "PreferEnvironmentOcclusion",
		SyntheticWidth:     240,
		SyntheticHeight:    180,
		MaxDepthMeters:     5,
	}
}

func (c *Config) StartupDelay() time.Duration {
	if c.StartupDelaySec <= 0 {
		return -1
	}
	return time.Duration(c.StartupDelaySec * float64(time.Second))
}

// Descriptor returns nil when SupportsDepthImage is unset.
func (c *Config) Descriptor() *depth.Descriptor {
	if c.SupportsDepthImage == nil {
		return nil
	}
	return &depth.Descriptor{
		SupportsEnvironmentDepthImage:           *c.SupportsDepthImage,
		SupportsEnvironmentDepthConfidenceImage: c.SupportsConfidenceImage,
	}
}

// Validate parses the enumerated fields.
func (c *Config) Validate() error {
	if _, err := texture.ParseTransform(c.Transform); err != nil {
		return err
	}
	if _, err := depth.ParseDepthMode(c.DepthMode); err != nil {
		return err
	}
	if _, err := depth.ParseOcclusionMode(c.OcclusionMode); err != nil {
		return err
	}
	return nil
}
