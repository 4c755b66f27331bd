// SPDX-License-Identifier: Unlicense OR MIT

package egl

// ContextSettings are the requested properties of a context. They only
// steer config selection and are not retained.
type ContextSettings struct {
	DepthBits         uint
	StencilBits       uint
	AntialiasingLevel uint
	MajorVersion      uint
	MinorVersion      uint
}

// ConfigDescription holds the attributes of a chosen config.
type ConfigDescription struct {
	BufferSize     uint
	DepthSize      uint
	StencilSize    uint
	SampleBuffers  uint
	Samples        uint
	SurfaceType    Attrib
	RenderableType Attrib
	NativeVisualID uint32
}

// Settings returns the context settings the config actually provides.
func (d ConfigDescription) Settings() ContextSettings {
	return ContextSettings{
		DepthBits:         d.DepthSize,
		StencilBits:       d.StencilSize,
		AntialiasingLevel: d.Samples,
	}
}

func configAttribs(colorBits uint, s ContextSettings) []Attrib {
	var sampleBuffers Attrib
	if s.AntialiasingLevel > 0 {
		sampleBuffers = 1
	}
	renderable := OpenGLESBit
	if s.MajorVersion >= 3 {
		renderable = OpenGLES3Bit
	} else if s.MajorVersion == 2 {
		renderable = OpenGLES2Bit
	}
	return []Attrib{
		BufferSize, Attrib(colorBits),
		DepthSize, Attrib(s.DepthBits),
		StencilSize, Attrib(s.StencilBits),
		SampleBuffers, sampleBuffers,
		Samples, Attrib(s.AntialiasingLevel),
		SurfaceType, WindowBit | PbufferBit,
		RenderableType, renderable,
		None,
	}
}

// SelectBestConfig returns the config the driver ranks first for the
// requested color depth and settings. The driver's ranking is trusted as
// is; no attempt is made to relax the constraints when nothing matches.
func (c *DisplayConnection) SelectBestConfig(colorBits uint, s ContextSettings) (ConfigHandle, error) {
	disp, err := c.Display()
	if err != nil {
		return NoConfig, err
	}
	cfg, ok := c.backend.ChooseConfig(disp, configAttribs(colorBits, s))
	if !ok {
		return NoConfig, c.fail("eglChooseConfig")
	}
	if cfg == NoConfig {
		c.logger().Error("no config matches the requested settings",
			"colorBits", colorBits, "depth", s.DepthBits, "stencil", s.StencilBits, "antialiasing", s.AntialiasingLevel)
		return NoConfig, ErrNoConfig
	}
	return cfg, nil
}

// DescribeConfig reads back the attributes of cfg.
func (c *DisplayConnection) DescribeConfig(cfg ConfigHandle) (ConfigDescription, error) {
	disp, err := c.Display()
	if err != nil {
		return ConfigDescription{}, err
	}
	var d ConfigDescription
	fields := []struct {
		attr Attrib
		set  func(Attrib)
	}{
		{BufferSize, func(v Attrib) { d.BufferSize = uint(v) }},
		{DepthSize, func(v Attrib) { d.DepthSize = uint(v) }},
		{StencilSize, func(v Attrib) { d.StencilSize = uint(v) }},
		{SampleBuffers, func(v Attrib) { d.SampleBuffers = uint(v) }},
		{Samples, func(v Attrib) { d.Samples = uint(v) }},
		{SurfaceType, func(v Attrib) { d.SurfaceType = v }},
		{RenderableType, func(v Attrib) { d.RenderableType = v }},
		{NativeVisualID, func(v Attrib) { d.NativeVisualID = uint32(v) }},
	}
	for _, f := range fields {
		v, ok := c.backend.GetConfigAttrib(disp, cfg, f.attr)
		if !ok {
			return ConfigDescription{}, c.fail("eglGetConfigAttrib")
		}
		f.set(v)
	}
	return d, nil
}
