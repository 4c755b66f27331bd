// SPDX-License-Identifier: Unlicense OR MIT

package egl

// Visual describes a native window visual compatible with a config.
type Visual struct {
	ID              uint32
	Depth           uint8
	Class           uint8
	BitsPerRGB      uint8
	ColormapEntries uint16
	RedMask         uint32
	GreenMask       uint32
	BlueMask        uint32
	Screen          int
}

// Empty reports whether v is the zero Visual returned when no compatible
// visual exists.
func (v Visual) Empty() bool {
	return v.ID == 0
}

// VisualResolver looks up native visuals in the windowing system's visual
// catalog. Only platforms with a legacy visual system provide one.
type VisualResolver interface {
	VisualsByID(id uint32) ([]Visual, error)
}

// NoVisualResolver is the resolver of platforms without native visuals.
type NoVisualResolver struct{}

func (NoVisualResolver) VisualsByID(uint32) ([]Visual, error) { return nil, nil }

// SelectBestVisual picks the native visual matching the config that would
// be selected for colorBits and s. A window created with the visual can
// later be bound to a surface of that config.
//
// Only display and config failures are returned as errors. When the driver
// or the windowing system knows no matching visual, the failure is logged
// and the empty Visual is returned.
func (c *DisplayConnection) SelectBestVisual(r VisualResolver, colorBits uint, s ContextSettings) (Visual, error) {
	disp, err := c.Display()
	if err != nil {
		return Visual{}, err
	}
	cfg, err := c.SelectBestConfig(colorBits, s)
	if err != nil {
		return Visual{}, err
	}
	id, ok := c.backend.GetConfigAttrib(disp, cfg, NativeVisualID)
	if !c.check("eglGetConfigAttrib", ok) {
		return Visual{}, nil
	}
	if id == 0 {
		c.logger().Warn("No EGL visual found. You should check your graphics driver")
		return Visual{}, nil
	}
	visuals, err := r.VisualsByID(uint32(id))
	if err != nil {
		c.logger().Warn("visual lookup failed", "id", uint32(id), "error", err)
		return Visual{}, nil
	}
	if len(visuals) == 0 {
		c.logger().Warn("No X11 visual found. Bug in your EGL implementation?", "id", uint32(id))
		return Visual{}, nil
	}
	return visuals[0], nil
}
