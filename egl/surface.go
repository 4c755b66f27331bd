// SPDX-License-Identifier: Unlicense OR MIT

package egl

import (
	"errors"
)

// Surface is a drawable bound to a display and a config: either a native
// window or an offscreen pixel buffer.
type Surface struct {
	conn          *DisplayConnection
	disp          DisplayHandle
	handle        SurfaceHandle
	win           NativeWindowType
	width, height int
	// owner is the context the surface is attached to, if any.
	owner *Context
}

// CreateWindowSurface binds a surface to an existing native window.
func (c *DisplayConnection) CreateWindowSurface(cfg ConfigHandle, win NativeWindowType) (*Surface, error) {
	if win == 0 {
		return nil, errors.New("egl: CreateWindowSurface: no native window")
	}
	disp, err := c.Display()
	if err != nil {
		return nil, err
	}
	s := c.backend.CreateWindowSurface(disp, cfg, win, []Attrib{None})
	if s == NoSurface {
		return nil, c.fail("eglCreateWindowSurface")
	}
	c.logger().Debug("window surface created", "surface", uintptr(s), "window", uintptr(win))
	return &Surface{conn: c, disp: disp, handle: s, win: win}, nil
}

// CreateOffscreenSurface creates a pixel buffer surface. Zero dimensions
// default to 1, the smallest surface a context can be made current
// against.
func (c *DisplayConnection) CreateOffscreenSurface(cfg ConfigHandle, width, height int) (*Surface, error) {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	disp, err := c.Display()
	if err != nil {
		return nil, err
	}
	// Some drivers crash on a nil attribute list even though it is
	// allowed, so the size is always spelled out.
	attribs := []Attrib{
		Width, Attrib(width),
		Height, Attrib(height),
		None,
	}
	s := c.backend.CreatePbufferSurface(disp, cfg, attribs)
	if s == NoSurface {
		return nil, c.fail("eglCreatePbufferSurface")
	}
	c.logger().Debug("offscreen surface created", "surface", uintptr(s), "width", width, "height", height)
	return &Surface{conn: c, disp: disp, handle: s, width: width, height: height}, nil
}

// Handle returns the native surface, or NoSurface after Destroy.
func (s *Surface) Handle() SurfaceHandle {
	if s == nil {
		return NoSurface
	}
	return s.handle
}

// Window returns the native window of a window surface.
func (s *Surface) Window() NativeWindowType {
	return s.win
}

// Offscreen reports whether s is a pixel buffer surface.
func (s *Surface) Offscreen() bool {
	return s.win == 0
}

// Size returns the pixel buffer dimensions. Window surfaces report zero;
// their size follows the window.
func (s *Surface) Size() (width, height int) {
	return s.width, s.height
}

// Destroy deactivates the context attached to s, if it is current, and
// then destroys the native surface. Calling Destroy more than once is a
// no-op.
func (s *Surface) Destroy() {
	if s == nil || s.handle == NoSurface {
		return
	}
	if owner := s.owner; owner != nil {
		owner.surfaceDestroyed(s)
	}
	s.destroy()
}

func (s *Surface) destroy() {
	if s.handle == NoSurface {
		return
	}
	s.conn.check("eglDestroySurface", s.conn.backend.DestroySurface(s.disp, s.handle))
	s.conn.logger().Debug("surface destroyed", "surface", uintptr(s.handle))
	s.handle = NoSurface
}
