// SPDX-License-Identifier: Unlicense OR MIT

package egl

import (
	"fmt"
	"runtime"
	"sync"
)

// State is the lifecycle stage of a Context.
type State uint8

const (
	// StateUncreated is the zero Context.
	StateUncreated State = iota
	// StateContextOnly is a live context without a surface. MakeCurrent
	// fails until a surface is attached.
	StateContextOnly
	// StateBound is a live context with a surface attached.
	StateBound
	// StateDestroyed is a released context.
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateUncreated:
		return "Uncreated"
	case StateContextOnly:
		return "ContextOnly"
	case StateBound:
		return "Bound"
	case StateDestroyed:
		return "Destroyed"
	default:
		panic("invalid State")
	}
}

// Window is the owner of a windowed context.
type Window interface {
	// SystemHandle returns the native window, or false if the window
	// does not exist yet.
	SystemHandle() (NativeWindowType, bool)
}

// Context is a rendering context together with the surface it renders
// to. Surface changes may arrive from a goroutine other than the one
// rendering, as they do through an Activity; binding and presenting are
// serialized with them.
type Context struct {
	conn     *DisplayConnection
	disp     DisplayHandle
	config   ConfigHandle
	settings ContextSettings
	visualID uint32

	mu       sync.Mutex
	handle   ContextHandle
	surface  *Surface
	state    State
	activity *Activity
	// locked tracks whether MakeCurrent locked the OS thread.
	locked bool
	// vsynced is set once the connection's swap interval is applied.
	vsynced bool
}

// CreateContext creates a native context for cfg. If share is not nil, the
// new context shares its object namespace (textures, buffers, programs)
// with share. The share group is fixed at creation.
func (c *DisplayConnection) CreateContext(cfg ConfigHandle, share *Context, s ContextSettings) (ContextHandle, error) {
	disp, err := c.Display()
	if err != nil {
		return NoContext, err
	}
	shareCtx := NoContext
	if share != nil {
		if share.State() == StateDestroyed {
			return NoContext, fmt.Errorf("egl: CreateContext: shared context: %w", ErrDestroyed)
		}
		shareCtx = share.Handle()
	}
	version := s.MajorVersion
	if version == 0 {
		version = 1
	}
	attribs := []Attrib{ContextClientVersion, Attrib(version)}
	if s.MinorVersion > 0 {
		if c.HasExtension("EGL_KHR_create_context") {
			attribs = append(attribs, ContextMinorVersion, Attrib(s.MinorVersion))
		} else {
			c.logger().Warn("minor version ignored without EGL_KHR_create_context", "minor", s.MinorVersion)
		}
	}
	attribs = append(attribs, None)
	ctx := c.backend.CreateContext(disp, cfg, shareCtx, attribs)
	if ctx == NoContext {
		return NoContext, c.fail("eglCreateContext")
	}
	c.logger().Debug("context created", "context", uintptr(ctx), "shared", uintptr(shareCtx), "version", version)
	return ctx, nil
}

func newContext(conn *DisplayConnection, shared *Context, colorBits uint, settings ContextSettings) (*Context, error) {
	disp, err := conn.Display()
	if err != nil {
		return nil, err
	}
	if colorBits == 0 {
		colorBits = conn.desktopBits()
	}
	cfg, err := conn.SelectBestConfig(colorBits, settings)
	if err != nil {
		return nil, err
	}
	h, err := conn.CreateContext(cfg, shared, settings)
	if err != nil {
		return nil, err
	}
	c := &Context{
		conn:     conn,
		disp:     disp,
		config:   cfg,
		handle:   h,
		state:    StateContextOnly,
		settings: settings,
	}
	if desc, err := conn.DescribeConfig(cfg); err == nil {
		actual := desc.Settings()
		actual.MajorVersion, actual.MinorVersion = settings.MajorVersion, settings.MinorVersion
		c.settings = actual
		c.visualID = desc.NativeVisualID
	}
	return c, nil
}

// NewSharedContext creates a hidden context for sharing resources with
// other contexts. It renders to a 1x1 offscreen surface and uses the
// desktop color depth with default settings.
func NewSharedContext(conn *DisplayConnection, shared *Context) (*Context, error) {
	return NewOffscreenContext(conn, shared, ContextSettings{}, 1, 1)
}

// NewOffscreenContext creates a context rendering to an offscreen surface
// of the given size.
func NewOffscreenContext(conn *DisplayConnection, shared *Context, settings ContextSettings, width, height int) (*Context, error) {
	c, err := newContext(conn, shared, 0, settings)
	if err != nil {
		return nil, err
	}
	s, err := conn.CreateOffscreenSurface(c.config, width, height)
	if err != nil {
		c.Release()
		return nil, err
	}
	c.attach(s)
	return c, nil
}

// NewWindowContext creates a context for owner. If owner's native window
// exists, a window surface is attached right away. Otherwise the context
// is created without surface and AttachWindow must be called once the
// window is delivered. A zero colorBits selects the desktop color depth.
func NewWindowContext(conn *DisplayConnection, shared *Context, settings ContextSettings, owner Window, colorBits uint) (*Context, error) {
	c, err := newContext(conn, shared, colorBits, settings)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return c, nil
	}
	if win, ok := owner.SystemHandle(); ok && win != 0 {
		if err := c.AttachWindow(win); err != nil {
			c.Release()
			return nil, err
		}
	}
	return c, nil
}

// attach makes s the surface of c. c.mu is held or c is not yet shared.
func (c *Context) attach(s *Surface) {
	c.surface = s
	s.owner = c
	c.state = StateBound
}

// AttachWindow creates a window surface for win, replacing the current
// surface if there is one.
func (c *Context) AttachWindow(win NativeWindowType) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateDestroyed {
		return ErrDestroyed
	}
	c.detach()
	s, err := c.conn.CreateWindowSurface(c.config, win)
	if err != nil {
		return err
	}
	c.attach(s)
	return nil
}

// DetachWindow destroys the surface, leaving the context without one.
func (c *Context) DetachWindow() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.detach()
}

// detach deactivates c and destroys its surface. c.mu must be held.
func (c *Context) detach() {
	s := c.surface
	if s == nil {
		return
	}
	c.deactivate()
	c.surface = nil
	s.owner = nil
	if c.state == StateBound {
		c.state = StateContextOnly
	}
	s.destroy()
}

// surfaceDestroyed is called by a surface of c about to be destroyed.
func (c *Context) surfaceDestroyed(s *Surface) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deactivate()
	s.owner = nil
	if c.surface == s {
		c.surface = nil
		if c.state == StateBound {
			c.state = StateContextOnly
		}
	}
}

func (c *Context) setActivity(a *Activity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activity = a
}

// deactivate unbinds c if it is current on the calling thread. c.mu must
// be held.
func (c *Context) deactivate() {
	if c.handle == NoContext {
		return
	}
	if c.conn.backend.GetCurrentContext() != c.handle {
		return
	}
	c.conn.check("eglMakeCurrent", c.conn.backend.MakeCurrent(c.disp, NoSurface, NoSurface, NoContext))
}

// MakeCurrent binds the context and its surface to the calling thread. It
// reports false without side effects if no surface is attached.
//
// On success the calling goroutine is locked to its OS thread until
// ReleaseCurrent or Release is called from the same goroutine.
// The first successful call also applies the connection's vertical sync
// setting, if any.
func (c *Context) MakeCurrent() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateBound || c.surface == nil {
		return false
	}
	// Contexts are current per OS thread.
	if !c.locked {
		runtime.LockOSThread()
		c.locked = true
	}
	s := c.surface.handle
	if !c.conn.check("eglMakeCurrent", c.conn.backend.MakeCurrent(c.disp, s, s, c.handle)) {
		c.unlockThread()
		return false
	}
	if enabled, ok := c.conn.verticalSync(); ok && !c.vsynced {
		c.vsynced = true
		c.setInterval(enabled)
	}
	return true
}

// ReleaseCurrent unbinds the context if it is current and unlocks the
// OS thread locked by MakeCurrent. It must be called from the goroutine
// that called MakeCurrent.
func (c *Context) ReleaseCurrent() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deactivate()
	c.unlockThread()
}

func (c *Context) unlockThread() {
	if c.locked {
		runtime.UnlockOSThread()
		c.locked = false
	}
}

// SwapBuffers presents the back buffer of the surface. It reports false
// if there is no surface to present.
func (c *Context) SwapBuffers() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.surface == nil {
		return false
	}
	return c.conn.check("eglSwapBuffers", c.conn.backend.SwapBuffers(c.disp, c.surface.handle))
}

// SetVerticalSync sets the swap interval of the display to 1 if enabled,
// 0 otherwise.
func (c *Context) SetVerticalSync(enabled bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateDestroyed {
		return false
	}
	return c.setInterval(enabled)
}

func (c *Context) setInterval(enabled bool) bool {
	interval := 0
	if enabled {
		interval = 1
	}
	return c.conn.check("eglSwapInterval", c.conn.backend.SwapInterval(c.disp, interval))
}

// Release destroys the context and its surface. The context is first
// deactivated if it is current, so the driver never keeps a reference to
// a destroyed context. Calling Release more than once is a no-op.
//
// The OS thread lock taken by MakeCurrent is only undone when Release
// runs on the goroutine that called MakeCurrent. Release the context from
// the rendering goroutine, or call ReleaseCurrent there first.
func (c *Context) Release() {
	c.mu.Lock()
	a := c.release()
	c.mu.Unlock()
	if a != nil {
		a.forget(c)
	}
}

// release destroys c and returns the activity it was associated with.
func (c *Context) release() *Activity {
	if c.state == StateDestroyed || c.state == StateUncreated {
		return nil
	}
	a := c.activity
	c.activity = nil
	c.deactivate()
	if c.handle != NoContext {
		c.conn.check("eglDestroyContext", c.conn.backend.DestroyContext(c.disp, c.handle))
		c.conn.logger().Debug("context destroyed", "context", uintptr(c.handle))
		c.handle = NoContext
	}
	if s := c.surface; s != nil {
		c.surface = nil
		s.owner = nil
		s.destroy()
	}
	c.unlockThread()
	c.state = StateDestroyed
	return a
}

// State returns the lifecycle stage of c.
func (c *Context) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Handle returns the native context, or NoContext after Release.
func (c *Context) Handle() ContextHandle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handle
}

// Config returns the config c was created with.
func (c *Context) Config() ConfigHandle {
	return c.config
}

// Surface returns the attached surface, or nil.
func (c *Context) Surface() *Surface {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.surface
}

// Settings returns the settings provided by the selected config.
func (c *Context) Settings() ContextSettings {
	return c.settings
}

// VisualID returns the native visual id of the selected config.
func (c *Context) VisualID() uint32 {
	return c.visualID
}
