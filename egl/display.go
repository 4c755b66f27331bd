// SPDX-License-Identifier: Unlicense OR MIT

package egl

import (
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/exp/slog"
)

// DisplayConnection is a lazily initialized connection to the native
// display. The first call to Display brings the driver up; every later call
// returns the same handle, or the same error if bring-up failed.
type DisplayConnection struct {
	backend Backend
	native  NativeDisplayType
	preInit func() error
	mode    VideoMode
	log     *slog.Logger
	// vsync is the swap interval applied by new contexts, if set.
	vsync *bool

	ready atomic.Bool
	mu    sync.Mutex
	// Guarded by mu until ready is set; read-only afterwards.
	tried        bool
	disp         DisplayHandle
	err          error
	major, minor int
	exts         []string
}

// Option configures a DisplayConnection.
type Option func(*DisplayConnection)

// VideoMode reports the desktop video mode of the windowing system.
type VideoMode interface {
	DesktopBitsPerPixel() uint
}

type fixedMode uint

func (m fixedMode) DesktopBitsPerPixel() uint { return uint(m) }

// NativeDisplay selects the native display to connect to. The default is
// DefaultDisplay.
func NativeDisplay(d NativeDisplayType) Option {
	return func(c *DisplayConnection) {
		c.native = d
	}
}

// WithPreInit registers a hook run once, before the native display is
// opened. Platforms that must bring up their video core first (Broadcom
// bcm_host_init) use it.
func WithPreInit(f func() error) Option {
	return func(c *DisplayConnection) {
		c.preInit = f
	}
}

// WithVideoMode sets the source of the desktop color depth used when no
// depth is requested explicitly.
func WithVideoMode(m VideoMode) Option {
	return func(c *DisplayConnection) {
		c.mode = m
	}
}

// WithVerticalSync makes every context of the connection enable or
// disable vertical sync the first time it is made current.
func WithVerticalSync(enabled bool) Option {
	return func(c *DisplayConnection) {
		c.vsync = &enabled
	}
}

func (c *DisplayConnection) verticalSync() (enabled, ok bool) {
	if c.vsync == nil {
		return false, false
	}
	return *c.vsync, true
}

// WithLogger overrides the package logger for this connection.
func WithLogger(l *slog.Logger) Option {
	return func(c *DisplayConnection) {
		c.log = l
	}
}

// NewDisplayConnection returns an uninitialized connection over b.
func NewDisplayConnection(b Backend, opts ...Option) *DisplayConnection {
	c := &DisplayConnection{
		backend: b,
		native:  DefaultDisplay,
		mode:    fixedMode(32),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *DisplayConnection) logger() *slog.Logger {
	if c.log != nil {
		return c.log
	}
	return Logger()
}

// Backend returns the driver the connection talks to.
func (c *DisplayConnection) Backend() Backend {
	return c.backend
}

// Display returns the initialized display. Initialization is attempted
// exactly once; a failure is permanent for this connection.
func (c *DisplayConnection) Display() (DisplayHandle, error) {
	if c.ready.Load() {
		return c.disp, c.err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.tried {
		c.tried = true
		c.disp, c.err = c.initialize()
		c.ready.Store(true)
	}
	return c.disp, c.err
}

func (c *DisplayConnection) initialize() (DisplayHandle, error) {
	if c.preInit != nil {
		if err := c.preInit(); err != nil {
			c.logger().Error("display pre-init hook failed", "error", err)
			return NoDisplay, err
		}
	}
	disp := c.backend.GetDisplay(c.native)
	if disp == NoDisplay {
		return NoDisplay, c.fail("eglGetDisplay")
	}
	major, minor, ok := c.backend.Initialize(disp)
	if !ok {
		return NoDisplay, c.fail("eglInitialize")
	}
	c.major, c.minor = major, minor
	if s := strings.TrimSpace(c.backend.QueryString(disp, Extensions)); s != "" {
		c.exts = strings.Fields(s)
	}
	c.logger().Debug("display initialized", "major", major, "minor", minor, "extensions", len(c.exts))
	return disp, nil
}

// Version returns the EGL version reported at initialization. It is zero
// until Display succeeds.
func (c *DisplayConnection) Version() (major, minor int) {
	if !c.ready.Load() {
		return 0, 0
	}
	return c.major, c.minor
}

// Extensions returns the display extensions reported at initialization.
func (c *DisplayConnection) Extensions() []string {
	if !c.ready.Load() {
		return nil
	}
	return c.exts
}

// HasExtension reports whether the display advertises ext.
func (c *DisplayConnection) HasExtension(ext string) bool {
	for _, e := range c.Extensions() {
		if ext == e {
			return true
		}
	}
	return false
}

// desktopBits returns the desktop color depth.
func (c *DisplayConnection) desktopBits() uint {
	return c.mode.DesktopBitsPerPixel()
}
