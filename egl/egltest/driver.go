// SPDX-License-Identifier: Unlicense OR MIT

// Package egltest provides an in-memory EGL driver for tests.
//
// The driver follows native EGL semantics closely enough to catch lifecycle
// mistakes: calls with stale handles fail with the matching error code,
// swaps require the surface to be current, and destroying a current
// context or surface is recorded so tests can assert it never happens.
// The driver models a single thread; there is one current binding.
package egltest

import (
	"strings"
	"sync"

	"gioui.org/eglcontext/egl"
)

// Display is the handle returned by GetDisplay.
const Display egl.DisplayHandle = 0xd1

// ConfigSpec describes a config offered by the driver.
type ConfigSpec struct {
	BufferSize     int
	DepthSize      int
	StencilSize    int
	SampleBuffers  int
	Samples        int
	SurfaceType    egl.Attrib
	RenderableType egl.Attrib
	NativeVisualID uint32
}

const (
	allSurfaces   = egl.WindowBit | egl.PbufferBit
	allRenderable = egl.OpenGLESBit | egl.OpenGLES2Bit | egl.OpenGLES3Bit
)

// DefaultConfigs are the configs of a driver returned by NewDriver, in
// ranking order.
var DefaultConfigs = []ConfigSpec{
	{BufferSize: 32, SurfaceType: allSurfaces, RenderableType: allRenderable, NativeVisualID: 0x21},
	{BufferSize: 32, DepthSize: 24, StencilSize: 8, SurfaceType: allSurfaces, RenderableType: allRenderable, NativeVisualID: 0x22},
	{BufferSize: 32, DepthSize: 24, StencilSize: 8, SampleBuffers: 1, Samples: 4, SurfaceType: allSurfaces, RenderableType: allRenderable, NativeVisualID: 0x23},
	{BufferSize: 16, DepthSize: 16, SurfaceType: allSurfaces, RenderableType: egl.OpenGLESBit | egl.OpenGLES2Bit, NativeVisualID: 0x24},
}

type context struct {
	config     egl.ConfigHandle
	shareGroup int
	version    int
	minor      int
}

type surface struct {
	config        egl.ConfigHandle
	window        egl.NativeWindowType
	width, height int
}

// Driver is a fake egl.Backend. Its exported fields configure the driver
// and must be set before first use.
type Driver struct {
	Configs    []ConfigSpec
	Major      int
	Minor      int
	Extensions string
	// FailGetDisplay and FailInitialize make display bring-up fail.
	FailGetDisplay bool
	FailInitialize bool

	mu          sync.Mutex
	initialized bool
	inits       int
	next        uintptr
	groups      int
	lastErr     int32
	contexts    map[egl.ContextHandle]*context
	surfaces    map[egl.SurfaceHandle]*surface
	windows     map[egl.NativeWindowType]egl.SurfaceHandle
	current     egl.ContextHandle
	draw, read  egl.SurfaceHandle
	interval    int
	swaps       int
	stale       int
}

// NewDriver returns a driver offering DefaultConfigs.
func NewDriver() *Driver {
	return &Driver{
		Configs:    append([]ConfigSpec(nil), DefaultConfigs...),
		Major:      1,
		Minor:      4,
		Extensions: "EGL_KHR_create_context EGL_KHR_surfaceless_context",
	}
}

var _ egl.Backend = (*Driver)(nil)

func (d *Driver) init() {
	if d.contexts == nil {
		d.contexts = make(map[egl.ContextHandle]*context)
		d.surfaces = make(map[egl.SurfaceHandle]*surface)
		d.windows = make(map[egl.NativeWindowType]egl.SurfaceHandle)
		d.next = 0x100
	}
}

func (d *Driver) alloc() uintptr {
	d.next++
	return d.next
}

func (d *Driver) setError(code int32) bool {
	d.lastErr = code
	return false
}

// validDisplay reports whether disp is usable, recording the error if not.
func (d *Driver) validDisplay(disp egl.DisplayHandle) bool {
	d.init()
	if disp != Display {
		return d.setError(egl.BadDisplay)
	}
	if !d.initialized {
		return d.setError(egl.NotInitialized)
	}
	return true
}

func (d *Driver) hasExtension(ext string) bool {
	for _, e := range strings.Fields(d.Extensions) {
		if e == ext {
			return true
		}
	}
	return false
}

func (d *Driver) config(cfg egl.ConfigHandle) (ConfigSpec, bool) {
	i := int(cfg) - 1
	if i < 0 || i >= len(d.Configs) {
		d.setError(egl.BadConfig)
		return ConfigSpec{}, false
	}
	return d.Configs[i], true
}

func (d *Driver) GetDisplay(native egl.NativeDisplayType) egl.DisplayHandle {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.FailGetDisplay {
		d.setError(egl.BadParameter)
		return egl.NoDisplay
	}
	return Display
}

func (d *Driver) Initialize(disp egl.DisplayHandle) (int, int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inits++
	if disp != Display {
		return 0, 0, d.setError(egl.BadDisplay)
	}
	if d.FailInitialize {
		return 0, 0, d.setError(egl.NotInitialized)
	}
	d.initialized = true
	return d.Major, d.Minor, true
}

func (d *Driver) QueryString(disp egl.DisplayHandle, name egl.Attrib) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.validDisplay(disp) {
		return ""
	}
	switch name {
	case egl.Extensions:
		return d.Extensions
	case egl.Vendor:
		return "egltest"
	case egl.ClientAPIs:
		return "OpenGL_ES"
	default:
		d.setError(egl.BadParameter)
		return ""
	}
}

func (d *Driver) ChooseConfig(disp egl.DisplayHandle, attribs []egl.Attrib) (egl.ConfigHandle, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.validDisplay(disp) {
		return egl.NoConfig, false
	}
	var want ConfigSpec
	for i := 0; i < len(attribs) && attribs[i] != egl.None; i += 2 {
		if i+1 >= len(attribs) {
			return egl.NoConfig, d.setError(egl.BadAttribute)
		}
		v := attribs[i+1]
		switch attribs[i] {
		case egl.BufferSize:
			want.BufferSize = int(v)
		case egl.DepthSize:
			want.DepthSize = int(v)
		case egl.StencilSize:
			want.StencilSize = int(v)
		case egl.SampleBuffers:
			want.SampleBuffers = int(v)
		case egl.Samples:
			want.Samples = int(v)
		case egl.SurfaceType:
			want.SurfaceType = v
		case egl.RenderableType:
			want.RenderableType = v
		default:
			return egl.NoConfig, d.setError(egl.BadAttribute)
		}
	}
	for i, c := range d.Configs {
		if c.BufferSize >= want.BufferSize &&
			c.DepthSize >= want.DepthSize &&
			c.StencilSize >= want.StencilSize &&
			c.SampleBuffers >= want.SampleBuffers &&
			c.Samples >= want.Samples &&
			c.SurfaceType&want.SurfaceType == want.SurfaceType &&
			c.RenderableType&want.RenderableType == want.RenderableType {
			return egl.ConfigHandle(i + 1), true
		}
	}
	return egl.NoConfig, true
}

func (d *Driver) GetConfigAttrib(disp egl.DisplayHandle, cfg egl.ConfigHandle, attr egl.Attrib) (egl.Attrib, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.validDisplay(disp) {
		return 0, false
	}
	c, ok := d.config(cfg)
	if !ok {
		return 0, false
	}
	switch attr {
	case egl.BufferSize:
		return egl.Attrib(c.BufferSize), true
	case egl.DepthSize:
		return egl.Attrib(c.DepthSize), true
	case egl.StencilSize:
		return egl.Attrib(c.StencilSize), true
	case egl.SampleBuffers:
		return egl.Attrib(c.SampleBuffers), true
	case egl.Samples:
		return egl.Attrib(c.Samples), true
	case egl.SurfaceType:
		return c.SurfaceType, true
	case egl.RenderableType:
		return c.RenderableType, true
	case egl.NativeVisualID:
		return egl.Attrib(c.NativeVisualID), true
	case egl.ConfigID:
		return egl.Attrib(cfg), true
	default:
		return 0, d.setError(egl.BadAttribute)
	}
}

func (d *Driver) CreateContext(disp egl.DisplayHandle, cfg egl.ConfigHandle, share egl.ContextHandle, attribs []egl.Attrib) egl.ContextHandle {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.validDisplay(disp) {
		return egl.NoContext
	}
	if _, ok := d.config(cfg); !ok {
		return egl.NoContext
	}
	ctx := &context{config: cfg, version: 1}
	for i := 0; i+1 < len(attribs) && attribs[i] != egl.None; i += 2 {
		switch attribs[i] {
		case egl.ContextClientVersion:
			ctx.version = int(attribs[i+1])
		case egl.ContextMinorVersion:
			if !d.hasExtension("EGL_KHR_create_context") {
				d.setError(egl.BadAttribute)
				return egl.NoContext
			}
			ctx.minor = int(attribs[i+1])
		default:
			d.setError(egl.BadAttribute)
			return egl.NoContext
		}
	}
	if share != egl.NoContext {
		s, ok := d.contexts[share]
		if !ok {
			d.setError(egl.BadContext)
			return egl.NoContext
		}
		ctx.shareGroup = s.shareGroup
	} else {
		d.groups++
		ctx.shareGroup = d.groups
	}
	h := egl.ContextHandle(d.alloc())
	d.contexts[h] = ctx
	return h
}

func (d *Driver) DestroyContext(disp egl.DisplayHandle, ctx egl.ContextHandle) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.validDisplay(disp) {
		return false
	}
	if _, ok := d.contexts[ctx]; !ok {
		return d.setError(egl.BadContext)
	}
	if ctx == d.current {
		d.stale++
	}
	delete(d.contexts, ctx)
	return true
}

func (d *Driver) newSurface(disp egl.DisplayHandle, cfg egl.ConfigHandle, bit egl.Attrib) (*surface, bool) {
	if !d.validDisplay(disp) {
		return nil, false
	}
	c, ok := d.config(cfg)
	if !ok {
		return nil, false
	}
	if c.SurfaceType&bit == 0 {
		return nil, d.setError(egl.BadMatch)
	}
	return &surface{config: cfg}, true
}

func (d *Driver) CreateWindowSurface(disp egl.DisplayHandle, cfg egl.ConfigHandle, win egl.NativeWindowType, attribs []egl.Attrib) egl.SurfaceHandle {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.newSurface(disp, cfg, egl.WindowBit)
	if !ok {
		return egl.NoSurface
	}
	if win == 0 {
		d.setError(egl.BadNativeWindow)
		return egl.NoSurface
	}
	if _, exists := d.windows[win]; exists {
		d.setError(egl.BadAlloc)
		return egl.NoSurface
	}
	s.window = win
	h := egl.SurfaceHandle(d.alloc())
	d.surfaces[h] = s
	d.windows[win] = h
	return h
}

func (d *Driver) CreatePbufferSurface(disp egl.DisplayHandle, cfg egl.ConfigHandle, attribs []egl.Attrib) egl.SurfaceHandle {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.newSurface(disp, cfg, egl.PbufferBit)
	if !ok {
		return egl.NoSurface
	}
	for i := 0; i+1 < len(attribs) && attribs[i] != egl.None; i += 2 {
		switch attribs[i] {
		case egl.Width:
			s.width = int(attribs[i+1])
		case egl.Height:
			s.height = int(attribs[i+1])
		default:
			d.setError(egl.BadAttribute)
			return egl.NoSurface
		}
	}
	h := egl.SurfaceHandle(d.alloc())
	d.surfaces[h] = s
	return h
}

func (d *Driver) DestroySurface(disp egl.DisplayHandle, surf egl.SurfaceHandle) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.validDisplay(disp) {
		return false
	}
	s, ok := d.surfaces[surf]
	if !ok {
		return d.setError(egl.BadSurface)
	}
	if surf == d.draw || surf == d.read {
		d.stale++
	}
	if s.window != 0 {
		delete(d.windows, s.window)
	}
	delete(d.surfaces, surf)
	return true
}

func (d *Driver) MakeCurrent(disp egl.DisplayHandle, draw, read egl.SurfaceHandle, ctx egl.ContextHandle) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.validDisplay(disp) {
		return false
	}
	if ctx == egl.NoContext {
		if draw != egl.NoSurface || read != egl.NoSurface {
			return d.setError(egl.BadMatch)
		}
		d.current, d.draw, d.read = egl.NoContext, egl.NoSurface, egl.NoSurface
		return true
	}
	c, ok := d.contexts[ctx]
	if !ok {
		return d.setError(egl.BadContext)
	}
	if draw == egl.NoSurface || read == egl.NoSurface {
		return d.setError(egl.BadMatch)
	}
	for _, h := range []egl.SurfaceHandle{draw, read} {
		s, ok := d.surfaces[h]
		if !ok {
			return d.setError(egl.BadSurface)
		}
		if s.config != c.config {
			return d.setError(egl.BadMatch)
		}
	}
	d.current, d.draw, d.read = ctx, draw, read
	return true
}

func (d *Driver) GetCurrentContext() egl.ContextHandle {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

func (d *Driver) SwapBuffers(disp egl.DisplayHandle, surf egl.SurfaceHandle) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.validDisplay(disp) {
		return false
	}
	if _, ok := d.surfaces[surf]; !ok || surf != d.draw {
		return d.setError(egl.BadSurface)
	}
	d.swaps++
	return true
}

func (d *Driver) SwapInterval(disp egl.DisplayHandle, interval int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.validDisplay(disp) {
		return false
	}
	if d.current == egl.NoContext {
		return d.setError(egl.BadContext)
	}
	d.interval = interval
	return true
}

// GetError returns and clears the error of the last failed call.
func (d *Driver) GetError() int32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	code := d.lastErr
	d.lastErr = egl.Success
	if code == 0 {
		code = egl.Success
	}
	return code
}

// Initializations returns the number of Initialize calls.
func (d *Driver) Initializations() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inits
}

// Current returns the current context and draw surface.
func (d *Driver) Current() (egl.ContextHandle, egl.SurfaceHandle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current, d.draw
}

// ShareGroup returns the share group of ctx, or 0 if ctx does not exist.
// Contexts in the same group share their object namespace.
func (d *Driver) ShareGroup(ctx egl.ContextHandle) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if c, ok := d.contexts[ctx]; ok {
		return c.shareGroup
	}
	return 0
}

// ClientMinorVersion returns the minor client API version of ctx.
func (d *Driver) ClientMinorVersion(ctx egl.ContextHandle) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if c, ok := d.contexts[ctx]; ok {
		return c.minor
	}
	return 0
}

// ClientVersion returns the client API version ctx was created with.
func (d *Driver) ClientVersion(ctx egl.ContextHandle) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if c, ok := d.contexts[ctx]; ok {
		return c.version
	}
	return 0
}

// SurfaceSize returns the dimensions of a pixel buffer surface.
func (d *Driver) SurfaceSize(surf egl.SurfaceHandle) (width, height int, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.surfaces[surf]
	if !ok {
		return 0, 0, false
	}
	return s.width, s.height, true
}

// Live returns the number of contexts and surfaces not yet destroyed.
func (d *Driver) Live() (contexts, surfaces int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.contexts), len(d.surfaces)
}

// Interval returns the last swap interval set.
func (d *Driver) Interval() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.interval
}

// Swaps returns the number of successful buffer swaps.
func (d *Driver) Swaps() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.swaps
}

// StaleDestroys returns the number of contexts and surfaces destroyed while
// they were still current. Native drivers defer such destruction and keep
// a dangling current binding.
func (d *Driver) StaleDestroys() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stale
}
