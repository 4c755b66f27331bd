// SPDX-License-Identifier: Unlicense OR MIT

package egl

type (
	// DisplayHandle is an opaque native display reference.
	DisplayHandle uintptr
	// ConfigHandle is an opaque native frame buffer configuration.
	ConfigHandle uintptr
	// ContextHandle is an opaque native rendering context.
	ContextHandle uintptr
	// SurfaceHandle is an opaque native drawable.
	SurfaceHandle uintptr

	// NativeDisplayType is the windowing system's display connection.
	NativeDisplayType uintptr
	// NativeWindowType is the windowing system's window.
	NativeWindowType uintptr
)

// Zero handles. DefaultDisplay selects the windowing system's default
// display.
const (
	NoDisplay DisplayHandle = 0
	NoConfig  ConfigHandle  = 0
	NoContext ContextHandle = 0
	NoSurface SurfaceHandle = 0

	DefaultDisplay NativeDisplayType = 0
)

// Attrib is an EGL attribute name or value.
type Attrib int32

const (
	BufferSize           Attrib = 0x3020
	AlphaSize            Attrib = 0x3021
	BlueSize             Attrib = 0x3022
	GreenSize            Attrib = 0x3023
	RedSize              Attrib = 0x3024
	DepthSize            Attrib = 0x3025
	StencilSize          Attrib = 0x3026
	ConfigCaveat         Attrib = 0x3027
	ConfigID             Attrib = 0x3028
	NativeVisualID       Attrib = 0x302e
	Samples              Attrib = 0x3031
	SampleBuffers        Attrib = 0x3032
	SurfaceType          Attrib = 0x3033
	None                 Attrib = 0x3038
	RenderableType       Attrib = 0x3040
	Height               Attrib = 0x3056
	Width                Attrib = 0x3057
	ContextClientVersion Attrib = 0x3098
	ContextMinorVersion  Attrib = 0x30fb

	Vendor     Attrib = 0x3053
	Version    Attrib = 0x3054
	Extensions Attrib = 0x3055
	ClientAPIs Attrib = 0x308d
)

// Bits for SurfaceType and RenderableType.
const (
	PbufferBit   Attrib = 0x0001
	WindowBit    Attrib = 0x0004
	OpenGLESBit  Attrib = 0x0001
	OpenGLES2Bit Attrib = 0x0004
	OpenGLES3Bit Attrib = 0x0040
)

// Backend is the native EGL driver. Every method maps onto exactly one
// native entry point and reports failure the way the native call does:
// through a false result or a zero handle, with the reason available from
// GetError.
type Backend interface {
	GetDisplay(NativeDisplayType) DisplayHandle
	Initialize(DisplayHandle) (major, minor int, ok bool)
	QueryString(DisplayHandle, Attrib) string
	// ChooseConfig returns the first config matching the None-terminated
	// attribute list. A true result with NoConfig means no config matched.
	ChooseConfig(disp DisplayHandle, attribs []Attrib) (ConfigHandle, bool)
	GetConfigAttrib(DisplayHandle, ConfigHandle, Attrib) (Attrib, bool)
	CreateContext(disp DisplayHandle, cfg ConfigHandle, share ContextHandle, attribs []Attrib) ContextHandle
	DestroyContext(DisplayHandle, ContextHandle) bool
	CreateWindowSurface(disp DisplayHandle, cfg ConfigHandle, win NativeWindowType, attribs []Attrib) SurfaceHandle
	CreatePbufferSurface(disp DisplayHandle, cfg ConfigHandle, attribs []Attrib) SurfaceHandle
	DestroySurface(DisplayHandle, SurfaceHandle) bool
	MakeCurrent(disp DisplayHandle, draw, read SurfaceHandle, ctx ContextHandle) bool
	// GetCurrentContext returns the context current on the calling thread.
	GetCurrentContext() ContextHandle
	SwapBuffers(DisplayHandle, SurfaceHandle) bool
	SwapInterval(DisplayHandle, int) bool
	GetError() int32
}
