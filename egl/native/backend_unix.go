// SPDX-License-Identifier: Unlicense OR MIT

//go:build (linux || freebsd || openbsd) && cgo
// +build linux freebsd openbsd
// +build cgo

package native

/*
#cgo linux,!android  pkg-config: egl
#cgo freebsd openbsd android LDFLAGS: -lEGL
#cgo freebsd CFLAGS: -I/usr/local/include
#cgo freebsd LDFLAGS: -L/usr/local/lib
#cgo openbsd CFLAGS: -I/usr/X11R6/include
#cgo openbsd LDFLAGS: -L/usr/X11R6/lib
#cgo CFLAGS: -DEGL_NO_X11

#include <stdint.h>
#include <EGL/egl.h>

// The native types are pointers on some platforms and integers on others.
static EGLNativeDisplayType toNativeDisplay(uintptr_t d) {
	return (EGLNativeDisplayType)d;
}

static EGLNativeWindowType toNativeWindow(uintptr_t w) {
	return (EGLNativeWindowType)w;
}
*/
import "C"

import (
	"unsafe"

	"gioui.org/eglcontext/egl"
)

// nativeBackend calls the EGL library linked at build time.
type nativeBackend struct{}

// NewBackend returns the linked EGL driver. The library argument is ignored;
// the driver is resolved by the linker.
func NewBackend(library string) (egl.Backend, error) {
	return nativeBackend{}, nil
}

func cDisplay(d egl.DisplayHandle) C.EGLDisplay {
	return C.EGLDisplay(unsafe.Pointer(d))
}

func cConfig(c egl.ConfigHandle) C.EGLConfig {
	return C.EGLConfig(unsafe.Pointer(c))
}

func cContext(c egl.ContextHandle) C.EGLContext {
	return C.EGLContext(unsafe.Pointer(c))
}

func cSurface(s egl.SurfaceHandle) C.EGLSurface {
	return C.EGLSurface(unsafe.Pointer(s))
}

func cAttribs(attribs []egl.Attrib) *C.EGLint {
	return (*C.EGLint)(unsafe.Pointer(&attribs[0]))
}

func (nativeBackend) GetDisplay(disp egl.NativeDisplayType) egl.DisplayHandle {
	d := C.eglGetDisplay(C.toNativeDisplay(C.uintptr_t(disp)))
	return egl.DisplayHandle(uintptr(unsafe.Pointer(d)))
}

func (nativeBackend) Initialize(disp egl.DisplayHandle) (int, int, bool) {
	var maj, min C.EGLint
	ret := C.eglInitialize(cDisplay(disp), &maj, &min)
	return int(maj), int(min), ret == C.EGL_TRUE
}

func (nativeBackend) QueryString(disp egl.DisplayHandle, name egl.Attrib) string {
	s := C.eglQueryString(cDisplay(disp), C.EGLint(name))
	if s == nil {
		return ""
	}
	return C.GoString(s)
}

func (nativeBackend) ChooseConfig(disp egl.DisplayHandle, attribs []egl.Attrib) (egl.ConfigHandle, bool) {
	var cfg C.EGLConfig
	var ncfg C.EGLint
	if C.eglChooseConfig(cDisplay(disp), cAttribs(attribs), &cfg, 1, &ncfg) != C.EGL_TRUE {
		return egl.NoConfig, false
	}
	if ncfg == 0 {
		return egl.NoConfig, true
	}
	return egl.ConfigHandle(uintptr(unsafe.Pointer(cfg))), true
}

func (nativeBackend) GetConfigAttrib(disp egl.DisplayHandle, cfg egl.ConfigHandle, attr egl.Attrib) (egl.Attrib, bool) {
	var val C.EGLint
	ret := C.eglGetConfigAttrib(cDisplay(disp), cConfig(cfg), C.EGLint(attr), &val)
	return egl.Attrib(val), ret == C.EGL_TRUE
}

func (nativeBackend) CreateContext(disp egl.DisplayHandle, cfg egl.ConfigHandle, share egl.ContextHandle, attribs []egl.Attrib) egl.ContextHandle {
	ctx := C.eglCreateContext(cDisplay(disp), cConfig(cfg), cContext(share), cAttribs(attribs))
	return egl.ContextHandle(uintptr(unsafe.Pointer(ctx)))
}

func (nativeBackend) DestroyContext(disp egl.DisplayHandle, ctx egl.ContextHandle) bool {
	return C.eglDestroyContext(cDisplay(disp), cContext(ctx)) == C.EGL_TRUE
}

func (nativeBackend) CreateWindowSurface(disp egl.DisplayHandle, cfg egl.ConfigHandle, win egl.NativeWindowType, attribs []egl.Attrib) egl.SurfaceHandle {
	s := C.eglCreateWindowSurface(cDisplay(disp), cConfig(cfg), C.toNativeWindow(C.uintptr_t(win)), cAttribs(attribs))
	return egl.SurfaceHandle(uintptr(unsafe.Pointer(s)))
}

func (nativeBackend) CreatePbufferSurface(disp egl.DisplayHandle, cfg egl.ConfigHandle, attribs []egl.Attrib) egl.SurfaceHandle {
	s := C.eglCreatePbufferSurface(cDisplay(disp), cConfig(cfg), cAttribs(attribs))
	return egl.SurfaceHandle(uintptr(unsafe.Pointer(s)))
}

func (nativeBackend) DestroySurface(disp egl.DisplayHandle, surf egl.SurfaceHandle) bool {
	return C.eglDestroySurface(cDisplay(disp), cSurface(surf)) == C.EGL_TRUE
}

func (nativeBackend) MakeCurrent(disp egl.DisplayHandle, draw, read egl.SurfaceHandle, ctx egl.ContextHandle) bool {
	return C.eglMakeCurrent(cDisplay(disp), cSurface(draw), cSurface(read), cContext(ctx)) == C.EGL_TRUE
}

func (nativeBackend) GetCurrentContext() egl.ContextHandle {
	return egl.ContextHandle(uintptr(unsafe.Pointer(C.eglGetCurrentContext())))
}

func (nativeBackend) SwapBuffers(disp egl.DisplayHandle, surf egl.SurfaceHandle) bool {
	return C.eglSwapBuffers(cDisplay(disp), cSurface(surf)) == C.EGL_TRUE
}

func (nativeBackend) SwapInterval(disp egl.DisplayHandle, interval int) bool {
	return C.eglSwapInterval(cDisplay(disp), C.EGLint(interval)) == C.EGL_TRUE
}

func (nativeBackend) GetError() int32 {
	return int32(C.eglGetError())
}
