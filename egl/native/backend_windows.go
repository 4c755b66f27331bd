// SPDX-License-Identifier: Unlicense OR MIT

package native

import (
	"fmt"
	"runtime"
	"unsafe"

	syscall "golang.org/x/sys/windows"

	"gioui.org/eglcontext/egl"
)

const defaultLibrary = "libEGL.dll"

type nativeBackend struct {
	lib syscall.DLL

	eglChooseConfig         *syscall.Proc
	eglCreateContext        *syscall.Proc
	eglCreatePbufferSurface *syscall.Proc
	eglCreateWindowSurface  *syscall.Proc
	eglDestroyContext       *syscall.Proc
	eglDestroySurface       *syscall.Proc
	eglGetConfigAttrib      *syscall.Proc
	eglGetCurrentContext    *syscall.Proc
	eglGetDisplay           *syscall.Proc
	eglGetError             *syscall.Proc
	eglInitialize           *syscall.Proc
	eglMakeCurrent          *syscall.Proc
	eglQueryString          *syscall.Proc
	eglSwapBuffers          *syscall.Proc
	eglSwapInterval         *syscall.Proc
}

// NewBackend loads the EGL driver from library, or from libEGL.dll
// if library is empty.
func NewBackend(library string) (egl.Backend, error) {
	if library == "" {
		library = defaultLibrary
	}
	b := new(nativeBackend)
	if err := loadDLL(&b.lib, library); err != nil {
		return nil, err
	}
	procs := map[string]**syscall.Proc{
		"eglChooseConfig":         &b.eglChooseConfig,
		"eglCreateContext":        &b.eglCreateContext,
		"eglCreatePbufferSurface": &b.eglCreatePbufferSurface,
		"eglCreateWindowSurface":  &b.eglCreateWindowSurface,
		"eglDestroyContext":       &b.eglDestroyContext,
		"eglDestroySurface":       &b.eglDestroySurface,
		"eglGetConfigAttrib":      &b.eglGetConfigAttrib,
		"eglGetCurrentContext":    &b.eglGetCurrentContext,
		"eglGetDisplay":           &b.eglGetDisplay,
		"eglGetError":             &b.eglGetError,
		"eglInitialize":           &b.eglInitialize,
		"eglMakeCurrent":          &b.eglMakeCurrent,
		"eglQueryString":          &b.eglQueryString,
		"eglSwapBuffers":          &b.eglSwapBuffers,
		"eglSwapInterval":         &b.eglSwapInterval,
	}
	for name, proc := range procs {
		p, err := b.lib.FindProc(name)
		if err != nil {
			return nil, fmt.Errorf("failed to locate %s in %s: %w", name, b.lib.Name, err)
		}
		*proc = p
	}
	return b, nil
}

func loadDLL(dll *syscall.DLL, name string) error {
	handle, err := syscall.LoadLibraryEx(name, 0, syscall.LOAD_LIBRARY_SEARCH_DEFAULT_DIRS)
	if err != nil {
		return fmt.Errorf("egl: failed to load %s: %v", name, err)
	}
	dll.Handle = handle
	dll.Name = name
	return nil
}

// EGLint is 32 bits on every platform, so attribute lists are passed
// as is.
func attribPtr(attribs []egl.Attrib) (uintptr, *egl.Attrib) {
	a := &attribs[0]
	return uintptr(unsafe.Pointer(a)), a
}

func (b *nativeBackend) GetDisplay(disp egl.NativeDisplayType) egl.DisplayHandle {
	d, _, _ := b.eglGetDisplay.Call(uintptr(disp))
	return egl.DisplayHandle(d)
}

func (b *nativeBackend) Initialize(disp egl.DisplayHandle) (int, int, bool) {
	var maj, min int32
	r, _, _ := b.eglInitialize.Call(uintptr(disp), uintptr(unsafe.Pointer(&maj)), uintptr(unsafe.Pointer(&min)))
	return int(maj), int(min), r != 0
}

func (b *nativeBackend) QueryString(disp egl.DisplayHandle, name egl.Attrib) string {
	r, _, _ := b.eglQueryString.Call(uintptr(disp), uintptr(name))
	if r == 0 {
		return ""
	}
	return syscall.BytePtrToString((*byte)(unsafe.Pointer(r)))
}

func (b *nativeBackend) ChooseConfig(disp egl.DisplayHandle, attribs []egl.Attrib) (egl.ConfigHandle, bool) {
	var cfg egl.ConfigHandle
	var ncfg int32
	p, a := attribPtr(attribs)
	r, _, _ := b.eglChooseConfig.Call(uintptr(disp), p, uintptr(unsafe.Pointer(&cfg)), 1, uintptr(unsafe.Pointer(&ncfg)))
	issue34474KeepAlive(a)
	if ncfg == 0 {
		cfg = egl.NoConfig
	}
	return cfg, r != 0
}

func (b *nativeBackend) GetConfigAttrib(disp egl.DisplayHandle, cfg egl.ConfigHandle, attr egl.Attrib) (egl.Attrib, bool) {
	var val int32
	r, _, _ := b.eglGetConfigAttrib.Call(uintptr(disp), uintptr(cfg), uintptr(attr), uintptr(unsafe.Pointer(&val)))
	return egl.Attrib(val), r != 0
}

func (b *nativeBackend) CreateContext(disp egl.DisplayHandle, cfg egl.ConfigHandle, share egl.ContextHandle, attribs []egl.Attrib) egl.ContextHandle {
	p, a := attribPtr(attribs)
	c, _, _ := b.eglCreateContext.Call(uintptr(disp), uintptr(cfg), uintptr(share), p)
	issue34474KeepAlive(a)
	return egl.ContextHandle(c)
}

func (b *nativeBackend) DestroyContext(disp egl.DisplayHandle, ctx egl.ContextHandle) bool {
	r, _, _ := b.eglDestroyContext.Call(uintptr(disp), uintptr(ctx))
	return r != 0
}

func (b *nativeBackend) CreateWindowSurface(disp egl.DisplayHandle, cfg egl.ConfigHandle, win egl.NativeWindowType, attribs []egl.Attrib) egl.SurfaceHandle {
	p, a := attribPtr(attribs)
	s, _, _ := b.eglCreateWindowSurface.Call(uintptr(disp), uintptr(cfg), uintptr(win), p)
	issue34474KeepAlive(a)
	return egl.SurfaceHandle(s)
}

func (b *nativeBackend) CreatePbufferSurface(disp egl.DisplayHandle, cfg egl.ConfigHandle, attribs []egl.Attrib) egl.SurfaceHandle {
	p, a := attribPtr(attribs)
	s, _, _ := b.eglCreatePbufferSurface.Call(uintptr(disp), uintptr(cfg), p)
	issue34474KeepAlive(a)
	return egl.SurfaceHandle(s)
}

func (b *nativeBackend) DestroySurface(disp egl.DisplayHandle, surf egl.SurfaceHandle) bool {
	r, _, _ := b.eglDestroySurface.Call(uintptr(disp), uintptr(surf))
	return r != 0
}

func (b *nativeBackend) MakeCurrent(disp egl.DisplayHandle, draw, read egl.SurfaceHandle, ctx egl.ContextHandle) bool {
	r, _, _ := b.eglMakeCurrent.Call(uintptr(disp), uintptr(draw), uintptr(read), uintptr(ctx))
	return r != 0
}

func (b *nativeBackend) GetCurrentContext() egl.ContextHandle {
	c, _, _ := b.eglGetCurrentContext.Call()
	return egl.ContextHandle(c)
}

func (b *nativeBackend) SwapBuffers(disp egl.DisplayHandle, surf egl.SurfaceHandle) bool {
	r, _, _ := b.eglSwapBuffers.Call(uintptr(disp), uintptr(surf))
	return r != 0
}

func (b *nativeBackend) SwapInterval(disp egl.DisplayHandle, interval int) bool {
	r, _, _ := b.eglSwapInterval.Call(uintptr(disp), uintptr(interval))
	return r != 0
}

func (b *nativeBackend) GetError() int32 {
	e, _, _ := b.eglGetError.Call()
	return int32(e)
}

// issue34474KeepAlive calls runtime.KeepAlive as a
// workaround for golang.org/issue/34474.
func issue34474KeepAlive(v interface{}) {
	runtime.KeepAlive(v)
}
