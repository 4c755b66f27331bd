// SPDX-License-Identifier: Unlicense OR MIT

package egl

import (
	"errors"
	"fmt"
)

// Native error codes.
const (
	Success           int32 = 0x3000
	NotInitialized    int32 = 0x3001
	BadAccess         int32 = 0x3002
	BadAlloc          int32 = 0x3003
	BadAttribute      int32 = 0x3004
	BadConfig         int32 = 0x3005
	BadContext        int32 = 0x3006
	BadCurrentSurface int32 = 0x3007
	BadDisplay        int32 = 0x3008
	BadMatch          int32 = 0x3009
	BadNativePixmap   int32 = 0x300a
	BadNativeWindow   int32 = 0x300b
	BadParameter      int32 = 0x300c
	BadSurface        int32 = 0x300d
	ContextLost       int32 = 0x300e
)

var (
	// ErrNoConfig is returned when the driver has no configuration
	// matching the requested settings.
	ErrNoConfig = errors.New("egl: no matching config")
	// ErrDestroyed is returned by operations on a released context.
	ErrDestroyed = errors.New("egl: context destroyed")
)

// Error is a failed native call.
type Error struct {
	Op   string
	Code int32
}

func (e *Error) Error() string {
	return fmt.Sprintf("egl: %s failed: 0x%x (%s)", e.Op, e.Code, describe(e.Code))
}

func describe(code int32) string {
	switch code {
	case Success:
		return "the last function succeeded without error"
	case NotInitialized:
		return "EGL is not initialized, or could not be initialized, for the specified EGL display connection"
	case BadAccess:
		return "EGL cannot access a requested resource (for example a context is bound in another thread)"
	case BadAlloc:
		return "EGL failed to allocate resources for the requested operation"
	case BadAttribute:
		return "an unrecognized attribute or attribute value was passed in the attribute list"
	case BadContext:
		return "an EGLContext argument does not name a valid EGL rendering context"
	case BadConfig:
		return "an EGLConfig argument does not name a valid EGL frame buffer configuration"
	case BadCurrentSurface:
		return "the current surface of the calling thread is a window, pixel buffer or pixmap that is no longer valid"
	case BadDisplay:
		return "an EGLDisplay argument does not name a valid EGL display connection"
	case BadSurface:
		return "an EGLSurface argument does not name a valid surface configured for GL rendering"
	case BadMatch:
		return "arguments are inconsistent (for example, a valid context requires buffers not supplied by a valid surface)"
	case BadParameter:
		return "one or more argument values are invalid"
	case BadNativePixmap:
		return "a NativePixmapType argument does not refer to a valid native pixmap"
	case BadNativeWindow:
		return "a NativeWindowType argument does not refer to a valid native window"
	case ContextLost:
		return "a power management event has occurred, the application must destroy all contexts and reinitialise OpenGL ES state and objects to continue rendering"
	default:
		return "unknown error"
	}
}

// check logs a failed native call along with the driver's error code.
// It returns ok unchanged.
func (c *DisplayConnection) check(op string, ok bool) bool {
	if ok {
		return true
	}
	err := &Error{Op: op, Code: c.backend.GetError()}
	c.logger().Warn("native call failed", "op", op, "code", fmt.Sprintf("0x%x", err.Code), "error", describe(err.Code))
	return false
}

// fail builds an error for op from the driver's error code and logs it.
func (c *DisplayConnection) fail(op string) error {
	err := &Error{Op: op, Code: c.backend.GetError()}
	c.logger().Error("native call failed", "op", op, "code", fmt.Sprintf("0x%x", err.Code), "error", describe(err.Code))
	return err
}
