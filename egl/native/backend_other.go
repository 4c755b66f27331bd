// SPDX-License-Identifier: Unlicense OR MIT

//go:build !windows && (!cgo || (!linux && !freebsd && !openbsd))
// +build !windows
// +build !cgo !linux,!freebsd,!openbsd

package native

import (
	"errors"

	"gioui.org/eglcontext/egl"
)

func NewBackend(library string) (egl.Backend, error) {
	return nil, errors.New("egl: no native EGL driver on this platform")
}
