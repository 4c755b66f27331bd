// SPDX-License-Identifier: Unlicense OR MIT

// Package native binds the egl package to the platform EGL driver.
package native

import (
	"sync"

	"gioui.org/eglcontext/egl"
)

var (
	defaultOnce sync.Once
	defaultConn *egl.DisplayConnection
	defaultErr  error
)

// DefaultConnection returns the process-wide connection to the default
// display over the native driver. The connection is created on first use
// and shared by every caller afterwards; its display is initialized lazily
// by egl.DisplayConnection.Display. Options only apply to the first call.
func DefaultConnection(opts ...egl.Option) (*egl.DisplayConnection, error) {
	defaultOnce.Do(func() {
		b, err := NewBackend("")
		if err != nil {
			defaultErr = err
			return
		}
		defaultConn = egl.NewDisplayConnection(b, opts...)
	})
	return defaultConn, defaultErr
}

// Connect returns a new connection over the native driver configured by p.
// The driver is loaded from p.Library where the platform supports it.
func Connect(p egl.Profile, opts ...egl.Option) (*egl.DisplayConnection, error) {
	b, err := NewBackend(p.Library)
	if err != nil {
		return nil, err
	}
	return egl.NewDisplayConnection(b, append(p.Options(), opts...)...), nil
}
