// SPDX-License-Identifier: Unlicense OR MIT

// Package headless implements headless contexts for rendering
// to an offscreen surface without a window.
package headless

import (
	"errors"

	"gioui.org/eglcontext/egl"
)

// Window is a headless window: a context current against an offscreen
// surface of a fixed size.
type Window struct {
	ctx *egl.Context
}

// NewWindow creates a new headless window. If shared is not nil, the
// window's context shares its objects with shared.
func NewWindow(conn *egl.DisplayConnection, shared *egl.Context, settings egl.ContextSettings, width, height int) (*Window, error) {
	ctx, err := egl.NewOffscreenContext(conn, shared, settings, width, height)
	if err != nil {
		return nil, err
	}
	return &Window{ctx: ctx}, nil
}

// Context returns the window's context.
func (w *Window) Context() *egl.Context {
	return w.ctx
}

// Size returns the size of the window's surface.
func (w *Window) Size() (width, height int) {
	if w.ctx == nil {
		return 0, 0
	}
	s := w.ctx.Surface()
	if s == nil {
		return 0, 0
	}
	return s.Size()
}

// Do runs f with the window's context current on the calling thread.
func (w *Window) Do(f func() error) error {
	return contextDo(w.ctx, f)
}

// Frame runs f with the context current and presents the result.
func (w *Window) Frame(f func() error) error {
	return contextDo(w.ctx, func() error {
		if err := f(); err != nil {
			return err
		}
		if !w.ctx.SwapBuffers() {
			return errors.New("headless: buffer swap failed")
		}
		return nil
	})
}

// Release resources associated with the window.
func (w *Window) Release() {
	if w.ctx != nil {
		w.ctx.Release()
		w.ctx = nil
	}
}

func contextDo(ctx *egl.Context, f func() error) error {
	if ctx == nil {
		return egl.ErrDestroyed
	}
	if !ctx.MakeCurrent() {
		return errors.New("headless: failed to make context current")
	}
	defer ctx.ReleaseCurrent()
	return f()
}
