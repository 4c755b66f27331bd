// SPDX-License-Identifier: Unlicense OR MIT

package egl

import (
	"sync"
)

// Activity is the state shared with a platform runtime that delivers window
// lifecycle events asynchronously, possibly from another thread than the
// one rendering. The native window does not exist when the context is
// created; WindowCreated and WindowDestroyed attach and detach its surface.
type Activity struct {
	mu      sync.Mutex
	conn    *DisplayConnection
	context *Context
	window  NativeWindowType
}

// NewActivity returns an activity without context or window.
func NewActivity(conn *DisplayConnection) *Activity {
	return &Activity{conn: conn}
}

// Display returns the initialized display of the activity.
func (a *Activity) Display() (DisplayHandle, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.conn.Display()
}

// NewWindowContext creates the context associated with the activity's
// window. If the window already exists, the surface is attached at once.
// Creating a new context replaces the previous association.
func (a *Activity) NewWindowContext(shared *Context, settings ContextSettings, colorBits uint) (*Context, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, err := NewWindowContext(a.conn, shared, settings, nil, colorBits)
	if err != nil {
		return nil, err
	}
	if a.window != 0 {
		if err := c.AttachWindow(a.window); err != nil {
			c.Release()
			return nil, err
		}
	}
	if a.context != nil {
		a.context.setActivity(nil)
	}
	a.context = c
	c.setActivity(a)
	return c, nil
}

// Context returns the context currently associated with the activity.
func (a *Activity) Context() *Context {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.context
}

// WindowCreated records the native window and attaches a surface for it to
// the associated context.
func (a *Activity) WindowCreated(win NativeWindowType) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.window = win
	if a.context == nil {
		return nil
	}
	return a.context.AttachWindow(win)
}

// WindowDestroyed detaches the surface of the associated context. The
// context is deactivated if it is current.
func (a *Activity) WindowDestroyed() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.window = 0
	if a.context != nil {
		a.context.DetachWindow()
	}
}

func (a *Activity) forget(c *Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.context == c {
		a.context = nil
	}
}
