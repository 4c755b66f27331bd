// SPDX-License-Identifier: Unlicense OR MIT

package egl_test

import (
	"errors"
	"testing"

	"gioui.org/eglcontext/egl"
	"gioui.org/eglcontext/egl/egltest"
)

// window is a native window that may not exist yet.
type window struct {
	handle egl.NativeWindowType
}

func (w *window) SystemHandle() (egl.NativeWindowType, bool) {
	return w.handle, w.handle != 0
}

func TestSharedContext(t *testing.T) {
	d, conn := newConn(t)
	c, err := egl.NewSharedContext(conn, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Release()
	if s := c.State(); s != egl.StateBound {
		t.Errorf("got state %v, expected %v", s, egl.StateBound)
	}
	if w, h, ok := d.SurfaceSize(c.Surface().Handle()); !ok || w != 1 || h != 1 {
		t.Errorf("got offscreen surface %dx%d (exists: %v), expected 1x1", w, h, ok)
	}
	if !c.MakeCurrent() {
		t.Fatal("MakeCurrent failed")
	}
	defer c.ReleaseCurrent()
	if !c.SwapBuffers() {
		t.Error("SwapBuffers failed on an offscreen surface")
	}
	if n := d.Swaps(); n != 1 {
		t.Errorf("got %d swaps, expected 1", n)
	}
}

func TestShareGroups(t *testing.T) {
	d, conn := newConn(t)
	a, err := egl.NewSharedContext(conn, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Release()
	b, err := egl.NewOffscreenContext(conn, a, egl.ContextSettings{}, 16, 16)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Release()
	c, err := egl.NewSharedContext(conn, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Release()

	ga, gb, gc := d.ShareGroup(a.Handle()), d.ShareGroup(b.Handle()), d.ShareGroup(c.Handle())
	if ga == 0 || ga != gb {
		t.Errorf("shared contexts in groups %d and %d", ga, gb)
	}
	if gc == ga {
		t.Errorf("independent context joined share group %d", gc)
	}
}

func TestShareWithReleasedContext(t *testing.T) {
	_, conn := newConn(t)
	a, err := egl.NewSharedContext(conn, nil)
	if err != nil {
		t.Fatal(err)
	}
	a.Release()
	if _, err := egl.NewSharedContext(conn, a); !errors.Is(err, egl.ErrDestroyed) {
		t.Errorf("got error %v, expected ErrDestroyed", err)
	}
}

func TestReleaseDeactivatesCurrent(t *testing.T) {
	d, conn := newConn(t)
	c, err := egl.NewSharedContext(conn, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !c.MakeCurrent() {
		t.Fatal("MakeCurrent failed")
	}
	h := c.Handle()
	c.Release()
	if cur, _ := d.Current(); cur == h {
		t.Errorf("released context %#x is still current", h)
	}
	if n := d.StaleDestroys(); n != 0 {
		t.Errorf("%d objects destroyed while current", n)
	}
	if ctxs, surfs := d.Live(); ctxs != 0 || surfs != 0 {
		t.Errorf("%d contexts and %d surfaces leaked", ctxs, surfs)
	}
	if s := c.State(); s != egl.StateDestroyed {
		t.Errorf("got state %v, expected %v", s, egl.StateDestroyed)
	}
	// Releasing twice must not reach the driver.
	c.Release()
	if c.MakeCurrent() {
		t.Error("MakeCurrent succeeded on a released context")
	}
}

func TestReleaseLeavesOtherContextCurrent(t *testing.T) {
	d, conn := newConn(t)
	a, err := egl.NewSharedContext(conn, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := egl.NewSharedContext(conn, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Release()
	if !b.MakeCurrent() {
		t.Fatal("MakeCurrent failed")
	}
	defer b.ReleaseCurrent()
	a.Release()
	if cur, _ := d.Current(); cur != b.Handle() {
		t.Errorf("current context changed to %#x, expected %#x", cur, b.Handle())
	}
}

func TestMakeCurrentWithoutSurface(t *testing.T) {
	d, conn := newConn(t)
	other, err := egl.NewSharedContext(conn, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer other.Release()
	if !other.MakeCurrent() {
		t.Fatal("MakeCurrent failed")
	}
	defer other.ReleaseCurrent()
	ctxBefore, surfBefore := d.Current()

	c, err := egl.NewWindowContext(conn, nil, egl.ContextSettings{}, new(window), 0)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Release()
	if s := c.State(); s != egl.StateContextOnly {
		t.Errorf("got state %v, expected %v", s, egl.StateContextOnly)
	}
	if c.MakeCurrent() {
		t.Error("MakeCurrent succeeded without a surface")
	}
	if c.SwapBuffers() {
		t.Error("SwapBuffers succeeded without a surface")
	}
	if ctx, surf := d.Current(); ctx != ctxBefore || surf != surfBefore {
		t.Errorf("current binding changed to (%#x, %#x), expected (%#x, %#x)", ctx, surf, ctxBefore, surfBefore)
	}
}

func TestDeferredWindow(t *testing.T) {
	_, conn := newConn(t)
	w := new(window)
	c, err := egl.NewWindowContext(conn, nil, egl.ContextSettings{DepthBits: 24, StencilBits: 8}, w, 32)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Release()
	if c.MakeCurrent() {
		t.Fatal("MakeCurrent succeeded before the window exists")
	}
	w.handle = 0x42
	if err := c.AttachWindow(w.handle); err != nil {
		t.Fatal(err)
	}
	if s := c.State(); s != egl.StateBound {
		t.Errorf("got state %v, expected %v", s, egl.StateBound)
	}
	if !c.MakeCurrent() {
		t.Error("MakeCurrent failed after the window arrived")
	}
	c.ReleaseCurrent()
}

func TestWindowContextWithExistingWindow(t *testing.T) {
	_, conn := newConn(t)
	c, err := egl.NewWindowContext(conn, nil, egl.ContextSettings{}, &window{handle: 0x10}, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Release()
	if s := c.State(); s != egl.StateBound {
		t.Fatalf("got state %v, expected %v", s, egl.StateBound)
	}
	if got := c.Surface().Window(); got != 0x10 {
		t.Errorf("surface bound to window %#x, expected 0x10", got)
	}
	if c.Surface().Offscreen() {
		t.Error("window surface reported as offscreen")
	}
}

func TestWindowContextSurfaceFailure(t *testing.T) {
	d, conn := newConn(t)
	a, err := egl.NewWindowContext(conn, nil, egl.ContextSettings{}, &window{handle: 0x10}, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Release()
	// The driver refuses a second surface for the same window.
	if _, err := egl.NewWindowContext(conn, nil, egl.ContextSettings{}, &window{handle: 0x10}, 0); err == nil {
		t.Fatal("expected an error")
	}
	if ctxs, _ := d.Live(); ctxs != 1 {
		t.Errorf("%d live contexts, expected the failed one to be released", ctxs)
	}
}

func TestDestroySurfaceDeactivates(t *testing.T) {
	d, conn := newConn(t)
	c, err := egl.NewWindowContext(conn, nil, egl.ContextSettings{}, &window{handle: 0x11}, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Release()
	if !c.MakeCurrent() {
		t.Fatal("MakeCurrent failed")
	}
	s := c.Surface()
	s.Destroy()
	if cur, _ := d.Current(); cur != egl.NoContext {
		t.Errorf("context %#x still current after its surface was destroyed", cur)
	}
	if n := d.StaleDestroys(); n != 0 {
		t.Errorf("%d objects destroyed while current", n)
	}
	if c.MakeCurrent() {
		t.Error("MakeCurrent succeeded with a destroyed surface")
	}
	if st := c.State(); st != egl.StateContextOnly {
		t.Errorf("got state %v, expected %v", st, egl.StateContextOnly)
	}
	if s.Handle() != egl.NoSurface {
		t.Error("destroyed surface kept its handle")
	}
	s.Destroy()
}

func TestDetachAndReattach(t *testing.T) {
	d, conn := newConn(t)
	c, err := egl.NewWindowContext(conn, nil, egl.ContextSettings{}, &window{handle: 0x12}, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Release()
	c.DetachWindow()
	if _, surfs := d.Live(); surfs != 0 {
		t.Errorf("%d surfaces alive after DetachWindow", surfs)
	}
	if err := c.AttachWindow(0x13); err != nil {
		t.Fatal(err)
	}
	// Attaching again replaces the surface.
	if err := c.AttachWindow(0x14); err != nil {
		t.Fatal(err)
	}
	if _, surfs := d.Live(); surfs != 1 {
		t.Errorf("%d surfaces alive, expected 1", surfs)
	}
	if !c.MakeCurrent() {
		t.Error("MakeCurrent failed")
	}
	c.ReleaseCurrent()
}

func TestAttachAfterRelease(t *testing.T) {
	_, conn := newConn(t)
	c, err := egl.NewWindowContext(conn, nil, egl.ContextSettings{}, nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	c.Release()
	if err := c.AttachWindow(0x20); !errors.Is(err, egl.ErrDestroyed) {
		t.Errorf("got error %v, expected ErrDestroyed", err)
	}
}

func TestSetVerticalSync(t *testing.T) {
	d, conn := newConn(t)
	c, err := egl.NewSharedContext(conn, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Release()
	if !c.MakeCurrent() {
		t.Fatal("MakeCurrent failed")
	}
	defer c.ReleaseCurrent()
	if !c.SetVerticalSync(true) || d.Interval() != 1 {
		t.Errorf("vsync on: interval %d", d.Interval())
	}
	if !c.SetVerticalSync(false) || d.Interval() != 0 {
		t.Errorf("vsync off: interval %d", d.Interval())
	}
}

func TestMakeCurrentFailure(t *testing.T) {
	d, conn := newConn(t)
	c, err := egl.NewSharedContext(conn, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Release()
	// Invalidate the surface behind the context's back.
	if !d.DestroySurface(egltest.Display, c.Surface().Handle()) {
		t.Fatal("DestroySurface failed")
	}
	if c.MakeCurrent() {
		t.Fatal("MakeCurrent succeeded with a destroyed surface")
	}
	if cur, _ := d.Current(); cur != egl.NoContext {
		t.Errorf("context %#x current after a failed MakeCurrent", cur)
	}
	c.ReleaseCurrent()
}

func TestContextMinorVersion(t *testing.T) {
	d, conn := newConn(t)
	c, err := egl.NewOffscreenContext(conn, nil, egl.ContextSettings{MajorVersion: 3, MinorVersion: 1}, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Release()
	if maj, min := d.ClientVersion(c.Handle()), d.ClientMinorVersion(c.Handle()); maj != 3 || min != 1 {
		t.Errorf("got client version %d.%d, expected 3.1", maj, min)
	}

	d = egltest.NewDriver()
	d.Extensions = ""
	conn = egl.NewDisplayConnection(d)
	c, err = egl.NewOffscreenContext(conn, nil, egl.ContextSettings{MajorVersion: 3, MinorVersion: 1}, 1, 1)
	if err != nil {
		t.Fatalf("minor version not dropped without EGL_KHR_create_context: %v", err)
	}
	defer c.Release()
	if maj, min := d.ClientVersion(c.Handle()), d.ClientMinorVersion(c.Handle()); maj != 3 || min != 0 {
		t.Errorf("got client version %d.%d, expected 3.0", maj, min)
	}
}

func TestOffscreenContext(t *testing.T) {
	d, conn := newConn(t)
	c, err := egl.NewOffscreenContext(conn, nil, egl.ContextSettings{MajorVersion: 2}, 64, 32)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Release()
	if w, h, _ := d.SurfaceSize(c.Surface().Handle()); w != 64 || h != 32 {
		t.Errorf("got surface %dx%d, expected 64x32", w, h)
	}
	if w, h := c.Surface().Size(); w != 64 || h != 32 {
		t.Errorf("Size() = %dx%d, expected 64x32", w, h)
	}
	if v := d.ClientVersion(c.Handle()); v != 2 {
		t.Errorf("got client version %d, expected 2", v)
	}
}

func TestContextSettingsReadBack(t *testing.T) {
	_, conn := newConn(t)
	c, err := egl.NewSharedContext(conn, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Release()
	if v := c.VisualID(); v != 0x21 {
		t.Errorf("got visual %#x, expected 0x21", v)
	}
	c2, err := egl.NewOffscreenContext(conn, nil, egl.ContextSettings{DepthBits: 16}, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	defer c2.Release()
	if got := c2.Settings(); got.DepthBits != 24 || got.StencilBits != 8 {
		t.Errorf("got settings %+v, expected the 24/8 config", got)
	}
}

func TestContextUsesDesktopDepth(t *testing.T) {
	d, conn := newConn(t, egl.WithVideoMode(desktop(24)))
	d.Configs = []egltest.ConfigSpec{
		{BufferSize: 16, SurfaceType: egl.WindowBit | egl.PbufferBit, RenderableType: egl.OpenGLESBit},
		{BufferSize: 24, SurfaceType: egl.WindowBit | egl.PbufferBit, RenderableType: egl.OpenGLESBit},
	}
	c, err := egl.NewSharedContext(conn, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Release()
	if cfg := c.Config(); cfg != 2 {
		t.Errorf("got config %d, expected the 24 bit config", cfg)
	}
}

type desktop uint

func (d desktop) DesktopBitsPerPixel() uint { return uint(d) }

func TestStateString(t *testing.T) {
	for s, want := range map[egl.State]string{
		egl.StateUncreated:   "Uncreated",
		egl.StateContextOnly: "ContextOnly",
		egl.StateBound:       "Bound",
		egl.StateDestroyed:   "Destroyed",
	} {
		if got := s.String(); got != want {
			t.Errorf("%d.String() = %q, expected %q", s, got, want)
		}
	}
}
