// SPDX-License-Identifier: Unlicense OR MIT

package egltest

import (
	"testing"

	"gioui.org/eglcontext/egl"
)

func initialized(t *testing.T) *Driver {
	t.Helper()
	d := NewDriver()
	disp := d.GetDisplay(egl.DefaultDisplay)
	if _, _, ok := d.Initialize(disp); !ok {
		t.Fatal("Initialize failed")
	}
	return d
}

func TestUninitializedDisplay(t *testing.T) {
	d := NewDriver()
	if _, ok := d.ChooseConfig(Display, []egl.Attrib{egl.None}); ok {
		t.Fatal("ChooseConfig succeeded before Initialize")
	}
	if code := d.GetError(); code != egl.NotInitialized {
		t.Errorf("got error 0x%x, expected 0x%x", code, egl.NotInitialized)
	}
	if code := d.GetError(); code != egl.Success {
		t.Errorf("GetError did not clear the error: 0x%x", code)
	}
}

func TestChooseConfigBadAttribute(t *testing.T) {
	d := initialized(t)
	if _, ok := d.ChooseConfig(Display, []egl.Attrib{egl.Width, 1, egl.None}); ok {
		t.Fatal("ChooseConfig accepted a surface attribute")
	}
	if code := d.GetError(); code != egl.BadAttribute {
		t.Errorf("got error 0x%x, expected 0x%x", code, egl.BadAttribute)
	}
}

func TestSwapRequiresCurrentSurface(t *testing.T) {
	d := initialized(t)
	ctx := d.CreateContext(Display, 1, egl.NoContext, []egl.Attrib{egl.None})
	surf := d.CreatePbufferSurface(Display, 1, []egl.Attrib{egl.Width, 4, egl.Height, 4, egl.None})
	if ctx == egl.NoContext || surf == egl.NoSurface {
		t.Fatalf("creation failed: 0x%x", d.GetError())
	}
	if d.SwapBuffers(Display, surf) {
		t.Error("swap succeeded on a surface that is not current")
	}
	if !d.MakeCurrent(Display, surf, surf, ctx) {
		t.Fatalf("MakeCurrent failed: 0x%x", d.GetError())
	}
	if !d.SwapBuffers(Display, surf) {
		t.Errorf("swap failed: 0x%x", d.GetError())
	}
	if !d.DestroyContext(Display, ctx) {
		t.Fatal("DestroyContext failed")
	}
	if n := d.StaleDestroys(); n != 1 {
		t.Errorf("destroying the current context recorded %d stale destroys, expected 1", n)
	}
}

func TestMakeCurrentConfigMismatch(t *testing.T) {
	d := initialized(t)
	ctx := d.CreateContext(Display, 1, egl.NoContext, []egl.Attrib{egl.None})
	surf := d.CreatePbufferSurface(Display, 2, []egl.Attrib{egl.None})
	if d.MakeCurrent(Display, surf, surf, ctx) {
		t.Error("MakeCurrent bound a surface of another config")
	}
	if code := d.GetError(); code != egl.BadMatch {
		t.Errorf("got error 0x%x, expected 0x%x", code, egl.BadMatch)
	}
}

func TestShareWithUnknownContext(t *testing.T) {
	d := initialized(t)
	if ctx := d.CreateContext(Display, 1, 0x999, []egl.Attrib{egl.None}); ctx != egl.NoContext {
		t.Error("context created in the share group of an unknown context")
	}
	if code := d.GetError(); code != egl.BadContext {
		t.Errorf("got error 0x%x, expected 0x%x", code, egl.BadContext)
	}
}
