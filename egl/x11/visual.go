// SPDX-License-Identifier: Unlicense OR MIT

//go:build ((linux && !android) || freebsd || openbsd) && !nox11
// +build linux,!android freebsd openbsd
// +build !nox11

// Package x11 resolves EGL native visual ids against the visuals of an X
// server.
package x11

import (
	"errors"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"gioui.org/eglcontext/egl"
)

// VisualResolver looks up visuals in the setup information the X server
// sent when the connection was established.
type VisualResolver struct {
	setup *xproto.SetupInfo
}

var _ egl.VisualResolver = (*VisualResolver)(nil)

// NewVisualResolver returns a resolver for the screens of conn.
func NewVisualResolver(conn *xgb.Conn) *VisualResolver {
	return &VisualResolver{setup: xproto.Setup(conn)}
}

// Dial connects to display, or $DISPLAY if display is empty, and returns a
// resolver for it along with the connection. The caller closes the
// connection.
func Dial(display string) (*VisualResolver, *xgb.Conn, error) {
	conn, err := xgb.NewConnDisplay(display)
	if err != nil {
		return nil, nil, err
	}
	return NewVisualResolver(conn), conn, nil
}

// VisualsByID returns the visuals of every screen with the given id.
func (r *VisualResolver) VisualsByID(id uint32) ([]egl.Visual, error) {
	if r.setup == nil {
		return nil, errors.New("x11: no setup information")
	}
	return FindVisuals(r.setup, id), nil
}

// FindVisuals returns every visual of setup with the given id, in screen
// and depth order.
func FindVisuals(setup *xproto.SetupInfo, id uint32) []egl.Visual {
	var visuals []egl.Visual
	for screen, root := range setup.Roots {
		for _, depth := range root.AllowedDepths {
			for _, v := range depth.Visuals {
				if uint32(v.VisualId) != id {
					continue
				}
				visuals = append(visuals, egl.Visual{
					ID:              uint32(v.VisualId),
					Depth:           depth.Depth,
					Class:           v.Class,
					BitsPerRGB:      v.BitsPerRgbValue,
					ColormapEntries: v.ColormapEntries,
					RedMask:         v.RedMask,
					GreenMask:       v.GreenMask,
					BlueMask:        v.BlueMask,
					Screen:          screen,
				})
			}
		}
	}
	return visuals
}
