// SPDX-License-Identifier: Unlicense OR MIT

package egl

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// Profile holds the user-tunable defaults for context creation, as stored
// in a TOML file:
//
//	bits_per_pixel = 32
//	vertical_sync = true
//	depth_bits = 24
//	stencil_bits = 8
//	antialiasing_level = 0
//	major_version = 2
//	library = "libEGL.dll"
type Profile struct {
	BitsPerPixel      uint   `toml:"bits_per_pixel"`
	VerticalSync      bool   `toml:"vertical_sync"`
	DepthBits         uint   `toml:"depth_bits"`
	StencilBits       uint   `toml:"stencil_bits"`
	AntialiasingLevel uint   `toml:"antialiasing_level"`
	MajorVersion      uint   `toml:"major_version"`
	MinorVersion      uint   `toml:"minor_version"`
	Library           string `toml:"library"`
}

// DefaultProfile returns the profile used for keys a file leaves out.
func DefaultProfile() Profile {
	return Profile{
		BitsPerPixel: 32,
		VerticalSync: true,
		DepthBits:    24,
		StencilBits:  8,
		MajorVersion: 1,
	}
}

// LoadProfile reads a profile from a TOML file. Keys missing from the file
// keep their DefaultProfile values.
func LoadProfile(path string) (Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return Profile{}, fmt.Errorf("egl: load profile: %w", err)
	}
	defer f.Close()
	return DecodeProfile(f)
}

// DecodeProfile is like LoadProfile but reads from r.
func DecodeProfile(r io.Reader) (Profile, error) {
	p := DefaultProfile()
	md, err := toml.NewDecoder(r).Decode(&p)
	if err != nil {
		return Profile{}, fmt.Errorf("egl: decode profile: %w", err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return Profile{}, fmt.Errorf("egl: decode profile: unknown key %q", undec[0].String())
	}
	return p, nil
}

// Settings returns the context settings of the profile.
func (p Profile) Settings() ContextSettings {
	return ContextSettings{
		DepthBits:         p.DepthBits,
		StencilBits:       p.StencilBits,
		AntialiasingLevel: p.AntialiasingLevel,
		MajorVersion:      p.MajorVersion,
		MinorVersion:      p.MinorVersion,
	}
}

// Options returns the connection options implied by the profile.
func (p Profile) Options() []Option {
	opts := []Option{WithVerticalSync(p.VerticalSync)}
	if p.BitsPerPixel != 0 {
		opts = append(opts, WithVideoMode(fixedMode(p.BitsPerPixel)))
	}
	return opts
}

