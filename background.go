package arbor

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// backgroundColor keeps the stage clear color in the two forms its consumers
// want: fractional RGBA for the renderer and a packed value plus "#rrggbb"
// for display.
type backgroundColor struct {
	rgba  Color
	value uint32
	hex   string
}

// newBackgroundColor returns black. Alpha is 0 for transparent stages and 1
// otherwise.
func newBackgroundColor(transparent bool) backgroundColor {
	bg := backgroundColor{hex: "#000000"}
	if !transparent {
		bg.rgba.A = 1
	}
	return bg
}

// set stores value in every representation and forces alpha to 1.
func (bg *backgroundColor) set(value uint32) {
	r, g, b := unpackRGB(value)
	bg.rgba = Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: 1,
	}
	bg.value = value
	bg.hex = colorful.Color{R: bg.rgba.R, G: bg.rgba.G, B: bg.rgba.B}.Hex()
}

// BackgroundColor returns the background color as 0xRRGGBB.
func (s *Stage) BackgroundColor() uint32 {
	return s.background.value
}

// SetBackgroundColor parses c with the stage's ColorParser and stores it.
// It is a no-op on transparent stages. On a parse error the stored color is
// left untouched and the error is returned.
func (s *Stage) SetBackgroundColor(c any) error {
	if s.transparent {
		return nil
	}
	v, err := s.colors.ParseColor(c)
	if err != nil {
		return fmt.Errorf("set background color: %w", err)
	}
	s.background.set(v)
	return nil
}

// BackgroundRGBA returns the renderer-facing background color with channels
// in [0, 1].
func (s *Stage) BackgroundRGBA() Color {
	return s.background.rgba
}

// BackgroundHex returns the background color as a lower-case "#rrggbb" string.
func (s *Stage) BackgroundHex() string {
	return s.background.hex
}

// Transparent reports whether the stage was created in transparent mode.
func (s *Stage) Transparent() bool {
	return s.transparent
}
