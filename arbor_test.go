package arbor

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 100, Height: 50}
	tests := []struct {
		name   string
		x, y   float64
		expect bool
	}{
		{"inside", 50, 40, true},
		{"top-left corner", 10, 20, true},
		{"bottom-right corner", 110, 70, true},
		{"outside left", 9, 40, false},
		{"outside below", 50, 71, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.x, tt.y); got != tt.expect {
				t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.expect)
			}
		})
	}
}

func TestRectIntersects(t *testing.T) {
	base := Rect{X: 10, Y: 10, Width: 100, Height: 100}
	tests := []struct {
		name   string
		other  Rect
		expect bool
	}{
		{"overlapping", Rect{X: 50, Y: 50, Width: 100, Height: 100}, true},
		{"contained", Rect{X: 20, Y: 20, Width: 10, Height: 10}, true},
		{"shared edge", Rect{X: 110, Y: 10, Width: 50, Height: 50}, true},
		{"disjoint right", Rect{X: 111, Y: 10, Width: 50, Height: 50}, false},
		{"disjoint above", Rect{X: 10, Y: -100, Width: 50, Height: 50}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Intersects(tt.other); got != tt.expect {
				t.Errorf("Intersects(%v) = %v, want %v", tt.other, got, tt.expect)
			}
			if got := tt.other.Intersects(base); got != tt.expect {
				t.Errorf("Intersects is not symmetric for %v", tt.other)
			}
		})
	}
}

func TestBlendModeEbitenBlend(t *testing.T) {
	tests := []struct {
		mode BlendMode
		want ebiten.Blend
	}{
		{BlendNormal, ebiten.BlendSourceOver},
		{BlendAdd, ebiten.BlendLighter},
		{BlendErase, ebiten.BlendDestinationOut},
		{BlendBelow, ebiten.BlendDestinationOver},
		{BlendNone, ebiten.BlendCopy},
		{BlendMode(99), ebiten.BlendSourceOver},
	}
	for _, tt := range tests {
		if got := tt.mode.EbitenBlend(); got != tt.want {
			t.Errorf("BlendMode(%d).EbitenBlend() = %v, want %v", tt.mode, got, tt.want)
		}
	}
}

func TestNodeTypeString(t *testing.T) {
	tests := map[NodeType]string{
		NodeTypeContainer: "container",
		NodeTypeSprite:    "sprite",
		NodeType(7):       "unknown",
	}
	for typ, want := range tests {
		if got := typ.String(); got != want {
			t.Errorf("NodeType(%d).String() = %q, want %q", typ, got, want)
		}
	}
}

func TestColorToRGBAPremultiplies(t *testing.T) {
	tests := []struct {
		name string
		in   Color
		want colorRGBA
	}{
		{"white", ColorWhite, colorRGBA{255, 255, 255, 255}},
		{"half red", Color{R: 1, A: 0.5}, colorRGBA{128, 0, 0, 128}},
		{"clamped", Color{R: 2, G: -1, B: 0, A: 1.5}, colorRGBA{255, 0, 0, 255}},
		{"clear", Color{}, colorRGBA{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.toRGBA(); got != tt.want {
				t.Errorf("toRGBA() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestColorRGBAWidens(t *testing.T) {
	r, g, b, a := colorRGBA{R: 0xff, G: 0x80, B: 0, A: 0xff}.RGBA()
	if r != 0xffff || g != 0x8080 || b != 0 || a != 0xffff {
		t.Errorf("RGBA() = %#x %#x %#x %#x", r, g, b, a)
	}
}
