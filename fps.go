package arbor

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// NewFPSWidget creates a sprite node that displays the current FPS and TPS,
// refreshed about every half second from its OnUpdate hook. Add it last so it
// draws over the rest of the stage.
func NewFPSWidget() *Node {
	// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
	img := ebiten.NewImage(100, 32)

	node := NewSprite("fps_widget", img)

	var sinceRefresh float64

	node.OnUpdate = func(n *Node) {
		if s := n.Stage(); s != nil {
			sinceRefresh += s.Delta()
		}
		if sinceRefresh < 0.5 {
			return
		}
		sinceRefresh = 0

		img.Clear()
		img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}

	return node
}
