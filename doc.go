// Package arbor is a retained-mode scene graph root for [Ebitengine] games.
//
// Arbor provides the [Stage]: the root of a tree of [Node] values that is
// traversed three times per frame, plus a visibility monitor that pauses and
// resumes the game when the window or page loses and regains visibility.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	stage, _ := arbor.NewStage(arbor.StageConfig{BackgroundColor: "#1e1e28"})
//	// ... add nodes ...
//	game := arbor.NewGame(stage, arbor.RunConfig{
//		Title: "My Game", Width: 640, Height: 480,
//	})
//	arbor.Run(game)
//
// For full control, implement [ebiten.Game] yourself and call the phases
// directly, once each per tick and in this order:
//
//	stage.PreUpdate()
//	stage.Update()
//	stage.PostUpdate()
//
// # Frame phases
//
// [Stage.PreUpdate] resets the render order counter and walks the stage's
// children front to back. A child that moves itself under another parent
// during its own PreUpdate does not cause the next child to be skipped.
// Visible nodes stamp [Node.RenderOrderID] in visit order.
//
// [Stage.Update] walks children back to front, so children removing or
// destroying themselves never cause a skip.
//
// [Stage.PostUpdate] synchronizes the frame camera, walks children front to
// back and finishes by propagating world transforms top-down.
//
// # Visibility
//
// A [VisibilityMonitor] subscribes to a [PlatformEventSource] and classifies
// each event with [ClassifyVisibilityEvent]. Blur and page-hide report focus
// loss; click, focus and page-show report focus gain. Visibility-change and
// synthetic pause/resume events pause or resume the [Host] unless the stage
// disables visibility change. [Game] is the default Host; adapters exist for
// ebiten window focus ([EbitenFocusSource]), terminals (arbor/platform/termfocus)
// and browsers (arbor/platform/dom).
//
// # Background color
//
// [Stage.SetBackgroundColor] accepts 0xRRGGBB integers, "#rgb"/"#rrggbb" and
// "0xrrggbb" strings, CSS rgb()/rgba() and named colors, and any
// [image/color.Color]. Transparent stages ignore it.
//
// # Logging
//
// Arbor is silent by default. Pass a logger to [SetLogger] to see lifecycle
// events at Info and per-phase timings at Debug (with [Stage.SetDebugMode]).
//
// [Ebitengine]: https://ebitengine.org
package arbor
