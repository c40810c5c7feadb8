package arbor

import (
	"slices"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// tweenChannel drives one float64 field.
type tweenChannel struct {
	tween *gween.Tween
	dst   *float64
}

// TweenGroup animates up to four fields of one node in lockstep and marks the
// node dirty after every step. It finishes when every channel has, or as soon
// as the node is disposed. Step it by hand with Update or hand it to a Tweens.
type TweenGroup struct {
	channels [4]tweenChannel
	n        int
	target   *Node
	Done     bool
}

// newTweenGroup pairs each destination with its target value.
func newTweenGroup(node *Node, duration float32, fn ease.TweenFunc, dst []*float64, to []float64) *TweenGroup {
	g := &TweenGroup{target: node, n: len(dst)}
	for i, p := range dst {
		g.channels[i] = tweenChannel{tween: gween.New(float32(*p), float32(to[i]), duration, fn), dst: p}
	}
	return g
}

// Update advances the group by dt seconds.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target.IsDisposed() {
		g.Done = true
		return
	}
	done := true
	for i := range g.channels[:g.n] {
		ch := &g.channels[i]
		v, finished := ch.tween.Update(dt)
		*ch.dst = float64(v)
		done = done && finished
	}
	g.Done = done
	g.target.MarkDirty()
}

// TweenPosition moves node to (x, y).
func TweenPosition(node *Node, x, y float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, duration, fn, []*float64{&node.X, &node.Y}, []float64{x, y})
}

// TweenScale scales node to (sx, sy).
func TweenScale(node *Node, sx, sy float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, duration, fn, []*float64{&node.ScaleX, &node.ScaleY}, []float64{sx, sy})
}

// TweenAlpha fades node to alpha.
func TweenAlpha(node *Node, alpha float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, duration, fn, []*float64{&node.Alpha}, []float64{alpha})
}

// TweenRotation turns node to rad.
func TweenRotation(node *Node, rad float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, duration, fn, []*float64{&node.Rotation}, []float64{rad})
}

// TweenColor tints node towards c, alpha included.
func TweenColor(node *Node, c Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	col := &node.Color
	return newTweenGroup(node, duration, fn,
		[]*float64{&col.R, &col.G, &col.B, &col.A}, []float64{c.R, c.G, c.B, c.A})
}

// Tweens runs TweenGroups and forgets them once done. Game owns one and
// steps it only on unpaused ticks.
type Tweens struct {
	active []*TweenGroup
}

// Add schedules g. Nil and finished groups are ignored.
func (t *Tweens) Add(g *TweenGroup) {
	if g != nil && !g.Done {
		t.active = append(t.active, g)
	}
}

// Len returns the number of running groups.
func (t *Tweens) Len() int { return len(t.active) }

// Update advances every group by dt and drops the finished ones.
func (t *Tweens) Update(dt float32) {
	for _, g := range t.active {
		g.Update(dt)
	}
	t.active = slices.DeleteFunc(t.active, func(g *TweenGroup) bool { return g.Done })
}
