package arbor

import "math"

// Affine matrices are stored as [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

func translation(x, y float64) [6]float64 { return [6]float64{1, 0, 0, 1, x, y} }

func rotation(rad float64) [6]float64 {
	sin, cos := math.Sincos(rad)
	return [6]float64{cos, sin, -sin, cos, 0, 0}
}

// scaleSkew is the linear part Skew * Scale.
func scaleSkew(sx, sy, skewX, skewY float64) [6]float64 {
	var tx, ty float64
	if skewX != 0 {
		tx = math.Tan(skewX)
	}
	if skewY != 0 {
		ty = math.Tan(skewY)
	}
	return [6]float64{sx, ty * sx, tx * sy, sy, 0, 0}
}

// computeLocalTransform returns
// Translate(X, Y) * Rotate * Skew * Scale * Translate(-PivotX, -PivotY).
func computeLocalTransform(n *Node) [6]float64 {
	m := multiplyAffine(scaleSkew(n.ScaleX, n.ScaleY, n.SkewX, n.SkewY), translation(-n.PivotX, -n.PivotY))
	if n.Rotation != 0 {
		m = multiplyAffine(rotation(n.Rotation), m)
	}
	m[4] += n.X
	m[5] += n.Y
	return m
}

// multiplyAffine returns p * c, i.e. c applied first.
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine returns the inverse of m, or the identity when m is singular.
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if math.Abs(det) < 1e-12 {
		return identityTransform
	}
	inv := [6]float64{m[3] / det, -m[1] / det, -m[2] / det, m[0] / det, 0, 0}
	inv[4] = -(inv[0]*m[4] + inv[2]*m[5])
	inv[5] = -(inv[1]*m[4] + inv[3]*m[5])
	return inv
}

func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// UpdateTransform combines the node's local transform with its parent's world
// transform and alpha, then recurses into the children in order. The whole
// tree is walked, hidden nodes included, so a node shown again already holds
// its parent's current transform. A node is only recomputed when it is dirty
// or its parent was recomputed in the same pass.
func (n *Node) UpdateTransform() {
	parentWorld, parentAlpha, parentChanged := identityTransform, 1.0, false
	if p := n.Parent; p != nil {
		parentWorld, parentAlpha, parentChanged = p.worldTransform, p.worldAlpha, p.worldRecomputed
	}

	n.worldRecomputed = n.transformDirty || parentChanged
	if n.worldRecomputed {
		n.worldTransform = multiplyAffine(parentWorld, computeLocalTransform(n))
		n.worldAlpha = parentAlpha * n.Alpha
		n.transformDirty = false
	}
	for _, child := range n.children {
		child.UpdateTransform()
	}
}

// The setters mark the node dirty so the next transform pass picks up the
// change. Fields assigned directly need an explicit MarkDirty.

// SetPosition sets the local origin.
func (n *Node) SetPosition(x, y float64) { n.X, n.Y = x, y; n.MarkDirty() }

// SetScale sets the horizontal and vertical scale factors.
func (n *Node) SetScale(sx, sy float64) { n.ScaleX, n.ScaleY = sx, sy; n.MarkDirty() }

// SetRotation sets the rotation in radians.
func (n *Node) SetRotation(r float64) { n.Rotation = r; n.MarkDirty() }

// SetSkew sets the skew angles in radians.
func (n *Node) SetSkew(sx, sy float64) { n.SkewX, n.SkewY = sx, sy; n.MarkDirty() }

// SetPivot sets the local point that position, rotation and scale act around.
func (n *Node) SetPivot(px, py float64) { n.PivotX, n.PivotY = px, py; n.MarkDirty() }

// SetAlpha sets the node's own opacity; children inherit it multiplicatively.
func (n *Node) SetAlpha(a float64) { n.Alpha = a; n.MarkDirty() }

// MarkDirty forces the node to be recomputed on the next transform pass.
func (n *Node) MarkDirty() { n.transformDirty = true }

// WorldAlpha returns the product of this node's alpha and its ancestors'.
func (n *Node) WorldAlpha() float64 { return n.worldAlpha }

// WorldPosition returns the node's origin in world space.
func (n *Node) WorldPosition() Vec2 {
	return Vec2{X: n.worldTransform[4], Y: n.worldTransform[5]}
}

// WorldToLocal maps a world-space point into this node's local space using
// the world transform from the last transform pass.
func (n *Node) WorldToLocal(wx, wy float64) (lx, ly float64) {
	return transformPoint(invertAffine(n.worldTransform), wx, wy)
}

// LocalToWorld maps a local-space point into world space.
func (n *Node) LocalToWorld(lx, ly float64) (wx, wy float64) {
	return transformPoint(n.worldTransform, lx, ly)
}
