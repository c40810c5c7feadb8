package arbor

import (
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
)

// Node IDs come from a plain counter; the tree is only touched from the loop
// goroutine.
var lastNodeID uint32

func nextNodeID() uint32 {
	lastNodeID++
	return lastNodeID
}

// Node is an element of the stage tree. Containers only group; sprites also
// draw. Per-frame behavior hangs off the phase hooks rather than subtypes.
type Node struct {
	ID   uint32
	Name string
	Type NodeType

	// Parent is a back-reference; the parent's children slice owns the link.
	Parent   *Node
	children []*Node
	stage    *Stage

	// Local transform. Assign through the Set* methods or call MarkDirty.
	X, Y           float64
	ScaleX, ScaleY float64
	Rotation       float64
	SkewX, SkewY   float64
	PivotX, PivotY float64
	Alpha          float64

	worldTransform  [6]float64
	worldAlpha      float64
	transformDirty  bool
	worldRecomputed bool

	// Visible hides the node and its subtree from drawing and from the
	// transform pass. Hooks still run.
	Visible bool
	// Exists gates the phases: a node that does not exist skips its hooks
	// and its whole subtree.
	Exists bool

	// RenderOrderID is stamped from the stage counter during PreUpdate;
	// -1 when the node was not stamped this frame.
	RenderOrderID int

	Color     Color
	BlendMode BlendMode
	Image     *ebiten.Image // sprites only; nil draws a ScaleX by ScaleY rectangle

	UserData any

	OnPreUpdate  func(n *Node)
	OnUpdate     func(n *Node)
	OnPostUpdate func(n *Node)
	OnDestroy    func(n *Node)

	disposed bool
}

func newNode(name string, typ NodeType, img *ebiten.Image) *Node {
	return &Node{
		ID:             nextNodeID(),
		Name:           name,
		Type:           typ,
		Image:          img,
		ScaleX:         1,
		ScaleY:         1,
		Alpha:          1,
		Color:          ColorWhite,
		Visible:        true,
		Exists:         true,
		RenderOrderID:  -1,
		worldTransform: identityTransform,
		worldAlpha:     1,
		transformDirty: true,
	}
}

// NewContainer creates a grouping node with no visual output.
func NewContainer(name string) *Node {
	return newNode(name, NodeTypeContainer, nil)
}

// NewSprite creates a node drawing img. A nil img draws a solid rectangle of
// ScaleX by ScaleY pixels tinted by Color.
func NewSprite(name string, img *ebiten.Image) *Node {
	return newNode(name, NodeTypeSprite, img)
}

// Stage returns the stage this node is attached to, or nil.
func (n *Node) Stage() *Stage { return n.stage }

// --- Tree manipulation ---

// AddChild appends child and returns it, detaching it from any previous
// parent first. Re-adding a direct child keeps its position. Panics if child
// is nil or an ancestor of n.
func (n *Node) AddChild(child *Node) *Node {
	return n.insertChild(child, -1, "AddChild")
}

// AddChildAt inserts child at index and returns it. It behaves like AddChild
// and additionally panics when index is outside 0..NumChildren.
func (n *Node) AddChildAt(child *Node, index int) *Node {
	if index < 0 {
		panic("arbor: child index out of range")
	}
	return n.insertChild(child, index, "AddChildAt")
}

// insertChild appends when index is negative.
func (n *Node) insertChild(child *Node, index int, op string) *Node {
	if child == nil {
		panic("arbor: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, op+" (parent)")
		debugCheckDisposed(child, op+" (child)")
	}
	if child.Parent == n {
		return child
	}
	if isAncestor(child, n) {
		panic("arbor: adding child would create a cycle")
	}
	if index > len(n.children) {
		panic("arbor: child index out of range")
	}
	child.RemoveFromParent()
	child.Parent = n
	if index < 0 {
		n.children = append(n.children, child)
	} else {
		n.children = slices.Insert(n.children, index, child)
	}
	attachSubtree(child, n.stage)
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
	return child
}

// RemoveChild detaches child. Panics if child is not a child of n.
func (n *Node) RemoveChild(child *Node) {
	if globalDebug {
		debugCheckDisposed(n, "RemoveChild (parent)")
		debugCheckDisposed(child, "RemoveChild (child)")
	}
	if child.Parent != n {
		panic("arbor: child's parent is not this node")
	}
	n.RemoveChildAt(n.ChildIndex(child))
}

// RemoveChildAt detaches and returns the child at index.
func (n *Node) RemoveChildAt(index int) *Node {
	if globalDebug {
		debugCheckDisposed(n, "RemoveChildAt")
	}
	if index < 0 || index >= len(n.children) {
		panic("arbor: child index out of range")
	}
	child := n.children[index]
	n.children = slices.Delete(n.children, index, index+1)
	child.Parent = nil
	attachSubtree(child, nil)
	return child
}

// RemoveFromParent detaches n from its parent, if any.
func (n *Node) RemoveFromParent() {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// RemoveChildren detaches every child without disposing them.
func (n *Node) RemoveChildren() {
	for _, child := range n.children {
		child.Parent = nil
		attachSubtree(child, nil)
	}
	clear(n.children)
	n.children = n.children[:0]
}

// Children returns the live child slice. Callers must not modify it.
func (n *Node) Children() []*Node { return n.children }

// NumChildren returns the number of direct children.
func (n *Node) NumChildren() int { return len(n.children) }

// ChildAt returns the child at index.
func (n *Node) ChildAt(index int) *Node { return n.children[index] }

// ChildIndex returns child's position among n's children, or -1.
func (n *Node) ChildIndex(child *Node) int { return slices.Index(n.children, child) }

// SetChildIndex moves child to index, shifting the siblings in between.
func (n *Node) SetChildIndex(child *Node, index int) {
	if child.Parent != n {
		panic("arbor: child's parent is not this node")
	}
	if index < 0 || index >= len(n.children) {
		panic("arbor: child index out of range")
	}
	from := n.ChildIndex(child)
	if from == index {
		return
	}
	n.children = slices.Insert(slices.Delete(n.children, from, from+1), index, child)
}

// BringToTop makes child the last sibling, visited and drawn last.
func (n *Node) BringToTop(child *Node) { n.SetChildIndex(child, len(n.children)-1) }

// SendToBack makes child the first sibling.
func (n *Node) SendToBack(child *Node) { n.SetChildIndex(child, 0) }

// --- Lifecycle ---

// Kill clears Exists and Visible. The node stays in the tree, skipped by
// every phase until Revive.
func (n *Node) Kill() {
	n.Exists, n.Visible = false, false
}

// Revive undoes Kill.
func (n *Node) Revive() {
	n.Exists, n.Visible = true, true
	n.MarkDirty()
}

// Dispose detaches n and tears down its subtree. OnDestroy fires once per
// node, children before parents. Further calls are no-ops.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	if n.OnDestroy != nil {
		n.OnDestroy(n)
	}
	*n = Node{Name: n.Name, Type: n.Type, RenderOrderID: -1, disposed: true}
}

// IsDisposed reports whether Dispose has run on n or an ancestor.
func (n *Node) IsDisposed() bool { return n.disposed }

func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// attachSubtree records s on node and its descendants and marks them dirty
// so they pick up their new parent's transform.
func attachSubtree(node *Node, s *Stage) {
	node.stage = s
	node.transformDirty = true
	for _, child := range node.children {
		attachSubtree(child, s)
	}
}
