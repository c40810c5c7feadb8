package arbor

// Traversable is the per-frame protocol shared by Node and Stage. The host
// calls PreUpdate, Update and PostUpdate exactly once per frame in that order;
// UpdateTransform propagates world transforms top-down.
type Traversable interface {
	PreUpdate()
	Update()
	PostUpdate()
	UpdateTransform()
}

var (
	_ Traversable = (*Node)(nil)
	_ Traversable = (*Stage)(nil)
)

// PreUpdate stamps the node's render order, runs OnPreUpdate and then visits
// the children front to back. A node that does not exist is skipped with its
// whole subtree and keeps RenderOrderID at -1.
func (n *Node) PreUpdate() {
	if !n.Exists {
		n.RenderOrderID = -1
		return
	}
	if n.Visible && n.stage != nil {
		n.RenderOrderID = n.stage.NextRenderOrderID()
	} else {
		n.RenderOrderID = -1
	}
	if n.OnPreUpdate != nil {
		n.OnPreUpdate(n)
	}
	preUpdateChildren(n)
}

// Update runs OnUpdate and then visits the children back to front, so a child
// removing itself only shifts slots that were already visited.
func (n *Node) Update() {
	if !n.Exists {
		return
	}
	if n.OnUpdate != nil {
		n.OnUpdate(n)
	}
	updateChildren(n)
}

// PostUpdate runs OnPostUpdate and then visits the children front to back.
func (n *Node) PostUpdate() {
	if !n.Exists {
		return
	}
	if n.OnPostUpdate != nil {
		n.OnPostUpdate(n)
	}
	postUpdateChildren(n)
}

// preUpdateChildren visits parent's children by index, advancing only when the
// visited child is still parented here afterwards. A child that moved itself
// elsewhere shifted the slice left by one, so the same index now holds the
// next unvisited sibling.
func preUpdateChildren(parent *Node) int {
	visited := 0
	i := 0
	for i < len(parent.children) {
		child := parent.children[i]
		child.PreUpdate()
		visited++
		if child.Parent == parent {
			i++
		}
	}
	return visited
}

// updateChildren visits parent's children from the last index down to 0.
func updateChildren(parent *Node) int {
	visited := 0
	for i := len(parent.children) - 1; i >= 0; i-- {
		// A child may remove more than itself; skip slots that no longer exist.
		if i >= len(parent.children) {
			continue
		}
		parent.children[i].Update()
		visited++
	}
	return visited
}

// postUpdateChildren visits parent's children front to back.
func postUpdateChildren(parent *Node) int {
	visited := 0
	for i := 0; i < len(parent.children); i++ {
		parent.children[i].PostUpdate()
		visited++
	}
	return visited
}
