package scene

// Role classifies a node for interaction dispatch. The controller
// resolves an event target to its nearest ancestor carrying a
// matching role instead of attaching per-node handlers.
type Role int

const (
	RoleNone Role = iota
	RoleSortHandle
	RoleResizeHandle
	RoleColumnHeader
	RolePageButton
	RoleRow
	RoleRetry
)

// Node is one element of the retained view tree. Nodes are identified
// among their siblings by Key; the reconciler reuses a node with a
// matching key instead of recreating it.
type Node struct {
	Kind string
	Key  string
	Role Role
	Text string

	attrs    map[string]string
	flags    map[string]bool
	parent   *Node
	children []*Node
}

// New creates a detached node.
func New(kind, key string) *Node {
	return &Node{Kind: kind, Key: key}
}

// Parent returns the node's current parent, or nil when detached.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the live child slice. Callers must treat it as
// read-only; structural changes go through Append/SetChildren.
func (n *Node) Children() []*Node { return n.children }

// Append attaches children at the end, reparenting each.
func (n *Node) Append(nodes ...*Node) {
	for _, c := range nodes {
		if c == nil {
			continue
		}
		if c.parent != nil {
			c.parent.detach(c)
		}
		c.parent = n
		n.children = append(n.children, c)
	}
}

// SetChildren replaces the whole child list in one swap. Nodes present
// in the new list keep their identity; previous children not in the
// list are orphaned.
func (n *Node) SetChildren(nodes []*Node) {
	for _, old := range n.children {
		old.parent = nil
	}
	n.children = nil
	n.Append(nodes...)
}

// Clear drops all children.
func (n *Node) Clear() { n.SetChildren(nil) }

func (n *Node) detach(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// ChildByKey finds a direct child, or nil.
func (n *Node) ChildByKey(key string) *Node {
	for _, c := range n.children {
		if c.Key == key {
			return c
		}
	}
	return nil
}

// Closest walks from the node up through its ancestors and returns
// the first one carrying the role, or nil. The node itself counts.
func (n *Node) Closest(role Role) *Node {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.Role == role {
			return cur
		}
	}
	return nil
}

// Attr returns attribute metadata ("" when absent).
func (n *Node) Attr(key string) string { return n.attrs[key] }

// SetAttr stores attribute metadata on the node.
func (n *Node) SetAttr(key, value string) {
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[key] = value
}

// Flag reports a boolean toggle such as "hidden" or "selected".
func (n *Node) Flag(key string) bool { return n.flags[key] }

// SetFlag toggles a boolean flag.
func (n *Node) SetFlag(key string, on bool) {
	if n.flags == nil {
		if !on {
			return
		}
		n.flags = make(map[string]bool)
	}
	if on {
		n.flags[key] = true
	} else {
		delete(n.flags, key)
	}
}

// Common flag names used across the renderer.
const (
	FlagHidden   = "hidden"
	FlagDisabled = "disabled"
	FlagCurrent  = "current"
	FlagSelected = "selected"
	FlagActive   = "active"
)
