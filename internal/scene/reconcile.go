package scene

// ChildSpec describes one desired child for reconciliation. Create is
// called when no live child carries the key; Update runs on every pass
// against the node that survives, new or reused.
type ChildSpec struct {
	Key    string
	Create func() *Node
	Update func(*Node)
}

// Stats summarizes one reconciliation pass.
type Stats struct {
	Reused    int
	Created   int
	Discarded int
}

// Reconcile aligns parent's children with specs by key. Live children
// whose key appears in specs are claimed and updated in place; keys
// with no live counterpart get a fresh node; unclaimed children are
// discarded. The child list is replaced in a single swap so observers
// never see a half-built sibling order.
//
// Keys are expected to be unique within specs; a duplicate key claims
// the same live node only once and creates fresh nodes for the rest.
func Reconcile(parent *Node, specs []ChildSpec) Stats {
	var stats Stats

	live := make(map[string]*Node, len(parent.children))
	for _, c := range parent.children {
		if _, dup := live[c.Key]; !dup {
			live[c.Key] = c
		}
	}

	next := make([]*Node, 0, len(specs))
	for _, spec := range specs {
		node, ok := live[spec.Key]
		if ok {
			delete(live, spec.Key)
			stats.Reused++
		} else {
			node = spec.Create()
			node.Key = spec.Key
			stats.Created++
		}
		if spec.Update != nil {
			spec.Update(node)
		}
		next = append(next, node)
	}

	stats.Discarded = len(parent.children) - stats.Reused
	parent.SetChildren(next)
	return stats
}
