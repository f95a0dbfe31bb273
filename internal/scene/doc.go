// Package scene is the retained view tree the renderer draws into and
// the input controller dispatches against.
//
// # Overview
//
// A Node is a lightweight element with a kind, a sibling-unique key, a
// role for event dispatch, and attribute/flag metadata. Trees are
// mutated structurally through Append, SetChildren and Reconcile;
// everything else on a node is plain field access.
//
// # Reconciliation
//
// Reconcile is the only structural update path the renderer uses for
// repeated content such as rows and page buttons. It matches live
// children to desired children by key: matched nodes are updated in
// place and keep their identity (selection flags, any host-side
// resources bound to them), unmatched desired keys get fresh nodes,
// and unclaimed live children are dropped. The final child list is
// installed in one swap.
//
// # Design Rationale
//
// Keyed reuse is what makes paging cheap: flipping from page 2 to
// page 3 with the same record keys touches node text, not node
// identity. Roles replace per-node callbacks; the controller resolves
// an event target with Closest and decides what the click means, which
// keeps the tree free of behavior and trivially testable.
package scene
