// Package treeindex builds lookup structures over a flat, parent-linked
// collection of conversation nodes. The index is rebuilt whenever the
// caller replaces the node collection; it never mutates the nodes.
package treeindex

import (
	"github.com/tangential/tangential/pkg/model"
)

// Index provides O(1) node lookup and ordered children lookup for one
// tree's nodes. Child order follows input order, which the store returns
// as created_at ascending.
type Index struct {
	nodes    []model.Node
	byID     map[string]*model.Node
	children map[string][]*model.Node
	roots    []*model.Node
}

// Build constructs an index from a flat node collection. A node whose
// ParentID references an ID not present in the collection is treated as a
// root, not an error. An empty collection yields an empty index.
func Build(nodes []model.Node) *Index {
	idx := &Index{
		nodes:    nodes,
		byID:     make(map[string]*model.Node, len(nodes)),
		children: make(map[string][]*model.Node),
	}

	for i := range nodes {
		idx.byID[nodes[i].ID] = &nodes[i]
	}

	for i := range nodes {
		n := &nodes[i]
		if n.ParentID != nil {
			if _, ok := idx.byID[*n.ParentID]; ok {
				idx.children[*n.ParentID] = append(idx.children[*n.ParentID], n)
				continue
			}
		}
		// No parent, or parent not in the loaded collection: layout root.
		idx.roots = append(idx.roots, n)
	}

	return idx
}

// Node returns the node with the given ID, or nil if absent.
func (idx *Index) Node(id string) *model.Node {
	return idx.byID[id]
}

// Children returns the ordered direct children of the given parent ID.
func (idx *Index) Children(parentID string) []*model.Node {
	return idx.children[parentID]
}

// Roots returns nodes with no resolvable parent in the collection, in
// input order.
func (idx *Index) Roots() []*model.Node {
	return idx.roots
}

// Leaves returns nodes with no children, in input order.
func (idx *Index) Leaves() []*model.Node {
	var leaves []*model.Node
	for i := range idx.nodes {
		n := &idx.nodes[i]
		if len(idx.children[n.ID]) == 0 {
			leaves = append(leaves, n)
		}
	}
	return leaves
}

// Len returns the number of indexed nodes.
func (idx *Index) Len() int {
	return len(idx.nodes)
}

// PathTo walks parent links from the given node up to its layout root and
// returns the chain of IDs in root-to-node order. Returns nil if the node
// is not in the index. The walk stops at a missing parent the same way
// layout does: the last reachable ancestor is the root.
func (idx *Index) PathTo(id string) []string {
	n := idx.byID[id]
	if n == nil {
		return nil
	}

	var reversed []string
	for n != nil {
		reversed = append(reversed, n.ID)
		if n.ParentID == nil {
			break
		}
		n = idx.byID[*n.ParentID]
	}

	path := make([]string, len(reversed))
	for i, nodeID := range reversed {
		path[len(reversed)-1-i] = nodeID
	}
	return path
}
