// Package selection is the single source of truth for the selected node
// and the highlighted path. At most one path is highlighted at a time;
// setting a new one fully replaces the old. Selection and path are
// independent: a node can be selected with no path highlighted and the
// other way around.
package selection

import (
	"context"
	"sync"

	"github.com/tangential/tangential/pkg/model"
	"github.com/tangential/tangential/pkg/pathres"
	"github.com/tangential/tangential/pkg/treeindex"
)

// State owns SelectedID and HighlightedPath. The path slice is replaced
// atomically, never mutated element-wise.
type State struct {
	mu       sync.Mutex
	selected string
	path     []string
	resolver *pathres.Resolver
}

// New creates a State backed by the given resolver. The resolver may be
// nil when path highlighting is resolved purely locally.
func New(resolver *pathres.Resolver) *State {
	return &State{resolver: resolver}
}

// Select sets the selected node ID. An empty string clears selection.
// The highlighted path is left untouched.
func (s *State) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = id
}

// SelectedID returns the currently selected node ID, or "" when none.
func (s *State) SelectedID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// SetHighlightedPath atomically replaces the highlighted path. A nil or
// empty slice clears it without touching the resolver.
func (s *State) SetHighlightedPath(ids []string) {
	var cp []string
	if len(ids) > 0 {
		cp = make([]string, len(ids))
		copy(cp, ids)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = cp
}

// ClearHighlightedPath removes the highlighted path and invalidates any
// in-flight resolution so it cannot apply after the clear.
func (s *State) ClearHighlightedPath() {
	s.mu.Lock()
	s.path = nil
	s.mu.Unlock()
	if s.resolver != nil {
		s.resolver.Invalidate()
	}
}

// HighlightedPath returns a copy of the current path, or nil when none
// is highlighted.
func (s *State) HighlightedPath() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path == nil {
		return nil
	}
	cp := make([]string, len(s.path))
	copy(cp, s.path)
	return cp
}

// HighlightPathToNode resolves the root-to-node chain for nodeID through
// the resolver and applies it if no newer request was issued meanwhile.
// On resolution failure the previous path is left visible; the error is
// returned for the caller to surface.
func (s *State) HighlightPathToNode(ctx context.Context, nodeID string) error {
	ids, seq, err := s.resolver.Resolve(ctx, nodeID)
	if err != nil {
		return err
	}
	s.ApplyResolved(seq, ids)
	return nil
}

// ApplyResolved installs a resolved path if its sequence number is still
// current, and reports whether it was applied. Stale results are
// silently discarded; that is not an error.
func (s *State) ApplyResolved(seq uint64, ids []string) bool {
	if s.resolver != nil && !s.resolver.Current(seq) {
		return false
	}
	s.SetHighlightedPath(ids)
	return true
}

// HighlightedPathNodes maps the path's ID sequence to full nodes from
// the given index, silently dropping IDs no longer present in the loaded
// collection. Stale IDs show up when a node on the path was deleted
// after the path was resolved.
func (s *State) HighlightedPathNodes(idx *treeindex.Index) []model.Node {
	path := s.HighlightedPath()
	if len(path) == 0 || idx == nil {
		return nil
	}
	nodes := make([]model.Node, 0, len(path))
	for _, id := range path {
		if n := idx.Node(id); n != nil {
			nodes = append(nodes, *n)
		}
	}
	return nodes
}
