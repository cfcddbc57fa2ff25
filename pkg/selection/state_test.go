package selection

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/tangential/tangential/pkg/model"
	"github.com/tangential/tangential/pkg/pathres"
	"github.com/tangential/tangential/pkg/treeindex"
)

type fakeSource struct {
	paths map[string][]model.Node
	err   error
}

func (f *fakeSource) NodePath(ctx context.Context, nodeID string) ([]model.Node, error) {
	if f.err != nil {
		return nil, f.err
	}
	chain, ok := f.paths[nodeID]
	if !ok {
		return nil, errors.New("no such node")
	}
	return chain, nil
}

func chain(ids ...string) []model.Node {
	nodes := make([]model.Node, len(ids))
	for i, id := range ids {
		nodes[i] = model.Node{ID: id, TreeID: "t1", UserContent: id}
	}
	return nodes
}

func TestSelectionAndPathAreIndependent(t *testing.T) {
	s := New(nil)

	s.Select("a")
	if s.HighlightedPath() != nil {
		t.Errorf("selecting must not set a path")
	}

	s.SetHighlightedPath([]string{"root", "a"})
	s.Select("b")
	if got := s.HighlightedPath(); !reflect.DeepEqual(got, []string{"root", "a"}) {
		t.Errorf("selection change must not touch the path, got %v", got)
	}

	s.Select("")
	if s.SelectedID() != "" {
		t.Errorf("empty id must clear selection")
	}
	if s.HighlightedPath() == nil {
		t.Errorf("clearing selection must not clear the path")
	}
}

func TestSetHighlightedPath_ReplacesAtomically(t *testing.T) {
	s := New(nil)
	s.SetHighlightedPath([]string{"root", "a", "a1"})
	s.SetHighlightedPath([]string{"root", "b"})

	if got := s.HighlightedPath(); !reflect.DeepEqual(got, []string{"root", "b"}) {
		t.Errorf("path = %v, want full replacement", got)
	}
}

func TestSetHighlightedPath_CopiesInput(t *testing.T) {
	s := New(nil)
	ids := []string{"root", "a"}
	s.SetHighlightedPath(ids)
	ids[1] = "mutated"

	if got := s.HighlightedPath(); got[1] != "a" {
		t.Errorf("path shares backing array with caller input")
	}
}

func TestHighlightPathToNode(t *testing.T) {
	src := &fakeSource{paths: map[string][]model.Node{
		"a1": chain("root", "a", "a1"),
	}}
	s := New(pathres.New(src))

	if err := s.HighlightPathToNode(context.Background(), "a1"); err != nil {
		t.Fatalf("HighlightPathToNode: %v", err)
	}
	if got := s.HighlightedPath(); !reflect.DeepEqual(got, []string{"root", "a", "a1"}) {
		t.Errorf("path = %v, want [root a a1]", got)
	}
}

func TestHighlightPathToNode_FailureKeepsPriorPath(t *testing.T) {
	src := &fakeSource{paths: map[string][]model.Node{
		"a1": chain("root", "a", "a1"),
	}}
	s := New(pathres.New(src))

	if err := s.HighlightPathToNode(context.Background(), "a1"); err != nil {
		t.Fatalf("HighlightPathToNode: %v", err)
	}

	src.err = errors.New("db closed")
	if err := s.HighlightPathToNode(context.Background(), "a1"); err == nil {
		t.Fatal("expected resolution error")
	}
	if got := s.HighlightedPath(); !reflect.DeepEqual(got, []string{"root", "a", "a1"}) {
		t.Errorf("failed resolution must leave the prior path visible, got %v", got)
	}
}

func TestApplyResolved_StaleSequenceDiscarded(t *testing.T) {
	r := pathres.New(&fakeSource{})
	s := New(r)

	stale := r.Begin()
	r.Begin()

	if s.ApplyResolved(stale, []string{"root", "old"}) {
		t.Errorf("stale sequence must not apply")
	}
	if s.HighlightedPath() != nil {
		t.Errorf("discarded result must not touch the path")
	}
}

func TestClearHighlightedPath_InvalidatesInFlight(t *testing.T) {
	r := pathres.New(&fakeSource{})
	s := New(r)
	s.SetHighlightedPath([]string{"root", "a"})

	// A resolution issued before the clear must not apply after it.
	inFlight := r.Begin()
	s.ClearHighlightedPath()

	if s.HighlightedPath() != nil {
		t.Fatalf("clear must remove the path")
	}
	if s.ApplyResolved(inFlight, []string{"root", "a"}) {
		t.Errorf("resolution issued before the clear must be stale")
	}
	if s.HighlightedPath() != nil {
		t.Errorf("path must remain absent after the stale result arrives")
	}
}

func TestHighlightedPathNodes_DropsStaleIDs(t *testing.T) {
	idx := treeindex.Build(chain("root", "a"))
	s := New(nil)
	s.SetHighlightedPath([]string{"root", "a", "deleted-since"})

	nodes := s.HighlightedPathNodes(idx)
	if len(nodes) != 2 {
		t.Fatalf("expected stale id dropped, got %d nodes", len(nodes))
	}
	if nodes[0].ID != "root" || nodes[1].ID != "a" {
		t.Errorf("surviving nodes = %v, %v", nodes[0].ID, nodes[1].ID)
	}
}

func TestHighlightedPathNodes_NoPath(t *testing.T) {
	idx := treeindex.Build(chain("root"))
	s := New(nil)
	if s.HighlightedPathNodes(idx) != nil {
		t.Errorf("no path must yield nil")
	}
}
