package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/tangential/tangential/pkg/model"
)

func strPtr(s string) *string { return &s }

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// seedTree creates a tree with the branching shape most tests need and
// returns the tree plus nodes keyed by a short label.
//
//	root
//	├── a
//	│   ├── a1
//	│   └── a2
//	└── b
func seedTree(t *testing.T, s *Store) (*model.Tree, map[string]*model.Node) {
	t.Helper()
	ctx := context.Background()

	tree, err := s.CreateTree(ctx, model.CreateTree{Name: "seed"})
	if err != nil {
		t.Fatalf("CreateTree: %v", err)
	}

	nodes := make(map[string]*model.Node)
	add := func(label string, parent *model.Node) {
		input := model.CreateNode{TreeID: tree.ID, UserContent: "prompt " + label}
		if parent != nil {
			input.ParentID = &parent.ID
		}
		n, err := s.CreateNode(ctx, input)
		if err != nil {
			t.Fatalf("CreateNode %s: %v", label, err)
		}
		nodes[label] = n
	}
	add("root", nil)
	add("a", nodes["root"])
	add("b", nodes["root"])
	add("a1", nodes["a"])
	add("a2", nodes["a"])

	return tree, nodes
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := s.CreateProject(context.Background(), model.CreateProject{Name: "p"}); err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	s.Close()

	// Reopening must not rerun applied migrations or lose data.
	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	projects, err := s.ListProjects(context.Background())
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if len(projects) != 1 || projects[0].Name != "p" {
		t.Errorf("projects after reopen = %v", projects)
	}
}

func TestProjectCRUD(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p, err := s.CreateProject(ctx, model.CreateProject{Name: "research"})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if p.ID == "" || p.CreatedAt == "" {
		t.Errorf("created project missing id or timestamp: %+v", p)
	}

	updated, err := s.UpdateProject(ctx, p.ID, model.UpdateProject{Name: strPtr("renamed")})
	if err != nil {
		t.Fatalf("UpdateProject: %v", err)
	}
	if updated.Name != "renamed" || updated.UpdatedAt == nil {
		t.Errorf("update not applied: %+v", updated)
	}

	if _, err := s.DeleteProject(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
	active, err := s.ListProjects(ctx)
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("soft-deleted project still listed as active")
	}
	trashed, err := s.ListDeletedProjects(ctx)
	if err != nil {
		t.Fatalf("ListDeletedProjects: %v", err)
	}
	if len(trashed) != 1 {
		t.Fatalf("expected project in trash, got %d", len(trashed))
	}

	restored, err := s.RestoreProject(ctx, p.ID)
	if err != nil {
		t.Fatalf("RestoreProject: %v", err)
	}
	if restored.DeletedAt != nil {
		t.Errorf("restore left deleted_at set")
	}
}

func TestGetNode_NotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetNode(context.Background(), "no-such-id")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestTreeStagingAndProjects(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p, err := s.CreateProject(ctx, model.CreateProject{Name: "p"})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if _, err := s.CreateTree(ctx, model.CreateTree{Name: "assigned", ProjectID: &p.ID}); err != nil {
		t.Fatalf("CreateTree: %v", err)
	}
	if _, err := s.CreateTree(ctx, model.CreateTree{Name: "staged"}); err != nil {
		t.Fatalf("CreateTree: %v", err)
	}

	all, err := s.ListTrees(ctx, nil)
	if err != nil {
		t.Fatalf("ListTrees: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all trees = %d, want 2", len(all))
	}

	inProject, err := s.ListTrees(ctx, &p.ID)
	if err != nil {
		t.Fatalf("ListTrees(project): %v", err)
	}
	if len(inProject) != 1 || inProject[0].Name != "assigned" {
		t.Errorf("project trees = %v", inProject)
	}

	staging, err := s.ListStagingTrees(ctx)
	if err != nil {
		t.Fatalf("ListStagingTrees: %v", err)
	}
	if len(staging) != 1 || staging[0].Name != "staged" {
		t.Errorf("staging trees = %v", staging)
	}
}

func TestNodeListing(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	tree, nodes := seedTree(t, s)

	all, err := s.ListNodes(ctx, tree.ID)
	if err != nil {
		t.Fatalf("ListNodes: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("ListNodes = %d nodes, want 5", len(all))
	}

	roots, err := s.RootNodes(ctx, tree.ID)
	if err != nil {
		t.Fatalf("RootNodes: %v", err)
	}
	if len(roots) != 1 || roots[0].ID != nodes["root"].ID {
		t.Errorf("roots = %v", roots)
	}

	children, err := s.ChildNodes(ctx, nodes["a"].ID)
	if err != nil {
		t.Fatalf("ChildNodes: %v", err)
	}
	if len(children) != 2 {
		t.Errorf("children of a = %d, want 2", len(children))
	}
}

func TestLeafNodes(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	tree, nodes := seedTree(t, s)

	leaves, err := s.LeafNodes(ctx, tree.ID)
	if err != nil {
		t.Fatalf("LeafNodes: %v", err)
	}
	got := make(map[string]bool)
	for _, l := range leaves {
		got[l.ID] = true
	}
	for _, label := range []string{"b", "a1", "a2"} {
		if !got[nodes[label].ID] {
			t.Errorf("expected %s among leaves", label)
		}
	}
	if len(leaves) != 3 {
		t.Errorf("leaves = %d, want 3", len(leaves))
	}

	// Soft-deleting a's only children makes a a leaf again.
	if _, err := s.DeleteNode(ctx, nodes["a1"].ID); err != nil {
		t.Fatalf("DeleteNode: %v", err)
	}
	if _, err := s.DeleteNode(ctx, nodes["a2"].ID); err != nil {
		t.Fatalf("DeleteNode: %v", err)
	}
	leaves, err = s.LeafNodes(ctx, tree.ID)
	if err != nil {
		t.Fatalf("LeafNodes: %v", err)
	}
	got = make(map[string]bool)
	for _, l := range leaves {
		got[l.ID] = true
	}
	if !got[nodes["a"].ID] {
		t.Errorf("a must become a leaf once its children are trashed")
	}
	if got[nodes["a1"].ID] || got[nodes["a2"].ID] {
		t.Errorf("trashed nodes must not appear among leaves")
	}
}

func TestNodePath(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	_, nodes := seedTree(t, s)

	path, err := s.NodePath(ctx, nodes["a1"].ID)
	if err != nil {
		t.Fatalf("NodePath: %v", err)
	}
	want := []string{nodes["root"].ID, nodes["a"].ID, nodes["a1"].ID}
	if len(path) != len(want) {
		t.Fatalf("path length = %d, want %d", len(path), len(want))
	}
	for i, n := range path {
		if n.ID != want[i] {
			t.Errorf("path[%d] = %s, want %s", i, n.ID, want[i])
		}
	}

	if _, err := s.NodePath(ctx, "no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("NodePath on unknown id: err = %v, want ErrNotFound", err)
	}
}

func TestNodePath_DeletedNode(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	_, nodes := seedTree(t, s)

	if _, err := s.DeleteNode(ctx, nodes["a1"].ID); err != nil {
		t.Fatalf("DeleteNode: %v", err)
	}
	if _, err := s.NodePath(ctx, nodes["a1"].ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("path to a trashed node: err = %v, want ErrNotFound", err)
	}
}

func TestUpdateNode(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	_, nodes := seedTree(t, s)

	tokens := 42
	failed := true
	updated, err := s.UpdateNode(ctx, nodes["b"].ID, model.UpdateNode{
		Summary: strPtr("short label"),
		Model:   strPtr("gpt-x"),
		Tokens:  &tokens,
		Failed:  &failed,
	})
	if err != nil {
		t.Fatalf("UpdateNode: %v", err)
	}
	if updated.Summary == nil || *updated.Summary != "short label" {
		t.Errorf("summary not applied: %+v", updated.Summary)
	}
	if updated.Tokens == nil || *updated.Tokens != 42 {
		t.Errorf("tokens not applied: %+v", updated.Tokens)
	}
	if !updated.Failed {
		t.Errorf("failed flag not applied")
	}
	// Untouched fields survive a partial update.
	if updated.UserContent != "prompt b" {
		t.Errorf("user content changed unexpectedly: %q", updated.UserContent)
	}
}

func TestNodeSoftDeleteAndRestore(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	tree, nodes := seedTree(t, s)

	deleted, err := s.DeleteNode(ctx, nodes["b"].ID)
	if err != nil {
		t.Fatalf("DeleteNode: %v", err)
	}
	if deleted.DeletedAt == nil {
		t.Fatalf("delete did not stamp deleted_at")
	}

	all, err := s.ListNodes(ctx, tree.ID)
	if err != nil {
		t.Fatalf("ListNodes: %v", err)
	}
	for _, n := range all {
		if n.ID == nodes["b"].ID {
			t.Errorf("trashed node still listed as active")
		}
	}

	// Deleting again is ErrNotFound, not a double stamp.
	if _, err := s.DeleteNode(ctx, nodes["b"].ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("double delete: err = %v, want ErrNotFound", err)
	}

	restored, err := s.RestoreNode(ctx, nodes["b"].ID)
	if err != nil {
		t.Fatalf("RestoreNode: %v", err)
	}
	if restored.DeletedAt != nil {
		t.Errorf("restore left deleted_at set")
	}
}

func TestPermanentlyDeleteNode_CascadesToDescendants(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	tree, nodes := seedTree(t, s)

	if err := s.PermanentlyDeleteNode(ctx, nodes["a"].ID); err != nil {
		t.Fatalf("PermanentlyDeleteNode: %v", err)
	}

	all, err := s.ListNodes(ctx, tree.ID)
	if err != nil {
		t.Fatalf("ListNodes: %v", err)
	}
	left := make(map[string]bool)
	for _, n := range all {
		left[n.ID] = true
	}
	if left[nodes["a"].ID] || left[nodes["a1"].ID] || left[nodes["a2"].ID] {
		t.Errorf("descendants survived the cascade: %v", left)
	}
	if !left[nodes["root"].ID] || !left[nodes["b"].ID] {
		t.Errorf("unrelated nodes lost in the cascade")
	}
}

func TestSettings(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if v, err := s.GetSettingValue(ctx, "theme"); err != nil || v != "" {
		t.Fatalf("unset key: value %q, err %v, want empty and nil", v, err)
	}

	if _, err := s.SetSetting(ctx, "theme", "dark"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if _, err := s.SetSetting(ctx, "theme", "dracula"); err != nil {
		t.Fatalf("SetSetting upsert: %v", err)
	}

	st, err := s.GetSetting(ctx, "theme")
	if err != nil {
		t.Fatalf("GetSetting: %v", err)
	}
	if st.Value != "dracula" {
		t.Errorf("value = %q, want upserted dracula", st.Value)
	}
	if st.UpdatedAt == nil {
		t.Errorf("upsert did not stamp updated_at")
	}

	if err := s.DeleteSetting(ctx, "theme"); err != nil {
		t.Fatalf("DeleteSetting: %v", err)
	}
	if err := s.DeleteSetting(ctx, "theme"); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleting a missing key: err = %v, want ErrNotFound", err)
	}
}

func TestLoadTreeData(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	tree, _ := seedTree(t, s)

	data, err := s.LoadTreeData(ctx, tree.ID)
	if err != nil {
		t.Fatalf("LoadTreeData: %v", err)
	}
	if len(data.Nodes) != 5 {
		t.Errorf("nodes = %d, want 5", len(data.Nodes))
	}
	if len(data.Leaves) != 3 {
		t.Errorf("leaves = %d, want 3", len(data.Leaves))
	}
}
