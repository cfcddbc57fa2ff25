package model

import "testing"

func strPtr(s string) *string { return &s }

func TestNodeClone_DeepCopiesPointers(t *testing.T) {
	tokens := 10
	n := Node{
		ID:          "n1",
		TreeID:      "t1",
		ParentID:    strPtr("p1"),
		UserContent: "hello",
		Summary:     strPtr("greeting"),
		Tokens:      &tokens,
	}

	clone := n.Clone()
	*clone.ParentID = "changed"
	*clone.Summary = "changed"
	*clone.Tokens = 99

	if *n.ParentID != "p1" || *n.Summary != "greeting" || *n.Tokens != 10 {
		t.Errorf("clone shares pointer fields with the original: %+v", n)
	}
}

func TestNodeValidate(t *testing.T) {
	tests := []struct {
		name    string
		node    Node
		wantErr bool
	}{
		{"valid root", Node{ID: "n1", TreeID: "t1"}, false},
		{"valid child", Node{ID: "n1", TreeID: "t1", ParentID: strPtr("p1")}, false},
		{"missing id", Node{TreeID: "t1"}, true},
		{"missing tree", Node{ID: "n1"}, true},
		{"self parent", Node{ID: "n1", TreeID: "t1", ParentID: strPtr("n1")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.node.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNodeTitle(t *testing.T) {
	n := Node{ID: "n1", TreeID: "t1", UserContent: "long user prompt"}
	if got := n.Title(); got != "long user prompt" {
		t.Errorf("Title without summary = %q", got)
	}

	n.Summary = strPtr("short label")
	if got := n.Title(); got != "short label" {
		t.Errorf("Title with summary = %q", got)
	}

	n.Summary = strPtr("")
	if got := n.Title(); got != "long user prompt" {
		t.Errorf("empty summary must fall back to user content, got %q", got)
	}
}

func TestNodeIsRoot(t *testing.T) {
	root := Node{ID: "n1", TreeID: "t1"}
	if !root.IsRoot() {
		t.Errorf("nil parent must be a root")
	}
	child := Node{ID: "n2", TreeID: "t1", ParentID: strPtr("n1")}
	if child.IsRoot() {
		t.Errorf("node with a parent reference is not a root")
	}
}
