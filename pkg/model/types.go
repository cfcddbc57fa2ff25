package model

import "fmt"

// Project is a container for related conversation trees.
type Project struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt *string `json:"updated_at,omitempty"`
	DeletedAt *string `json:"deleted_at,omitempty"`
}

// Tree is a branching conversation within a project. A tree with no
// ProjectID lives in staging.
type Tree struct {
	ID           string  `json:"id"`
	ProjectID    *string `json:"project_id,omitempty"`
	Name         string  `json:"name"`
	SystemPrompt *string `json:"system_prompt,omitempty"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    *string `json:"updated_at,omitempty"`
	DeletedAt    *string `json:"deleted_at,omitempty"`
}

// Node is a single conversation turn (user prompt + assistant response).
// Nodes sharing a ParentID are alternative follow-ups from the same point.
// A nil ParentID marks a root.
type Node struct {
	ID               string  `json:"id"`
	TreeID           string  `json:"tree_id"`
	ParentID         *string `json:"parent_id,omitempty"`
	UserContent      string  `json:"user_content"`
	AssistantContent *string `json:"assistant_content,omitempty"`
	Summary          *string `json:"summary,omitempty"`
	Model            *string `json:"model,omitempty"`
	Tokens           *int    `json:"tokens,omitempty"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        *string `json:"updated_at,omitempty"`
	DeletedAt        *string `json:"deleted_at,omitempty"`
	Failed           bool    `json:"failed"`
}

// Clone creates a deep copy of the node
func (n Node) Clone() Node {
	clone := n

	if n.ParentID != nil {
		v := *n.ParentID
		clone.ParentID = &v
	}
	if n.AssistantContent != nil {
		v := *n.AssistantContent
		clone.AssistantContent = &v
	}
	if n.Summary != nil {
		v := *n.Summary
		clone.Summary = &v
	}
	if n.Model != nil {
		v := *n.Model
		clone.Model = &v
	}
	if n.Tokens != nil {
		v := *n.Tokens
		clone.Tokens = &v
	}
	if n.UpdatedAt != nil {
		v := *n.UpdatedAt
		clone.UpdatedAt = &v
	}
	if n.DeletedAt != nil {
		v := *n.DeletedAt
		clone.DeletedAt = &v
	}

	return clone
}

// Validate checks if the node data is logically valid
func (n *Node) Validate() error {
	if n.ID == "" {
		return fmt.Errorf("node ID cannot be empty")
	}
	if n.TreeID == "" {
		return fmt.Errorf("node %s has no tree ID", n.ID)
	}
	if n.ParentID != nil && *n.ParentID == n.ID {
		return fmt.Errorf("node %s is its own parent", n.ID)
	}
	return nil
}

// IsRoot returns true if the node has no parent reference at all.
// A node whose parent is missing from the loaded collection is still a
// layout root; that case is decided by the tree index, not here.
func (n *Node) IsRoot() bool {
	return n.ParentID == nil
}

// Title returns the best short label for the node: the stored summary if
// present, otherwise the user content.
func (n *Node) Title() string {
	if n.Summary != nil && *n.Summary != "" {
		return *n.Summary
	}
	return n.UserContent
}

// Setting is a key-value configuration entry.
type Setting struct {
	Key       string  `json:"key"`
	Value     string  `json:"value"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt *string `json:"updated_at,omitempty"`
}

// Input types for creating and updating entities. Nil fields in update
// inputs are left untouched.

type CreateProject struct {
	Name string `json:"name"`
}

type UpdateProject struct {
	Name *string `json:"name,omitempty"`
}

type CreateTree struct {
	ProjectID    *string `json:"project_id,omitempty"`
	Name         string  `json:"name"`
	SystemPrompt *string `json:"system_prompt,omitempty"`
}

type UpdateTree struct {
	ProjectID    *string `json:"project_id,omitempty"`
	Name         *string `json:"name,omitempty"`
	SystemPrompt *string `json:"system_prompt,omitempty"`
}

type CreateNode struct {
	TreeID           string  `json:"tree_id"`
	ParentID         *string `json:"parent_id,omitempty"`
	UserContent      string  `json:"user_content"`
	AssistantContent *string `json:"assistant_content,omitempty"`
	Summary          *string `json:"summary,omitempty"`
	Model            *string `json:"model,omitempty"`
	Tokens           *int    `json:"tokens,omitempty"`
}

type UpdateNode struct {
	UserContent      *string `json:"user_content,omitempty"`
	AssistantContent *string `json:"assistant_content,omitempty"`
	Summary          *string `json:"summary,omitempty"`
	Model            *string `json:"model,omitempty"`
	Tokens           *int    `json:"tokens,omitempty"`
	Failed           *bool   `json:"failed,omitempty"`
}
