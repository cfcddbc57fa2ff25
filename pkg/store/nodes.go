package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tangential/tangential/pkg/model"
)

const nodeColumns = "id, tree_id, parent_id, user_content, assistant_content, summary, model, tokens, created_at, updated_at, deleted_at, failed"

// CreateNode inserts a new conversation node and returns it.
func (s *Store) CreateNode(ctx context.Context, input model.CreateNode) (*model.Node, error) {
	id := uuid.NewString()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO nodes (id, tree_id, parent_id, user_content, assistant_content, summary, model, tokens)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, input.TreeID, input.ParentID, input.UserContent, input.AssistantContent, input.Summary, input.Model, input.Tokens)
	if err != nil {
		return nil, fmt.Errorf("insert node: %w", err)
	}

	return s.GetNode(ctx, id)
}

// GetNode returns a node by ID, deleted or not.
func (s *Store) GetNode(ctx context.Context, id string) (*model.Node, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+nodeColumns+" FROM nodes WHERE id = ?", id)
	n, err := scanNode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("node %s: %w", id, ErrNotFound)
	}
	return n, err
}

// ListNodes returns all active nodes in a tree, created_at ascending.
func (s *Store) ListNodes(ctx context.Context, treeID string) ([]model.Node, error) {
	return s.queryNodes(ctx, `
		SELECT `+nodeColumns+` FROM nodes
		WHERE tree_id = ? AND deleted_at IS NULL
		ORDER BY created_at ASC
	`, treeID)
}

// RootNodes returns active nodes in a tree with no parent.
func (s *Store) RootNodes(ctx context.Context, treeID string) ([]model.Node, error) {
	return s.queryNodes(ctx, `
		SELECT `+nodeColumns+` FROM nodes
		WHERE tree_id = ? AND parent_id IS NULL AND deleted_at IS NULL
		ORDER BY created_at ASC
	`, treeID)
}

// ChildNodes returns active direct children of a node.
func (s *Store) ChildNodes(ctx context.Context, parentID string) ([]model.Node, error) {
	return s.queryNodes(ctx, `
		SELECT `+nodeColumns+` FROM nodes
		WHERE parent_id = ? AND deleted_at IS NULL
		ORDER BY created_at ASC
	`, parentID)
}

// LeafNodes returns active nodes in a tree with no active children.
// These populate the path-selection affordances in the UI.
func (s *Store) LeafNodes(ctx context.Context, treeID string) ([]model.Node, error) {
	return s.queryNodes(ctx, `
		SELECT n.id, n.tree_id, n.parent_id, n.user_content, n.assistant_content, n.summary, n.model, n.tokens, n.created_at, n.updated_at, n.deleted_at, n.failed
		FROM nodes n
		WHERE n.tree_id = ?
		  AND n.deleted_at IS NULL
		  AND NOT EXISTS (
			SELECT 1 FROM nodes child
			WHERE child.parent_id = n.id AND child.deleted_at IS NULL
		  )
		ORDER BY n.created_at ASC
	`, treeID)
}

// NodePath returns the chain from the tree's root down to and including
// the given node, via a recursive CTE over parent links. Returns
// ErrNotFound when the node does not exist or is deleted.
func (s *Store) NodePath(ctx context.Context, nodeID string) ([]model.Node, error) {
	nodes, err := s.queryNodes(ctx, `
		WITH RECURSIVE path AS (
			SELECT `+nodeColumns+`, 0 AS depth
			FROM nodes
			WHERE id = ? AND deleted_at IS NULL
			UNION ALL
			SELECT n.id, n.tree_id, n.parent_id, n.user_content, n.assistant_content, n.summary, n.model, n.tokens, n.created_at, n.updated_at, n.deleted_at, n.failed, p.depth + 1
			FROM nodes n
			INNER JOIN path p ON n.id = p.parent_id
			WHERE n.deleted_at IS NULL
		)
		SELECT `+nodeColumns+` FROM path
		ORDER BY depth DESC
	`, nodeID)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("node %s: %w", nodeID, ErrNotFound)
	}
	return nodes, nil
}

// UpdateNode applies the non-nil fields of input to an active node.
func (s *Store) UpdateNode(ctx context.Context, id string, input model.UpdateNode) (*model.Node, error) {
	existing, err := s.GetNode(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.DeletedAt != nil {
		return nil, fmt.Errorf("node %s is deleted: %w", id, ErrNotFound)
	}

	sets := []string{"updated_at = datetime('now')"}
	var args []any
	if input.UserContent != nil {
		sets = append(sets, "user_content = ?")
		args = append(args, *input.UserContent)
	}
	if input.AssistantContent != nil {
		sets = append(sets, "assistant_content = ?")
		args = append(args, *input.AssistantContent)
	}
	if input.Summary != nil {
		sets = append(sets, "summary = ?")
		args = append(args, *input.Summary)
	}
	if input.Model != nil {
		sets = append(sets, "model = ?")
		args = append(args, *input.Model)
	}
	if input.Tokens != nil {
		sets = append(sets, "tokens = ?")
		args = append(args, *input.Tokens)
	}
	if input.Failed != nil {
		sets = append(sets, "failed = ?")
		args = append(args, boolToInt(*input.Failed))
	}
	args = append(args, id)

	query := "UPDATE nodes SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("update node: %w", err)
	}

	return s.GetNode(ctx, id)
}

// DeleteNode soft-deletes a node (moves it to trash).
func (s *Store) DeleteNode(ctx context.Context, id string) (*model.Node, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE nodes SET deleted_at = datetime('now'), updated_at = datetime('now')
		WHERE id = ? AND deleted_at IS NULL
	`, id)
	if err != nil {
		return nil, fmt.Errorf("delete node: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("node %s: %w", id, ErrNotFound)
	}
	return s.GetNode(ctx, id)
}

// RestoreNode brings a soft-deleted node back.
func (s *Store) RestoreNode(ctx context.Context, id string) (*model.Node, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE nodes SET deleted_at = NULL, updated_at = datetime('now')
		WHERE id = ? AND deleted_at IS NOT NULL
	`, id)
	if err != nil {
		return nil, fmt.Errorf("restore node: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("deleted node %s: %w", id, ErrNotFound)
	}
	return s.GetNode(ctx, id)
}

// PermanentlyDeleteNode removes a node for good. The parent_id CASCADE
// takes all descendants with it.
func (s *Store) PermanentlyDeleteNode(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM nodes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("permanently delete node: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("node %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Store) queryNodes(ctx context.Context, query string, args ...any) ([]model.Node, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query nodes: %w", err)
	}
	defer rows.Close()

	var nodes []model.Node
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, *n)
	}
	return nodes, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNode(row rowScanner) (*model.Node, error) {
	var n model.Node
	var failed int
	err := row.Scan(&n.ID, &n.TreeID, &n.ParentID, &n.UserContent, &n.AssistantContent,
		&n.Summary, &n.Model, &n.Tokens, &n.CreatedAt, &n.UpdatedAt, &n.DeletedAt, &failed)
	if err != nil {
		return nil, err
	}
	n.Failed = failed != 0
	return &n, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
