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

const treeColumns = "id, project_id, name, system_prompt, created_at, updated_at, deleted_at"

// CreateTree inserts a new tree and returns it.
func (s *Store) CreateTree(ctx context.Context, input model.CreateTree) (*model.Tree, error) {
	id := uuid.NewString()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trees (id, project_id, name, system_prompt) VALUES (?, ?, ?, ?)
	`, id, input.ProjectID, input.Name, input.SystemPrompt)
	if err != nil {
		return nil, fmt.Errorf("insert tree: %w", err)
	}

	return s.GetTree(ctx, id)
}

// GetTree returns a tree by ID, deleted or not.
func (s *Store) GetTree(ctx context.Context, id string) (*model.Tree, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+treeColumns+" FROM trees WHERE id = ?", id)
	t, err := scanTree(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tree %s: %w", id, ErrNotFound)
	}
	return t, err
}

// ListTrees returns active trees, optionally filtered by project, newest
// first.
func (s *Store) ListTrees(ctx context.Context, projectID *string) ([]model.Tree, error) {
	if projectID != nil {
		return s.queryTrees(ctx, `
			SELECT `+treeColumns+` FROM trees
			WHERE project_id = ? AND deleted_at IS NULL
			ORDER BY created_at DESC
		`, *projectID)
	}
	return s.queryTrees(ctx, `
		SELECT `+treeColumns+` FROM trees
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
	`)
}

// ListStagingTrees returns active trees with no project assigned.
func (s *Store) ListStagingTrees(ctx context.Context) ([]model.Tree, error) {
	return s.queryTrees(ctx, `
		SELECT `+treeColumns+` FROM trees
		WHERE project_id IS NULL AND deleted_at IS NULL
		ORDER BY created_at DESC
	`)
}

// ListDeletedTrees returns trashed trees, most recently deleted first.
func (s *Store) ListDeletedTrees(ctx context.Context) ([]model.Tree, error) {
	return s.queryTrees(ctx, `
		SELECT `+treeColumns+` FROM trees
		WHERE deleted_at IS NOT NULL
		ORDER BY deleted_at DESC
	`)
}

// UpdateTree applies the non-nil fields of input to an active tree.
func (s *Store) UpdateTree(ctx context.Context, id string, input model.UpdateTree) (*model.Tree, error) {
	existing, err := s.GetTree(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.DeletedAt != nil {
		return nil, fmt.Errorf("tree %s is deleted: %w", id, ErrNotFound)
	}

	sets := []string{"updated_at = datetime('now')"}
	var args []any
	if input.ProjectID != nil {
		sets = append(sets, "project_id = ?")
		args = append(args, *input.ProjectID)
	}
	if input.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *input.Name)
	}
	if input.SystemPrompt != nil {
		sets = append(sets, "system_prompt = ?")
		args = append(args, *input.SystemPrompt)
	}
	args = append(args, id)

	query := "UPDATE trees SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("update tree: %w", err)
	}

	return s.GetTree(ctx, id)
}

// DeleteTree soft-deletes a tree.
func (s *Store) DeleteTree(ctx context.Context, id string) (*model.Tree, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE trees SET deleted_at = datetime('now'), updated_at = datetime('now')
		WHERE id = ? AND deleted_at IS NULL
	`, id)
	if err != nil {
		return nil, fmt.Errorf("delete tree: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("tree %s: %w", id, ErrNotFound)
	}
	return s.GetTree(ctx, id)
}

// RestoreTree brings a soft-deleted tree back.
func (s *Store) RestoreTree(ctx context.Context, id string) (*model.Tree, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE trees SET deleted_at = NULL, updated_at = datetime('now')
		WHERE id = ? AND deleted_at IS NOT NULL
	`, id)
	if err != nil {
		return nil, fmt.Errorf("restore tree: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("deleted tree %s: %w", id, ErrNotFound)
	}
	return s.GetTree(ctx, id)
}

// PermanentlyDeleteTree removes a tree and, via CASCADE, all its nodes.
func (s *Store) PermanentlyDeleteTree(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM trees WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("permanently delete tree: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("tree %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Store) queryTrees(ctx context.Context, query string, args ...any) ([]model.Tree, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query trees: %w", err)
	}
	defer rows.Close()

	var trees []model.Tree
	for rows.Next() {
		t, err := scanTree(rows)
		if err != nil {
			return nil, err
		}
		trees = append(trees, *t)
	}
	return trees, rows.Err()
}

func scanTree(row rowScanner) (*model.Tree, error) {
	var t model.Tree
	err := row.Scan(&t.ID, &t.ProjectID, &t.Name, &t.SystemPrompt, &t.CreatedAt, &t.UpdatedAt, &t.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
