package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/tangential/tangential/pkg/model"
)

const projectColumns = "id, name, created_at, updated_at, deleted_at"

// CreateProject inserts a new project and returns it.
func (s *Store) CreateProject(ctx context.Context, input model.CreateProject) (*model.Project, error) {
	id := uuid.NewString()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO projects (id, name) VALUES (?, ?)", id, input.Name)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}

	return s.GetProject(ctx, id)
}

// GetProject returns a project by ID, deleted or not.
func (s *Store) GetProject(ctx context.Context, id string) (*model.Project, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+projectColumns+" FROM projects WHERE id = ?", id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return p, err
}

// ListProjects returns active projects, newest first.
func (s *Store) ListProjects(ctx context.Context) ([]model.Project, error) {
	return s.queryProjects(ctx, `
		SELECT `+projectColumns+` FROM projects
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
	`)
}

// ListDeletedProjects returns trashed projects.
func (s *Store) ListDeletedProjects(ctx context.Context) ([]model.Project, error) {
	return s.queryProjects(ctx, `
		SELECT `+projectColumns+` FROM projects
		WHERE deleted_at IS NOT NULL
		ORDER BY deleted_at DESC
	`)
}

// UpdateProject applies the non-nil fields of input to an active project.
func (s *Store) UpdateProject(ctx context.Context, id string, input model.UpdateProject) (*model.Project, error) {
	existing, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.DeletedAt != nil {
		return nil, fmt.Errorf("project %s is deleted: %w", id, ErrNotFound)
	}

	if input.Name != nil {
		_, err := s.db.ExecContext(ctx, `
			UPDATE projects SET name = ?, updated_at = datetime('now') WHERE id = ?
		`, *input.Name, id)
		if err != nil {
			return nil, fmt.Errorf("update project: %w", err)
		}
	}

	return s.GetProject(ctx, id)
}

// DeleteProject soft-deletes a project.
func (s *Store) DeleteProject(ctx context.Context, id string) (*model.Project, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE projects SET deleted_at = datetime('now'), updated_at = datetime('now')
		WHERE id = ? AND deleted_at IS NULL
	`, id)
	if err != nil {
		return nil, fmt.Errorf("delete project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return s.GetProject(ctx, id)
}

// RestoreProject brings a soft-deleted project back.
func (s *Store) RestoreProject(ctx context.Context, id string) (*model.Project, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE projects SET deleted_at = NULL, updated_at = datetime('now')
		WHERE id = ? AND deleted_at IS NOT NULL
	`, id)
	if err != nil {
		return nil, fmt.Errorf("restore project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("deleted project %s: %w", id, ErrNotFound)
	}
	return s.GetProject(ctx, id)
}

// PermanentlyDeleteProject removes a project for good. Trees under it
// are detached, not deleted.
func (s *Store) PermanentlyDeleteProject(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("permanently delete project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Store) queryProjects(ctx context.Context, query string, args ...any) ([]model.Project, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

func scanProject(row rowScanner) (*model.Project, error) {
	var p model.Project
	err := row.Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
