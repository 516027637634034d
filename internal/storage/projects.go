package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/joshsymonds/dealflow/internal/common"
	"github.com/joshsymonds/dealflow/internal/model"
)

// SaveProject creates or updates a project.
func (s *SQLiteStorage) SaveProject(ctx context.Context, project *model.Project) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateProject(project); err != nil {
		return err
	}

	if project.CreatedAt.IsZero() {
		project.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (id, account_id, name, description, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description
	`, project.ID, project.AccountID, project.Name, project.Description, project.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}

	s.notifier.publish(topicProjects(project.AccountID))
	return nil
}

// GetProject retrieves a project by id.
func (s *SQLiteStorage) GetProject(ctx context.Context, id string) (*model.Project, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	return s.getProjectTx(ctx, s.db, id)
}

func (s *SQLiteStorage) getProjectTx(ctx context.Context, q queryable, id string) (*model.Project, error) {
	var project model.Project

	err := q.QueryRowContext(ctx, `
		SELECT id, account_id, name, description, created_at
		FROM projects
		WHERE id = ?
	`, id).Scan(
		&project.ID,
		&project.AccountID,
		&project.Name,
		&project.Description,
		&project.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &project, nil
}

// GetProjects retrieves all projects owned by an account.
func (s *SQLiteStorage) GetProjects(ctx context.Context, accountID string) ([]model.Project, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(accountID, "accountID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, account_id, name, description, created_at
		FROM projects
		WHERE account_id = ?
		ORDER BY created_at, id
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var projects []model.Project
	for rows.Next() {
		var project model.Project
		err := rows.Scan(
			&project.ID,
			&project.AccountID,
			&project.Name,
			&project.Description,
			&project.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}

	return projects, rows.Err()
}

// DeleteProject deletes a project together with its pipeline entries and
// their interaction logs.
func (s *SQLiteStorage) DeleteProject(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	project, err := s.GetProject(ctx, id)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM interactions WHERE project_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete project interactions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM pipeline_entries WHERE project_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete project pipeline: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit project deletion: %w", err)
	}

	s.notifier.publish(topicProjects(project.AccountID), topicPipeline(id))
	return nil
}
