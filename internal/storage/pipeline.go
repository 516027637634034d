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

// SavePipelineEntry creates or overwrites the pipeline entry for an investor
// within a project. The (project, investor) key is the entry's identity, so a
// repeated save is an idempotent overwrite, never a duplicate. The stored
// interaction log is replaced by the entry's log, matching whole-record
// overwrite semantics.
func (s *SQLiteStorage) SavePipelineEntry(ctx context.Context, entry *model.PipelineEntry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validatePipelineEntry(entry); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.savePipelineEntryTx(ctx, tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit pipeline entry: %w", err)
	}

	s.notifier.publish(topicPipeline(entry.ProjectID))
	return nil
}

func (s *SQLiteStorage) savePipelineEntryTx(ctx context.Context, q queryable, entry *model.PipelineEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO pipeline_entries (project_id, investor_id, priority, status, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(project_id, investor_id) DO UPDATE SET
			priority = excluded.priority,
			status = excluded.status
	`, entry.ProjectID, entry.InvestorID, entry.Priority, string(entry.Status), entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save pipeline entry: %w", err)
	}

	// Replace the interaction log with the entry's log.
	_, err = q.ExecContext(ctx, `
		DELETE FROM interactions WHERE project_id = ? AND investor_id = ?
	`, entry.ProjectID, entry.InvestorID)
	if err != nil {
		return fmt.Errorf("failed to clear interaction log: %w", err)
	}

	for _, interaction := range entry.Interactions {
		if err := insertInteractionTx(ctx, q, entry.ProjectID, entry.InvestorID, interaction); err != nil {
			return err
		}
	}

	return nil
}

func insertInteractionTx(ctx context.Context, q queryable, projectID, investorID string, interaction model.Interaction) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO interactions (project_id, investor_id, timestamp, type, notes)
		VALUES (?, ?, ?, ?, ?)
	`, projectID, investorID, interaction.Timestamp, string(interaction.Type), interaction.Notes)
	if err != nil {
		return fmt.Errorf("failed to insert interaction: %w", err)
	}
	return nil
}

// GetPipelineEntry retrieves one entry, with its interaction log in append order.
func (s *SQLiteStorage) GetPipelineEntry(ctx context.Context, projectID, investorID string) (*model.PipelineEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(projectID, "projectID"); err != nil {
		return nil, err
	}
	if err := validateString(investorID, "investorID"); err != nil {
		return nil, err
	}

	var entry model.PipelineEntry
	var status string
	err := s.db.QueryRowContext(ctx, `
		SELECT project_id, investor_id, priority, status, created_at
		FROM pipeline_entries
		WHERE project_id = ? AND investor_id = ?
	`, projectID, investorID).Scan(
		&entry.ProjectID, &entry.InvestorID, &entry.Priority, &status, &entry.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("pipeline entry %s/%s: %w", projectID, investorID, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pipeline entry: %w", err)
	}
	entry.Status = model.PipelineStatus(status)

	interactions, err := s.getInteractions(ctx, projectID, investorID)
	if err != nil {
		return nil, err
	}
	entry.Interactions = interactions

	return &entry, nil
}

func (s *SQLiteStorage) getInteractions(ctx context.Context, projectID, investorID string) ([]model.Interaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT timestamp, type, notes
		FROM interactions
		WHERE project_id = ? AND investor_id = ?
		ORDER BY id
	`, projectID, investorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query interactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var interactions []model.Interaction
	for rows.Next() {
		var interaction model.Interaction
		var interactionType string
		if err := rows.Scan(&interaction.Timestamp, &interactionType, &interaction.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan interaction: %w", err)
		}
		interaction.Type = model.InteractionType(interactionType)
		interactions = append(interactions, interaction)
	}

	return interactions, rows.Err()
}

// GetPipelineEntries retrieves every entry in a project's pipeline, each with
// its interaction log in append order.
func (s *SQLiteStorage) GetPipelineEntries(ctx context.Context, projectID string) ([]model.PipelineEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(projectID, "projectID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT project_id, investor_id, priority, status, created_at
		FROM pipeline_entries
		WHERE project_id = ?
		ORDER BY created_at, investor_id
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pipeline entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.PipelineEntry
	for rows.Next() {
		var entry model.PipelineEntry
		var status string
		err := rows.Scan(&entry.ProjectID, &entry.InvestorID, &entry.Priority, &status, &entry.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pipeline entry: %w", err)
		}
		entry.Status = model.PipelineStatus(status)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range entries {
		interactions, err := s.getInteractions(ctx, projectID, entries[i].InvestorID)
		if err != nil {
			return nil, err
		}
		entries[i].Interactions = interactions
	}

	return entries, nil
}

// DeletePipelineEntry removes an investor from a project's pipeline, along
// with the entry's interaction log.
func (s *SQLiteStorage) DeletePipelineEntry(ctx context.Context, projectID, investorID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(projectID, "projectID"); err != nil {
		return err
	}
	if err := validateString(investorID, "investorID"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := deletePipelineEntryTx(ctx, tx, projectID, investorID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit pipeline entry deletion: %w", err)
	}

	s.notifier.publish(topicPipeline(projectID))
	return nil
}

func deletePipelineEntryTx(ctx context.Context, q queryable, projectID, investorID string) error {
	if _, err := q.ExecContext(ctx, `
		DELETE FROM interactions WHERE project_id = ? AND investor_id = ?
	`, projectID, investorID); err != nil {
		return fmt.Errorf("failed to delete interaction log: %w", err)
	}

	result, err := q.ExecContext(ctx, `
		DELETE FROM pipeline_entries WHERE project_id = ? AND investor_id = ?
	`, projectID, investorID)
	if err != nil {
		return fmt.Errorf("failed to delete pipeline entry: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return common.ErrNotFound
	}

	return nil
}

// UpdatePipelineStatus moves an entry to a new status. Any status may be set
// from any other; only unknown values are rejected.
func (s *SQLiteStorage) UpdatePipelineStatus(ctx context.Context, projectID, investorID string, status model.PipelineStatus) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if !status.Valid() {
		return fmt.Errorf("invalid pipeline status: %s", status)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE pipeline_entries SET status = ?
		WHERE project_id = ? AND investor_id = ?
	`, string(status), projectID, investorID)
	if err != nil {
		return fmt.Errorf("failed to update pipeline status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return common.ErrNotFound
	}

	s.notifier.publish(topicPipeline(projectID))
	return nil
}

// UpdatePipelinePriority sets an entry's 1-5 priority rating.
func (s *SQLiteStorage) UpdatePipelinePriority(ctx context.Context, projectID, investorID string, priority int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if priority < 1 || priority > 5 {
		return fmt.Errorf("priority must be between 1 and 5, got %d", priority)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE pipeline_entries SET priority = ?
		WHERE project_id = ? AND investor_id = ?
	`, priority, projectID, investorID)
	if err != nil {
		return fmt.Errorf("failed to update pipeline priority: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return common.ErrNotFound
	}

	s.notifier.publish(topicPipeline(projectID))
	return nil
}

// AppendInteraction adds one interaction to an entry's log. Existing
// interactions are never modified.
func (s *SQLiteStorage) AppendInteraction(ctx context.Context, projectID, investorID string, interaction model.Interaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if !interaction.Type.Valid() {
		return fmt.Errorf("invalid interaction type: %s", interaction.Type)
	}
	if interaction.Timestamp.IsZero() {
		interaction.Timestamp = time.Now()
	}

	// The entry must exist; interactions cannot be orphaned.
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM pipeline_entries WHERE project_id = ? AND investor_id = ?)
	`, projectID, investorID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check pipeline entry existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("pipeline entry %s/%s: %w", projectID, investorID, common.ErrNotFound)
	}

	if err := insertInteractionTx(ctx, s.db, projectID, investorID, interaction); err != nil {
		return err
	}

	s.notifier.publish(topicPipeline(projectID))
	return nil
}
