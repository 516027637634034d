package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/joshsymonds/dealflow/internal/model"
)

// sqliteBatch stages record writes and commits them in one transaction.
// Either every staged write persists or none do; no partial state is ever
// visible to subscribers or readers.
type sqliteBatch struct {
	storage *SQLiteStorage
	ops     []func(ctx context.Context, tx *sql.Tx) error
	topics  map[string]bool
	errs    []error
}

// SaveInvestor stages a master investor write.
func (b *sqliteBatch) SaveInvestor(investor *model.Investor) {
	if err := validateInvestor(investor); err != nil {
		b.errs = append(b.errs, err)
		return
	}

	inv := *investor
	b.ops = append(b.ops, func(ctx context.Context, tx *sql.Tx) error {
		return b.storage.saveInvestorTx(ctx, tx, &inv)
	})
	b.topic(topicInvestors(inv.AccountID))
}

// SavePipelineEntry stages a pipeline entry write.
func (b *sqliteBatch) SavePipelineEntry(entry *model.PipelineEntry) {
	if err := validatePipelineEntry(entry); err != nil {
		b.errs = append(b.errs, err)
		return
	}

	e := *entry
	b.ops = append(b.ops, func(ctx context.Context, tx *sql.Tx) error {
		return b.storage.savePipelineEntryTx(ctx, tx, &e)
	})
	b.topic(topicPipeline(e.ProjectID))
}

// DeletePipelineEntry stages removal of an investor from a project's pipeline.
func (b *sqliteBatch) DeletePipelineEntry(projectID, investorID string) {
	b.ops = append(b.ops, func(ctx context.Context, tx *sql.Tx) error {
		return deletePipelineEntryTx(ctx, tx, projectID, investorID)
	})
	b.topic(topicPipeline(projectID))
}

// Len reports the number of staged writes.
func (b *sqliteBatch) Len() int {
	return len(b.ops)
}

// Commit applies every staged write atomically and notifies affected
// subscribers once, after the transaction lands.
func (b *sqliteBatch) Commit(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if len(b.errs) > 0 {
		return fmt.Errorf("batch contains invalid writes: %w", b.errs[0])
	}
	if len(b.ops) == 0 {
		return fmt.Errorf("%w: batch", ErrEmptySlice)
	}

	tx, err := b.storage.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, op := range b.ops {
		if err := op(ctx, tx); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}

	topics := make([]string, 0, len(b.topics))
	for topic := range b.topics {
		topics = append(topics, topic)
	}
	b.storage.notifier.publish(topics...)

	return nil
}

func (b *sqliteBatch) topic(t string) {
	if b.topics == nil {
		b.topics = make(map[string]bool)
	}
	b.topics[t] = true
}
