package importer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joshsymonds/dealflow/internal/model"
	"github.com/joshsymonds/dealflow/internal/service"
)

// Importer commits parsed investor records as a single atomic batch: either
// every record persists or none do.
type Importer struct {
	storage service.Storage
	parser  *Parser
}

// NewImporter creates a bulk importer over the given record store.
func NewImporter(storage service.Storage) *Importer {
	return &Importer{
		storage: storage,
		parser:  NewParser(),
	}
}

// Import parses delimited text and writes all resulting records in one batch.
// It returns the imported records on success.
func (im *Importer) Import(ctx context.Context, accountID, text string) ([]model.Investor, error) {
	investors, err := im.parser.Parse(accountID, text)
	if err != nil {
		return nil, err
	}

	batch := im.storage.NewBatch()
	for i := range investors {
		batch.SaveInvestor(&investors[i])
	}

	if err := batch.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit import batch: %w", err)
	}

	slog.Info("Imported investors", "account_id", accountID, "count", len(investors))
	return investors, nil
}
