// Package engine orchestrates pipeline and record operations against the
// record store.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joshsymonds/dealflow/internal/common"
	"github.com/joshsymonds/dealflow/internal/model"
	"github.com/joshsymonds/dealflow/internal/service"
)

// Engine implements the application's mutations over the record store.
// Failed mutations are logged with operation and target for diagnosis and
// surfaced to the caller; nothing is retried automatically.
type Engine struct {
	storage service.Storage
}

// New creates an engine over the given record store.
func New(storage service.Storage) *Engine {
	return &Engine{storage: storage}
}

// CreateProject creates a project owned by the account.
func (e *Engine) CreateProject(ctx context.Context, accountID, name, description string) (*model.Project, error) {
	project := &model.Project{
		ID:          uuid.NewString(),
		AccountID:   accountID,
		Name:        name,
		Description: description,
		CreatedAt:   time.Now(),
	}

	if err := e.storage.SaveProject(ctx, project); err != nil {
		common.LogError(err, "failed to create project", common.Fields{"name": name})
		return nil, err
	}

	return project, nil
}

// DeleteProject removes a project and its pipeline.
func (e *Engine) DeleteProject(ctx context.Context, projectID string) error {
	if err := e.storage.DeleteProject(ctx, projectID); err != nil {
		common.LogError(err, "failed to delete project", common.Fields{"project_id": projectID})
		return err
	}
	return nil
}

// CreateInvestor adds one record to the account's master list.
func (e *Engine) CreateInvestor(ctx context.Context, investor *model.Investor) (*model.Investor, error) {
	if investor.ID == "" {
		investor.ID = uuid.NewString()
	}
	if investor.CreatedAt.IsZero() {
		investor.CreatedAt = time.Now()
	}

	if err := e.storage.SaveInvestor(ctx, investor); err != nil {
		common.LogError(err, "failed to create investor", common.Fields{"name": investor.Name})
		return nil, err
	}

	return investor, nil
}

// UpdateInvestor saves edits to an existing master record.
func (e *Engine) UpdateInvestor(ctx context.Context, investor *model.Investor) error {
	if _, err := e.storage.GetInvestor(ctx, investor.ID); err != nil {
		return err
	}
	if err := e.storage.SaveInvestor(ctx, investor); err != nil {
		common.LogError(err, "failed to update investor", common.Fields{"investor_id": investor.ID})
		return err
	}
	return nil
}

// DeleteInvestor removes a master record. The deletion is irreversible;
// pipeline entries referencing it are orphaned and disappear from derived
// views on the next recomputation.
func (e *Engine) DeleteInvestor(ctx context.Context, investorID string) error {
	if err := e.storage.DeleteInvestor(ctx, investorID); err != nil {
		common.LogError(err, "failed to delete investor", common.Fields{"investor_id": investorID})
		return err
	}
	return nil
}

// AddToPipeline creates one pipeline entry per chosen investor in a single
// atomic batch. Each entry starts at the default priority with status "Not
// Contacted" and an empty interaction history. The (project, investor) key is
// reused, so adding an investor that is already present overwrites its entry
// rather than duplicating it.
func (e *Engine) AddToPipeline(ctx context.Context, projectID string, investorIDs []string) error {
	if len(investorIDs) == 0 {
		return common.NewUserError("no investors selected", nil)
	}

	batch := e.storage.NewBatch()
	for _, investorID := range investorIDs {
		entry := model.NewPipelineEntry(projectID, investorID)
		batch.SavePipelineEntry(&entry)
	}

	if err := batch.Commit(ctx); err != nil {
		common.LogError(err, "failed to add investors to pipeline", common.Fields{
			"project_id": projectID,
			"count":      len(investorIDs),
		})
		return err
	}

	slog.Info("Added investors to pipeline", "project_id", projectID, "count", len(investorIDs))
	return nil
}

// Candidates returns the account investors not yet in the project's pipeline,
// narrowed by the optional classification/sector filter. Both filters must
// match when set; an empty filter is no constraint.
func (e *Engine) Candidates(ctx context.Context, accountID, projectID string, filter service.InvestorFilter) ([]model.Investor, error) {
	investors, err := e.storage.GetInvestors(ctx, accountID)
	if err != nil {
		return nil, err
	}

	entries, err := e.storage.GetPipelineEntries(ctx, projectID)
	if err != nil {
		return nil, err
	}

	inPipeline := make(map[string]bool, len(entries))
	for _, entry := range entries {
		inPipeline[entry.InvestorID] = true
	}

	var candidates []model.Investor
	for i := range investors {
		if inPipeline[investors[i].ID] {
			continue
		}
		if !filter.Matches(&investors[i]) {
			continue
		}
		candidates = append(candidates, investors[i])
	}

	return candidates, nil
}

// RemoveFromPipeline deletes an investor's entry from a project's pipeline.
func (e *Engine) RemoveFromPipeline(ctx context.Context, projectID, investorID string) error {
	if err := e.storage.DeletePipelineEntry(ctx, projectID, investorID); err != nil {
		common.LogError(err, "failed to remove investor from pipeline", common.Fields{
			"project_id":  projectID,
			"investor_id": investorID,
		})
		return err
	}
	return nil
}

// UpdateStatus moves a pipeline entry to a new status. Transitions are
// unrestricted; only unknown status values are rejected.
func (e *Engine) UpdateStatus(ctx context.Context, projectID, investorID string, status model.PipelineStatus) error {
	if err := e.storage.UpdatePipelineStatus(ctx, projectID, investorID, status); err != nil {
		common.LogError(err, "failed to update pipeline status", common.Fields{
			"project_id":  projectID,
			"investor_id": investorID,
			"status":      string(status),
		})
		return err
	}
	return nil
}

// UpdatePriority sets a pipeline entry's 1-5 priority.
func (e *Engine) UpdatePriority(ctx context.Context, projectID, investorID string, priority int) error {
	if err := e.storage.UpdatePipelinePriority(ctx, projectID, investorID, priority); err != nil {
		common.LogError(err, "failed to update pipeline priority", common.Fields{
			"project_id":  projectID,
			"investor_id": investorID,
			"priority":    priority,
		})
		return err
	}
	return nil
}

// LogInteraction appends a timestamped interaction to a pipeline entry.
// Previously logged interactions are never modified.
func (e *Engine) LogInteraction(ctx context.Context, projectID, investorID string, interactionType model.InteractionType, notes string) error {
	interaction := model.Interaction{
		Timestamp: time.Now(),
		Type:      interactionType,
		Notes:     notes,
	}

	if err := e.storage.AppendInteraction(ctx, projectID, investorID, interaction); err != nil {
		common.LogError(err, "failed to log interaction", common.Fields{
			"project_id":  projectID,
			"investor_id": investorID,
			"type":        string(interactionType),
		})
		return err
	}
	return nil
}
