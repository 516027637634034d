package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshsymonds/dealflow/internal/common"
	"github.com/joshsymonds/dealflow/internal/model"
	"github.com/joshsymonds/dealflow/internal/service"
	"github.com/joshsymonds/dealflow/internal/testutil"
)

func TestCreateProject(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	eng := New(db.Storage)

	project, err := eng.CreateProject(ctx, testutil.TestAccountID, "Fund II", "Second raise")
	require.NoError(t, err)
	assert.NotEmpty(t, project.ID)
	assert.False(t, project.CreatedAt.IsZero())

	got, err := db.Storage.GetProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fund II", got.Name)
}

func TestAddToPipeline(t *testing.T) {
	ctx := context.Background()

	t.Run("entries start with defaults", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		eng := New(db.Storage)

		project := db.SeedProject("fund")
		a := db.SeedInvestor("Acme", "VC", "Fintech")
		b := db.SeedInvestor("Beta", "Angel", "Climate")

		require.NoError(t, eng.AddToPipeline(ctx, project.ID, []string{a.ID, b.ID}))

		entries, err := db.Storage.GetPipelineEntries(ctx, project.ID)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		for _, entry := range entries {
			assert.Equal(t, model.StatusNotContacted, entry.Status)
			assert.Equal(t, model.DefaultPriority, entry.Priority)
			assert.Empty(t, entry.Interactions)
		}
	})

	t.Run("re-adding resets rather than duplicating", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		eng := New(db.Storage)

		project := db.SeedProject("fund")
		inv := db.SeedInvestor("Acme", "VC", "Fintech")

		require.NoError(t, eng.AddToPipeline(ctx, project.ID, []string{inv.ID}))
		require.NoError(t, eng.UpdateStatus(ctx, project.ID, inv.ID, model.StatusInvested))

		require.NoError(t, eng.AddToPipeline(ctx, project.ID, []string{inv.ID}))

		entries, err := db.Storage.GetPipelineEntries(ctx, project.ID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, model.StatusNotContacted, entries[0].Status)
	})

	t.Run("empty selection rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		eng := New(db.Storage)

		err := eng.AddToPipeline(ctx, "p1", nil)
		assert.Error(t, err)
	})
}

func TestCandidates(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	eng := New(db.Storage)

	project := db.SeedProject("fund")
	inPipeline := db.SeedInvestor("Acme", "VC", "Fintech")
	vcClimate := db.SeedInvestor("Beta", "VC", "Climate")
	angel := db.SeedInvestor("Gamma", "Angel", "Fintech")
	db.SeedPipelineEntry(project.ID, inPipeline.ID)

	t.Run("excludes investors already in the pipeline", func(t *testing.T) {
		candidates, err := eng.Candidates(ctx, testutil.TestAccountID, project.ID, service.InvestorFilter{})
		require.NoError(t, err)
		require.Len(t, candidates, 2)
		for _, c := range candidates {
			assert.NotEqual(t, inPipeline.ID, c.ID)
		}
	})

	t.Run("classification filter", func(t *testing.T) {
		candidates, err := eng.Candidates(ctx, testutil.TestAccountID, project.ID, service.InvestorFilter{
			Classification: "VC",
		})
		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, vcClimate.ID, candidates[0].ID)
	})

	t.Run("both filters must match", func(t *testing.T) {
		candidates, err := eng.Candidates(ctx, testutil.TestAccountID, project.ID, service.InvestorFilter{
			Classification: "Angel",
			Sector:         "Fintech",
		})
		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, angel.ID, candidates[0].ID)

		candidates, err = eng.Candidates(ctx, testutil.TestAccountID, project.ID, service.InvestorFilter{
			Classification: "Angel",
			Sector:         "Climate",
		})
		require.NoError(t, err)
		assert.Empty(t, candidates)
	})
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	eng := New(db.Storage)

	project := db.SeedProject("fund")
	inv := db.SeedInvestor("Acme", "VC", "Fintech")
	db.SeedPipelineEntry(project.ID, inv.ID)

	require.NoError(t, eng.UpdateStatus(ctx, project.ID, inv.ID, model.StatusMeetingScheduled))

	entry, err := db.Storage.GetPipelineEntry(ctx, project.ID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusMeetingScheduled, entry.Status)

	assert.Error(t, eng.UpdateStatus(ctx, project.ID, inv.ID, "Ghosted"))
	assert.ErrorIs(t, eng.UpdateStatus(ctx, project.ID, "missing", model.StatusContacted), common.ErrNotFound)
}

func TestLogInteraction(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	eng := New(db.Storage)

	project := db.SeedProject("fund")
	inv := db.SeedInvestor("Acme", "VC", "Fintech")
	db.SeedPipelineEntry(project.ID, inv.ID)

	require.NoError(t, eng.LogInteraction(ctx, project.ID, inv.ID, model.InteractionEmail, "sent deck"))
	require.NoError(t, eng.LogInteraction(ctx, project.ID, inv.ID, model.InteractionCall, "partner call"))

	entry, err := db.Storage.GetPipelineEntry(ctx, project.ID, inv.ID)
	require.NoError(t, err)
	require.Len(t, entry.Interactions, 2)
	assert.Equal(t, "sent deck", entry.Interactions[0].Notes, "earlier interactions are untouched")
	assert.Equal(t, "partner call", entry.Interactions[1].Notes)
	assert.False(t, entry.Interactions[1].Timestamp.IsZero())
}

func TestRemoveFromPipeline(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	eng := New(db.Storage)

	project := db.SeedProject("fund")
	inv := db.SeedInvestor("Acme", "VC", "Fintech")
	db.SeedPipelineEntry(project.ID, inv.ID)

	require.NoError(t, eng.RemoveFromPipeline(ctx, project.ID, inv.ID))

	_, err := db.Storage.GetPipelineEntry(ctx, project.ID, inv.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	// The master record is untouched.
	_, err = db.Storage.GetInvestor(ctx, inv.ID)
	assert.NoError(t, err)
}

func TestDeleteInvestor(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	eng := New(db.Storage)

	inv := db.SeedInvestor("Acme", "VC", "Fintech")

	require.NoError(t, eng.DeleteInvestor(ctx, inv.ID))
	assert.ErrorIs(t, eng.DeleteInvestor(ctx, inv.ID), common.ErrNotFound)
}

func TestUpdateInvestor(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	eng := New(db.Storage)

	inv := db.SeedInvestor("Acme", "VC", "Fintech")
	inv.Rating = 5
	require.NoError(t, eng.UpdateInvestor(ctx, &inv))

	got, err := db.Storage.GetInvestor(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Rating)

	missing := model.Investor{ID: "missing", AccountID: testutil.TestAccountID, Name: "Ghost"}
	assert.ErrorIs(t, eng.UpdateInvestor(ctx, &missing), common.ErrNotFound)
}
