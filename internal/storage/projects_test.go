package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshsymonds/dealflow/internal/common"
	"github.com/joshsymonds/dealflow/internal/model"
)

func TestSaveProject(t *testing.T) {
	ctx := context.Background()

	t.Run("create and retrieve", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		project := model.Project{
			ID:          "p1",
			AccountID:   "acct",
			Name:        "Fund II",
			Description: "Second fund raise",
		}
		require.NoError(t, store.SaveProject(ctx, &project))
		assert.False(t, project.CreatedAt.IsZero(), "save should stamp creation time")

		got, err := store.GetProject(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, "Fund II", got.Name)
		assert.Equal(t, "Second fund raise", got.Description)
		assert.Equal(t, "acct", got.AccountID)
	})

	t.Run("save existing id updates in place", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		project := model.Project{ID: "p1", AccountID: "acct", Name: "Old"}
		require.NoError(t, store.SaveProject(ctx, &project))

		project.Name = "New"
		require.NoError(t, store.SaveProject(ctx, &project))

		projects, err := store.GetProjects(ctx, "acct")
		require.NoError(t, err)
		require.Len(t, projects, 1)
		assert.Equal(t, "New", projects[0].Name)
	})

	t.Run("missing name rejected", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		err := store.SaveProject(ctx, &model.Project{ID: "p1", AccountID: "acct"})
		assert.Error(t, err)
	})
}

func TestGetProjects(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"First", "Second", "Third"} {
		project := model.Project{
			ID:        name,
			AccountID: "acct",
			Name:      name,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, store.SaveProject(ctx, &project))
	}
	other := model.Project{ID: "other", AccountID: "someone-else", Name: "Other"}
	require.NoError(t, store.SaveProject(ctx, &other))

	projects, err := store.GetProjects(ctx, "acct")
	require.NoError(t, err)
	require.Len(t, projects, 3, "other accounts' projects must not leak")
	assert.Equal(t, "First", projects[0].Name, "oldest project first")
	assert.Equal(t, "Third", projects[2].Name)
}

func TestGetProjectNotFound(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	_, err := store.GetProject(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeleteProject(t *testing.T) {
	ctx := context.Background()

	t.Run("removes pipeline and interactions", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		project := model.Project{ID: "p1", AccountID: "acct", Name: "Fund"}
		require.NoError(t, store.SaveProject(ctx, &project))

		entry := model.NewPipelineEntry("p1", "inv1")
		require.NoError(t, store.SavePipelineEntry(ctx, &entry))
		require.NoError(t, store.AppendInteraction(ctx, "p1", "inv1", model.Interaction{
			Type:  model.InteractionCall,
			Notes: "intro call",
		}))

		require.NoError(t, store.DeleteProject(ctx, "p1"))

		_, err := store.GetProject(ctx, "p1")
		assert.ErrorIs(t, err, common.ErrNotFound)

		entries, err := store.GetPipelineEntries(ctx, "p1")
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("unknown project", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		err := store.DeleteProject(ctx, "missing")
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}
