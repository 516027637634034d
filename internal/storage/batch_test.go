package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshsymonds/dealflow/internal/model"
)

func TestBatchCommit(t *testing.T) {
	ctx := context.Background()

	t.Run("all writes land together", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		batch := store.NewBatch()
		for _, name := range []string{"Acme", "Beta", "Gamma"} {
			batch.SaveInvestor(&model.Investor{
				ID: "inv-" + name, AccountID: "acct", Name: name,
			})
		}
		assert.Equal(t, 3, batch.Len())

		require.NoError(t, batch.Commit(ctx))

		investors, err := store.GetInvestors(ctx, "acct")
		require.NoError(t, err)
		assert.Len(t, investors, 3)
	})

	t.Run("invalid staged write fails the whole batch", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		batch := store.NewBatch()
		batch.SaveInvestor(&model.Investor{ID: "inv1", AccountID: "acct", Name: "Acme"})
		batch.SaveInvestor(&model.Investor{ID: "inv2", AccountID: "acct"}) // no name

		err := batch.Commit(ctx)
		require.Error(t, err)

		investors, getErr := store.GetInvestors(ctx, "acct")
		require.NoError(t, getErr)
		assert.Empty(t, investors, "either every write persists or none do")
	})

	t.Run("failed op rolls back earlier writes", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		entry := model.NewPipelineEntry("p1", "inv1")

		batch := store.NewBatch()
		batch.SavePipelineEntry(&entry)
		batch.DeletePipelineEntry("p1", "nonexistent")

		err := batch.Commit(ctx)
		require.Error(t, err)

		entries, getErr := store.GetPipelineEntries(ctx, "p1")
		require.NoError(t, getErr)
		assert.Empty(t, entries)
	})

	t.Run("empty batch rejected", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		err := store.NewBatch().Commit(ctx)
		assert.ErrorIs(t, err, ErrEmptySlice)
	})

	t.Run("mixed saves and deletes", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		existing := model.NewPipelineEntry("p1", "old")
		require.NoError(t, store.SavePipelineEntry(ctx, &existing))

		incoming := model.NewPipelineEntry("p1", "new")

		batch := store.NewBatch()
		batch.SavePipelineEntry(&incoming)
		batch.DeletePipelineEntry("p1", "old")
		require.NoError(t, batch.Commit(ctx))

		entries, err := store.GetPipelineEntries(ctx, "p1")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "new", entries[0].InvestorID)
	})
}

func TestBatchNotifiesOnce(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	deliveries := 0
	sub := store.SubscribeInvestors("acct", func([]model.Investor) {
		deliveries++
	})
	defer sub.Cancel()
	require.Equal(t, 1, deliveries)

	batch := store.NewBatch()
	for _, name := range []string{"Acme", "Beta", "Gamma"} {
		batch.SaveInvestor(&model.Investor{ID: "inv-" + name, AccountID: "acct", Name: name})
	}
	require.NoError(t, batch.Commit(ctx))

	assert.Equal(t, 2, deliveries, "one snapshot per topic per commit, not per write")
}

func TestBatchNothingVisibleBeforeCommit(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	batch := store.NewBatch()
	batch.SaveInvestor(&model.Investor{ID: "inv1", AccountID: "acct", Name: "Acme"})

	investors, err := store.GetInvestors(ctx, "acct")
	require.NoError(t, err)
	assert.Empty(t, investors, "staging writes nothing")
}
