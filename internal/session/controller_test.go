package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshsymonds/dealflow/internal/auth"
	"github.com/joshsymonds/dealflow/internal/testutil"
)

func TestController(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves signed-out state on construction", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		provider := auth.NewProvider(db.Storage)
		defer func() { _ = provider.Close() }()

		controller := NewController(provider)
		defer controller.Close()

		assert.False(t, controller.Determining(), "the provider reports current state immediately")
		assert.False(t, controller.SignedIn())
		assert.Empty(t, controller.AccountID())
	})

	t.Run("tracks sign-in and sign-out", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		provider := auth.NewProvider(db.Storage)
		defer func() { _ = provider.Close() }()

		controller := NewController(provider)
		defer controller.Close()

		user, err := provider.SignUp(ctx, "founder@example.com", "hunter22")
		require.NoError(t, err)
		assert.True(t, controller.SignedIn())
		assert.Equal(t, user.ID, controller.AccountID())

		require.NoError(t, provider.SignOut(ctx))
		assert.False(t, controller.SignedIn())
		assert.Empty(t, controller.AccountID())
		assert.False(t, controller.Determining(), "sign-out is a resolved state, not an unknown one")
	})

	t.Run("picks up a pre-existing session", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		provider := auth.NewProvider(db.Storage)
		defer func() { _ = provider.Close() }()

		user, err := provider.SignUp(ctx, "founder@example.com", "hunter22")
		require.NoError(t, err)

		controller := NewController(provider)
		defer controller.Close()

		assert.True(t, controller.SignedIn())
		assert.Equal(t, user.ID, controller.AccountID())
	})

	t.Run("closed controller stops tracking", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		provider := auth.NewProvider(db.Storage)
		defer func() { _ = provider.Close() }()

		controller := NewController(provider)
		controller.Close()

		_, err := provider.SignUp(ctx, "founder@example.com", "hunter22")
		require.NoError(t, err)

		assert.Empty(t, controller.AccountID())
	})
}
