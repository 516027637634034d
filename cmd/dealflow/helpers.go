package main

import (
	"context"
	"fmt"

	"github.com/joshsymonds/dealflow/internal/common"
	"github.com/joshsymonds/dealflow/internal/config"
	"github.com/joshsymonds/dealflow/internal/storage"
)

// openStorage opens the configured record store and runs pending migrations.
// The caller owns the returned storage and must close it.
func openStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate storage: %w", err)
	}

	return store, nil
}

// requireAccount returns the signed-in account id or an error directing the
// user to sign in.
func requireAccount(ctx context.Context, store *storage.SQLiteStorage) (string, error) {
	accountID, err := store.SessionAccount(ctx)
	if err != nil {
		return "", err
	}
	if accountID == "" {
		return "", common.NewUserError("sign in first with 'dealflow auth login'", common.ErrNotSignedIn)
	}
	return accountID, nil
}

// resolveProject picks the project to operate on: an explicit --project flag
// value when given, otherwise the account's first project.
func resolveProject(ctx context.Context, store *storage.SQLiteStorage, accountID, flagValue string) (string, error) {
	if flagValue != "" {
		project, err := store.GetProject(ctx, flagValue)
		if err != nil {
			return "", err
		}
		return project.ID, nil
	}

	projects, err := store.GetProjects(ctx, accountID)
	if err != nil {
		return "", err
	}
	if len(projects) == 0 {
		return "", common.NewUserError("no projects yet; create one with 'dealflow projects add'", nil)
	}
	return projects[0].ID, nil
}
