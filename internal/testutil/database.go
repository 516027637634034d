// Package testutil provides shared fixtures for tests that need a real
// record store.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/joshsymonds/dealflow/internal/model"
	"github.com/joshsymonds/dealflow/internal/service"
	"github.com/joshsymonds/dealflow/internal/storage"
)

// TestAccountID is the account every fixture record belongs to.
const TestAccountID = "test-account"

// TestDB wraps an in-memory migrated record store with seeding helpers.
type TestDB struct {
	Storage service.Storage
	t       *testing.T
}

// SetupTestDB creates an in-memory record store, runs migrations, and
// registers cleanup.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{
		Storage: store,
		t:       t,
	}
}

// SeedProject inserts a project owned by the test account and returns it.
func (db *TestDB) SeedProject(name string) model.Project {
	db.t.Helper()

	project := model.Project{
		ID:        "project-" + name,
		AccountID: TestAccountID,
		Name:      name,
		CreatedAt: time.Now(),
	}
	if err := db.Storage.SaveProject(context.Background(), &project); err != nil {
		db.t.Fatalf("failed to seed project %q: %v", name, err)
	}
	return project
}

// SeedInvestor inserts a master investor for the test account and returns it.
func (db *TestDB) SeedInvestor(name, classification, sector string) model.Investor {
	db.t.Helper()

	investor := model.Investor{
		ID:             "investor-" + name,
		AccountID:      TestAccountID,
		Name:           name,
		Classification: classification,
		Sector:         sector,
		Rating:         3,
		CreatedAt:      time.Now(),
	}
	if err := db.Storage.SaveInvestor(context.Background(), &investor); err != nil {
		db.t.Fatalf("failed to seed investor %q: %v", name, err)
	}
	return investor
}

// SeedPipelineEntry attaches an investor to a project with defaults and
// returns the entry.
func (db *TestDB) SeedPipelineEntry(projectID, investorID string) model.PipelineEntry {
	db.t.Helper()

	entry := model.NewPipelineEntry(projectID, investorID)
	if err := db.Storage.SavePipelineEntry(context.Background(), &entry); err != nil {
		db.t.Fatalf("failed to seed pipeline entry %s/%s: %v", projectID, investorID, err)
	}
	return entry
}

// SeedUser inserts an identity record and returns it.
func (db *TestDB) SeedUser(email, passwordHash string) model.User {
	db.t.Helper()

	user := model.User{
		ID:           fmt.Sprintf("user-%s", email),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	if err := db.Storage.SaveUser(context.Background(), &user); err != nil {
		db.t.Fatalf("failed to seed user %q: %v", email, err)
	}
	return user
}
