package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS users (
					id TEXT PRIMARY KEY,
					email TEXT UNIQUE NOT NULL,
					password_hash TEXT NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS projects (
					id TEXT PRIMARY KEY,
					account_id TEXT NOT NULL,
					name TEXT NOT NULL,
					description TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_projects_account ON projects(account_id)`,

				`CREATE TABLE IF NOT EXISTS investors (
					id TEXT PRIMARY KEY,
					account_id TEXT NOT NULL,
					name TEXT NOT NULL,
					classification TEXT,
					type TEXT,
					sector TEXT,
					credit_equity TEXT,
					rating INTEGER DEFAULT 0,
					justification TEXT,
					email TEXT,
					email2 TEXT,
					phone TEXT,
					profile_url TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_investors_account ON investors(account_id)`,

				`CREATE TABLE IF NOT EXISTS pipeline_entries (
					project_id TEXT NOT NULL,
					investor_id TEXT NOT NULL,
					priority INTEGER DEFAULT 3,
					status TEXT NOT NULL DEFAULT 'Not Contacted',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					PRIMARY KEY (project_id, investor_id)
				)`,

				`CREATE TABLE IF NOT EXISTS interactions (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					project_id TEXT NOT NULL,
					investor_id TEXT NOT NULL,
					timestamp DATETIME NOT NULL,
					type TEXT NOT NULL,
					notes TEXT
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add session state and interaction lookup index",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				// Single-row table holding the signed-in account between
				// invocations.
				`CREATE TABLE IF NOT EXISTS session (
					id INTEGER PRIMARY KEY CHECK (id = 1),
					account_id TEXT NOT NULL DEFAULT ''
				)`,
				`INSERT OR IGNORE INTO session (id, account_id) VALUES (1, '')`,
				`CREATE INDEX IF NOT EXISTS idx_interactions_entry ON interactions(project_id, investor_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Index investors for candidate filtering",
		Up: func(tx *sql.Tx) error {
			if _, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_investors_classification ON investors(account_id, classification)`); err != nil {
				return fmt.Errorf("failed to create classification index: %w", err)
			}
			if _, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_investors_sector ON investors(account_id, sector)`); err != nil {
				return fmt.Errorf("failed to create sector index: %w", err)
			}
			return nil
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	// Get current version
	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	// Apply migrations
	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		// Update version
		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	// Verify we're at the expected schema version
	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
