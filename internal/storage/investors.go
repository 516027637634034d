package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/joshsymonds/dealflow/internal/common"
	"github.com/joshsymonds/dealflow/internal/model"
)

// SaveInvestor creates or updates a master investor record.
func (s *SQLiteStorage) SaveInvestor(ctx context.Context, investor *model.Investor) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateInvestor(investor); err != nil {
		return err
	}

	if err := s.saveInvestorTx(ctx, s.db, investor); err != nil {
		return err
	}

	s.notifier.publish(topicInvestors(investor.AccountID))
	return nil
}

func (s *SQLiteStorage) saveInvestorTx(ctx context.Context, q queryable, investor *model.Investor) error {
	if investor.CreatedAt.IsZero() {
		investor.CreatedAt = time.Now()
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO investors (
			id, account_id, name, classification, type, sector, credit_equity,
			rating, justification, email, email2, phone, profile_url, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			classification = excluded.classification,
			type = excluded.type,
			sector = excluded.sector,
			credit_equity = excluded.credit_equity,
			rating = excluded.rating,
			justification = excluded.justification,
			email = excluded.email,
			email2 = excluded.email2,
			phone = excluded.phone,
			profile_url = excluded.profile_url
	`, investor.ID, investor.AccountID, investor.Name, investor.Classification,
		investor.Type, investor.Sector, investor.CreditEquity, investor.Rating,
		investor.Justification, investor.Email, investor.Email2, investor.Phone,
		investor.ProfileURL, investor.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to save investor: %w", err)
	}

	return nil
}

// GetInvestor retrieves a master investor by id.
func (s *SQLiteStorage) GetInvestor(ctx context.Context, id string) (*model.Investor, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var inv model.Investor
	err := s.db.QueryRowContext(ctx, `
		SELECT id, account_id, name, classification, type, sector, credit_equity,
		       rating, justification, email, email2, phone, profile_url, created_at
		FROM investors
		WHERE id = ?
	`, id).Scan(
		&inv.ID, &inv.AccountID, &inv.Name, &inv.Classification, &inv.Type,
		&inv.Sector, &inv.CreditEquity, &inv.Rating, &inv.Justification,
		&inv.Email, &inv.Email2, &inv.Phone, &inv.ProfileURL, &inv.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("investor %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get investor: %w", err)
	}

	return &inv, nil
}

// GetInvestors retrieves the complete master investor list for an account.
func (s *SQLiteStorage) GetInvestors(ctx context.Context, accountID string) ([]model.Investor, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(accountID, "accountID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, account_id, name, classification, type, sector, credit_equity,
		       rating, justification, email, email2, phone, profile_url, created_at
		FROM investors
		WHERE account_id = ?
		ORDER BY name, id
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query investors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var investors []model.Investor
	for rows.Next() {
		var inv model.Investor
		err := rows.Scan(
			&inv.ID, &inv.AccountID, &inv.Name, &inv.Classification, &inv.Type,
			&inv.Sector, &inv.CreditEquity, &inv.Rating, &inv.Justification,
			&inv.Email, &inv.Email2, &inv.Phone, &inv.ProfileURL, &inv.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan investor: %w", err)
		}
		investors = append(investors, inv)
	}

	return investors, rows.Err()
}

// DeleteInvestor removes a master investor record. Pipeline entries that
// reference it are left in place; the joiner filters them from derived views.
// This deletion is irreversible.
func (s *SQLiteStorage) DeleteInvestor(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	investor, err := s.GetInvestor(ctx, id)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM investors WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete investor: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return common.ErrNotFound
	}

	s.notifier.publish(topicInvestors(investor.AccountID))
	return nil
}
