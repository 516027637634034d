// Package model defines the core domain types shared across the application.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Investor represents a single record in the account-wide master list,
// independent of any project.
type Investor struct {
	CreatedAt      time.Time
	ID             string
	AccountID      string
	Name           string
	Classification string // e.g. VC, Angel, Family Office
	Type           string
	Sector         string
	CreditEquity   string
	Justification  string
	Email          string
	Email2         string
	Phone          string
	ProfileURL     string
	Rating         int // 0-5 overall rating
}

// Validate checks that an investor record is well-formed enough to persist.
func (inv *Investor) Validate() error {
	if strings.TrimSpace(inv.Name) == "" {
		return fmt.Errorf("investor missing name")
	}
	if inv.Rating < 0 || inv.Rating > 5 {
		return fmt.Errorf("investor rating must be between 0 and 5, got %d", inv.Rating)
	}
	return nil
}
