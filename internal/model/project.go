package model

import (
	"fmt"
	"strings"
	"time"
)

// Project represents one fundraising effort. Investors are attached to a
// project through pipeline entries.
type Project struct {
	CreatedAt   time.Time
	ID          string
	AccountID   string
	Name        string
	Description string
}

// Validate checks that a project is well-formed enough to persist.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("project missing name")
	}
	return nil
}
