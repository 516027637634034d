// Package storage provides the data persistence layer for the dealflow application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/joshsymonds/dealflow/internal/model"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
	ErrEmptySlice   = errors.New("slice cannot be empty")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateInvestor validates an investor record before persisting it.
func validateInvestor(inv *model.Investor) error {
	if inv == nil {
		return fmt.Errorf("%w: investor", ErrNilParameter)
	}
	if inv.ID == "" {
		return fmt.Errorf("investor missing ID")
	}
	if inv.AccountID == "" {
		return fmt.Errorf("investor missing account ID")
	}
	return inv.Validate()
}

// validateProject validates a project record before persisting it.
func validateProject(p *model.Project) error {
	if p == nil {
		return fmt.Errorf("%w: project", ErrNilParameter)
	}
	if p.ID == "" {
		return fmt.Errorf("project missing ID")
	}
	if p.AccountID == "" {
		return fmt.Errorf("project missing account ID")
	}
	return p.Validate()
}

// validatePipelineEntry validates a pipeline entry before persisting it.
func validatePipelineEntry(e *model.PipelineEntry) error {
	if e == nil {
		return fmt.Errorf("%w: pipeline entry", ErrNilParameter)
	}
	return e.Validate()
}

// validateUser validates a user record before persisting it.
func validateUser(u *model.User) error {
	if u == nil {
		return fmt.Errorf("%w: user", ErrNilParameter)
	}
	if u.ID == "" {
		return fmt.Errorf("user missing ID")
	}
	if strings.TrimSpace(u.Email) == "" {
		return fmt.Errorf("user missing email")
	}
	if u.PasswordHash == "" {
		return fmt.Errorf("user missing password hash")
	}
	return nil
}
