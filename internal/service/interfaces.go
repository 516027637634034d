// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/joshsymonds/dealflow/internal/model"
)

// InvestorFilter defines optional filters for candidate queries. Empty fields
// are unconstrained; set fields must all match.
type InvestorFilter struct {
	Classification string
	Sector         string
}

// Matches reports whether an investor satisfies the filter.
func (f InvestorFilter) Matches(inv *model.Investor) bool {
	if f.Classification != "" && inv.Classification != f.Classification {
		return false
	}
	if f.Sector != "" && inv.Sector != f.Sector {
		return false
	}
	return true
}

// Subscription is a handle on a live snapshot feed. Cancel releases it and
// guarantees that no further snapshots are delivered after it returns.
type Subscription interface {
	Cancel()
}

// Storage defines the contract for our persistence layer: a record store with
// account-scoped collections, snapshot subscriptions, and atomic batches.
type Storage interface {
	// Project operations
	SaveProject(ctx context.Context, project *model.Project) error
	GetProject(ctx context.Context, id string) (*model.Project, error)
	GetProjects(ctx context.Context, accountID string) ([]model.Project, error)
	DeleteProject(ctx context.Context, id string) error

	// Investor operations
	SaveInvestor(ctx context.Context, investor *model.Investor) error
	GetInvestor(ctx context.Context, id string) (*model.Investor, error)
	GetInvestors(ctx context.Context, accountID string) ([]model.Investor, error)
	DeleteInvestor(ctx context.Context, id string) error

	// Pipeline operations. Entries are keyed (projectID, investorID); saving
	// an existing key overwrites.
	SavePipelineEntry(ctx context.Context, entry *model.PipelineEntry) error
	GetPipelineEntry(ctx context.Context, projectID, investorID string) (*model.PipelineEntry, error)
	GetPipelineEntries(ctx context.Context, projectID string) ([]model.PipelineEntry, error)
	DeletePipelineEntry(ctx context.Context, projectID, investorID string) error
	UpdatePipelineStatus(ctx context.Context, projectID, investorID string, status model.PipelineStatus) error
	UpdatePipelinePriority(ctx context.Context, projectID, investorID string, priority int) error
	AppendInteraction(ctx context.Context, projectID, investorID string, interaction model.Interaction) error

	// User operations (identity provider backing records)
	SaveUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)

	// Session state shared across invocations.
	SessionAccount(ctx context.Context) (string, error)
	SetSessionAccount(ctx context.Context, accountID string) error

	// Snapshot subscriptions. Every callback receives the complete current
	// state of the collection, never a delta.
	SubscribeProjects(accountID string, fn func([]model.Project)) Subscription
	SubscribeInvestors(accountID string, fn func([]model.Investor)) Subscription
	SubscribePipeline(projectID string, fn func([]model.PipelineEntry)) Subscription

	// NewBatch stages multi-record writes for a single atomic commit.
	NewBatch() Batch

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// Batch stages record writes and commits them atomically: either every staged
// write persists or none do.
type Batch interface {
	SaveInvestor(investor *model.Investor)
	SavePipelineEntry(entry *model.PipelineEntry)
	DeletePipelineEntry(projectID, investorID string)
	Len() int
	Commit(ctx context.Context) error
}

// Identity defines the contract for the authentication provider.
type Identity interface {
	SignUp(ctx context.Context, email, password string) (*model.User, error)
	SignIn(ctx context.Context, email, password string) (*model.User, error)
	SignOut(ctx context.Context) error
	// CurrentAccount returns the signed-in account id, or "" when signed out.
	CurrentAccount(ctx context.Context) (string, error)
	// OnSessionChange registers a listener invoked on every session
	// transition, including sign-out, with the account id or "".
	OnSessionChange(fn func(accountID string)) Subscription
	Close() error
}
