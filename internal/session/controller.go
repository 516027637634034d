// Package session tracks the current authenticated identity.
package session

import (
	"sync"

	"github.com/joshsymonds/dealflow/internal/service"
)

// Controller observes the identity provider and exposes the current account
// id, or "" when signed out. Determining is true until the provider's first
// notification arrives; every notification after that, including sign-out,
// clears it.
type Controller struct {
	sub       service.Subscription
	accountID string
	mu        sync.Mutex
	resolved  bool
}

// NewController subscribes to the identity provider's session changes.
func NewController(identity service.Identity) *Controller {
	c := &Controller{}
	c.sub = identity.OnSessionChange(func(accountID string) {
		c.mu.Lock()
		c.accountID = accountID
		c.resolved = true
		c.mu.Unlock()
	})
	return c
}

// AccountID returns the current account id, or "" when signed out.
func (c *Controller) AccountID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accountID
}

// Determining reports whether the initial session state is still unknown.
func (c *Controller) Determining() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.resolved
}

// SignedIn reports whether an account is currently authenticated.
func (c *Controller) SignedIn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolved && c.accountID != ""
}

// Close unsubscribes from the identity provider.
func (c *Controller) Close() {
	c.sub.Cancel()
}
