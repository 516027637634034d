// Package auth implements the identity provider over local storage.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/joshsymonds/dealflow/internal/common"
	"github.com/joshsymonds/dealflow/internal/model"
	"github.com/joshsymonds/dealflow/internal/service"
)

// MinPasswordLength is the provider's password policy.
const MinPasswordLength = 6

// Provider is a local email/password identity provider. Credentials live in
// the record store; the signed-in account persists across invocations via the
// store's session state. Session-change listeners are notified on every
// transition, including sign-out.
type Provider struct {
	storage   service.Storage
	listeners map[int]func(accountID string)
	mu        sync.Mutex
	nextID    int
}

// NewProvider creates an identity provider backed by the given storage.
func NewProvider(storage service.Storage) *Provider {
	return &Provider{
		storage:   storage,
		listeners: make(map[int]func(accountID string)),
	}
}

// SignUp registers a new account and signs it in.
func (p *Provider) SignUp(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, common.NewUserError("email is required", nil)
	}
	if len(password) < MinPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters: %w", MinPasswordLength, common.ErrWeakPassword)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
	}

	if err := p.storage.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	if err := p.storage.SetSessionAccount(ctx, user.ID); err != nil {
		return nil, err
	}

	slog.Info("Account created", "email", email)
	p.notify(user.ID)
	return user, nil
}

// SignIn authenticates an existing account. Unknown emails and wrong
// passwords yield the same error so callers cannot probe for registered
// addresses.
func (p *Provider) SignIn(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := p.storage.GetUserByEmail(ctx, email)
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}

	if err := p.storage.SetSessionAccount(ctx, user.ID); err != nil {
		return nil, err
	}

	p.notify(user.ID)
	return user, nil
}

// SignOut clears the current session.
func (p *Provider) SignOut(ctx context.Context) error {
	if err := p.storage.SetSessionAccount(ctx, ""); err != nil {
		return err
	}

	p.notify("")
	return nil
}

// CurrentAccount returns the signed-in account id, or "" when signed out.
func (p *Provider) CurrentAccount(ctx context.Context) (string, error) {
	return p.storage.SessionAccount(ctx)
}

// OnSessionChange registers a listener for session transitions. The listener
// is immediately invoked with the current session state so new observers
// never wait for the next transition.
func (p *Provider) OnSessionChange(fn func(accountID string)) service.Subscription {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	p.mu.Unlock()

	current, err := p.storage.SessionAccount(context.Background())
	if err != nil {
		slog.Error("session state lookup failed", "error", err)
		current = ""
	}
	fn(current)

	return &listenerSubscription{provider: p, id: id}
}

// Close drops all listeners.
func (p *Provider) Close() error {
	p.mu.Lock()
	p.listeners = make(map[int]func(accountID string))
	p.mu.Unlock()
	return nil
}

func (p *Provider) notify(accountID string) {
	p.mu.Lock()
	fns := make([]func(string), 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(accountID)
	}
}

type listenerSubscription struct {
	provider *Provider
	id       int
}

func (s *listenerSubscription) Cancel() {
	s.provider.mu.Lock()
	delete(s.provider.listeners, s.id)
	s.provider.mu.Unlock()
}
