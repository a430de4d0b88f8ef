package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/amirhosseinghanipour/warden/internal/application/ports"
	"github.com/amirhosseinghanipour/warden/internal/domain"
)

// CredentialStore is an in-memory ports.CredentialStore suitable for tests and
// single-instance development. For multi-instance, use the PostgreSQL store.
type CredentialStore struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
	attempts []domain.LoginAttempt
	now      func() time.Time
}

func NewCredentialStore() *CredentialStore {
	return &CredentialStore{
		accounts: make(map[string]*domain.Account),
		now:      time.Now,
	}
}

// WithClock replaces the time source used when setting lockout expiry.
func (s *CredentialStore) WithClock(now func() time.Time) *CredentialStore {
	s.now = now
	return s
}

func (s *CredentialStore) key(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Put inserts or replaces an account, keyed by case-insensitive email.
func (s *CredentialStore) Put(a domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[s.key(a.Email)] = &a
}

func (s *CredentialStore) FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[s.key(email)]
	if !ok {
		return nil, nil
	}
	cp := *a
	if a.LockoutUntil != nil {
		t := *a.LockoutUntil
		cp.LockoutUntil = &t
	}
	return &cp, nil
}

func (s *CredentialStore) RecordLoginAttempt(ctx context.Context, attempt domain.LoginAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if attempt.AttemptedAt.IsZero() {
		attempt.AttemptedAt = s.now()
	}
	s.attempts = append(s.attempts, attempt)
	return nil
}

// RecordFailure increments and locks under one critical section, so
// concurrent failures cannot skip the threshold.
func (s *CredentialStore) RecordFailure(ctx context.Context, id domain.AccountID, threshold int, lockout time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.byID(id)
	if a == nil {
		return nil
	}
	now := s.now()
	// An expired lockout starts a fresh count.
	if a.LockoutUntil != nil && !a.LockoutUntil.After(now) {
		a.FailedLoginAttempts = 0
		a.LockoutUntil = nil
	}
	a.FailedLoginAttempts++
	if threshold > 0 && a.FailedLoginAttempts >= threshold {
		until := now.Add(lockout)
		a.LockoutUntil = &until
	}
	return nil
}

func (s *CredentialStore) ResetFailures(ctx context.Context, id domain.AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a := s.byID(id); a != nil {
		a.FailedLoginAttempts = 0
		a.LockoutUntil = nil
	}
	return nil
}

// Attempts returns a copy of the audit log in write order.
func (s *CredentialStore) Attempts() []domain.LoginAttempt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.LoginAttempt, len(s.attempts))
	copy(out, s.attempts)
	return out
}

func (s *CredentialStore) byID(id domain.AccountID) *domain.Account {
	for _, a := range s.accounts {
		if a.ID == id {
			return a
		}
	}
	return nil
}

var _ ports.CredentialStore = (*CredentialStore)(nil)
