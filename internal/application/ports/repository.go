package ports

import (
	"context"
	"time"

	"github.com/amirhosseinghanipour/warden/internal/domain"
)

// CredentialStore is the gateway to durable account and audit storage.
// Every call is a synchronous round trip; the authenticator never retries.
type CredentialStore interface {
	// FindAccountByEmail returns nil, nil when no account matches.
	FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error)
	// RecordLoginAttempt appends one audit record.
	RecordLoginAttempt(ctx context.Context, attempt domain.LoginAttempt) error
	// RecordFailure atomically increments the failure counter and, when it
	// reaches threshold, sets lockout expiry to now + lockout.
	RecordFailure(ctx context.Context, id domain.AccountID, threshold int, lockout time.Duration) error
	// ResetFailures clears the failure counter and any expired lockout.
	ResetFailures(ctx context.Context, id domain.AccountID) error
}
