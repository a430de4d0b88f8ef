package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/amirhosseinghanipour/warden/internal/application/ports"
	"github.com/amirhosseinghanipour/warden/internal/domain"
	"github.com/amirhosseinghanipour/warden/internal/infrastructure/persistence/db"
)

// CredentialStore reaches accounts and the attempt log through the
// security.sp_* functions.
type CredentialStore struct {
	q *db.Queries
}

func NewCredentialStore(q *db.Queries) *CredentialStore {
	return &CredentialStore{q: q}
}

func (s *CredentialStore) FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	u, err := s.q.UserGetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return dbUserToDomain(u), nil
}

func (s *CredentialStore) RecordLoginAttempt(ctx context.Context, attempt domain.LoginAttempt) error {
	return s.q.UserLoginAttempt(ctx, db.UserLoginAttemptParams{
		EmailAttempt: attempt.Email,
		IPAddress:    attempt.SourceAddress,
		UserAgent:    attempt.ClientDescriptor,
		Success:      attempt.Outcome == domain.OutcomeSuccess,
	})
}

func (s *CredentialStore) RecordFailure(ctx context.Context, id domain.AccountID, threshold int, lockout time.Duration) error {
	return s.q.UserRecordFailure(ctx, db.UserRecordFailureParams{
		IDUser:         int64(id),
		Threshold:      int32(threshold),
		LockoutSeconds: int64(lockout / time.Second),
	})
}

func (s *CredentialStore) ResetFailures(ctx context.Context, id domain.AccountID) error {
	return s.q.UserResetFailures(ctx, int64(id))
}

func dbUserToDomain(u db.User) *domain.Account {
	var lockoutUntil *time.Time
	if u.LockoutUntil.Valid {
		t := u.LockoutUntil.Time
		lockoutUntil = &t
	}
	return &domain.Account{
		ID:                  domain.AccountID(u.IDUser),
		Name:                u.Name,
		Email:               u.Email,
		PasswordHash:        u.PasswordHash,
		FailedLoginAttempts: int(u.FailedLoginAttempts),
		LockoutUntil:        lockoutUntil,
	}
}

// Ensure CredentialStore implements ports.CredentialStore.
var _ ports.CredentialStore = (*CredentialStore)(nil)
