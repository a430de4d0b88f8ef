package auth

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/amirhosseinghanipour/warden/internal/application/ports"
	"github.com/amirhosseinghanipour/warden/internal/domain"
	domerrors "github.com/amirhosseinghanipour/warden/internal/domain/errors"
)

const (
	DefaultStandardTTL   = 2 * time.Hour
	DefaultRememberMeTTL = 30 * 24 * time.Hour
	DefaultLockoutAfter  = 5
	DefaultLockoutFor    = 15 * time.Minute
)

type LoginInput struct {
	Email            string `validate:"required,email,max=254"`
	Password         string `validate:"required,max=128"`
	RememberMe       bool
	SourceAddress    string
	ClientDescriptor string
}

type LoginResult struct {
	Token  string
	Claims domain.SessionClaims
	User   domain.AccountSummary
}

// Policy holds the token lifetimes and the lockout rule handed to the store.
type Policy struct {
	StandardTTL   time.Duration
	RememberMeTTL time.Duration
	// LockoutThreshold is the consecutive failure count that locks an
	// account. 0 disables counting.
	LockoutThreshold int
	LockoutDuration  time.Duration
}

// Authenticator turns an email/password pair into a session token. It keeps
// no per-call state and is safe for concurrent use.
type Authenticator struct {
	store    ports.CredentialStore
	verifier ports.PasswordVerifier
	codec    ports.TokenCodec
	policy   Policy
	validate *validator.Validate
	now      func() time.Time
}

func NewAuthenticator(store ports.CredentialStore, verifier ports.PasswordVerifier, codec ports.TokenCodec, policy Policy) *Authenticator {
	if policy.StandardTTL <= 0 {
		policy.StandardTTL = DefaultStandardTTL
	}
	if policy.RememberMeTTL <= 0 {
		policy.RememberMeTTL = DefaultRememberMeTTL
	}
	if policy.LockoutThreshold < 0 {
		policy.LockoutThreshold = 0
	}
	if policy.LockoutDuration <= 0 {
		policy.LockoutDuration = DefaultLockoutFor
	}
	return &Authenticator{
		store:    store,
		verifier: verifier,
		codec:    codec,
		policy:   policy,
		validate: validator.New(),
		now:      time.Now,
	}
}

// WithClock replaces the time source used for lockout evaluation.
func (a *Authenticator) WithClock(now func() time.Time) *Authenticator {
	a.now = now
	return a
}

// Authenticate runs lookup, lockout check, password check, audit write and
// token issuance, stopping at the first failure. Every path past input
// validation writes exactly one attempt record, and a token is only issued
// after the success record is written. Errors are *domerrors.Error.
func (a *Authenticator) Authenticate(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if err := a.validate.Struct(&in); err != nil {
		return nil, validationError(err)
	}

	account, err := a.store.FindAccountByEmail(ctx, in.Email)
	if err != nil {
		return nil, domerrors.New(domerrors.KindStoreUnavailable, err)
	}
	if account == nil {
		return nil, a.reject(ctx, in, domerrors.ErrInvalidCredentials)
	}

	now := a.now()
	if remaining := account.LockedAt(now); remaining > 0 {
		return nil, a.reject(ctx, in, domerrors.AccountLocked(ceilMinutes(remaining)))
	}

	if !a.verifier.Matches(in.Password, account.PasswordHash) {
		if err := a.record(ctx, in, domain.OutcomeFailure, now); err != nil {
			return nil, err
		}
		if a.policy.LockoutThreshold > 0 {
			if err := a.store.RecordFailure(ctx, account.ID, a.policy.LockoutThreshold, a.policy.LockoutDuration); err != nil {
				return nil, domerrors.New(domerrors.KindStoreUnavailable, err)
			}
		}
		return nil, domerrors.ErrInvalidCredentials
	}

	if err := a.record(ctx, in, domain.OutcomeSuccess, now); err != nil {
		return nil, err
	}
	if account.FailedLoginAttempts > 0 {
		if err := a.store.ResetFailures(ctx, account.ID); err != nil {
			return nil, domerrors.New(domerrors.KindStoreUnavailable, err)
		}
	}

	ttl := a.policy.StandardTTL
	if in.RememberMe {
		ttl = a.policy.RememberMeTTL
	}
	token, claims, err := a.codec.Issue(domain.SessionClaims{
		AccountID: account.ID,
		Email:     account.Email,
		Name:      account.Name,
	}, ttl)
	if err != nil {
		return nil, domerrors.New(domerrors.KindInternal, err)
	}
	return &LoginResult{
		Token:  token,
		Claims: claims,
		User:   account.Summary(),
	}, nil
}

// reject writes a failure record and returns cause, or StoreUnavailable when
// the write itself failed.
func (a *Authenticator) reject(ctx context.Context, in LoginInput, cause *domerrors.Error) error {
	if err := a.record(ctx, in, domain.OutcomeFailure, a.now()); err != nil {
		return err
	}
	return cause
}

func (a *Authenticator) record(ctx context.Context, in LoginInput, outcome domain.AttemptOutcome, at time.Time) error {
	err := a.store.RecordLoginAttempt(ctx, domain.LoginAttempt{
		Email:            in.Email,
		SourceAddress:    in.SourceAddress,
		ClientDescriptor: in.ClientDescriptor,
		Outcome:          outcome,
		AttemptedAt:      at,
	})
	if err != nil {
		return domerrors.New(domerrors.KindStoreUnavailable, err)
	}
	return nil
}

// ceilMinutes rounds a positive duration up to whole minutes.
func ceilMinutes(d time.Duration) int {
	return int((d + time.Minute - 1) / time.Minute)
}

func validationError(err error) *domerrors.Error {
	details := map[string]any{}
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			details[strings.ToLower(fe.Field())] = fe.Tag()
		}
	}
	return domerrors.Validation("Validation failed", details)
}
