package domain

import "time"

// AccountID is the store-assigned identity of an account.
type AccountID int64

// Account is a registered identity with stored credentials and lockout state.
type Account struct {
	ID                  AccountID
	Name                string
	Email               string
	PasswordHash        string
	FailedLoginAttempts int
	LockoutUntil        *time.Time
}

// LockedAt returns the remaining lockout at now. Zero means not locked;
// an expiry equal to now no longer blocks.
func (a *Account) LockedAt(now time.Time) time.Duration {
	if a.LockoutUntil == nil || !a.LockoutUntil.After(now) {
		return 0
	}
	return a.LockoutUntil.Sub(now)
}

// Summary returns the public projection of the account.
func (a *Account) Summary() AccountSummary {
	return AccountSummary{ID: a.ID, Name: a.Name, Email: a.Email}
}

// AccountSummary is safe to return to clients.
type AccountSummary struct {
	ID    AccountID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}
