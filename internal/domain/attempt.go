package domain

import "time"

// AttemptOutcome is the result recorded for a login attempt.
type AttemptOutcome string

const (
	OutcomeSuccess AttemptOutcome = "success"
	OutcomeFailure AttemptOutcome = "failure"
)

// LoginAttempt is an immutable audit record of one authentication attempt.
// Email is whatever was submitted, even when no account matches it.
type LoginAttempt struct {
	Email            string
	SourceAddress    string
	ClientDescriptor string
	Outcome          AttemptOutcome
	AttemptedAt      time.Time
}
