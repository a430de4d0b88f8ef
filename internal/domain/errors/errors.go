package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies every failure the authentication core can report.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindInvalidCredentials
	KindAccountLocked
	KindStoreUnavailable
	KindMissingCredential
	KindCredentialExpired
	KindInvalidCredential
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindAccountLocked:
		return "account_locked"
	case KindStoreUnavailable:
		return "store_unavailable"
	case KindMissingCredential:
		return "missing_credential"
	case KindCredentialExpired:
		return "credential_expired"
	case KindInvalidCredential:
		return "invalid_credential"
	case KindInternal:
		return "internal_error"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// HTTPStatus maps a kind to the status the boundary layer responds with.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindInvalidCredentials, KindMissingCredential, KindCredentialExpired, KindInvalidCredential:
		return http.StatusUnauthorized
	case KindAccountLocked:
		return http.StatusForbidden
	case KindStoreUnavailable:
		return http.StatusServiceUnavailable
	case KindInternal:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// Error is a classified failure. Message is safe to show to clients;
// Err holds the underlying cause for server-side logs only.
type Error struct {
	Kind              Kind
	Message           string
	RetryAfterMinutes int
	Details           map[string]any
	Err               error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind, so the sentinels below work
// with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Messages shown to clients. Unknown email and wrong password share one.
const (
	MsgInvalidCredentials = "Invalid email or password."
	MsgMissingCredential  = "Authentication token is required."
	MsgCredentialExpired  = "Session expired. Please log in again."
	MsgInvalidCredential  = "Invalid authentication token."
	MsgStoreUnavailable   = "Service temporarily unavailable. Please try again later."
	MsgInternal           = "An unexpected error occurred on the server."
)

// Sentinel errors for errors.Is checks; match by kind only.
var (
	ErrValidation         = &Error{Kind: KindValidation, Message: "Validation failed"}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Message: MsgInvalidCredentials}
	ErrAccountLocked      = &Error{Kind: KindAccountLocked, Message: "Account is locked."}
	ErrStoreUnavailable   = &Error{Kind: KindStoreUnavailable, Message: MsgStoreUnavailable}
	ErrMissingCredential  = &Error{Kind: KindMissingCredential, Message: MsgMissingCredential}
	ErrCredentialExpired  = &Error{Kind: KindCredentialExpired, Message: MsgCredentialExpired}
	ErrInvalidCredential  = &Error{Kind: KindInvalidCredential, Message: MsgInvalidCredential}
	ErrInternal           = &Error{Kind: KindInternal, Message: MsgInternal}
)

// New returns a classified error with the kind's default message.
func New(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Message: defaultMessage(kind), Err: cause}
}

// Validation returns a KindValidation error with per-field details.
func Validation(message string, details map[string]any) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

// AccountLocked returns a KindAccountLocked error reporting whole minutes left.
func AccountLocked(minutes int) *Error {
	return &Error{
		Kind:              KindAccountLocked,
		Message:           fmt.Sprintf("Account is locked. Please try again in %d minutes.", minutes),
		RetryAfterMinutes: minutes,
	}
}

// As extracts the classified error from err. Anything unclassified becomes
// KindInternal wrapping err.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return New(KindInternal, err)
}

// KindOf returns the kind of err, KindInternal for unclassified errors.
func KindOf(err error) Kind {
	return As(err).Kind
}

func defaultMessage(k Kind) string {
	switch k {
	case KindValidation:
		return ErrValidation.Message
	case KindInvalidCredentials:
		return MsgInvalidCredentials
	case KindAccountLocked:
		return ErrAccountLocked.Message
	case KindStoreUnavailable:
		return MsgStoreUnavailable
	case KindMissingCredential:
		return MsgMissingCredential
	case KindCredentialExpired:
		return MsgCredentialExpired
	case KindInvalidCredential:
		return MsgInvalidCredential
	}
	return MsgInternal
}
