package ports

import (
	"time"

	"github.com/amirhosseinghanipour/warden/internal/domain"
)

// PasswordVerifier compares a plaintext secret against a salted hash using
// the hashing primitive's own constant-time comparison.
type PasswordVerifier interface {
	Matches(plaintext, hash string) bool
}

// PasswordHasher produces new hashes (provisioning tools only).
type PasswordHasher interface {
	PasswordVerifier
	Hash(plaintext string) (string, error)
}

// TokenCodec signs and verifies session tokens. Verify fails closed and
// returns a classified *errors.Error.
type TokenCodec interface {
	Issue(claims domain.SessionClaims, ttl time.Duration) (string, domain.SessionClaims, error)
	Verify(token string) (domain.SessionClaims, error)
}
