package security

import (
	"fmt"
	"strings"

	"github.com/amirhosseinghanipour/warden/internal/application/ports"
)

// Scheme names accepted by NewVerifier.
const (
	SchemeBcrypt   = "bcrypt"
	SchemeArgon2id = "argon2id"
)

// Verifier accepts bcrypt and Argon2id hashes side by side and hashes new
// passwords with the configured scheme.
type Verifier struct {
	bcrypt *BcryptHasher
	argon2 *Argon2Hasher
	scheme string
}

func NewVerifier(scheme string, bcryptCost int, argon2Params Argon2Params) (*Verifier, error) {
	switch scheme {
	case SchemeBcrypt, SchemeArgon2id:
	case "":
		scheme = SchemeBcrypt
	default:
		return nil, fmt.Errorf("unknown password scheme %q", scheme)
	}
	return &Verifier{
		bcrypt: NewBcryptHasher(bcryptCost),
		argon2: NewArgon2Hasher(argon2Params),
		scheme: scheme,
	}, nil
}

// Matches never matches a hash it cannot identify.
func (v *Verifier) Matches(plaintext, hash string) bool {
	switch {
	case isBcrypt(hash):
		return v.bcrypt.Matches(plaintext, hash)
	case strings.HasPrefix(hash, argon2Prefix):
		return v.argon2.Matches(plaintext, hash)
	}
	return false
}

func (v *Verifier) Hash(plaintext string) (string, error) {
	if v.scheme == SchemeArgon2id {
		return v.argon2.Hash(plaintext)
	}
	return v.bcrypt.Hash(plaintext)
}

var _ ports.PasswordHasher = (*Verifier)(nil)
