package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func fastArgon2() Argon2Params {
	return Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
}

func TestVerifierBcrypt(t *testing.T) {
	v, err := NewVerifier(SchemeBcrypt, bcrypt.MinCost, fastArgon2())
	require.NoError(t, err)

	hash, err := v.Hash("secret123")
	require.NoError(t, err)
	assert.True(t, isBcrypt(hash))
	assert.True(t, v.Matches("secret123", hash))
	assert.False(t, v.Matches("secret124", hash))
}

func TestVerifierArgon2(t *testing.T) {
	v, err := NewVerifier(SchemeArgon2id, bcrypt.MinCost, fastArgon2())
	require.NoError(t, err)

	hash, err := v.Hash("secret123")
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$v=19$m=1024,t=1,p=1$")
	assert.True(t, v.Matches("secret123", hash))
	assert.False(t, v.Matches("wrong", hash))
}

func TestVerifierUsesEmbeddedParameters(t *testing.T) {
	hash, err := NewArgon2Hasher(fastArgon2()).Hash("pw")
	require.NoError(t, err)

	// A verifier configured with different defaults still checks the stored hash.
	v, err := NewVerifier(SchemeArgon2id, 0, Argon2Params{Memory: 2048, Iterations: 2, Parallelism: 2})
	require.NoError(t, err)
	assert.True(t, v.Matches("pw", hash))
}

func TestVerifierRejectsUnknownFormats(t *testing.T) {
	v, err := NewVerifier("", 0, fastArgon2())
	require.NoError(t, err)
	assert.False(t, v.Matches("secret", ""))
	assert.False(t, v.Matches("secret", "secret"))
	assert.False(t, v.Matches("secret", "$argon2id$garbage"))
	assert.False(t, v.Matches("secret", "$2a$10$short"))
}

func TestNewVerifierUnknownScheme(t *testing.T) {
	_, err := NewVerifier("md5", 0, fastArgon2())
	assert.Error(t, err)
}
