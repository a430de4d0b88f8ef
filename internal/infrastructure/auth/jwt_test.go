package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhosseinghanipour/warden/internal/domain"
	domerrors "github.com/amirhosseinghanipour/warden/internal/domain/errors"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

const base64URLAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestCodec(c *clock) *TokenCodec {
	return NewTokenCodec(testSecret, "warden", "").WithClock(c.now)
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	c := &clock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	codec := newTestCodec(c)
	in := domain.SessionClaims{AccountID: 42, Email: "u1@x.com", Name: "User One"}

	token, issued, err := codec.Issue(in, 2*time.Hour)
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)
	assert.True(t, issued.IssuedAt.Equal(c.t))
	assert.True(t, issued.ExpiresAt.Equal(c.t.Add(2*time.Hour)))

	c.t = c.t.Add(2*time.Hour - time.Second)
	got, err := codec.Verify(token)
	require.NoError(t, err)
	assert.True(t, got.Equal(issued), "got %+v want %+v", got, issued)
}

func TestVerifyExpired(t *testing.T) {
	c := &clock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	codec := newTestCodec(c)
	token, _, err := codec.Issue(domain.SessionClaims{AccountID: 1, Email: "a@x.com"}, time.Minute)
	require.NoError(t, err)

	c.t = c.t.Add(time.Minute)
	_, err = codec.Verify(token)
	require.Error(t, err)
	assert.Equal(t, domerrors.KindCredentialExpired, domerrors.KindOf(err))
}

func TestVerifyTamperedSignature(t *testing.T) {
	c := &clock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	codec := newTestCodec(c)
	token, _, err := codec.Issue(domain.SessionClaims{AccountID: 1, Email: "a@x.com"}, time.Hour)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	sig := parts[2]
	// Flip bit 0 of each character's base64url value. On the last character
	// that bit is padding, which strict decoding must reject.
	for i := 0; i < len(sig); i++ {
		idx := strings.IndexByte(base64URLAlphabet, sig[i])
		require.GreaterOrEqual(t, idx, 0)
		tampered := parts[0] + "." + parts[1] + "." + sig[:i] + string(base64URLAlphabet[idx^1]) + sig[i+1:]
		_, err := codec.Verify(tampered)
		require.Error(t, err, "position %d", i)
		assert.Equal(t, domerrors.KindInvalidCredential, domerrors.KindOf(err), "position %d", i)
	}
}

func TestVerifyRejectsOtherSecretAndAlgorithms(t *testing.T) {
	c := &clock{t: time.Now()}
	codec := newTestCodec(c)

	other := NewTokenCodec([]byte("another-secret-another-secret-xx"), "warden", "").WithClock(c.now)
	token, _, err := other.Issue(domain.SessionClaims{AccountID: 1}, time.Hour)
	require.NoError(t, err)
	_, err = codec.Verify(token)
	assert.Equal(t, domerrors.KindInvalidCredential, domerrors.KindOf(err))

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"id": 1, "iss": "warden", "exp": c.t.Add(time.Hour).Unix(), "iat": c.t.Unix(),
	})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = codec.Verify(unsigned)
	assert.Equal(t, domerrors.KindInvalidCredential, domerrors.KindOf(err))

	_, err = codec.Verify("not-a-token")
	assert.Equal(t, domerrors.KindInvalidCredential, domerrors.KindOf(err))
}

func TestIssueRejectsNonPositiveTTL(t *testing.T) {
	codec := newTestCodec(&clock{t: time.Now()})
	_, _, err := codec.Issue(domain.SessionClaims{AccountID: 1}, 0)
	assert.Error(t, err)
}

func TestLoadSigningSecret(t *testing.T) {
	_, err := LoadSigningSecret("", "", true)
	assert.Error(t, err)

	_, err = LoadSigningSecret("short", "", false)
	assert.Error(t, err)

	s, err := LoadSigningSecret("short", "", true)
	require.NoError(t, err)
	assert.Equal(t, []byte("short"), s)
}
