package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/amirhosseinghanipour/warden/internal/application/ports"
	"github.com/amirhosseinghanipour/warden/internal/domain"
	domerrors "github.com/amirhosseinghanipour/warden/internal/domain/errors"
)

// TokenCodec implements ports.TokenCodec with HS256.
type TokenCodec struct {
	secret   []byte
	issuer   string
	audience string
	now      func() time.Time
}

type sessionClaims struct {
	jwt.RegisteredClaims
	AccountID int64  `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
}

func NewTokenCodec(secret []byte, issuer, audience string) *TokenCodec {
	return &TokenCodec{
		secret:   secret,
		issuer:   issuer,
		audience: audience,
		now:      time.Now,
	}
}

// WithClock replaces the time source for both issuance and verification.
func (c *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	c.now = now
	return c
}

// Issue signs claims with an expiry of now + ttl. The returned claims carry
// the timestamps as embedded in the token (second precision).
func (c *TokenCodec) Issue(claims domain.SessionClaims, ttl time.Duration) (string, domain.SessionClaims, error) {
	if ttl <= 0 {
		return "", domain.SessionClaims{}, errors.New("token ttl must be positive")
	}
	now := c.now().UTC().Truncate(time.Second)
	exp := now.Add(ttl)
	rc := jwt.RegisteredClaims{
		Issuer:    c.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	if c.audience != "" {
		rc.Audience = jwt.ClaimStrings{c.audience}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: rc,
		AccountID:        int64(claims.AccountID),
		Email:            claims.Email,
		Name:             claims.Name,
	})
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", domain.SessionClaims{}, err
	}
	claims.IssuedAt = rc.IssuedAt.Time.UTC()
	claims.ExpiresAt = rc.ExpiresAt.Time.UTC()
	return signed, claims, nil
}

// Verify checks signature, algorithm and expiry. Expiry failures are
// KindCredentialExpired; every other failure is KindInvalidCredential.
func (c *TokenCodec) Verify(tokenString string) (domain.SessionClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}
	if c.audience != "" {
		opts = append(opts, jwt.WithAudience(c.audience))
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) && !errors.Is(err, jwt.ErrTokenSignatureInvalid) && !errors.Is(err, jwt.ErrTokenMalformed) {
			return domain.SessionClaims{}, domerrors.New(domerrors.KindCredentialExpired, err)
		}
		return domain.SessionClaims{}, domerrors.New(domerrors.KindInvalidCredential, err)
	}
	sc, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid || sc.AccountID <= 0 || sc.IssuedAt == nil {
		return domain.SessionClaims{}, domerrors.New(domerrors.KindInvalidCredential, errors.New("invalid token claims"))
	}
	return domain.SessionClaims{
		AccountID: domain.AccountID(sc.AccountID),
		Email:     sc.Email,
		Name:      sc.Name,
		IssuedAt:  sc.IssuedAt.Time.UTC(),
		ExpiresAt: sc.ExpiresAt.Time.UTC(),
	}, nil
}

var _ ports.TokenCodec = (*TokenCodec)(nil)
