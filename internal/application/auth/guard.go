package auth

import (
	"strings"

	"github.com/amirhosseinghanipour/warden/internal/application/ports"
	"github.com/amirhosseinghanipour/warden/internal/domain"
	domerrors "github.com/amirhosseinghanipour/warden/internal/domain/errors"
)

const bearerPrefix = "Bearer "

// SessionGuard checks a presented bearer credential. It trusts the signature
// alone and never consults the store, so claims can lag account state until
// the token expires.
type SessionGuard struct {
	codec ports.TokenCodec
}

func NewSessionGuard(codec ports.TokenCodec) *SessionGuard {
	return &SessionGuard{codec: codec}
}

// Authorize takes the raw Authorization header value.
func (g *SessionGuard) Authorize(presented string) (domain.SessionClaims, error) {
	if !strings.HasPrefix(presented, bearerPrefix) {
		return domain.SessionClaims{}, domerrors.ErrMissingCredential
	}
	token := strings.TrimSpace(strings.TrimPrefix(presented, bearerPrefix))
	if token == "" || strings.ContainsAny(token, " \t") {
		return domain.SessionClaims{}, domerrors.ErrMissingCredential
	}
	claims, err := g.codec.Verify(token)
	if err != nil {
		if domerrors.KindOf(err) == domerrors.KindCredentialExpired {
			return domain.SessionClaims{}, domerrors.New(domerrors.KindCredentialExpired, err)
		}
		return domain.SessionClaims{}, domerrors.New(domerrors.KindInvalidCredential, err)
	}
	return claims, nil
}
