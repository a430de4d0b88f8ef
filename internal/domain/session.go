package domain

import "time"

// SessionClaims is the identity payload carried inside a session token.
type SessionClaims struct {
	AccountID AccountID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// Equal reports structural equality; instants compare with time.Equal.
func (c SessionClaims) Equal(o SessionClaims) bool {
	return c.AccountID == o.AccountID &&
		c.Email == o.Email &&
		c.Name == o.Name &&
		c.IssuedAt.Equal(o.IssuedAt) &&
		c.ExpiresAt.Equal(o.ExpiresAt)
}
