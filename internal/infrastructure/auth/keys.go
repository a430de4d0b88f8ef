package auth

import (
	"errors"
	"os"
	"strings"
)

// MinSecretLength is the shortest HS256 secret accepted outside development.
const MinSecretLength = 32

// LoadSigningSecret returns the HMAC secret from inline configuration or,
// when path is set, from a file (trailing newline trimmed).
func LoadSigningSecret(inline, path string, allowShort bool) ([]byte, error) {
	secret := inline
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		secret = strings.TrimRight(string(b), "\r\n")
	}
	if secret == "" {
		return nil, errors.New("signing secret is empty; set JWT_SECRET or JWT_SECRET_FILE")
	}
	if !allowShort && len(secret) < MinSecretLength {
		return nil, errors.New("signing secret must be at least 32 bytes")
	}
	return []byte(secret), nil
}
