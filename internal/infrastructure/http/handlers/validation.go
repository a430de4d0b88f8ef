package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits.
const (
	MaxEmailLength = 254
	MaxBodyBytes   = 1 << 16
	MaxClientBytes = 512
	unknownClient  = "unknown"
)

// SanitizeEmail trims and lowercases email; returns empty if invalid length.
func SanitizeEmail(email string) string {
	s := strings.TrimSpace(strings.ToLower(email))
	if len(s) > MaxEmailLength {
		return ""
	}
	return s
}

// ClientDescriptor returns the User-Agent as valid UTF-8 of at most
// MaxClientBytes, cut on a rune boundary, or "unknown" when absent.
func ClientDescriptor(userAgent string) string {
	ua := strings.TrimSpace(strings.ToValidUTF8(userAgent, ""))
	if ua == "" {
		return unknownClient
	}
	if len(ua) > MaxClientBytes {
		cut := MaxClientBytes
		for cut > 0 && !utf8.RuneStart(ua[cut]) {
			cut--
		}
		ua = ua[:cut]
	}
	return ua
}
