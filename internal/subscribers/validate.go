package subscribers

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/torqlabs/torq-news/internal/apperr"
)

// Simplified RFC 5322 address shape.
var emailRegex = regexp.MustCompile(
	`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`,
)

const emailMaxLen = 254

// NormalizeEmail trims, lowercases and validates an address.
func NormalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", apperr.NewValidation("Email address is required")
	}
	if !emailRegex.MatchString(normalized) {
		return "", apperr.NewValidation("Invalid email format")
	}
	if len(normalized) > emailMaxLen {
		return "", apperr.NewValidation("Email address too long (max 254 characters)")
	}
	return normalized, nil
}

// HashIP anonymizes a visitor address to the first 16 hex chars of its
// SHA-256 digest. Empty addresses map to "unknown".
func HashIP(ip string) string {
	if ip == "" {
		return "unknown"
	}
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:])[:16]
}

// EmailDomain returns the part after the last @, the partition key for
// per-domain subscriber queries.
func EmailDomain(email string) string {
	if idx := strings.LastIndex(email, "@"); idx >= 0 {
		return email[idx+1:]
	}
	return ""
}
