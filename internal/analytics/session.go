package analytics

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// SessionID returns the client cookie value when present. Without a cookie
// it derives a stable id from the visitor address, user agent and current
// hour, so one visitor maps to one session within the hour.
func SessionID(cookie, ip, userAgent string, now time.Time) string {
	if cookie != "" {
		return cookie
	}
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s%s%d", ip, userAgent, now.Hour())))
	return hex.EncodeToString(sum[:])[:16]
}

// HashIP is the anonymized form a visitor address is stored under.
func HashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:])[:16]
}
