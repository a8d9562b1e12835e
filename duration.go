package auth

import (
	"regexp"
	"strconv"
	"time"
)

// DefaultRefreshExpiry is the fallback horizon when an expiry string
// cannot be parsed.
const DefaultRefreshExpiry = 7 * 24 * time.Hour

var expiryPattern = regexp.MustCompile(`^(\d+)([smhd])$`)

// ParseExpiry parses a compact expiry string: an integer followed by one
// of s, m, h, or d. Malformed input yields the 7-day default and ok=false,
// so callers that want strict behavior can reject at configuration load
// while the issuance path never fails on a bad value.
func ParseExpiry(expiry string) (time.Duration, bool) {
	match := expiryPattern.FindStringSubmatch(expiry)
	if match == nil {
		return DefaultRefreshExpiry, false
	}

	value, err := strconv.Atoi(match[1])
	if err != nil {
		return DefaultRefreshExpiry, false
	}

	switch match[2] {
	case "s":
		return time.Duration(value) * time.Second, true
	case "m":
		return time.Duration(value) * time.Minute, true
	case "h":
		return time.Duration(value) * time.Hour, true
	case "d":
		return time.Duration(value) * 24 * time.Hour, true
	}

	return DefaultRefreshExpiry, false
}
