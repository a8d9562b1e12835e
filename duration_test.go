package auth_test

import (
	"testing"
	"time"

	auth "github.com/commercekit/go-auth"
	"github.com/stretchr/testify/assert"
)

func TestParseExpiry(t *testing.T) {
	tests := []struct {
		name     string
		expiry   string
		expected time.Duration
		ok       bool
	}{
		{"seconds", "30s", 30 * time.Second, true},
		{"minutes", "15m", 15 * time.Minute, true},
		{"hours", "12h", 12 * time.Hour, true},
		{"days", "7d", 7 * 24 * time.Hour, true},
		{"single day", "1d", 24 * time.Hour, true},
		{"empty", "", auth.DefaultRefreshExpiry, false},
		{"unknown unit", "7w", auth.DefaultRefreshExpiry, false},
		{"missing unit", "7", auth.DefaultRefreshExpiry, false},
		{"missing value", "d", auth.DefaultRefreshExpiry, false},
		{"negative", "-7d", auth.DefaultRefreshExpiry, false},
		{"trailing junk", "7d extra", auth.DefaultRefreshExpiry, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := auth.ParseExpiry(tt.expiry)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}
