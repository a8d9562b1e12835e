package auth_test

import (
	"testing"
	"time"

	auth "github.com/commercekit/go-auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTokenValid(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		token *auth.Token
		valid bool
	}{
		{
			name:  "unused and unexpired",
			token: &auth.Token{ExpiresAt: now.Add(time.Hour)},
			valid: true,
		},
		{
			name:  "already used",
			token: &auth.Token{ExpiresAt: now.Add(time.Hour), Used: true},
			valid: false,
		},
		{
			name:  "expired",
			token: &auth.Token{ExpiresAt: now.Add(-time.Second)},
			valid: false,
		},
		{
			name:  "used and expired",
			token: &auth.Token{ExpiresAt: now.Add(-time.Second), Used: true},
			valid: false,
		},
		{
			name:  "nil token",
			token: nil,
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.token.Valid(now))
		})
	}
}

func TestUserPublic(t *testing.T) {
	user := &auth.User{
		ID:           uuid.New(),
		Email:        "pepe.rone@example.com",
		PasswordHash: "$2a$10$deadbeef",
		Role:         auth.RoleCustomer,
	}

	pub := user.Public()
	assert.Empty(t, pub.PasswordHash)
	assert.Equal(t, user.ID, pub.ID)
	assert.Equal(t, user.Email, pub.Email)

	// the original record keeps its hash
	assert.NotEmpty(t, user.PasswordHash)

	var nilUser *auth.User
	assert.Nil(t, nilUser.Public())
}
