package auth_test

import (
	"testing"

	auth "github.com/commercekit/go-auth"
	"github.com/stretchr/testify/assert"
)

func TestRegisterMessageValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*auth.RegisterMessage)
		wantErr bool
	}{
		{"valid", func(m *auth.RegisterMessage) {}, false},
		{"valid with role", func(m *auth.RegisterMessage) { m.Role = auth.RoleVendor }, false},
		{"valid with phone", func(m *auth.RegisterMessage) { m.Phone = "+14155552671" }, false},
		{"missing email", func(m *auth.RegisterMessage) { m.Email = "" }, true},
		{"malformed email", func(m *auth.RegisterMessage) { m.Email = "pepe.rone" }, true},
		{"missing password", func(m *auth.RegisterMessage) { m.Password = "" }, true},
		{"short password", func(m *auth.RegisterMessage) { m.Password = "1234567" }, true},
		{"missing first name", func(m *auth.RegisterMessage) { m.FirstName = "" }, true},
		{"missing last name", func(m *auth.RegisterMessage) { m.LastName = "" }, true},
		{"unknown role", func(m *auth.RegisterMessage) { m.Role = "owner" }, true},
		{"malformed phone", func(m *auth.RegisterMessage) { m.Phone = "call me" }, true},
		{"national phone without prefix", func(m *auth.RegisterMessage) { m.Phone = "4155552671" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := registerMessage()
			tt.mutate(&msg)

			err := msg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	normalized, err := auth.NormalizePhone("+1 415 555 2671")
	assert.NoError(t, err)
	assert.Equal(t, "+14155552671", normalized)

	_, err = auth.NormalizePhone("not-a-phone")
	assert.Error(t, err)
}
