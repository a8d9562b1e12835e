package auth_test

import (
	"testing"

	auth "github.com/commercekit/go-auth"
	"github.com/stretchr/testify/assert"
)

func TestIsValidRole(t *testing.T) {
	assert.True(t, auth.IsValidRole(auth.RoleCustomer))
	assert.True(t, auth.IsValidRole(auth.RoleVendor))
	assert.True(t, auth.IsValidRole(auth.RoleAdmin))
	assert.False(t, auth.IsValidRole("owner"))
	assert.False(t, auth.IsValidRole(""))
}

func TestRoleIsAtLeast(t *testing.T) {
	assert.True(t, auth.RoleIsAtLeast(auth.RoleAdmin, auth.RoleCustomer))
	assert.True(t, auth.RoleIsAtLeast(auth.RoleVendor, auth.RoleCustomer))
	assert.True(t, auth.RoleIsAtLeast(auth.RoleCustomer, auth.RoleCustomer))
	assert.False(t, auth.RoleIsAtLeast(auth.RoleCustomer, auth.RoleVendor))
	assert.False(t, auth.RoleIsAtLeast(auth.RoleVendor, auth.RoleAdmin))
	assert.False(t, auth.RoleIsAtLeast("owner", auth.RoleCustomer))
	assert.False(t, auth.RoleIsAtLeast(auth.RoleAdmin, "owner"))
}
