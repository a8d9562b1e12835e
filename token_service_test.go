package auth_test

import (
	"testing"
	"time"

	auth "github.com/commercekit/go-auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testIdentity struct {
	id    string
	email string
	role  string
}

func (i testIdentity) ID() string    { return i.id }
func (i testIdentity) Email() string { return i.email }
func (i testIdentity) Role() string  { return i.role }

func newTestIdentity() testIdentity {
	return testIdentity{
		id:    "350399bc-c095-4bdc-a59c-3352d44848e4",
		email: "pepe.rone@example.com",
		role:  auth.RoleCustomer,
	}
}

func TestTokenServiceSignAndValidate(t *testing.T) {
	ts := auth.NewTokenService([]byte("test-signing-key"), 15*time.Minute, "commercekit-test", nil)
	identity := newTestIdentity()

	token, expiresAt, err := ts.Sign(identity)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, time.Minute)

	claims, err := ts.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, identity.id, claims.Subject())
	assert.Equal(t, identity.email, claims.Email())
	assert.Equal(t, identity.role, claims.Role())
	assert.Equal(t, expiresAt.Unix(), claims.Expires().Unix())
}

func TestTokenServiceSignMintsUniqueTokens(t *testing.T) {
	ts := auth.NewTokenService([]byte("test-signing-key"), 15*time.Minute, "commercekit-test", nil)
	identity := newTestIdentity()

	// back-to-back mints for the same identity land in the same second;
	// the jti is what keeps the token strings distinct
	first, _, err := ts.Sign(identity)
	require.NoError(t, err)
	second, _, err := ts.Sign(identity)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	claims, err := ts.Validate(first)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenServiceSignNilIdentity(t *testing.T) {
	ts := auth.NewTokenService([]byte("test-signing-key"), 15*time.Minute, "", nil)

	_, _, err := ts.Sign(nil)
	assert.Error(t, err)
}

func TestTokenServiceRejectsWrongSecret(t *testing.T) {
	signer := auth.NewTokenService([]byte("secret-one"), 15*time.Minute, "", nil)
	verifier := auth.NewTokenService([]byte("secret-two"), 15*time.Minute, "", nil)

	token, _, err := signer.Sign(newTestIdentity())
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	require.Error(t, err)
	assert.True(t, auth.IsMalformedError(err))
}

func TestTokenServiceRejectsExpired(t *testing.T) {
	ts := auth.NewTokenService([]byte("test-signing-key"), -time.Minute, "", nil)

	token, _, err := ts.Sign(newTestIdentity())
	require.NoError(t, err)

	_, err = ts.Validate(token)
	require.ErrorIs(t, err, auth.ErrTokenExpired)
	assert.True(t, auth.IsTokenExpiredError(err))
}

func TestTokenServiceRejectsWrongIssuer(t *testing.T) {
	signer := auth.NewTokenService([]byte("test-signing-key"), 15*time.Minute, "issuer-a", nil)
	verifier := auth.NewTokenService([]byte("test-signing-key"), 15*time.Minute, "issuer-b", nil)

	token, _, err := signer.Sign(newTestIdentity())
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	assert.Error(t, err)
}

func TestTokenServiceRejectsGarbage(t *testing.T) {
	ts := auth.NewTokenService([]byte("test-signing-key"), 15*time.Minute, "", nil)

	_, err := ts.Validate("not.a.token")
	require.Error(t, err)
	assert.True(t, auth.IsMalformedError(err))
}
