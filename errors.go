package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// Text codes carried by the structured errors below. They are stable
// identifiers for callers that need to branch without string matching.
const (
	TextCodeInvalidCreds       = "INVALID_CREDENTIALS"
	TextCodeEmailTaken         = "EMAIL_TAKEN"
	TextCodeAccountDeactivated = "ACCOUNT_DEACTIVATED"
	TextCodeRefreshInvalid     = "INVALID_REFRESH_TOKEN"
	TextCodeVerifyInvalid      = "INVALID_VERIFICATION_TOKEN"
	TextCodeResetInvalid       = "INVALID_RESET_TOKEN"
	TextCodeUserNotFound       = "USER_NOT_FOUND"
	TextCodeTokenExpired       = "TOKEN_EXPIRED"
	TextCodeTokenMalformed     = "TOKEN_MALFORMED"
	TextCodeEmptyPassword      = "EMPTY_PASSWORD"
)

// ErrEmailTaken is returned when registering an email that already has an account
var ErrEmailTaken = errors.New("Email already registered", errors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken)

// ErrMismatchedHashAndPassword covers both an unknown email and a wrong
// password; the two must stay indistinguishable to the caller.
var ErrMismatchedHashAndPassword = errors.New("Invalid credentials", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds)

// ErrAccountDeactivated is returned when the account exists but is inactive
var ErrAccountDeactivated = errors.New("Account is deactivated", errors.CategoryAuth).
	WithTextCode(TextCodeAccountDeactivated)

// ErrInvalidRefreshToken covers every refresh failure: bad signature,
// expiry, replay, unknown subject, inactive account.
var ErrInvalidRefreshToken = errors.New("Invalid refresh token", errors.CategoryAuth).
	WithTextCode(TextCodeRefreshInvalid)

// ErrInvalidVerificationToken is returned for a missing, expired, or
// already consumed email verification token
var ErrInvalidVerificationToken = errors.New("Invalid or expired verification token", errors.CategoryBadInput).
	WithTextCode(TextCodeVerifyInvalid)

// ErrInvalidResetToken is returned for a missing, expired, or already
// consumed password reset token
var ErrInvalidResetToken = errors.New("Invalid or expired reset token", errors.CategoryBadInput).
	WithTextCode(TextCodeResetInvalid)

// ErrUserNotFound is the error we return for unknown account ids
var ErrUserNotFound = errors.New("User not found", errors.CategoryNotFound).
	WithTextCode(TextCodeUserNotFound)

// ErrTokenExpired is returned when a signed token is past its exp claim
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired)

// ErrTokenMalformed is returned when a signed token cannot be parsed or verified
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed)

// ErrNoEmptyString rejects empty passwords before they reach bcrypt
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsUniqueViolationError reports whether the error is a unique constraint
// violation from the database driver
func IsUniqueViolationError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key value violates unique constraint")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
