package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserRole is the user's role
type UserRole = string

const (
	// RoleCustomer is the default storefront role
	RoleCustomer UserRole = "customer"
	// RoleVendor can manage a store
	RoleVendor UserRole = "vendor"
	// RoleAdmin can manage the platform
	RoleAdmin UserRole = "admin"
)

// User is the user model
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Role          UserRole   `bun:"user_role,notnull" json:"user_role,omitempty"`
	FirstName     string     `bun:"first_name,notnull" json:"first_name,omitempty"`
	LastName      string     `bun:"last_name,notnull" json:"last_name,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Phone         string     `bun:"phone_number" json:"phone_number,omitempty"`
	Avatar        string     `bun:"avatar" json:"avatar,omitempty"`
	PasswordHash  string     `bun:"password_hash" json:"-"`
	EmailVerified bool       `bun:"is_email_verified" json:"is_email_verified"`
	Active        bool       `bun:"is_active" json:"is_active"`
	LastLoginAt   *time.Time `bun:"last_login_at,nullzero" json:"last_login_at,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// Public returns a copy of the user safe to hand to callers. The password
// hash never leaves this package.
func (u *User) Public() *User {
	if u == nil {
		return nil
	}
	pub := *u
	pub.PasswordHash = ""
	return &pub
}

// TokenKind is the kind of a security token
type TokenKind = string

const (
	// TokenEmailVerification is consumed by VerifyEmail
	TokenEmailVerification TokenKind = "email_verification"
	// TokenPasswordReset is consumed by ResetPassword
	TokenPasswordReset TokenKind = "password_reset"
	// TokenRefresh mirrors an issued refresh JWT for revocation tracking
	TokenRefresh TokenKind = "refresh_token"
)

// Token is a single-use security token owned by a user. It transitions
// exactly once, from unused to used, when the operation its kind permits
// consumes it.
type Token struct {
	bun.BaseModel `bun:"table:tokens,alias:tkn"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	User          *User      `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	Value         string     `bun:"token,notnull,unique" json:"-"`
	Kind          TokenKind  `bun:"kind,notnull" json:"kind,omitempty"`
	ExpiresAt     time.Time  `bun:"expires_at,notnull" json:"expires_at,omitempty"`
	Used          bool       `bun:"is_used" json:"is_used"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// Valid reports whether the token can still be consumed at the given time.
func (t *Token) Valid(now time.Time) bool {
	if t == nil {
		return false
	}
	return !t.Used && t.ExpiresAt.After(now)
}
