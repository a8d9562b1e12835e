package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	// VerificationTokenTTL is the lifetime of email verification tokens
	VerificationTokenTTL = 24 * time.Hour
	// ResetTokenTTL is the lifetime of password reset tokens
	ResetTokenTTL = time.Hour

	operationTimeout = 10 * time.Second
	mailTimeout      = 30 * time.Second
)

// Success messages handed back to callers alongside nil errors.
const (
	MsgEmailVerified = "Email verified successfully"
	MsgPasswordReset = "Password reset successfully"
	MsgLoggedOut     = "Logged out successfully"
	// MsgResetLinkSent is returned whether or not the email exists, so the
	// endpoint never reveals account existence.
	MsgResetLinkSent = "If the email exists, a reset link will be sent"
)

// Auther orchestrates the credential and token lifecycle over its
// collaborators: the repositories, the two token services, and the mailer.
// It holds no mutable state between calls; everything shared lives in the
// store.
type Auther struct {
	repo          RepositoryManager
	accessTokens  *TokenService
	refreshTokens *TokenService
	mailer        Mailer
	logger        Logger
	bcryptCost    int
	frontendURL   string
}

var _ Authenticator = (*Auther)(nil)

// NewAuther returns a new lifecycle engine wired from the given config.
// The access and refresh token services are created with their own secret
// and TTL; Config.Validate already guaranteed the secrets differ.
func NewAuther(repo RepositoryManager, cfg *Config) *Auther {
	logger := defLogger{}

	accessTTL, ok := ParseExpiry(cfg.AccessExpiry)
	if !ok {
		logger.Warn("access expiry %q is malformed, using default %s", cfg.AccessExpiry, accessTTL)
	}

	refreshTTL, ok := ParseExpiry(cfg.RefreshExpiry)
	if !ok {
		logger.Warn("refresh expiry %q is malformed, using default %s", cfg.RefreshExpiry, refreshTTL)
	}

	return &Auther{
		repo:          repo,
		accessTokens:  NewTokenService([]byte(cfg.AccessSecret), accessTTL, cfg.Issuer, logger),
		refreshTokens: NewTokenService([]byte(cfg.RefreshSecret), refreshTTL, cfg.Issuer, logger),
		mailer:        NewLogMailer(logger),
		logger:        logger,
		bcryptCost:    cfg.BcryptCost,
		frontendURL:   cfg.FrontendURL,
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithMailer sets the delivery channel for verification and reset links.
func (s *Auther) WithMailer(mailer Mailer) *Auther {
	if mailer != nil {
		s.mailer = mailer
	}
	return s
}

// AccessTokens returns the access token service, e.g. for middleware that
// validates inbound tokens.
func (s *Auther) AccessTokens() *TokenService {
	return s.accessTokens
}

// Register creates an account, issues the email verification token,
// dispatches the verification mail best-effort, and logs the new account
// in with a fresh session token pair.
func (s *Auther) Register(ctx context.Context, msg RegisterMessage) (*AuthResult, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	var result *AuthResult
	var verification string

	err := s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := s.repo.Users().GetByEmailTx(ctx, tx, msg.Email); err == nil {
			return ErrEmailTaken
		} else if !repository.IsRecordNotFound(err) {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check for existing account")
		}

		hash, err := HashPasswordWithCost(msg.Password, s.bcryptCost)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return richErr
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		user := &User{
			Email:        msg.Email,
			FirstName:    msg.FirstName,
			LastName:     msg.LastName,
			Role:         msg.Role,
			PasswordHash: hash,
			Active:       true,
		}

		if msg.Phone != "" {
			if user.Phone, err = NormalizePhone(msg.Phone); err != nil {
				return err
			}
		}

		if msg.UseHashid {
			if id, err := hashid.NewUUID(msg.Email); err == nil {
				user.ID = id
			}
		}

		if user, err = s.repo.Users().RegisterTx(ctx, tx, user); err != nil {
			// the email check above raced a concurrent registration
			if IsUniqueViolationError(err) {
				return ErrEmailTaken
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "could not create user")
		}

		verification = RandomTokenValue()
		expiresAt := time.Now().Add(VerificationTokenTTL)
		if _, err := s.repo.Tokens().IssueTx(ctx, tx, user.ID, TokenEmailVerification, verification, expiresAt); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to issue verification token")
		}

		pair, err := s.issuePairTx(ctx, tx, user)
		if err != nil {
			return err
		}

		result = &AuthResult{User: user.Public(), Tokens: *pair}
		return nil
	})

	if err != nil {
		return nil, richError(err, "user registration failed")
	}

	subject, body := buildVerificationEmail(s.frontendURL, verification)
	s.dispatchMail(result.User.Email, subject, body)

	return result, nil
}

// Login verifies the credentials and issues a fresh session token pair.
// An unknown email and a wrong password produce identical errors.
func (s *Auther) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	var result *AuthResult

	err := s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		user, err := s.repo.Users().GetByEmailTx(ctx, tx, email)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return ErrMismatchedHashAndPassword
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user during login")
		}

		if !user.Active {
			return ErrAccountDeactivated
		}

		if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
			return ErrMismatchedHashAndPassword
		}

		if err := s.repo.Users().TrackSucccessfulLoginTx(ctx, tx, user); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to track login")
		}

		pair, err := s.issuePairTx(ctx, tx, user)
		if err != nil {
			return err
		}

		result = &AuthResult{User: user.Public(), Tokens: *pair}
		return nil
	})

	if err != nil {
		return nil, richError(err, "login failed")
	}

	return result, nil
}

// Refresh rotates a refresh token: the presented token's record is
// consumed before the successor pair is issued, so a replay of the same
// token always loses. Every failure collapses to the same generic error.
func (s *Auther) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.refreshTokens.Validate(refreshToken)
	if err != nil {
		s.logger.Debug("refresh token rejected: %v", err)
		return nil, ErrInvalidRefreshToken
	}

	ownerID, err := uuid.Parse(claims.Subject())
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	var pair *TokenPair

	err = s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		record, err := s.repo.Tokens().FindActiveTx(ctx, tx, refreshToken, TokenRefresh, &ownerID)
		if err != nil {
			return err
		}

		// consume before reissuing; a concurrent rotation of the same
		// value fails here and the whole call collapses to the generic
		// error below
		if _, err := s.repo.Tokens().ConsumeTx(ctx, tx, record.ID); err != nil {
			return err
		}

		user, err := s.repo.Users().GetByIDTx(ctx, tx, ownerID.String())
		if err != nil {
			return err
		}

		if !user.Active {
			return ErrAccountDeactivated
		}

		pair, err = s.issuePairTx(ctx, tx, user)
		return err
	})

	if err != nil {
		if !goerrors.Is(err, ErrInvalidRefreshToken) {
			s.logger.Debug("refresh rotation failed: %v", err)
		}
		return nil, ErrInvalidRefreshToken
	}

	return pair, nil
}

// VerifyEmail consumes a verification token and flips the owner's
// verified flag. Both mutations commit together; a concurrent retry with
// the same value observes either nothing or both.
func (s *Auther) VerifyEmail(ctx context.Context, token string) error {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	err := s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		record, err := s.repo.Tokens().FindActiveTx(ctx, tx, token, TokenEmailVerification, nil)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return ErrInvalidVerificationToken
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve verification token")
		}

		if _, err := s.repo.Tokens().ConsumeTx(ctx, tx, record.ID); err != nil {
			if repository.IsRecordNotFound(err) {
				return ErrInvalidVerificationToken
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to consume verification token")
		}

		if err := s.repo.Users().MarkEmailVerifiedTx(ctx, tx, record.UserID); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to mark email verified")
		}

		return nil
	})

	if err != nil {
		return richError(err, "email verification failed")
	}

	return nil
}

// ForgotPassword issues a reset token and dispatches the reset link. The
// call succeeds with the same message whether or not the email exists.
func (s *Auther) ForgotPassword(ctx context.Context, email string) error {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	user, err := s.repo.Users().GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for password reset")
	}

	value := RandomTokenValue()
	expiresAt := time.Now().Add(ResetTokenTTL)
	if _, err := s.repo.Tokens().Issue(ctx, user.ID, TokenPasswordReset, value, expiresAt); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to issue reset token")
	}

	subject, body := buildPasswordResetEmail(s.frontendURL, value)
	s.dispatchMail(user.Email, subject, body)

	return nil
}

// ResetPassword consumes a reset token, replaces the owner's password
// hash, and revokes every outstanding refresh token of the owner so no
// pre-reset session survives.
func (s *Auther) ResetPassword(ctx context.Context, token, newPassword string) error {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	err := s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		record, err := s.repo.Tokens().FindActiveTx(ctx, tx, token, TokenPasswordReset, nil)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return ErrInvalidResetToken
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve reset token")
		}

		if _, err := s.repo.Tokens().ConsumeTx(ctx, tx, record.ID); err != nil {
			if repository.IsRecordNotFound(err) {
				return ErrInvalidResetToken
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to consume reset token")
		}

		hash, err := HashPasswordWithCost(newPassword, s.bcryptCost)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return richErr
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash new password")
		}

		if err := s.repo.Users().ResetPasswordTx(ctx, tx, record.UserID, hash); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update password")
		}

		if err := s.repo.Tokens().ConsumeAllTx(ctx, tx, record.UserID, TokenRefresh); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to revoke refresh tokens")
		}

		return nil
	})

	if err != nil {
		return richError(err, "password reset failed")
	}

	return nil
}

// Logout revokes every outstanding refresh token of the account. Calling
// it again is a no-op.
func (s *Auther) Logout(ctx context.Context, userID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	if err := s.repo.Tokens().ConsumeAll(ctx, userID, TokenRefresh); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to revoke refresh tokens")
	}

	return nil
}

// Profile returns the account projected to its public shape.
func (s *Auther) Profile(ctx context.Context, userID uuid.UUID) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	user, err := s.repo.Users().GetByID(ctx, userID.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user")
	}

	return user.Public(), nil
}

// issuePairTx mints the session token pair for the user and persists the
// refresh record with the expiry taken from the signed exp claim, so the
// stored horizon and the claim can never drift apart.
func (s *Auther) issuePairTx(ctx context.Context, tx bun.IDB, user *User) (*TokenPair, error) {
	identity := IdentityFromUser(user)

	access, _, err := s.accessTokens.Sign(identity)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign access token")
	}

	refresh, refreshExpiry, err := s.refreshTokens.Sign(identity)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign refresh token")
	}

	if _, err := s.repo.Tokens().IssueTx(ctx, tx, user.ID, TokenRefresh, refresh, refreshExpiry); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist refresh token")
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// dispatchMail hands the message to the mailer without tying its outcome
// to the calling operation; a failed send is logged and dropped.
func (s *Auther) dispatchMail(to, subject, body string) {
	mailer := s.mailer
	logger := s.logger

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
		defer cancel()

		if err := mailer.Send(ctx, to, subject, body); err != nil {
			logger.Error("mail dispatch to %s failed: %v", to, err)
		}
	}()
}

func richError(err error, msg string) error {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, msg)
}
