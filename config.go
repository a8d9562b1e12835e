package auth

import (
	"github.com/caarlos0/env/v11"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
	"golang.org/x/crypto/bcrypt"
)

// Config holds the engine's configuration surface: the two signing
// secrets, their lifetimes, the hashing work factor, and the link targets
// used in outgoing mail.
type Config struct {
	AccessSecret  string `env:"AUTH_JWT_SECRET" json:"-"`
	AccessExpiry  string `env:"AUTH_JWT_EXPIRATION" envDefault:"15m" json:"access_expiry"`
	RefreshSecret string `env:"AUTH_JWT_REFRESH_SECRET" json:"-"`
	RefreshExpiry string `env:"AUTH_JWT_REFRESH_EXPIRATION" envDefault:"7d" json:"refresh_expiry"`
	BcryptCost    int    `env:"AUTH_BCRYPT_COST" envDefault:"10" json:"bcrypt_cost"`
	Issuer        string `env:"AUTH_ISSUER" envDefault:"commercekit" json:"issuer"`
	FrontendURL   string `env:"AUTH_FRONTEND_URL" envDefault:"http://localhost:3000" json:"frontend_url"`
}

// LoadConfig reads the configuration from the environment and validates
// it. Malformed expiry strings are a startup error here even though the
// parser itself falls back to a default, so misconfiguration surfaces at
// boot instead of silently shortening or extending sessions per call.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to parse auth config from environment")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate enforces the configuration invariants
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.AccessSecret, validation.Required, validation.Length(32, 0)),
		validation.Field(&c.RefreshSecret, validation.Required, validation.Length(32, 0)),
		validation.Field(&c.AccessExpiry, validation.Required, validation.By(validExpiry)),
		validation.Field(&c.RefreshExpiry, validation.Required, validation.By(validExpiry)),
		validation.Field(&c.BcryptCost, validation.Min(bcrypt.MinCost), validation.Max(bcrypt.MaxCost)),
		validation.Field(&c.FrontendURL, validation.Required, is.URL),
	)
	if err != nil {
		return errors.Wrap(err, errors.CategoryValidation, "invalid auth configuration")
	}

	if c.AccessSecret == c.RefreshSecret {
		return errors.New("access and refresh token secrets must differ", errors.CategoryValidation)
	}

	return nil
}

func validExpiry(value any) error {
	s, _ := value.(string)
	if _, ok := ParseExpiry(s); !ok {
		return errors.New("expiry must be an integer followed by s, m, h, or d", errors.CategoryValidation)
	}
	return nil
}
