package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/bookapi/internal/common"
	"github.com/dmitrijs2005/bookapi/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// TokenLifetime is fixed; there is no refresh mechanism.
const TokenLifetime = time.Hour

// TokenConfig is the process-wide signing configuration, built once at
// startup and shared by the Issuer and the Validator.
type TokenConfig struct {
	Key      []byte
	Issuer   string
	Audience string
}

func (c TokenConfig) validate() error {
	switch {
	case len(c.Key) == 0:
		return fmt.Errorf("%w: empty token signing key", common.ErrConfiguration)
	case c.Issuer == "":
		return fmt.Errorf("%w: empty token issuer", common.ErrConfiguration)
	case c.Audience == "":
		return fmt.Errorf("%w: empty token audience", common.ErrConfiguration)
	}
	return nil
}

// Claims carried by every bearer token. The subject is the username.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Option tunes an Issuer or a Validator.
type Option func(*clock)

type clock struct {
	now func() time.Time
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *clock) {
		if now != nil {
			c.now = now
		}
	}
}

func newClock(opts []Option) clock {
	c := clock{now: time.Now}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Issuer signs HS256 tokens for authenticated accounts.
type Issuer struct {
	cfg   TokenConfig
	clock clock
}

// NewIssuer fails with common.ErrConfiguration if any part of cfg is missing,
// so a server can never hand out unsigned or weakly scoped tokens.
func NewIssuer(cfg TokenConfig, opts ...Option) (*Issuer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Issuer{cfg: cfg, clock: newClock(opts)}, nil
}

// Issue returns a compact JWT for account that expires TokenLifetime from now.
func (i *Issuer) Issue(account *models.Account) (string, error) {
	now := i.clock.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.Username,
			Issuer:    i.cfg.Issuer,
			Audience:  jwt.ClaimStrings{i.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenLifetime)),
		},
		Email: account.Email,
	})

	tokenString, err := token.SignedString(i.cfg.Key)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Validator checks bearer tokens: signature and algorithm, issuer, audience
// and expiration.
type Validator struct {
	cfg   TokenConfig
	clock clock
}

func NewValidator(cfg TokenConfig, opts ...Option) (*Validator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Validator{cfg: cfg, clock: newClock(opts)}, nil
}

// Validate parses tokenString and returns its claims. Expired tokens yield
// common.ErrTokenExpired, everything else common.ErrInvalidToken.
func (v *Validator) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return v.cfg.Key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(v.cfg.Issuer),
		jwt.WithAudience(v.cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.clock.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
