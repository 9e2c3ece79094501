// Package services contains the server-side business logic behind the HTTP
// handlers: account registration and login, book CRUD and cover uploads.
package services

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/bookapi/internal/common"
	"github.com/dmitrijs2005/bookapi/internal/dbx"
	"github.com/dmitrijs2005/bookapi/internal/logging"
	"github.com/dmitrijs2005/bookapi/internal/server/auth"
	"github.com/dmitrijs2005/bookapi/internal/server/models"
	"github.com/dmitrijs2005/bookapi/internal/server/repositories/repomanager"
	"github.com/oklog/ulid/v2"
)

// AuthService registers accounts and exchanges credentials for bearer tokens.
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *auth.Hasher
	issuer      *auth.Issuer
	logger      logging.Logger
	metrics     *AuthMetrics
	now         func() time.Time

	// dummySecret is verified against when the username is unknown so that
	// both login failure paths run one key derivation.
	dummySecret string
}

// NewAuthService wires the service. metrics may be nil.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, hasher *auth.Hasher, issuer *auth.Issuer,
	logger logging.Logger, metrics *AuthMetrics) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		issuer:      issuer,
		logger:      logger.With("module", "auth_service"),
		metrics:     metrics,
		now:         time.Now,
		dummySecret: base64.StdEncoding.EncodeToString(common.GenerateRandByteArray(auth.SaltLength)) +
			auth.SecretDelimiter +
			base64.StdEncoding.EncodeToString(common.GenerateRandByteArray(auth.KeyLength)),
	}
}

// Register creates an account for username. A taken username yields
// common.ErrDuplicateAccount and leaves the existing account untouched.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.Account, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		s.metrics.observe(opRegister, outcomeInvalid)
		return nil, common.ErrorValidation
	}

	stored, err := s.hasher.Hash(ctx, password)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Error(ctx, "password hashing failed", "error", err)
		s.metrics.observe(opRegister, outcomeError)
		return nil, common.ErrorInternal
	}

	account := &models.Account{
		ID:           ulid.Make().String(),
		Username:     username,
		Email:        email,
		StoredSecret: stored,
		CreatedAt:    s.now().UTC(),
	}

	err = s.repomanager.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)
		exists, err := repo.ExistsByUsername(ctx, username)
		if err != nil {
			return err
		}
		if exists {
			return common.ErrDuplicateAccount
		}
		return repo.Create(ctx, account)
	})

	switch {
	case err == nil:
		s.logger.Info(ctx, "account registered", "username", username, "id", account.ID)
		s.metrics.observe(opRegister, outcomeSuccess)
		return account, nil
	case errors.Is(err, common.ErrDuplicateAccount):
		s.metrics.observe(opRegister, outcomeDuplicate)
		return nil, common.ErrDuplicateAccount
	default:
		s.logger.Error(ctx, "account store failure", "op", opRegister, "error", err)
		s.metrics.observe(opRegister, outcomeError)
		return nil, common.ErrorInternal
	}
}

// Login verifies the password of username and returns a signed token.
// Unknown users, wrong passwords and corrupt stored secrets are all reported
// as common.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	account, err := s.repomanager.Accounts(s.db).GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, "account store failure", "op", opLogin, "error", err)
			s.metrics.observe(opLogin, outcomeError)
			return "", common.ErrorInternal
		}
		if _, err := s.hasher.Verify(ctx, s.dummySecret, password); err != nil && ctx.Err() != nil {
			return "", ctx.Err()
		}
		s.metrics.observe(opLogin, outcomeRejected)
		return "", common.ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(ctx, account.StoredSecret, password)
	if err != nil {
		if errors.Is(err, common.ErrMalformedStoredSecret) {
			s.logger.Warn(ctx, "stored secret is malformed", "username", username, "id", account.ID)
			s.metrics.observe(opLogin, outcomeRejected)
			return "", common.ErrInvalidCredentials
		}
		return "", err
	}
	if !ok {
		s.metrics.observe(opLogin, outcomeRejected)
		return "", common.ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(account)
	if err != nil {
		s.logger.Error(ctx, "token signing failed", "error", err)
		s.metrics.observe(opLogin, outcomeError)
		return "", common.ErrorInternal
	}

	s.metrics.observe(opLogin, outcomeSuccess)
	return token, nil
}
