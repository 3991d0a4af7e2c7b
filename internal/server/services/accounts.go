// Package services contains the server-side business logic. This file
// implements AccountService, which registers accounts and exchanges
// credentials for identity tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/dmitrijs2005/todoauth/internal/common"
	"github.com/dmitrijs2005/todoauth/internal/dbx"
	"github.com/dmitrijs2005/todoauth/internal/server/auth"
	"github.com/dmitrijs2005/todoauth/internal/server/models"
	"github.com/dmitrijs2005/todoauth/internal/server/repositories/repomanager"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// TokenIssuer mints an identity token for a subject.
type TokenIssuer interface {
	Issue(subject string) (string, error)
}

type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      auth.PasswordHasher
	tokens      TokenIssuer

	decoyOnce sync.Once
	decoyHash string
}

// NewAccountService returns an AccountService storing accounts through m.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, hasher auth.PasswordHasher, tokens TokenIssuer) *AccountService {
	return &AccountService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
	}
}

// Signup creates an account for email. An existing email is reported before
// the password is looked at. Lookup and insert share one transaction, and a
// unique violation from a concurrent signup is also common.ErrEmailTaken.
func (s *AccountService) Signup(ctx context.Context, email, password string) (*models.AccountInfo, error) {
	var created *models.User

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		_, err := repo.GetUserByEmail(ctx, email)
		if err == nil {
			return common.ErrEmailTaken
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("error searching user: %w", err)
		}

		if utf8.RuneCountInString(password) < common.MinPasswordLength {
			return common.ErrPasswordTooShort
		}
		if len(password) > common.MaxPasswordBytes {
			return common.ErrPasswordTooLong
		}

		hash, err := s.hasher.Hash(password)
		if err != nil {
			return fmt.Errorf("error hashing password: %w", err)
		}

		created, err = repo.Create(ctx, &models.User{Email: email, PasswordHash: hash})
		if err != nil {
			if isUniqueViolation(err) {
				return common.ErrEmailTaken
			}
			return fmt.Errorf("error creating user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	info := created.Info()
	return &info, nil
}

// Login returns a fresh identity token for valid credentials. Unknown
// emails and wrong passwords are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// burn the same bcrypt work as a real comparison
			s.hasher.Verify(password, s.decoy())
			return "", common.ErrInvalidCredentials
		}
		return "", common.ErrorInternal
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", common.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

func (s *AccountService) decoy() string {
	s.decoyOnce.Do(func() {
		s.decoyHash, _ = s.hasher.Hash("decoy-password")
	})
	return s.decoyHash
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
