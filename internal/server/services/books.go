package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/bookapi/internal/common"
	"github.com/dmitrijs2005/bookapi/internal/logging"
	"github.com/dmitrijs2005/bookapi/internal/server/models"
	"github.com/dmitrijs2005/bookapi/internal/server/repositories/repomanager"
)

const (
	MaxISBNLength = 13
	MaxTextLength = 255
)

// BookService is the CRUD layer over the book store.
type BookService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewBookService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *BookService {
	return &BookService{db: db, repomanager: m, logger: logger.With("module", "book_service")}
}

// ValidationError describes the first invalid field of a book payload.
// It matches common.ErrorValidation with errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == common.ErrorValidation
}

func validateText(field, v string, max int) error {
	if strings.TrimSpace(v) == "" {
		return &ValidationError{Field: field, Reason: "is required"}
	}
	if utf8.RuneCountInString(v) > max {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("must be at most %d characters", max)}
	}
	return nil
}

func validateBook(b *models.Book) error {
	if err := validateText("isbn", b.ISBN, MaxISBNLength); err != nil {
		return err
	}
	if err := validateText("title", b.Title, MaxTextLength); err != nil {
		return err
	}
	return validateText("author", b.Author, MaxTextLength)
}

func (s *BookService) List(ctx context.Context) ([]*models.Book, error) {
	books, err := s.repomanager.Books(s.db).List(ctx)
	if err != nil {
		return nil, s.internal(ctx, "list", err)
	}
	return books, nil
}

func (s *BookService) Get(ctx context.Context, isbn string) (*models.Book, error) {
	b, err := s.repomanager.Books(s.db).GetByISBN(ctx, isbn)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, s.internal(ctx, "get", err)
	}
	return b, nil
}

// Create stores a new book. A taken ISBN yields common.ErrorAlreadyExists.
func (s *BookService) Create(ctx context.Context, b *models.Book) (*models.Book, error) {
	if err := validateBook(b); err != nil {
		return nil, err
	}
	b.ID = 0
	b.CoverKey = ""
	if err := s.repomanager.Books(s.db).Create(ctx, b); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, s.internal(ctx, "create", err)
	}
	s.logger.Info(ctx, "book created", "isbn", b.ISBN, "id", b.ID)
	return b, nil
}

// Update replaces title, author and publication year of the book with the
// given ISBN. The ISBN in the payload, if any, is ignored.
func (s *BookService) Update(ctx context.Context, isbn string, b *models.Book) error {
	upd := &models.Book{ISBN: isbn, Title: b.Title, Author: b.Author, PublicationYear: b.PublicationYear}
	if err := validateBook(upd); err != nil {
		return err
	}
	if err := s.repomanager.Books(s.db).Update(ctx, upd); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return s.internal(ctx, "update", err)
	}
	return nil
}

func (s *BookService) Delete(ctx context.Context, isbn string) error {
	if err := s.repomanager.Books(s.db).Delete(ctx, isbn); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return s.internal(ctx, "delete", err)
	}
	s.logger.Info(ctx, "book deleted", "isbn", isbn)
	return nil
}

func (s *BookService) internal(ctx context.Context, op string, err error) error {
	s.logger.Error(ctx, "book store failure", "op", op, "error", err)
	return common.ErrorInternal
}
