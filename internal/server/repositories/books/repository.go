// Package books provides the ISBN-keyed book catalog store.
package books

import (
	"context"

	"github.com/dmitrijs2005/bookapi/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]*models.Book, error)
	GetByISBN(ctx context.Context, isbn string) (*models.Book, error)
	// Create inserts the book and sets its ID. A taken ISBN yields
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, book *models.Book) error
	// Update rewrites title, author and publication year of the book with
	// book.ISBN. The ISBN itself and the cover key are left untouched.
	Update(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, isbn string) error
	SetCoverKey(ctx context.Context, isbn, key string) error
}
