package books

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/bookapi/internal/common"
	"github.com/dmitrijs2005/bookapi/internal/server/models"
)

type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	books  map[string]models.Book
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{books: make(map[string]models.Book)}
}

func (r *MemoryRepository) List(_ context.Context) ([]*models.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Book, 0, len(r.books))
	for _, b := range r.books {
		b := b
		result = append(result, &b)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *MemoryRepository) GetByISBN(_ context.Context, isbn string) (*models.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.books[isbn]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &b, nil
}

func (r *MemoryRepository) Create(_ context.Context, book *models.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.books[book.ISBN]; ok {
		return common.ErrorAlreadyExists
	}
	r.nextID++
	book.ID = r.nextID
	book.CoverKey = ""
	r.books[book.ISBN] = *book
	return nil
}

func (r *MemoryRepository) Update(_ context.Context, book *models.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.books[book.ISBN]
	if !ok {
		return common.ErrorNotFound
	}
	b.Title = book.Title
	b.Author = book.Author
	b.PublicationYear = book.PublicationYear
	r.books[book.ISBN] = b
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, isbn string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.books[isbn]; !ok {
		return common.ErrorNotFound
	}
	delete(r.books, isbn)
	return nil
}

func (r *MemoryRepository) SetCoverKey(_ context.Context, isbn, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.books[isbn]
	if !ok {
		return common.ErrorNotFound
	}
	b.CoverKey = key
	r.books[isbn] = b
	return nil
}
