package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/bookapi/internal/common"
	"github.com/dmitrijs2005/bookapi/internal/server/models"
	"github.com/dmitrijs2005/bookapi/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cleanCode() *models.Book {
	return &models.Book{ISBN: "9780132350884", Title: "Clean Code", Author: "Robert C. Martin", PublicationYear: 2008}
}

func TestBookService_CRUD(t *testing.T) {
	s := NewBookService(nil, repomanager.NewInMemoryRepositoryManager(), nop)
	ctx := context.Background()

	created, err := s.Create(ctx, cleanCode())
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	_, err = s.Create(ctx, cleanCode())
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	err = s.Update(ctx, "9780132350884", &models.Book{ISBN: "ignored", Title: "Clean Code 2", Author: "Uncle Bob", PublicationYear: 2009})
	require.NoError(t, err)

	got, err := s.Get(ctx, "9780132350884")
	require.NoError(t, err)
	assert.Equal(t, "Clean Code 2", got.Title)
	assert.Equal(t, "Uncle Bob", got.Author)
	assert.Equal(t, 2009, got.PublicationYear)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, s.Delete(ctx, "9780132350884"))
	_, err = s.Get(ctx, "9780132350884")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "9780132350884"), common.ErrorNotFound)
	assert.ErrorIs(t, s.Update(ctx, "9780132350884", cleanCode()), common.ErrorNotFound)
}

func TestBookService_Validation(t *testing.T) {
	s := NewBookService(nil, repomanager.NewInMemoryRepositoryManager(), nop)

	cases := map[string]func(b *models.Book){
		"missing isbn":   func(b *models.Book) { b.ISBN = "" },
		"long isbn":      func(b *models.Book) { b.ISBN = "97801323508841" },
		"missing title":  func(b *models.Book) { b.Title = " " },
		"long title":     func(b *models.Book) { b.Title = strings.Repeat("t", 256) },
		"missing author": func(b *models.Book) { b.Author = "" },
		"long author":    func(b *models.Book) { b.Author = strings.Repeat("a", 256) },
	}
	for name, mutate := range cases {
		b := cleanCode()
		mutate(b)
		_, err := s.Create(context.Background(), b)
		assert.ErrorIs(t, err, common.ErrorValidation, name)

		var ve *ValidationError
		assert.True(t, errors.As(err, &ve), name)
	}

	b := cleanCode()
	b.Title = strings.Repeat("ü", 255)
	_, err := s.Create(context.Background(), b)
	assert.NoError(t, err, "length is counted in characters")
}

func TestBookService_StoreFailureIsInternal(t *testing.T) {
	rm := &fakeRepoManager{books: &failingBooks{err: errors.New("db down")}}
	s := NewBookService(nil, rm, nop)
	ctx := context.Background()

	_, err := s.List(ctx)
	assert.ErrorIs(t, err, common.ErrorInternal)
	_, err = s.Get(ctx, "1")
	assert.ErrorIs(t, err, common.ErrorInternal)
	_, err = s.Create(ctx, cleanCode())
	assert.ErrorIs(t, err, common.ErrorInternal)
	assert.ErrorIs(t, s.Update(ctx, "1", cleanCode()), common.ErrorInternal)
	assert.ErrorIs(t, s.Delete(ctx, "1"), common.ErrorInternal)
}
