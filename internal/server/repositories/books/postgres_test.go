package books

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/bookapi/internal/common"
	"github.com/dmitrijs2005/bookapi/internal/server/models"
	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgx/v5/pgconn"
)

var bookColumns = []string{"id", "isbn", "title", "author", "publication_year", "cover_key"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestList(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*isbn,\s*title,\s*author,\s*publication_year,\s*COALESCE\(cover_key,\s*''\)\s+FROM\s+books\s+ORDER\s+BY\s+id\s*$`
	rows := sqlmock.NewRows(bookColumns).
		AddRow(int64(1), "9780132350884", "Clean Code", "Robert C. Martin", 2008, "").
		AddRow(int64(2), "9780201633610", "Design Patterns", "Gamma et al.", 1994, "covers/x")
	mock.ExpectQuery(q).WillReturnRows(rows)

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	want := []*models.Book{
		{ID: 1, ISBN: "9780132350884", Title: "Clean Code", Author: "Robert C. Martin", PublicationYear: 2008},
		{ID: 2, ISBN: "9780201633610", Title: "Design Patterns", Author: "Gamma et al.", PublicationYear: 1994, CoverKey: "covers/x"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("List mismatch (-want +got):\n%s", diff)
	}
}

func TestList_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM books`).WillReturnRows(sqlmock.NewRows(bookColumns))

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestList_QueryError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM books`).WillReturnError(errors.New("db down"))

	if _, err := repo.List(context.Background()); err == nil ||
		!regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByISBN(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,.*FROM\s+books\s+WHERE\s+isbn\s*=\s*\$1\s*$`
	mock.ExpectQuery(q).WithArgs("9780132350884").
		WillReturnRows(sqlmock.NewRows(bookColumns).AddRow(int64(1), "9780132350884", "Clean Code", "Robert C. Martin", 2008, ""))
	mock.ExpectQuery(q).WithArgs("missing").WillReturnError(sql.ErrNoRows)

	got, err := repo.GetByISBN(context.Background(), "9780132350884")
	if err != nil {
		t.Fatalf("GetByISBN error: %v", err)
	}
	if got.ID != 1 || got.Title != "Clean Code" {
		t.Fatalf("unexpected book: %+v", got)
	}

	if _, err := repo.GetByISBN(context.Background(), "missing"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+books\s*\(isbn,\s*title,\s*author,\s*publication_year\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*RETURNING\s+id\s*$`
	mock.ExpectQuery(q).
		WithArgs("9780132350884", "Clean Code", "Robert C. Martin", 2008).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	b := &models.Book{ISBN: "9780132350884", Title: "Clean Code", Author: "Robert C. Martin", PublicationYear: 2008}
	if err := repo.Create(context.Background(), b); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if b.ID != 7 {
		t.Fatalf("ID not set: %d", b.ID)
	}
}

func TestCreate_DuplicateISBN(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO books`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &models.Book{ISBN: "1", Title: "t", Author: "a"})
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want common.ErrorAlreadyExists, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+books\s+SET\s+title\s*=\s*\$2,\s*author\s*=\s*\$3,\s*publication_year\s*=\s*\$4\s+WHERE\s+isbn\s*=\s*\$1\s*$`
	mock.ExpectExec(q).WithArgs("1", "New", "Author", 2001).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs("2", "New", "Author", 2001).WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Update(context.Background(), &models.Book{ISBN: "1", Title: "New", Author: "Author", PublicationYear: 2001}); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	err := repo.Update(context.Background(), &models.Book{ISBN: "2", Title: "New", Author: "Author", PublicationYear: 2001})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+books\s+WHERE\s+isbn\s*=\s*\$1\s*$`
	mock.ExpectExec(q).WithArgs("1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs("2").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(q).WithArgs("3").WillReturnError(errors.New("db err"))

	if err := repo.Delete(context.Background(), "1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if err := repo.Delete(context.Background(), "2"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
	if err := repo.Delete(context.Background(), "3"); err == nil ||
		!regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestSetCoverKey(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+books\s+SET\s+cover_key\s*=\s*\$2\s+WHERE\s+isbn\s*=\s*\$1\s*$`
	mock.ExpectExec(q).WithArgs("1", "covers/k").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs("1", "covers/k").WillReturnResult(sqlmock.NewErrorResult(errors.New("no count")))

	if err := repo.SetCoverKey(context.Background(), "1", "covers/k"); err != nil {
		t.Fatalf("SetCoverKey error: %v", err)
	}
	if err := repo.SetCoverKey(context.Background(), "1", "covers/k"); err == nil {
		t.Fatal("expected rows affected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
