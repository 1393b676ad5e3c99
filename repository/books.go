package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bookbuddy/api/data"
	"github.com/lib/pq"
)

type books interface {
	CreateBook(book *data.Book) error
	GetBook(bookID int64) (*data.Book, error)
	GetBookByGoogleID(googleBooksID string) (*data.Book, error)
	GetAllBooks(search string, filters data.Filters) ([]*data.Book, data.Metadata, error)
	DeleteBook(bookID int64) error
}

const bookColumns = `id, created_at, title, author, isbn, description, publisher, published_date, page_count, cover_url, categories, language, google_books_id, open_library_id, average_rating, ratings_count, version`

func scanBook(row interface{ Scan(...interface{}) error }, book *data.Book) error {
	return row.Scan(
		&book.ID,
		&book.CreatedAt,
		&book.Title,
		&book.Author,
		&book.Isbn,
		&book.Description,
		&book.Publisher,
		&book.PublishedDate,
		&book.PageCount,
		&book.CoverURL,
		pq.Array(&book.Categories),
		&book.Language,
		&book.GoogleBooksID,
		&book.OpenLibraryID,
		&book.AverageRating,
		&book.RatingsCount,
		&book.Version,
	)
}

// CreateBook creates a book record from imported catalog metadata.
func (r *repository) CreateBook(book *data.Book) error {
	query := `
		INSERT INTO books (title, author, isbn, description, publisher, published_date, page_count, cover_url, categories, language, google_books_id, open_library_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, average_rating, ratings_count, version`
	args := []interface{}{
		book.Title,
		book.Author,
		book.Isbn,
		book.Description,
		book.Publisher,
		book.PublishedDate,
		book.PageCount,
		book.CoverURL,
		pq.Array(book.Categories),
		book.Language,
		book.GoogleBooksID,
		book.OpenLibraryID,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&book.ID, &book.CreatedAt, &book.AverageRating, &book.RatingsCount, &book.Version)
	if err != nil {
		switch {
		case err.Error() == `pq: duplicate key value violates unique constraint "books_google_books_id_key"`:
			return ErrDuplicateRecord
		case err.Error() == `pq: duplicate key value violates unique constraint "books_isbn_key"`:
			return ErrDuplicateRecord
		default:
			return err
		}
	}
	return nil
}

// GetBook retrieves a book record.
func (r *repository) GetBook(bookID int64) (*data.Book, error) {
	if bookID < 1 {
		return nil, ErrRecordNotFound
	}
	query := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE id = $1`
	var book data.Book
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := scanBook(r.db.QueryRowContext(ctx, query, bookID), &book)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &book, nil
}

// GetBookByGoogleID retrieves a book record by its catalog identifier.
func (r *repository) GetBookByGoogleID(googleBooksID string) (*data.Book, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE google_books_id = $1`
	var book data.Book
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := scanBook(r.db.QueryRowContext(ctx, query, googleBooksID), &book)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &book, nil
}

// GetAllBooks retrieves a paginated list of stored book records matching a
// full-text search over title, author, publisher and isbn.
func (r *repository) GetAllBooks(search string, filters data.Filters) ([]*data.Book, data.Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), `+bookColumns+`
		FROM books
		WHERE (
			to_tsvector('simple', title) ||
			to_tsvector('simple', author) ||
			to_tsvector('simple', publisher) ||
			to_tsvector('simple', isbn)
			@@ plainto_tsquery('simple', $1) OR $1 = ''
		)
		ORDER BY %s %s, id ASC
		LIMIT $2 OFFSET $3`,
		filters.SortColumn(), filters.SortDirection(),
	)
	args := []interface{}{search, filters.Limit(), filters.Offset()}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	defer rows.Close()
	totalRecords := 0
	books := []*data.Book{}
	for rows.Next() {
		var book data.Book
		err := rows.Scan(
			&totalRecords,
			&book.ID,
			&book.CreatedAt,
			&book.Title,
			&book.Author,
			&book.Isbn,
			&book.Description,
			&book.Publisher,
			&book.PublishedDate,
			&book.PageCount,
			&book.CoverURL,
			pq.Array(&book.Categories),
			&book.Language,
			&book.GoogleBooksID,
			&book.OpenLibraryID,
			&book.AverageRating,
			&book.RatingsCount,
			&book.Version,
		)
		if err != nil {
			return nil, data.Metadata{}, err
		}
		books = append(books, &book)
	}
	if err = rows.Err(); err != nil {
		return nil, data.Metadata{}, err
	}
	metadata := data.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return books, metadata, nil
}

// DeleteBook deletes a book record together with its dependent library
// entries, reviews and favourites. The sweep is explicit: the book owns
// its child collections and deletion removes them in the same
// transaction rather than relying on a database-level cascade.
func (r *repository) DeleteBook(bookID int64) error {
	if bookID < 1 {
		return ErrRecordNotFound
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, query := range []string{
		`DELETE FROM user_books WHERE book_id = $1`,
		`DELETE FROM reviews WHERE book_id = $1`,
		`DELETE FROM favourites WHERE book_id = $1`,
	} {
		_, err = tx.ExecContext(ctx, query, bookID)
		if err != nil {
			return err
		}
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, bookID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return tx.Commit()
}
