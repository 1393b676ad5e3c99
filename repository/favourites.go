package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/bookbuddy/api/data"
	"github.com/lib/pq"
)

type favourites interface {
	AddFavouriteForUser(userID, bookID int64) error
	RemoveFavouriteForUser(userID, bookID int64) error
	GetAllFavouritesForUser(userID int64, filters data.Filters) ([]*data.Book, data.Metadata, error)
}

// AddFavouriteForUser marks a book as a favourite of a user.
func (r *repository) AddFavouriteForUser(userID, bookID int64) error {
	query := `
		INSERT INTO favourites (user_id, book_id)
		VALUES ($1, $2)`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err := r.db.ExecContext(ctx, query, userID, bookID)
	if err != nil {
		switch {
		case err.Error() == `pq: duplicate key value violates unique constraint "favourites_user_id_book_id_key"`:
			return ErrDuplicateRecord
		default:
			return err
		}
	}
	return nil
}

// RemoveFavouriteForUser removes a book from a user's favourites.
func (r *repository) RemoveFavouriteForUser(userID, bookID int64) error {
	if userID < 1 || bookID < 1 {
		return ErrRecordNotFound
	}
	query := `
		DELETE FROM favourites
		WHERE user_id = $1 AND book_id = $2`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	result, err := r.db.ExecContext(ctx, query, userID, bookID)
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
	return nil
}

// GetAllFavouritesForUser retrieves a paginated list of the books a user
// has favourited.
func (r *repository) GetAllFavouritesForUser(userID int64, filters data.Filters) ([]*data.Book, data.Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), books.id, books.created_at, books.title, books.author, books.isbn, books.description, books.publisher, books.published_date, books.page_count, books.cover_url, books.categories, books.language, books.google_books_id, books.open_library_id, books.average_rating, books.ratings_count, books.version
		FROM books
		INNER JOIN favourites ON favourites.book_id = books.id
		WHERE favourites.user_id = $1
		ORDER BY books.%s %s, books.id ASC
		LIMIT $2 OFFSET $3`,
		filters.SortColumn(), filters.SortDirection(),
	)
	args := []interface{}{userID, filters.Limit(), filters.Offset()}
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
