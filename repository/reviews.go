package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bookbuddy/api/data"
)

type reviews interface {
	CreateReview(review *data.Review) error
	GetReview(reviewID int64) (*data.Review, error)
	UpdateReview(review *data.Review) error
	DeleteReview(reviewID int64, bookID int64) error
	ReviewExistsForUser(userID, bookID int64) bool
	GetAllReviewsForBook(bookID int64, filters data.Filters) (data.Rating, []*data.Review, data.Metadata, error)
	GetAllReviewsForUser(userID int64, filters data.Filters) ([]*data.Review, data.Metadata, error)
}

// Review mutations maintain the book's average_rating and ratings_count
// in the same transaction as the review write. Concurrent reviewers of
// the same book serialize on the book row: each transaction takes a
// SELECT ... FOR UPDATE lock before touching the review set, so the
// aggregate refresh always sees the committed review set it belongs to.
// If any statement fails, the whole mutation rolls back and neither the
// review nor the aggregate changes.

// lockBook takes the row lock that serializes aggregate writers.
func lockBook(ctx context.Context, tx *sql.Tx, bookID int64) error {
	var id int64
	err := tx.QueryRowContext(ctx, `SELECT id FROM books WHERE id = $1 FOR UPDATE`, bookID).Scan(&id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	return nil
}

// refreshBookRating recomputes the locked book's aggregate from the
// current review set. The mean is stored unrounded: the book row must
// equal the exact arithmetic mean of its reviews at all times.
func refreshBookRating(ctx context.Context, tx *sql.Tx, bookID int64) error {
	query := `
		UPDATE books
		SET average_rating = COALESCE((SELECT AVG(rating)::float8 FROM reviews WHERE book_id = $1), 0),
		    ratings_count = (SELECT COUNT(*) FROM reviews WHERE book_id = $1)
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, query, bookID)
	return err
}

// CreateReview creates a review record and refreshes the book's
// aggregate atomically.
func (r *repository) CreateReview(review *data.Review) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	err = lockBook(ctx, tx, review.BookID)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO reviews (book_id, user_id, content, rating)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at, version`
	args := []interface{}{review.BookID, review.UserID, review.Content, review.Rating}
	err = tx.QueryRowContext(ctx, query, args...).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt, &review.Version)
	if err != nil {
		switch {
		case err.Error() == `pq: duplicate key value violates unique constraint "reviews_book_id_user_id_key"`:
			return ErrDuplicateRecord
		default:
			return err
		}
	}
	err = refreshBookRating(ctx, tx, review.BookID)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// GetReview retrieves a review record together with its author's name.
func (r *repository) GetReview(reviewID int64) (*data.Review, error) {
	if reviewID < 1 {
		return nil, ErrRecordNotFound
	}
	query := `
		SELECT reviews.id, reviews.book_id, reviews.user_id, users.name, reviews.content, reviews.rating, reviews.created_at, reviews.updated_at, reviews.version
		FROM reviews
		INNER JOIN users ON reviews.user_id = users.id
		WHERE reviews.id = $1`
	var review data.Review
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, reviewID).Scan(
		&review.ID,
		&review.BookID,
		&review.UserID,
		&review.UserName,
		&review.Content,
		&review.Rating,
		&review.CreatedAt,
		&review.UpdatedAt,
		&review.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &review, nil
}

// UpdateReview updates a review record and refreshes the book's
// aggregate atomically, guarded by the optimistic version check.
func (r *repository) UpdateReview(review *data.Review) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	err = lockBook(ctx, tx, review.BookID)
	if err != nil {
		return err
	}
	query := `
		UPDATE reviews
		SET content = $1, rating = $2, updated_at = now(), version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING updated_at, version`
	args := []interface{}{review.Content, review.Rating, review.ID, review.Version}
	err = tx.QueryRowContext(ctx, query, args...).Scan(&review.UpdatedAt, &review.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		default:
			return err
		}
	}
	err = refreshBookRating(ctx, tx, review.BookID)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteReview deletes a review record and refreshes the book's
// aggregate against the reduced review set atomically.
func (r *repository) DeleteReview(reviewID int64, bookID int64) error {
	if reviewID < 1 {
		return ErrRecordNotFound
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	err = lockBook(ctx, tx, bookID)
	if err != nil {
		return err
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, reviewID)
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
	err = refreshBookRating(ctx, tx, bookID)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// ReviewExistsForUser checks whether a review record already exists for
// a (user, book) pair.
func (r *repository) ReviewExistsForUser(userID, bookID int64) bool {
	query := `
		SELECT id
		FROM reviews
		WHERE user_id = $1 AND book_id = $2`
	var id int64
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, userID, bookID).Scan(&id)
	return !errors.Is(err, sql.ErrNoRows)
}

// GetAllReviewsForBook retrieves a paginated list of a book's review
// records together with the rating summary over the full review set.
func (r *repository) GetAllReviewsForBook(bookID int64, filters data.Filters) (data.Rating, []*data.Review, data.Metadata, error) {
	summaryQuery := `
		SELECT rating
		FROM reviews
		WHERE book_id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, summaryQuery, bookID)
	if err != nil {
		return data.Rating{}, nil, data.Metadata{}, err
	}
	defer rows.Close()
	all := []*data.Review{}
	for rows.Next() {
		var review data.Review
		err := rows.Scan(&review.Rating)
		if err != nil {
			return data.Rating{}, nil, data.Metadata{}, err
		}
		all = append(all, &review)
	}
	if err = rows.Err(); err != nil {
		return data.Rating{}, nil, data.Metadata{}, err
	}
	rating := data.SummarizeRatings(all)

	query := fmt.Sprintf(`
		SELECT count(*) OVER(), reviews.id, reviews.book_id, reviews.user_id, users.name, reviews.content, reviews.rating, reviews.created_at, reviews.updated_at, reviews.version
		FROM reviews
		INNER JOIN users ON reviews.user_id = users.id
		WHERE reviews.book_id = $1
		ORDER BY reviews.%s %s, reviews.id ASC
		LIMIT $2 OFFSET $3`,
		filters.SortColumn(), filters.SortDirection(),
	)
	args := []interface{}{bookID, filters.Limit(), filters.Offset()}
	pageRows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return data.Rating{}, nil, data.Metadata{}, err
	}
	defer pageRows.Close()
	totalRecords := 0
	reviews := []*data.Review{}
	for pageRows.Next() {
		var review data.Review
		err := pageRows.Scan(
			&totalRecords,
			&review.ID,
			&review.BookID,
			&review.UserID,
			&review.UserName,
			&review.Content,
			&review.Rating,
			&review.CreatedAt,
			&review.UpdatedAt,
			&review.Version,
		)
		if err != nil {
			return data.Rating{}, nil, data.Metadata{}, err
		}
		reviews = append(reviews, &review)
	}
	if err = pageRows.Err(); err != nil {
		return data.Rating{}, nil, data.Metadata{}, err
	}
	metadata := data.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return rating, reviews, metadata, nil
}

// GetAllReviewsForUser retrieves a paginated list of a user's review
// records.
func (r *repository) GetAllReviewsForUser(userID int64, filters data.Filters) ([]*data.Review, data.Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), id, book_id, user_id, content, rating, created_at, updated_at, version
		FROM reviews
		WHERE user_id = $1
		ORDER BY %s %s, id ASC
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
	reviews := []*data.Review{}
	for rows.Next() {
		var review data.Review
		err := rows.Scan(
			&totalRecords,
			&review.ID,
			&review.BookID,
			&review.UserID,
			&review.Content,
			&review.Rating,
			&review.CreatedAt,
			&review.UpdatedAt,
			&review.Version,
		)
		if err != nil {
			return nil, data.Metadata{}, err
		}
		reviews = append(reviews, &review)
	}
	if err = rows.Err(); err != nil {
		return nil, data.Metadata{}, err
	}
	metadata := data.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return reviews, metadata, nil
}
