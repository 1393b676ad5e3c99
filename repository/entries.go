package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bookbuddy/api/data"
)

type entries interface {
	CreateEntry(entry *data.LibraryEntry) error
	GetEntryForUser(userID, bookID int64) (*data.LibraryEntry, error)
	UpdateEntry(entry *data.LibraryEntry) error
	DeleteEntryForUser(userID, bookID int64) error
	GetAllEntriesForUser(userID int64, shelf data.Shelf, filters data.Filters) ([]*data.LibraryEntry, data.Metadata, error)
	GetTimelineForUser(userID int64, filters data.Filters) ([]*data.LibraryEntry, data.Metadata, error)
}

const entryColumns = `id, user_id, book_id, shelf, current_page, progress_percentage, started_at, finished_at, rating, notes, created_at, updated_at, version`

func scanEntry(row interface{ Scan(...interface{}) error }, entry *data.LibraryEntry) error {
	return row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.BookID,
		&entry.Shelf,
		&entry.CurrentPage,
		&entry.ProgressPercentage,
		&entry.StartedAt,
		&entry.FinishedAt,
		&entry.Rating,
		&entry.Notes,
		&entry.CreatedAt,
		&entry.UpdatedAt,
		&entry.Version,
	)
}

// CreateEntry creates a library entry record. The unique (user_id,
// book_id) constraint is the store-level guarantee that a user holds at
// most one entry per book.
func (r *repository) CreateEntry(entry *data.LibraryEntry) error {
	query := `
		INSERT INTO user_books (user_id, book_id, shelf, current_page, progress_percentage, started_at, finished_at, rating, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at, version`
	args := []interface{}{
		entry.UserID,
		entry.BookID,
		entry.Shelf,
		entry.CurrentPage,
		entry.ProgressPercentage,
		entry.StartedAt,
		entry.FinishedAt,
		entry.Rating,
		entry.Notes,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt, &entry.Version)
	if err != nil {
		switch {
		case err.Error() == `pq: duplicate key value violates unique constraint "user_books_user_id_book_id_key"`:
			return ErrDuplicateRecord
		default:
			return err
		}
	}
	return nil
}

// GetEntryForUser retrieves the library entry for a (user, book) pair.
func (r *repository) GetEntryForUser(userID, bookID int64) (*data.LibraryEntry, error) {
	if userID < 1 || bookID < 1 {
		return nil, ErrRecordNotFound
	}
	query := `
		SELECT ` + entryColumns + `
		FROM user_books
		WHERE user_id = $1 AND book_id = $2`
	var entry data.LibraryEntry
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := scanEntry(r.db.QueryRowContext(ctx, query, userID, bookID), &entry)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &entry, nil
}

// UpdateEntry updates a library entry record, guarded by the optimistic
// version check.
func (r *repository) UpdateEntry(entry *data.LibraryEntry) error {
	query := `
		UPDATE user_books
		SET shelf = $1, current_page = $2, progress_percentage = $3, started_at = $4, finished_at = $5, rating = $6, notes = $7, updated_at = now(), version = version + 1
		WHERE id = $8 AND version = $9
		RETURNING updated_at, version`
	args := []interface{}{
		entry.Shelf,
		entry.CurrentPage,
		entry.ProgressPercentage,
		entry.StartedAt,
		entry.FinishedAt,
		entry.Rating,
		entry.Notes,
		entry.ID,
		entry.Version,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&entry.UpdatedAt, &entry.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		default:
			return err
		}
	}
	return nil
}

// DeleteEntryForUser deletes the library entry for a (user, book) pair.
func (r *repository) DeleteEntryForUser(userID, bookID int64) error {
	if userID < 1 || bookID < 1 {
		return ErrRecordNotFound
	}
	query := `
		DELETE FROM user_books
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

// GetAllEntriesForUser retrieves a paginated list of a user's library
// entries, optionally restricted to a single shelf.
func (r *repository) GetAllEntriesForUser(userID int64, shelf data.Shelf, filters data.Filters) ([]*data.LibraryEntry, data.Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), `+entryColumns+`
		FROM user_books
		WHERE user_id = $1
		AND (shelf = $2 OR $2 = '')
		ORDER BY %s %s, id ASC
		LIMIT $3 OFFSET $4`,
		filters.SortColumn(), filters.SortDirection(),
	)
	args := []interface{}{userID, shelf, filters.Limit(), filters.Offset()}
	return r.listEntries(query, args, filters)
}

// GetTimelineForUser retrieves a user's library entries ordered by most
// recent activity.
func (r *repository) GetTimelineForUser(userID int64, filters data.Filters) ([]*data.LibraryEntry, data.Metadata, error) {
	query := `
		SELECT count(*) OVER(), ` + entryColumns + `
		FROM user_books
		WHERE user_id = $1
		ORDER BY updated_at DESC, id ASC
		LIMIT $2 OFFSET $3`
	args := []interface{}{userID, filters.Limit(), filters.Offset()}
	return r.listEntries(query, args, filters)
}

func (r *repository) listEntries(query string, args []interface{}, filters data.Filters) ([]*data.LibraryEntry, data.Metadata, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	defer rows.Close()
	totalRecords := 0
	entries := []*data.LibraryEntry{}
	for rows.Next() {
		var entry data.LibraryEntry
		err := rows.Scan(
			&totalRecords,
			&entry.ID,
			&entry.UserID,
			&entry.BookID,
			&entry.Shelf,
			&entry.CurrentPage,
			&entry.ProgressPercentage,
			&entry.StartedAt,
			&entry.FinishedAt,
			&entry.Rating,
			&entry.Notes,
			&entry.CreatedAt,
			&entry.UpdatedAt,
			&entry.Version,
		)
		if err != nil {
			return nil, data.Metadata{}, err
		}
		entries = append(entries, &entry)
	}
	if err = rows.Err(); err != nil {
		return nil, data.Metadata{}, err
	}
	metadata := data.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return entries, metadata, nil
}
