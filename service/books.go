package service

import (
	"context"
	"errors"
	"time"

	"github.com/bookbuddy/api/data"
	"github.com/bookbuddy/api/internal/validator"
	"github.com/bookbuddy/api/repository"
)

// Catalog is the external book catalogue the service imports volume
// metadata from. A nil book with a nil error means the catalogue has no
// volume for the given ID.
type Catalog interface {
	Search(ctx context.Context, query string) ([]*data.Book, error)
	FetchByID(ctx context.Context, volumeID string) (*data.Book, error)
}

type books interface {
	SearchStoredBooks(search string, filters data.Filters) ([]*data.Book, data.Metadata, error)
	SearchCatalog(query string) ([]*data.Book, error)
	ImportBook(googleBooksID string) (*data.Book, error)
	GetBook(bookID int64) (*data.Book, error)
	DeleteBook(bookID int64) error
}

// SearchStoredBooks retrieves a paginated list of the books already in
// the store, optionally filtered by a full-text search term.
func (s *service) SearchStoredBooks(search string, filters data.Filters) ([]*data.Book, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		return nil, data.Metadata{}, failedValidation(v.Errors)
	}
	books, metadata, err := s.repo.GetAllBooks(search, filters)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	return books, metadata, nil
}

// SearchCatalog queries the external catalogue. Results are not stored;
// a volume only enters the store when it is imported.
func (s *service) SearchCatalog(query string) ([]*data.Book, error) {
	v := validator.New()
	if v.Check(query != "", "q", "must be provided"); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	books, err := s.catalog.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	return books, nil
}

// ImportBook copies a volume from the external catalogue into the
// store. Importing the same volume twice returns the existing record
// rather than a duplicate.
func (s *service) ImportBook(googleBooksID string) (*data.Book, error) {
	v := validator.New()
	if v.Check(googleBooksID != "", "google_books_id", "must be provided"); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}

	book, err := s.repo.GetBookByGoogleID(googleBooksID)
	if err == nil {
		return book, nil
	}
	if !errors.Is(err, repository.ErrRecordNotFound) {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	book, err = s.catalog.FetchByID(ctx, googleBooksID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, ErrRecordNotFound
	}

	v = validator.New()
	if data.ValidateBook(v, book); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}

	err = s.repo.CreateBook(book)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateRecord):
			// Lost a race with a concurrent import of the same volume.
			return s.repo.GetBookByGoogleID(googleBooksID)
		default:
			return nil, err
		}
	}
	return book, nil
}

// GetBook retrieves a stored book.
func (s *service) GetBook(bookID int64) (*data.Book, error) {
	book, err := s.repo.GetBook(bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return book, nil
}

// DeleteBook deletes a stored book together with all library entries,
// reviews and favourites that reference it.
func (s *service) DeleteBook(bookID int64) error {
	err := s.repo.DeleteBook(bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	return nil
}
