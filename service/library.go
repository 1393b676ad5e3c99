package service

import (
	"errors"
	"time"

	"github.com/bookbuddy/api/data"
	"github.com/bookbuddy/api/internal/validator"
	"github.com/bookbuddy/api/repository"
)

type library interface {
	AddToLibrary(userID int64, bookID int64, shelf data.Shelf, notes string) (*data.LibraryEntry, error)
	MoveShelf(userID, bookID int64, shelf data.Shelf) (*data.LibraryEntry, error)
	UpdateProgress(userID, bookID int64, currentPage *int32, progressPercentage *float64) (*data.LibraryEntry, error)
	RateBook(userID, bookID int64, rating int8) (*data.LibraryEntry, error)
	RemoveFromLibrary(userID, bookID int64) error
	ListLibrary(userID int64, shelf data.Shelf, filters data.Filters) ([]*data.LibraryEntry, data.Metadata, error)
	Timeline(userID int64, filters data.Filters) ([]*data.LibraryEntry, data.Metadata, error)
	CurrentlyReading(userID int64, filters data.Filters) ([]*data.LibraryEntry, data.Metadata, error)
}

// AddToLibrary places a book on one of the user's shelves. A user holds
// at most one library entry per book, so adding a book twice fails with
// ErrDuplicateRecord.
func (s *service) AddToLibrary(userID int64, bookID int64, shelf data.Shelf, notes string) (*data.LibraryEntry, error) {
	entry := data.NewLibraryEntry(userID, bookID, shelf, notes, time.Now())

	v := validator.New()
	if data.ValidateEntry(v, entry); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}

	_, err := s.repo.GetBook(bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	err = s.repo.CreateEntry(entry)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateRecord):
			return nil, ErrDuplicateRecord
		default:
			return nil, err
		}
	}
	return entry, nil
}

// MoveShelf moves the user's entry for a book onto another shelf,
// applying the transition's derived-field effects. Moving onto the
// shelf the entry already occupies succeeds without changing anything.
func (s *service) MoveShelf(userID, bookID int64, shelf data.Shelf) (*data.LibraryEntry, error) {
	v := validator.New()
	if data.ValidateShelf(v, shelf); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}

	entry, book, err := s.entryWithBook(userID, bookID)
	if err != nil {
		return nil, err
	}

	entry.MoveTo(shelf, book, time.Now())

	err = s.updateEntry(entry)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// UpdateProgress records a progress update on the user's entry for a
// book. A percentage derived from the current page and the book's page
// count wins over an explicit percentage, and reaching 100% completes
// the book: the entry is forced onto the READ shelf.
func (s *service) UpdateProgress(userID, bookID int64, currentPage *int32, progressPercentage *float64) (*data.LibraryEntry, error) {
	v := validator.New()
	if data.ValidateProgressInput(v, currentPage, progressPercentage); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}

	entry, book, err := s.entryWithBook(userID, bookID)
	if err != nil {
		return nil, err
	}

	entry.ApplyProgress(book, currentPage, progressPercentage, time.Now())

	err = s.updateEntry(entry)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// RateBook records the user's personal 1-5 star rating on their entry
// for a book. The personal rating is private to the entry and does not
// feed the book's review aggregate.
func (s *service) RateBook(userID, bookID int64, rating int8) (*data.LibraryEntry, error) {
	v := validator.New()
	if data.ValidateBookRating(v, rating); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}

	entry, err := s.repo.GetEntryForUser(userID, bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	entry.Rating = &rating

	err = s.updateEntry(entry)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// RemoveFromLibrary deletes the user's entry for a book. The book
// record itself, and any review the user wrote, are untouched.
func (s *service) RemoveFromLibrary(userID, bookID int64) error {
	err := s.repo.DeleteEntryForUser(userID, bookID)
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

// ListLibrary retrieves a paginated list of the user's library entries,
// optionally restricted to a single shelf.
func (s *service) ListLibrary(userID int64, shelf data.Shelf, filters data.Filters) ([]*data.LibraryEntry, data.Metadata, error) {
	v := validator.New()
	if shelf != "" {
		data.ValidateShelf(v, shelf)
	}
	if data.ValidateFilters(v, filters); !v.Valid() {
		return nil, data.Metadata{}, failedValidation(v.Errors)
	}
	return s.repo.GetAllEntriesForUser(userID, shelf, filters)
}

// Timeline retrieves the user's library entries ordered by most recent
// activity.
func (s *service) Timeline(userID int64, filters data.Filters) ([]*data.LibraryEntry, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		return nil, data.Metadata{}, failedValidation(v.Errors)
	}
	return s.repo.GetTimelineForUser(userID, filters)
}

// CurrentlyReading retrieves the entries on the user's
// CURRENTLY_READING shelf.
func (s *service) CurrentlyReading(userID int64, filters data.Filters) ([]*data.LibraryEntry, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		return nil, data.Metadata{}, failedValidation(v.Errors)
	}
	return s.repo.GetAllEntriesForUser(userID, data.ShelfCurrentlyReading, filters)
}

// entryWithBook loads the user's entry for a book together with the
// book record the derived-field rules need.
func (s *service) entryWithBook(userID, bookID int64) (*data.LibraryEntry, *data.Book, error) {
	entry, err := s.repo.GetEntryForUser(userID, bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, nil, ErrRecordNotFound
		default:
			return nil, nil, err
		}
	}
	book, err := s.repo.GetBook(bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, nil, ErrRecordNotFound
		default:
			return nil, nil, err
		}
	}
	return entry, book, nil
}

func (s *service) updateEntry(entry *data.LibraryEntry) error {
	err := s.repo.UpdateEntry(entry)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return ErrEditConflict
		default:
			return err
		}
	}
	return nil
}
