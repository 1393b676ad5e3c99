package service

import (
	"errors"

	"github.com/bookbuddy/api/data"
	"github.com/bookbuddy/api/internal/validator"
	"github.com/bookbuddy/api/repository"
)

type favourites interface {
	AddFavourite(userID, bookID int64) error
	RemoveFavourite(userID, bookID int64) error
	ListFavourites(userID int64, filters data.Filters) ([]*data.Book, data.Metadata, error)
}

// AddFavourite marks a book as one of the user's favourites.
// Favouriting is independent of shelves: the book does not need to be
// in the user's library.
func (s *service) AddFavourite(userID, bookID int64) error {
	_, err := s.repo.GetBook(bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}

	err = s.repo.AddFavouriteForUser(userID, bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateRecord):
			return ErrDuplicateRecord
		default:
			return err
		}
	}
	return nil
}

// RemoveFavourite removes a book from the user's favourites.
func (s *service) RemoveFavourite(userID, bookID int64) error {
	err := s.repo.RemoveFavouriteForUser(userID, bookID)
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

// ListFavourites retrieves a paginated list of the books the user has
// favourited.
func (s *service) ListFavourites(userID int64, filters data.Filters) ([]*data.Book, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		return nil, data.Metadata{}, failedValidation(v.Errors)
	}
	return s.repo.GetAllFavouritesForUser(userID, filters)
}
