package service

import (
	"errors"

	"github.com/bookbuddy/api/data"
	"github.com/bookbuddy/api/internal/validator"
	"github.com/bookbuddy/api/repository"
)

type reviews interface {
	CreateReview(userID, bookID int64, content string, rating int8) (*data.Review, error)
	GetReview(reviewID int64) (*data.Review, error)
	UpdateReview(userID, reviewID int64, content *string, rating *int8) (*data.Review, error)
	DeleteReview(userID, reviewID int64) error
	ListReviewsForBook(bookID int64, filters data.Filters) (data.Rating, []*data.Review, data.Metadata, error)
	ListReviewsForUser(userID int64, filters data.Filters) ([]*data.Review, data.Metadata, error)
}

// CreateReview creates the user's review of a book. A user writes at
// most one review per book. The book's average_rating and ratings_count
// are refreshed in the same transaction as the insert, so a failed
// create leaves the aggregate untouched.
func (s *service) CreateReview(userID, bookID int64, content string, rating int8) (*data.Review, error) {
	review := &data.Review{
		BookID:  bookID,
		UserID:  userID,
		Content: content,
		Rating:  rating,
	}

	v := validator.New()
	if data.ValidateReview(v, review); !v.Valid() {
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

	if s.repo.ReviewExistsForUser(userID, bookID) {
		return nil, ErrDuplicateRecord
	}

	err = s.repo.CreateReview(review)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateRecord):
			return nil, ErrDuplicateRecord
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return review, nil
}

// GetReview retrieves a single review.
func (s *service) GetReview(reviewID int64) (*data.Review, error) {
	review, err := s.repo.GetReview(reviewID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return review, nil
}

// UpdateReview updates the content and/or rating of a review. Only the
// review's author may update it. The book's aggregate is refreshed in
// the same transaction as the update.
func (s *service) UpdateReview(userID, reviewID int64, content *string, rating *int8) (*data.Review, error) {
	review, err := s.repo.GetReview(reviewID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	if review.UserID != userID {
		return nil, ErrNotPermitted
	}

	if content != nil {
		review.Content = *content
	}
	if rating != nil {
		review.Rating = *rating
	}

	v := validator.New()
	if data.ValidateReview(v, review); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}

	err = s.repo.UpdateReview(review)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return review, nil
}

// DeleteReview deletes a review. Only the review's author may delete
// it. The book's aggregate is refreshed against the reduced review set
// in the same transaction as the delete.
func (s *service) DeleteReview(userID, reviewID int64) error {
	review, err := s.repo.GetReview(reviewID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}

	if review.UserID != userID {
		return ErrNotPermitted
	}

	err = s.repo.DeleteReview(reviewID, review.BookID)
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

// ListReviewsForBook retrieves a paginated list of a book's reviews
// together with the star-bucket rating summary over the full review
// set.
func (s *service) ListReviewsForBook(bookID int64, filters data.Filters) (data.Rating, []*data.Review, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		return data.Rating{}, nil, data.Metadata{}, failedValidation(v.Errors)
	}

	_, err := s.repo.GetBook(bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return data.Rating{}, nil, data.Metadata{}, ErrRecordNotFound
		default:
			return data.Rating{}, nil, data.Metadata{}, err
		}
	}

	return s.repo.GetAllReviewsForBook(bookID, filters)
}

// ListReviewsForUser retrieves a paginated list of the reviews a user
// has written.
func (s *service) ListReviewsForUser(userID int64, filters data.Filters) ([]*data.Review, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		return nil, data.Metadata{}, failedValidation(v.Errors)
	}
	return s.repo.GetAllReviewsForUser(userID, filters)
}
