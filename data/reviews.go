package data

import (
	"time"

	"github.com/bookbuddy/api/internal/validator"
)

// Review defines a book review model. At most one review exists per
// (user, book) pair and only its owner may change it.
type Review struct {
	ID        int64     `json:"id"`
	BookID    int64     `json:"book_id"`
	UserID    int64     `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	Content   string    `json:"content"`
	Rating    int8      `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int32     `json:"-"`
}

// Rating summarises the review set of a single book: star-bucket counts,
// the exact arithmetic mean and the total. A book with no reviews
// summarises to a zero Rating.
type Rating struct {
	FiveStars  int64   `json:"five_stars"`
	FourStars  int64   `json:"four_stars"`
	ThreeStars int64   `json:"three_stars"`
	TwoStars   int64   `json:"two_stars"`
	OneStar    int64   `json:"one_star"`
	Average    float64 `json:"average"`
	Total      int64   `json:"total"`
}

// SummarizeRatings computes the Rating summary over a review set. The
// average is the unrounded arithmetic mean so that it matches the value
// the store maintains on the book row.
func SummarizeRatings(reviews []*Review) Rating {
	rating := Rating{}
	sum := int64(0)
	for _, review := range reviews {
		switch review.Rating {
		case 5:
			rating.FiveStars++
		case 4:
			rating.FourStars++
		case 3:
			rating.ThreeStars++
		case 2:
			rating.TwoStars++
		case 1:
			rating.OneStar++
		}
		sum += int64(review.Rating)
		rating.Total++
	}
	if rating.Total > 0 {
		rating.Average = float64(sum) / float64(rating.Total)
	}
	return rating
}

func ValidateReview(v *validator.Validator, review *Review) {
	v.Check(review.Rating >= 1, "rating", "must be at least one")
	v.Check(review.Rating <= 5, "rating", "must not be greater than five")
	v.Check(review.Content != "", "content", "must be provided")
	v.Check(len(review.Content) >= 10, "content", "must be at least 10 bytes long")
	v.Check(len(review.Content) <= 5000, "content", "must not be more than 5000 bytes long")
}
