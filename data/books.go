package data

import (
	"time"

	"github.com/bookbuddy/api/internal/validator"
)

// Book defines a book model. Metadata fields are owned by the catalog
// import; AverageRating and RatingsCount are owned by the review
// aggregate and must never be written outside a review mutation.
type Book struct {
	ID            int64     `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Isbn          string    `json:"isbn,omitempty"`
	Description   string    `json:"description,omitempty"`
	Publisher     string    `json:"publisher,omitempty"`
	PublishedDate string    `json:"published_date,omitempty"`
	PageCount     int32     `json:"page_count,omitempty"`
	CoverURL      string    `json:"cover_url,omitempty"`
	Categories    []string  `json:"categories,omitempty"`
	Language      string    `json:"language,omitempty"`
	GoogleBooksID string    `json:"google_books_id,omitempty"`
	OpenLibraryID string    `json:"open_library_id,omitempty"`
	AverageRating float64   `json:"average_rating"`
	RatingsCount  int32     `json:"ratings_count"`
	Version       int32     `json:"-"`
}

func ValidateBook(v *validator.Validator, book *Book) {
	v.Check(book.Title != "", "title", "must be provided")
	v.Check(len(book.Title) <= 500, "title", "must not be more than 500 bytes long")
	v.Check(book.Author != "", "author", "must be provided")
	v.Check(len(book.Description) <= 2000, "description", "must not be more than 2000 bytes long")
	v.Check(book.PageCount >= 0, "page_count", "must not be negative")
	v.Check(len(book.Isbn) <= 17, "isbn", "must not be more than 17 characters")
	v.Check(validator.Unique(book.Categories), "categories", "must not contain duplicate values")
}
