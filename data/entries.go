package data

import (
	"time"

	"github.com/bookbuddy/api/internal/validator"
)

// Shelf is one of the three mutually exclusive reading states for a
// user's copy of a book.
type Shelf string

const (
	ShelfWantToRead       Shelf = "WANT_TO_READ"
	ShelfCurrentlyReading Shelf = "CURRENTLY_READING"
	ShelfRead             Shelf = "READ"
)

// Shelves lists every valid shelf value.
var Shelves = []string{
	string(ShelfWantToRead),
	string(ShelfCurrentlyReading),
	string(ShelfRead),
}

// IsValid reports whether s is one of the known shelf values.
func (s Shelf) IsValid() bool {
	return validator.In(string(s), Shelves...)
}

// LibraryEntry defines the per-(user, book) record tracking shelf
// placement, reading progress, personal rating and notes. At most one
// entry exists per (user, book) pair; the store enforces this with a
// unique constraint.
type LibraryEntry struct {
	ID                 int64      `json:"id"`
	UserID             int64      `json:"user_id"`
	BookID             int64      `json:"book_id"`
	Shelf              Shelf      `json:"shelf"`
	CurrentPage        *int32     `json:"current_page,omitempty"`
	ProgressPercentage *float64   `json:"progress_percentage,omitempty"`
	StartedAt          *time.Time `json:"started_at,omitempty"`
	FinishedAt         *time.Time `json:"finished_at,omitempty"`
	Rating             *int8      `json:"rating,omitempty"`
	Notes              string     `json:"notes,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	Version            int32      `json:"-"`
}

// shelfTransition identifies a move between two distinct shelves.
type shelfTransition struct {
	From Shelf
	To   Shelf
}

// transitionEffect applies the derived-field side effects of a shelf
// move. Effects never fail; they only touch timestamps and progress.
type transitionEffect func(e *LibraryEntry, book *Book, now time.Time)

func markStarted(e *LibraryEntry, _ *Book, now time.Time) {
	e.StartedAt = &now
}

func markFinished(e *LibraryEntry, book *Book, now time.Time) {
	e.FinishedAt = &now
	complete := 100.0
	e.ProgressPercentage = &complete
	if book != nil && book.PageCount > 0 {
		pageCount := book.PageCount
		e.CurrentPage = &pageCount
	}
}

// shelfTransitions maps every legal (from, to) shelf pair to its side
// effect. All pairs of distinct shelves are legal; identity pairs are
// deliberately absent, so re-entering the current shelf is a no-op.
// Entering WANT_TO_READ derives nothing, hence the nil effects.
var shelfTransitions = map[shelfTransition]transitionEffect{
	{ShelfWantToRead, ShelfCurrentlyReading}: markStarted,
	{ShelfRead, ShelfCurrentlyReading}:       markStarted,
	{ShelfWantToRead, ShelfRead}:             markFinished,
	{ShelfCurrentlyReading, ShelfRead}:       markFinished,
	{ShelfCurrentlyReading, ShelfWantToRead}: nil,
	{ShelfRead, ShelfWantToRead}:             nil,
}

// NewLibraryEntry creates an entry for a book being added to the library.
// Creation carries its own derived-field rules: starting on
// CURRENTLY_READING stamps StartedAt, starting on READ stamps FinishedAt
// and full progress (but not CurrentPage, unlike a shelf move).
func NewLibraryEntry(userID int64, bookID int64, shelf Shelf, notes string, now time.Time) *LibraryEntry {
	entry := &LibraryEntry{
		UserID: userID,
		BookID: bookID,
		Shelf:  shelf,
		Notes:  notes,
	}
	switch shelf {
	case ShelfCurrentlyReading:
		entry.StartedAt = &now
	case ShelfRead:
		entry.FinishedAt = &now
		complete := 100.0
		entry.ProgressPercentage = &complete
	}
	return entry
}

// MoveTo places the entry on newShelf and applies the transition's side
// effects. The previous shelf decides the effects, so moving onto the
// shelf the entry already occupies changes nothing.
func (e *LibraryEntry) MoveTo(newShelf Shelf, book *Book, now time.Time) {
	effect, ok := shelfTransitions[shelfTransition{From: e.Shelf, To: newShelf}]
	e.Shelf = newShelf
	if !ok || effect == nil {
		return
	}
	effect(e, book, now)
}

// ApplyProgress records a progress update. An explicit percentage is
// stored as given, but a percentage derived from CurrentPage and the
// book's page count takes precedence whenever both are computable. If
// the resulting percentage reaches 100 the entry is forced onto the READ
// shelf and FinishedAt is stamped, regardless of its current shelf.
func (e *LibraryEntry) ApplyProgress(book *Book, currentPage *int32, progressPercentage *float64, now time.Time) {
	if progressPercentage != nil {
		pct := *progressPercentage
		e.ProgressPercentage = &pct
	}
	if currentPage != nil {
		page := *currentPage
		e.CurrentPage = &page
		if book != nil && book.PageCount > 0 {
			derived := float64(page) * 100.0 / float64(book.PageCount)
			if derived > 100.0 {
				derived = 100.0
			}
			e.ProgressPercentage = &derived
		}
	}
	if e.ProgressPercentage != nil && *e.ProgressPercentage >= 100.0 {
		e.Shelf = ShelfRead
		e.FinishedAt = &now
	}
}

func ValidateShelf(v *validator.Validator, shelf Shelf) {
	v.Check(shelf != "", "shelf", "must be provided")
	v.Check(shelf.IsValid(), "shelf", "must be one of WANT_TO_READ, CURRENTLY_READING or READ")
}

func ValidateEntry(v *validator.Validator, entry *LibraryEntry) {
	ValidateShelf(v, entry.Shelf)
	v.Check(len(entry.Notes) <= 1000, "notes", "must not be more than 1000 bytes long")
	if entry.Rating != nil {
		ValidateBookRating(v, *entry.Rating)
	}
}

// ValidateProgressInput checks a progress update before it touches the
// entry. At least one of the two values must be supplied.
func ValidateProgressInput(v *validator.Validator, currentPage *int32, progressPercentage *float64) {
	v.Check(currentPage != nil || progressPercentage != nil, "progress", "must provide current_page or progress_percentage")
	if currentPage != nil {
		v.Check(*currentPage >= 0, "current_page", "must not be negative")
	}
	if progressPercentage != nil {
		v.Check(*progressPercentage >= 0, "progress_percentage", "must not be negative")
		v.Check(*progressPercentage <= 100, "progress_percentage", "must not be more than 100")
	}
}

// ValidateBookRating checks a personal 1-5 star rating.
func ValidateBookRating(v *validator.Validator, rating int8) {
	v.Check(rating >= 1, "rating", "must be at least one")
	v.Check(rating <= 5, "rating", "must not be greater than five")
}
