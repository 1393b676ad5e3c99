package data

import "time"

// Favourite marks a book as one of a user's favourites. A plain toggle
// set: at most one row per (user, book) pair and no further state.
type Favourite struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	BookID    int64     `json:"book_id"`
	CreatedAt time.Time `json:"created_at"`
}
