package dto

import "github.com/bookbuddy/api/data"

// AddToLibraryRequestBody defines a request body for AddToLibrary service.
type AddToLibraryRequestBody struct {
	BookID int64      `json:"book_id"`
	Shelf  data.Shelf `json:"shelf"`
	Notes  string     `json:"notes"`
}

// MoveShelfRequestBody defines a request body for MoveShelf service.
type MoveShelfRequestBody struct {
	Shelf data.Shelf `json:"shelf"`
}

// UpdateProgressRequestBody defines a request body for UpdateProgress service.
type UpdateProgressRequestBody struct {
	CurrentPage        *int32   `json:"current_page"`
	ProgressPercentage *float64 `json:"progress_percentage"`
}

// RateBookRequestBody defines a request body for RateBook service.
type RateBookRequestBody struct {
	Rating int8 `json:"rating"`
}
