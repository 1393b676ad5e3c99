package dto

// ImportBookRequestBody defines a request body for ImportBook service.
type ImportBookRequestBody struct {
	GoogleBooksID string `json:"google_books_id"`
}
