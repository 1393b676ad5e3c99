package dto

// CreateReviewRequestBody defines a request body for CreateReview service.
type CreateReviewRequestBody struct {
	Content string `json:"content"`
	Rating  int8   `json:"rating"`
}

// UpdateReviewRequestBody defines a request body for UpdateReview service.
type UpdateReviewRequestBody struct {
	Content *string `json:"content"`
	Rating  *int8   `json:"rating"`
}
