package dto

// RegisterUserRequestBody defines a request body for RegisterUser service.
type RegisterUserRequestBody struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ActivateUserRequestBody defines a request body for ActivateUser service.
type ActivateUserRequestBody struct {
	Token string `json:"token"`
}

// CreateTokenRequestBody defines a request body for the token services.
type CreateTokenRequestBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
