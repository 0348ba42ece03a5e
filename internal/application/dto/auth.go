package dto

// RegisterRequest creates a new wallet account.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	FullName string `json:"full_name" validate:"required,max=200"`
	Password string `json:"password" validate:"required,min=6"`
}

// RegisterResponse confirms account creation.
type RegisterResponse struct {
	Username string `json:"username"`
	Balance  string `json:"balance"`
	Message  string `json:"message"`
}

// LoginRequest verifies credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse reports the login result.
type LoginResponse struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Balance  string `json:"balance"`
	Message  string `json:"message"`
}

// ResetPasswordRequest replaces an account password.
type ResetPasswordRequest struct {
	Username    string `json:"username" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// ResetPasswordResponse confirms the reset.
type ResetPasswordResponse struct {
	Message string `json:"message"`
}
