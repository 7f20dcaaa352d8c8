package dto

// SignupRequest is the body of POST /auth/signup
type SignupRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100" example:"ana"`
	Password string `json:"password" binding:"required,min=8,max=72" example:"s3cret-pass"`
	NIF      string `json:"nif" binding:"max=50"`
	Address  string `json:"address" binding:"max=300"`
	ZipCode  string `json:"zip_code" binding:"max=20"`
	City     string `json:"city" binding:"max=100"`
	Province string `json:"province" binding:"max=100"`
	Email    string `json:"email" binding:"omitempty,email,max=200"`
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"ana"`
	Password string `json:"password" binding:"required" example:"s3cret-pass"`
}

// UserResponse is the public view of an account
type UserResponse struct {
	PublicID string `json:"public_id"`
	Username string `json:"username"`
	NIF      string `json:"nif,omitempty"`
	Email    string `json:"email,omitempty"`
}

// LoginResponse is returned next to the session cookie
type LoginResponse struct {
	Message   string       `json:"message" example:"Login successful"`
	ExpiresAt int64        `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// SignupResponse is returned for a new account
type SignupResponse struct {
	Message string       `json:"message" example:"registered successfully"`
	User    UserResponse `json:"user"`
}
