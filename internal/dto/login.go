package dto

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

// LoginResponse is the session descriptor returned to clients. It never
// carries the password hash.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
