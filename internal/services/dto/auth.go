package dto

// LoginRequest is the body of POST /auth.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the success body of POST /auth. Key order is a wire
// contract: id, username, token, image.
type LoginResponse struct {
	ID       uint    `json:"id"`
	Username string  `json:"username"`
	Token    string  `json:"token"`
	Image    *string `json:"image"`
}
