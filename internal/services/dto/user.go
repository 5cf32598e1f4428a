package dto

// RegisterRequest is the body of POST /users.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest is the body of PUT /users/:id. Image, when present, is
// the new profile image as a base64 string.
type UpdateUserRequest struct {
	Username string `json:"username"`
	Image    string `json:"image"`
}

// UserResponse is the public-safe projection of a user.
type UserResponse struct {
	ID       uint    `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Image    *string `json:"image"`
}

// UserPage is one page of the user listing.
type UserPage struct {
	Content    []UserResponse `json:"content"`
	Page       int            `json:"page"`
	Size       int            `json:"size"`
	TotalPages int            `json:"totalPages"`
}

// PasswordResetRequest is the body of POST /password-reset.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordUpdateRequest is the body of PUT /user/password.
type PasswordUpdateRequest struct {
	Password           string `json:"password"`
	PasswordResetToken string `json:"passwordResetToken"`
}
