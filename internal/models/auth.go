package models

import "time"

// RegisterRequest creates a new account. IsTeacher is accepted as a legacy synonym for role=teacher.
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=1,max=64"`
	Password  string `json:"password" validate:"required,min=1"`
	Role      Role   `json:"role" validate:"omitempty,oneof=student teacher"`
	IsTeacher bool   `json:"is_teacher"`
}

// LoginRequest holds credentials for authenticating an account.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued bearer token.
type LoginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	Role      Role      `json:"role"`
	ExpiresIn int64     `json:"expires_in"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Principal is the resolved identity behind a request.
type Principal struct {
	AccountID string
	Username  string
	Role      Role
	// AdminKey marks a caller that presented the static admin key instead of a token.
	AdminKey bool
}

// PrincipalFor builds the principal of an authenticated account.
func PrincipalFor(a *Account) *Principal {
	return &Principal{AccountID: a.ID, Username: a.Username, Role: a.Role}
}
