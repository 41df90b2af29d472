package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/nichelabs/nichenav/pkg/models"
)

// Claims are the JWT claims issued on login
type Claims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// RegisterRequest is the payload for creating an account
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest is the payload for authenticating
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned on successful register or login
type LoginResponse struct {
	Token     string         `json:"token"`
	ExpiresIn int64          `json:"expires_in"` // seconds
	User      models.Profile `json:"user"`
}

// ChangePasswordRequest is the payload for rotating a password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}
