package auth

import "github.com/bazaarhq/bazaar-backend/internal/users"

// RegisterInput carries the fields required to create an account.
type RegisterInput struct {
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=8,max=128"`
	FirstName string  `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string  `json:"last_name" validate:"required,min=1,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=32"`
}

// LoginInput carries the credentials for password login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshInput carries the expired access token and its refresh token.
type RefreshInput struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// TokenPair is returned on login, register, and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResult bundles the issued tokens with the authenticated profile.
type AuthResult struct {
	Tokens TokenPair     `json:"tokens"`
	User   users.Profile `json:"user"`
}
