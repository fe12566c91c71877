package auth

import "github.com/feinledger/fein/pkg/dto"

// RegisterInput represents the request body for creating a user.
type RegisterInput struct {
	Name     string `json:"name" validate:"max=50"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=1,max=72"`
}

// LoginInput represents the request body for user authentication.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse carries a session token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// RegisterResponse is the created user with a ready-to-use token.
type RegisterResponse struct {
	User *dto.UserRead `json:"user"`
	TokenResponse
}

func bearer(token string) TokenResponse {
	return TokenResponse{AccessToken: token, TokenType: "bearer"}
}
