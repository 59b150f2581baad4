package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type RegisterRequest struct {
	Email        string `json:"email" binding:"required"`
	Password     string `json:"password" binding:"required"`
	FirstName    string `json:"firstName" binding:"required"`
	LastName     string `json:"lastName" binding:"required"`
	BusinessName string `json:"businessName"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// AuthResult carries the issued token pair and the authenticated user. The
// HTTP layer moves RefreshToken into a cookie and strips it from the body.
type AuthResult struct {
	TokenPair
	User User `json:"user"`
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (AuthResult, error)
	Login(ctx context.Context, req LoginRequest) (AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (TokenPair, error)
	Logout(ctx context.Context, userID snowflake.ID) error
	ChangePassword(ctx context.Context, userID snowflake.ID, req ChangePasswordRequest) error
	Profile(ctx context.Context, userID snowflake.ID) (User, error)

	// UserFromAccessToken verifies an access token and loads its active user.
	// The auth middleware calls this on every protected request.
	UserFromAccessToken(ctx context.Context, raw string) (User, error)
}
