package repository

import (
	authdomain "inboxpilot-backend/internal/auth/domain"
)

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(user *authdomain.User) error
	FindByEmail(email string) (*authdomain.User, error)
	FindByID(id string) (*authdomain.User, error)
	Update(user *authdomain.User) error
	// UpdateOAuthTokens persists refreshed Gmail tokens for the user
	UpdateOAuthTokens(userID, accessToken, refreshToken string) error

	SaveRefreshToken(token *authdomain.RefreshToken) error
	FindRefreshToken(token string) (*authdomain.RefreshToken, error)
	DeleteRefreshToken(token string) error
}
