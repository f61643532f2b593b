package dto

import (
	"time"

	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/domain"
)

// UserResponse defines the data returned for a user. Credential and token
// fields never leave the domain layer.
type UserResponse struct {
	UserID            string    `json:"userID"`
	Username          string    `json:"username"`
	Email             string    `json:"email"`
	Name              string    `json:"name"`
	AuthProvider      string    `json:"authProvider"`
	PreferredCurrency string    `json:"preferredCurrency"`
	CreatedAt         time.Time `json:"createdAt"`
}

// ToUserResponse converts a domain.User to UserResponse DTO
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:            user.UserID,
		Username:          user.Username,
		Email:             user.Email,
		Name:              user.Name,
		AuthProvider:      string(user.AuthProvider),
		PreferredCurrency: user.PreferredCurrency,
		CreatedAt:         user.CreatedAt,
	}
}
