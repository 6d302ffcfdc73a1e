package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/identity"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest represents a token refresh request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// ChangePasswordRequest represents a password change request
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// CreateUserRequest represents a request to create a back-office user
type CreateUserRequest struct {
	Username    string     `json:"username" binding:"required,min=3"`
	Password    string     `json:"password" binding:"required,min=8"`
	DisplayName string     `json:"displayName"`
	Phone       string     `json:"phone"`
	Role        string     `json:"role" binding:"required,oneof=owner manager staff"`
	ShopID      *uuid.UUID `json:"shopId"`
}

// UpdateUserRequest represents a request to update a user's profile
type UpdateUserRequest struct {
	DisplayName *string    `json:"displayName"`
	Phone       *string    `json:"phone"`
	Role        *string    `json:"role"`
	ShopID      *uuid.UUID `json:"shopId"`
}

// UserInfo carries the user details returned to clients
type UserInfo struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	DisplayName string     `json:"displayName"`
	Phone       string     `json:"phone,omitempty"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	ShopID      *uuid.UUID `json:"shopId,omitempty"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// LoginResult carries tokens and user info after a successful login
type LoginResult struct {
	AccessToken      string    `json:"accessToken"`
	RefreshToken     string    `json:"refreshToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
	User             UserInfo  `json:"user"`
}

// RefreshTokenResult carries the renewed token pair
type RefreshTokenResult struct {
	AccessToken      string    `json:"accessToken"`
	RefreshToken     string    `json:"refreshToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

// ToUserInfo converts a domain user to its client representation
func ToUserInfo(user *identity.User) UserInfo {
	return UserInfo{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.GetDisplayNameOrUsername(),
		Phone:       user.Phone,
		Role:        string(user.Role),
		Status:      string(user.Status),
		ShopID:      user.ShopID,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}
