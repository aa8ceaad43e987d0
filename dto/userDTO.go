package dto

import (
	"time"

	"teamhub/model"
)

type UserResponse struct {
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Profile   string    `json:"profile"`
	Role      string    `json:"role"`
	Verified  bool      `json:"verified"`
	Active    string    `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewUserResponse(user *model.User) UserResponse {
	return UserResponse{
		UserID:    user.UserID,
		Name:      user.Name,
		Email:     user.Email,
		Profile:   user.Profile,
		Role:      user.Role,
		Verified:  user.Verified,
		Active:    user.Active,
		CreatedAt: user.CreatedAt,
	}
}

type UpdateProfileRequest struct {
	Name    *string `json:"name"`
	Profile *string `json:"profile"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6,bcryptmax"`
}
