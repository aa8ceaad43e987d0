package dto

import "teamhub/model"

type CreateTeamRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=1000"`
}

type UpdateTeamRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=100"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
}

type AddMemberRequest struct {
	Email  string `json:"email" binding:"omitempty,email"`
	UserID string `json:"userId"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,teamrole"`
}

type JoinTeamRequest struct {
	Token string `json:"token" binding:"required"`
}

// TeamResponse is a team as seen by one of its users.
type TeamResponse struct {
	model.Team
	Role string `json:"role"`
}

type MemberResponse struct {
	UserID  string `json:"userId"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Profile string `json:"profile"`
	Role    string `json:"role"`
}

type VideoTokenRequest struct {
	TeamID string `json:"teamId" binding:"required"`
}
