package team

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"teamhub/dto"
	"teamhub/middleware"
	"teamhub/response"
	"teamhub/services"
	"teamhub/store"
)

// CreateInvite returns a signed token that lets its bearer join the team as
// a member until it expires.
func CreateInvite(c *gin.Context, env *services.Env) {
	team := middleware.CurrentTeam(c)
	token, expiresAt, err := env.Tokens.CreateInviteToken(team.TeamID, middleware.CurrentUserID(c))
	if err != nil {
		response.Internal(c, env.Logger, "Failed to create invite", err)
		return
	}
	response.Success(c, http.StatusCreated, "Invite created successfully", gin.H{
		"token":     token,
		"teamId":    team.TeamID,
		"expiresAt": expiresAt,
	})
}

func JoinTeam(c *gin.Context, env *services.Env) {
	var request dto.JoinTeamRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		response.Error(c, http.StatusBadRequest, dto.ValidationMessage(err))
		return
	}

	claims, err := env.Tokens.ParseInviteToken(request.Token)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invite is invalid or has expired")
		return
	}

	team, err := env.Store.GetTeam(c.Request.Context(), claims.TeamID)
	if errors.Is(err, store.ErrNotFound) {
		response.Error(c, http.StatusNotFound, "Team not found")
		return
	}
	if err != nil {
		response.Internal(c, env.Logger, "Failed to load team", err)
		return
	}

	userID := middleware.CurrentUserID(c)
	if err := services.AddMember(team, userID); err != nil {
		membershipError(c, env, err)
		return
	}
	if !saveTeam(c, env, team) {
		return
	}
	response.Success(c, http.StatusOK, "Joined team successfully", gin.H{"team": teamResponse(team, userID)})
}
