package team

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"teamhub/dto"
	"teamhub/middleware"
	"teamhub/model"
	"teamhub/response"
	"teamhub/services"
	"teamhub/store"
)

func ListMembers(c *gin.Context, env *services.Env) {
	team := middleware.CurrentTeam(c)
	userIDs := team.UserIDs()

	users, err := env.Store.GetUsers(c.Request.Context(), userIDs)
	if err != nil {
		response.Internal(c, env.Logger, "Failed to load members", err)
		return
	}
	byID := make(map[string]*model.User, len(users))
	for i := range users {
		byID[users[i].UserID] = &users[i]
	}

	members := make([]dto.MemberResponse, 0, len(userIDs))
	for _, id := range userIDs {
		member := dto.MemberResponse{UserID: id, Role: services.RoleOf(team, id)}
		if user, ok := byID[id]; ok {
			member.Name = user.Name
			member.Email = user.Email
			member.Profile = user.Profile
		}
		members = append(members, member)
	}
	response.Success(c, http.StatusOK, "OK", gin.H{"members": members})
}

func findUser(c *gin.Context, env *services.Env, request dto.AddMemberRequest) (*model.User, error) {
	ctx := c.Request.Context()
	if request.UserID != "" {
		return env.Store.GetUser(ctx, request.UserID)
	}
	return env.Store.GetUserByEmail(ctx, services.NormalizeEmail(request.Email))
}

func AddMember(c *gin.Context, env *services.Env) {
	var request dto.AddMemberRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		response.Error(c, http.StatusBadRequest, dto.ValidationMessage(err))
		return
	}
	if request.Email == "" && request.UserID == "" {
		response.Error(c, http.StatusBadRequest, "email or userId is required")
		return
	}

	user, err := findUser(c, env, request)
	if errors.Is(err, store.ErrNotFound) || (err == nil && user.Active == model.UserDeleted) {
		response.Error(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		response.Internal(c, env.Logger, "Failed to load user", err)
		return
	}

	team := middleware.CurrentTeam(c)
	if err := services.AddMember(team, user.UserID); err != nil {
		membershipError(c, env, err)
		return
	}
	if !saveTeam(c, env, team) {
		return
	}
	response.Success(c, http.StatusOK, "Member added successfully", gin.H{"team": teamResponse(team, middleware.CurrentUserID(c))})
}

func RemoveMember(c *gin.Context, env *services.Env) {
	team := middleware.CurrentTeam(c)
	if err := services.RemoveMember(team, c.Param("userId")); err != nil {
		membershipError(c, env, err)
		return
	}
	if !saveTeam(c, env, team) {
		return
	}
	response.Success(c, http.StatusOK, "Member removed successfully", gin.H{"team": teamResponse(team, middleware.CurrentUserID(c))})
}

func ChangeRole(c *gin.Context, env *services.Env) {
	var request dto.ChangeRoleRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		response.Error(c, http.StatusBadRequest, dto.ValidationMessage(err))
		return
	}

	team := middleware.CurrentTeam(c)
	if err := services.SetRole(team, c.Param("userId"), request.Role); err != nil {
		membershipError(c, env, err)
		return
	}
	if !saveTeam(c, env, team) {
		return
	}
	response.Success(c, http.StatusOK, "Role updated successfully", gin.H{"team": teamResponse(team, middleware.CurrentUserID(c))})
}

func LeaveTeam(c *gin.Context, env *services.Env) {
	team := middleware.CurrentTeam(c)
	if err := services.RemoveMember(team, middleware.CurrentUserID(c)); err != nil {
		membershipError(c, env, err)
		return
	}
	if !saveTeam(c, env, team) {
		return
	}
	response.Success(c, http.StatusOK, "You have left the team", nil)
}

func saveTeam(c *gin.Context, env *services.Env, team *model.Team) bool {
	team.UpdatedAt = env.Now()
	if err := env.Store.SaveTeam(c.Request.Context(), team); err != nil {
		response.Internal(c, env.Logger, "Failed to save team", err)
		return false
	}
	return true
}
