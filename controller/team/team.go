package team

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"teamhub/dto"
	"teamhub/middleware"
	"teamhub/model"
	"teamhub/response"
	"teamhub/services"
)

func TeamController(router *gin.RouterGroup, env *services.Env) {
	routes := router.Group("/teams",
		middleware.AccessTokenMiddleware(env.Tokens),
		middleware.ActiveAccount(env.Store, env.Logger),
	)
	{
		routes.POST("", func(c *gin.Context) {
			CreateTeam(c, env)
		})
		routes.GET("", func(c *gin.Context) {
			ListTeams(c, env)
		})
		routes.POST("/join", func(c *gin.Context) {
			JoinTeam(c, env)
		})
	}

	member := routes.Group("/:teamId", middleware.TeamMember(env.Store, env.Logger))
	{
		member.GET("", func(c *gin.Context) {
			GetTeam(c, env)
		})
		member.GET("/members", func(c *gin.Context) {
			ListMembers(c, env)
		})
		member.POST("/leave", func(c *gin.Context) {
			LeaveTeam(c, env)
		})
	}

	admin := member.Group("", middleware.TeamAdmin())
	{
		admin.PUT("", func(c *gin.Context) {
			UpdateTeam(c, env)
		})
		admin.DELETE("", func(c *gin.Context) {
			DeleteTeam(c, env)
		})
		admin.POST("/members", func(c *gin.Context) {
			AddMember(c, env)
		})
		admin.DELETE("/members/:userId", func(c *gin.Context) {
			RemoveMember(c, env)
		})
		admin.PUT("/members/:userId/role", func(c *gin.Context) {
			ChangeRole(c, env)
		})
		admin.POST("/invite", func(c *gin.Context) {
			CreateInvite(c, env)
		})
	}
}

func teamResponse(team *model.Team, userID string) dto.TeamResponse {
	return dto.TeamResponse{Team: *team, Role: services.RoleOf(team, userID)}
}

// membershipError maps team role errors onto HTTP statuses.
func membershipError(c *gin.Context, env *services.Env, err error) {
	switch {
	case errors.Is(err, services.ErrLastAdmin):
		response.Error(c, http.StatusForbidden, "A team must keep at least one admin")
	case errors.Is(err, services.ErrNotTeamMember):
		response.Error(c, http.StatusNotFound, "User is not a member of this team")
	case errors.Is(err, services.ErrAlreadyMember),
		errors.Is(err, services.ErrAlreadyAdmin),
		errors.Is(err, services.ErrNotTeamAdmin),
		errors.Is(err, services.ErrInvalidRole):
		response.Error(c, http.StatusBadRequest, err.Error())
	default:
		response.Internal(c, env.Logger, "Failed to update team members", err)
	}
}

func CreateTeam(c *gin.Context, env *services.Env) {
	var request dto.CreateTeamRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		response.Error(c, http.StatusBadRequest, dto.ValidationMessage(err))
		return
	}
	name := strings.TrimSpace(request.Name)
	if name == "" {
		response.Error(c, http.StatusBadRequest, "name is required")
		return
	}

	userID := middleware.CurrentUserID(c)
	team := services.NewTeam(uuid.New().String(), name, strings.TrimSpace(request.Description), userID, env.Now())
	if err := env.Store.SaveTeam(c.Request.Context(), team); err != nil {
		response.Internal(c, env.Logger, "Failed to create team", err)
		return
	}
	response.Success(c, http.StatusCreated, "Team created successfully", gin.H{"team": teamResponse(team, userID)})
}

func ListTeams(c *gin.Context, env *services.Env) {
	userID := middleware.CurrentUserID(c)
	teams, err := env.Store.ListTeamsByUser(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, env.Logger, "Failed to list teams", err)
		return
	}

	result := make([]dto.TeamResponse, 0, len(teams))
	for i := range teams {
		result = append(result, teamResponse(&teams[i], userID))
	}
	response.Success(c, http.StatusOK, "OK", gin.H{"teams": result})
}

func GetTeam(c *gin.Context, env *services.Env) {
	team := middleware.CurrentTeam(c)
	response.Success(c, http.StatusOK, "OK", gin.H{"team": teamResponse(team, middleware.CurrentUserID(c))})
}

func UpdateTeam(c *gin.Context, env *services.Env) {
	var request dto.UpdateTeamRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		response.Error(c, http.StatusBadRequest, dto.ValidationMessage(err))
		return
	}
	if request.Name == nil && request.Description == nil {
		response.Error(c, http.StatusBadRequest, "No data to update")
		return
	}

	team := middleware.CurrentTeam(c)
	if request.Name != nil {
		name := strings.TrimSpace(*request.Name)
		if name == "" {
			response.Error(c, http.StatusBadRequest, "name must not be empty")
			return
		}
		team.Name = name
	}
	if request.Description != nil {
		team.Description = strings.TrimSpace(*request.Description)
	}
	team.UpdatedAt = env.Now()

	if err := env.Store.SaveTeam(c.Request.Context(), team); err != nil {
		response.Internal(c, env.Logger, "Failed to update team", err)
		return
	}
	response.Success(c, http.StatusOK, "Team updated successfully", gin.H{"team": teamResponse(team, middleware.CurrentUserID(c))})
}

// DeleteTeam removes the team together with its notes and tasks.
func DeleteTeam(c *gin.Context, env *services.Env) {
	team := middleware.CurrentTeam(c)
	ctx := c.Request.Context()

	if err := env.Store.DeleteNotesByTeam(ctx, team.TeamID); err != nil {
		response.Internal(c, env.Logger, "Failed to delete team notes", err)
		return
	}
	if err := env.Store.DeleteTasksByTeam(ctx, team.TeamID); err != nil {
		response.Internal(c, env.Logger, "Failed to delete team tasks", err)
		return
	}
	if err := env.Store.DeleteTeam(ctx, team.TeamID); err != nil {
		response.Internal(c, env.Logger, "Failed to delete team", err)
		return
	}
	response.Success(c, http.StatusOK, "Team deleted successfully", nil)
}
