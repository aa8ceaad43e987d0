package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"teamhub/model"
	"teamhub/response"
	"teamhub/store"
)

const ContextTeam = "team"

// TeamMember loads the team named by the :teamId path parameter and rejects
// callers that do not belong to it. Must run after AccessTokenMiddleware.
func TeamMember(teams store.TeamStore, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		teamID := c.Param("teamId")
		team, err := teams.GetTeam(c.Request.Context(), teamID)
		if errors.Is(err, store.ErrNotFound) {
			response.Abort(c, http.StatusNotFound, "Team not found")
			return
		}
		if err != nil {
			logger.Error("load team", slog.String("teamId", teamID), slog.String("error", err.Error()))
			response.Abort(c, http.StatusInternalServerError, "Failed to load team")
			return
		}
		if !team.HasUser(CurrentUserID(c)) {
			response.Abort(c, http.StatusForbidden, "You are not a member of this team")
			return
		}
		c.Set(ContextTeam, team)
		c.Next()
	}
}

// TeamAdmin must run after TeamMember.
func TeamAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		team := CurrentTeam(c)
		if team == nil || !team.IsAdmin(CurrentUserID(c)) {
			response.Abort(c, http.StatusForbidden, "Only team admins can perform this action")
			return
		}
		c.Next()
	}
}

func CurrentTeam(c *gin.Context) *model.Team {
	v, ok := c.Get(ContextTeam)
	if !ok {
		return nil
	}
	team, _ := v.(*model.Team)
	return team
}
