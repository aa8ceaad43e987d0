package video

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

func VideoController(router *gin.RouterGroup, env *services.Env) {
	routes := router.Group("/video",
		middleware.AccessTokenMiddleware(env.Tokens),
		middleware.ActiveAccount(env.Store, env.Logger),
	)
	{
		routes.POST("/token", func(c *gin.Context) {
			CreateJoinToken(c, env)
		})
	}
}

// CreateJoinToken mints a video SDK token for the team's call.
func CreateJoinToken(c *gin.Context, env *services.Env) {
	if env.Video == nil {
		response.Error(c, http.StatusServiceUnavailable, "Video calls are not configured")
		return
	}

	var request dto.VideoTokenRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		response.Error(c, http.StatusBadRequest, dto.ValidationMessage(err))
		return
	}

	team, err := env.Store.GetTeam(c.Request.Context(), request.TeamID)
	if errors.Is(err, store.ErrNotFound) {
		response.Error(c, http.StatusNotFound, "Team not found")
		return
	}
	if err != nil {
		response.Internal(c, env.Logger, "Failed to load team", err)
		return
	}

	userID := middleware.CurrentUserID(c)
	if !team.HasUser(userID) {
		response.Error(c, http.StatusForbidden, "You are not a member of this team")
		return
	}

	callID := services.CallIDForTeam(team.TeamID)
	token, expiresAt, err := env.Video.MintToken(userID, callID)
	if err != nil {
		response.Internal(c, env.Logger, "Failed to create video token", err)
		return
	}
	response.Success(c, http.StatusOK, "OK", gin.H{
		"token":     token,
		"apiKey":    env.Video.APIKey(),
		"callId":    callID,
		"userId":    userID,
		"expiresAt": expiresAt,
	})
}
