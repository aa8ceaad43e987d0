package auth

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

func Login(c *gin.Context, env *services.Env) {
	var request dto.LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		response.Error(c, http.StatusBadRequest, dto.ValidationMessage(err))
		return
	}

	user, err := env.Store.GetUserByEmail(c.Request.Context(), services.NormalizeEmail(request.Email))
	if errors.Is(err, store.ErrNotFound) {
		response.Error(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		response.Internal(c, env.Logger, "Failed to load user", err)
		return
	}
	if !services.CheckPassword(user.Password, request.Password) {
		response.Error(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if !accountUsable(c, user) {
		return
	}
	if !user.Verified {
		response.Error(c, http.StatusForbidden, "User account is not verified")
		return
	}

	tokens, err := issueTokens(c, env, user)
	if err != nil {
		response.Internal(c, env.Logger, "Failed to create tokens", err)
		return
	}
	response.Success(c, http.StatusOK, "Login Successfully", gin.H{
		"token": tokens,
		"user":  dto.NewUserResponse(user),
	})
}

// accountUsable rejects inactive and deleted accounts with 403.
func accountUsable(c *gin.Context, user *model.User) bool {
	switch user.Active {
	case model.UserInactive:
		response.Error(c, http.StatusForbidden, "User account is not active")
		return false
	case model.UserDeleted:
		response.Error(c, http.StatusForbidden, "User account is deleted")
		return false
	}
	return true
}

// issueTokens signs a new token pair and replaces the user's stored refresh
// token, ending any previous session.
func issueTokens(c *gin.Context, env *services.Env, user *model.User) (dto.TokenPair, error) {
	accessToken, err := env.Tokens.CreateAccessToken(user)
	if err != nil {
		return dto.TokenPair{}, err
	}
	refreshToken, record, err := env.Tokens.CreateRefreshToken(user.UserID)
	if err != nil {
		return dto.TokenPair{}, err
	}
	if err := env.Store.SaveRefreshToken(c.Request.Context(), record); err != nil {
		return dto.TokenPair{}, err
	}
	return dto.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func revokeRefreshToken(c *gin.Context, env *services.Env, userID string) error {
	err := env.Store.DeleteRefreshToken(c.Request.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

func Refresh(c *gin.Context, env *services.Env) {
	claimsValue, _ := c.Get(middleware.ContextRefreshClaims)
	claims, ok := claimsValue.(*model.RefreshClaims)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Invalid refresh token")
		return
	}
	token := c.GetString(middleware.ContextRefreshToken)

	ctx := c.Request.Context()
	record, err := env.Store.GetRefreshToken(ctx, claims.UserID)
	if errors.Is(err, store.ErrNotFound) {
		response.Error(c, http.StatusUnauthorized, "Refresh token has been revoked")
		return
	}
	if err != nil {
		response.Internal(c, env.Logger, "Failed to load refresh token", err)
		return
	}
	if err := env.Tokens.VerifyRefreshToken(record, claims, token); err != nil {
		response.Error(c, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	user, err := env.Store.GetUser(ctx, claims.UserID)
	if errors.Is(err, store.ErrNotFound) {
		response.Error(c, http.StatusUnauthorized, "User not found")
		return
	}
	if err != nil {
		response.Internal(c, env.Logger, "Failed to load user", err)
		return
	}
	if !accountUsable(c, user) {
		return
	}

	accessToken, err := env.Tokens.CreateAccessToken(user)
	if err != nil {
		response.Internal(c, env.Logger, "Failed to create access token", err)
		return
	}
	response.Success(c, http.StatusOK, "Token refreshed", gin.H{"accessToken": accessToken})
}

func Logout(c *gin.Context, env *services.Env) {
	if err := revokeRefreshToken(c, env, middleware.CurrentUserID(c)); err != nil {
		response.Internal(c, env.Logger, "Failed to logout", err)
		return
	}
	response.Success(c, http.StatusOK, "Logged out successfully", nil)
}

func Me(c *gin.Context, env *services.Env) {
	user, err := env.Store.GetUser(c.Request.Context(), middleware.CurrentUserID(c))
	if errors.Is(err, store.ErrNotFound) {
		response.Error(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		response.Internal(c, env.Logger, "Failed to load user", err)
		return
	}
	response.Success(c, http.StatusOK, "OK", gin.H{"user": dto.NewUserResponse(user)})
}
