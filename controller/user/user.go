package user

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"teamhub/dto"
	"teamhub/middleware"
	"teamhub/model"
	"teamhub/response"
	"teamhub/services"
	"teamhub/store"
)

const searchLimit = 20

func UserController(router *gin.RouterGroup, env *services.Env) {
	routes := router.Group("/users",
		middleware.AccessTokenMiddleware(env.Tokens),
		middleware.ActiveAccount(env.Store, env.Logger),
	)
	{
		routes.GET("/search", func(c *gin.Context) {
			SearchUser(c, env)
		})
		routes.PUT("/profile", func(c *gin.Context) {
			UpdateProfileUser(c, env)
		})
		routes.PUT("/password", func(c *gin.Context) {
			ChangePassword(c, env)
		})
		routes.DELETE("/account", func(c *gin.Context) {
			DeleteUser(c, env)
		})
	}
}

func currentUser(c *gin.Context, env *services.Env) (*model.User, bool) {
	user, err := env.Store.GetUser(c.Request.Context(), middleware.CurrentUserID(c))
	if errors.Is(err, store.ErrNotFound) {
		response.Error(c, http.StatusNotFound, "User not found")
		return nil, false
	}
	if err != nil {
		response.Internal(c, env.Logger, "Failed to load user", err)
		return nil, false
	}
	return user, true
}

func SearchUser(c *gin.Context, env *services.Env) {
	prefix := services.NormalizeEmail(c.Query("email"))
	if prefix == "" {
		response.Error(c, http.StatusBadRequest, "email query parameter is required")
		return
	}

	users, err := env.Store.SearchUsersByEmail(c.Request.Context(), prefix, searchLimit)
	if err != nil {
		response.Internal(c, env.Logger, "Failed to search users", err)
		return
	}

	userResponses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		if users[i].Active == model.UserDeleted {
			continue
		}
		userResponses = append(userResponses, dto.NewUserResponse(&users[i]))
	}
	response.Success(c, http.StatusOK, "OK", gin.H{"users": userResponses})
}

func UpdateProfileUser(c *gin.Context, env *services.Env) {
	var updateProfile dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&updateProfile); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	if updateProfile.Name == nil && updateProfile.Profile == nil {
		response.Error(c, http.StatusBadRequest, "No data to update")
		return
	}

	user, ok := currentUser(c, env)
	if !ok {
		return
	}

	if updateProfile.Name != nil {
		name := strings.TrimSpace(*updateProfile.Name)
		if n := utf8.RuneCountInString(name); n < 2 || n > 100 {
			response.Error(c, http.StatusBadRequest, "Name must be between 2 and 100 characters")
			return
		}
		user.Name = name
	}
	if updateProfile.Profile != nil {
		profile := strings.TrimSpace(*updateProfile.Profile)
		if utf8.RuneCountInString(profile) > 500 {
			response.Error(c, http.StatusBadRequest, "Profile must not exceed 500 characters")
			return
		}
		user.Profile = profile
	}

	user.UpdatedAt = env.Now()
	if err := env.Store.SaveUser(c.Request.Context(), user); err != nil {
		response.Internal(c, env.Logger, "Failed to update user profile", err)
		return
	}
	response.Success(c, http.StatusOK, "Profile updated successfully", gin.H{"user": dto.NewUserResponse(user)})
}

func ChangePassword(c *gin.Context, env *services.Env) {
	var request dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		response.Error(c, http.StatusBadRequest, dto.ValidationMessage(err))
		return
	}

	user, ok := currentUser(c, env)
	if !ok {
		return
	}
	if !services.CheckPassword(user.Password, request.CurrentPassword) {
		response.Error(c, http.StatusUnauthorized, "Current password is incorrect")
		return
	}

	hashedPassword, err := services.HashPassword(request.NewPassword, env.Config.Auth.BcryptCost)
	if err != nil {
		response.Internal(c, env.Logger, "Failed to process password", err)
		return
	}
	user.Password = hashedPassword
	user.UpdatedAt = env.Now()

	ctx := c.Request.Context()
	if err := env.Store.SaveUser(ctx, user); err != nil {
		response.Internal(c, env.Logger, "Failed to change password", err)
		return
	}
	if err := env.Store.DeleteRefreshToken(ctx, user.UserID); err != nil && !errors.Is(err, store.ErrNotFound) {
		response.Internal(c, env.Logger, "Failed to revoke sessions", err)
		return
	}
	response.Success(c, http.StatusOK, "Password changed successfully", nil)
}

// DeleteUser deactivates users that still belong to a team so member lists
// keep resolving, and deletes the rest.
func DeleteUser(c *gin.Context, env *services.Env) {
	user, ok := currentUser(c, env)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	teams, err := env.Store.ListTeamsByUser(ctx, user.UserID)
	if err != nil {
		response.Internal(c, env.Logger, "Failed to check user associations", err)
		return
	}
	if err := env.Store.DeleteRefreshToken(ctx, user.UserID); err != nil && !errors.Is(err, store.ErrNotFound) {
		response.Internal(c, env.Logger, "Failed to revoke sessions", err)
		return
	}

	if len(teams) > 0 {
		user.Active = model.UserDeleted
		user.UpdatedAt = env.Now()
		if err := env.Store.SaveUser(ctx, user); err != nil {
			response.Internal(c, env.Logger, "Failed to deactivate user", err)
			return
		}
		response.Success(c, http.StatusOK, "User deactivated successfully", nil)
		return
	}

	if err := env.Store.DeleteUser(ctx, user.UserID); err != nil {
		response.Internal(c, env.Logger, "Failed to delete user", err)
		return
	}
	response.Success(c, http.StatusOK, "User deleted successfully", nil)
}
