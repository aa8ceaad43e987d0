package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"teamhub/model"
	"teamhub/response"
	"teamhub/services"
	"teamhub/store"
)

// Context keys set by the auth middlewares.
const (
	ContextUserID        = "userId"
	ContextClaims        = "claims"
	ContextRefreshToken  = "refreshToken"
	ContextRefreshClaims = "refreshClaims"
)

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

func AccessTokenMiddleware(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			response.Abort(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}
		token, ok := bearerToken(c)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}

		claims, err := tokens.ParseAccessToken(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "Token is expired or invalid")
			return
		}

		c.Set(ContextClaims, claims)
		c.Set(ContextUserID, claims.UserID)
		c.Next()
	}
}

func RefreshTokenMiddleware(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "Refresh token is missing")
			return
		}

		claims, err := tokens.ParseRefreshToken(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "Invalid refresh token")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRefreshClaims, claims)
		c.Set(ContextRefreshToken, token)
		c.Next()
	}
}

// ActiveAccount rejects a still-valid access token whose account has since
// been deleted or deactivated. Must run after AccessTokenMiddleware.
func ActiveAccount(users store.UserStore, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := CurrentUserID(c)
		user, err := users.GetUser(c.Request.Context(), userID)
		if errors.Is(err, store.ErrNotFound) {
			response.Abort(c, http.StatusUnauthorized, "User account no longer exists")
			return
		}
		if err != nil {
			logger.ErrorContext(c.Request.Context(), "load account", slog.String("userId", userID), slog.String("error", err.Error()))
			response.Abort(c, http.StatusInternalServerError, "Failed to load user")
			return
		}
		switch user.Active {
		case model.UserInactive:
			response.Abort(c, http.StatusForbidden, "User account is not active")
			return
		case model.UserDeleted:
			response.Abort(c, http.StatusForbidden, "User account is deleted")
			return
		}
		c.Next()
	}
}

// CurrentUserID returns the user authenticated by AccessTokenMiddleware or
// RefreshTokenMiddleware.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

func CurrentClaims(c *gin.Context) *model.AccessClaims {
	claims, _ := c.Get(ContextClaims)
	accessClaims, _ := claims.(*model.AccessClaims)
	return accessClaims
}
