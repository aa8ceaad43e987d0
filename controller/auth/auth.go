package auth

import (
	"github.com/gin-gonic/gin"

	"teamhub/middleware"
	"teamhub/services"
)

func AuthController(router *gin.RouterGroup, env *services.Env) {
	limiter := middleware.NewIPRateLimiter(env.Config.Auth.RateLimitPerSec, env.Config.Auth.RateLimitBurst)
	routes := router.Group("/auth", middleware.RateLimit(limiter))
	{
		routes.POST("/register", func(c *gin.Context) {
			Register(c, env)
		})
		routes.POST("/verify-email", func(c *gin.Context) {
			VerifyEmail(c, env)
		})
		routes.POST("/resend-verification", func(c *gin.Context) {
			ResendVerification(c, env)
		})
		routes.POST("/login", func(c *gin.Context) {
			Login(c, env)
		})
		routes.POST("/forgot-password", func(c *gin.Context) {
			ForgotPassword(c, env)
		})
		routes.POST("/reset-password", func(c *gin.Context) {
			ResetPassword(c, env)
		})
		routes.POST("/refresh", middleware.RefreshTokenMiddleware(env.Tokens), func(c *gin.Context) {
			Refresh(c, env)
		})
		routes.POST("/logout", middleware.AccessTokenMiddleware(env.Tokens), func(c *gin.Context) {
			Logout(c, env)
		})
		routes.GET("/me", middleware.AccessTokenMiddleware(env.Tokens), middleware.ActiveAccount(env.Store, env.Logger), func(c *gin.Context) {
			Me(c, env)
		})
		routes.POST("/captcha", func(c *gin.Context) {
			VerifyCaptcha(c, env)
		})
	}
}
