package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"teamhub/dto"
	"teamhub/middleware"
	"teamhub/response"
	"teamhub/services"
)

func VerifyCaptcha(c *gin.Context, env *services.Env) {
	if env.Captcha == nil {
		response.Error(c, http.StatusServiceUnavailable, "reCAPTCHA is not configured")
		return
	}

	var req dto.CaptchaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, dto.ValidationMessage(err))
		return
	}

	result, err := env.Captcha.Assess(c.Request.Context(), req.Token, req.Action, middleware.ClientIP(c), c.Request.UserAgent())
	if err != nil {
		response.Internal(c, env.Logger, "Failed to verify reCAPTCHA", err)
		return
	}
	if !result.Valid {
		response.Error(c, http.StatusBadRequest, "reCAPTCHA verification failed")
		return
	}

	response.Success(c, http.StatusOK, "Captcha verified successfully", gin.H{
		"score":   result.Score,
		"action":  result.Action,
		"reasons": result.Reasons,
		"passed":  services.Passed(env.Captcha, result),
	})
}
