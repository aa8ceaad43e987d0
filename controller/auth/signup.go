package auth

import (
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

const captchaActionRegister = "register"

func Register(c *gin.Context, env *services.Env) {
	var request dto.RegisterRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		response.Error(c, http.StatusBadRequest, dto.ValidationMessage(err))
		return
	}

	ctx := c.Request.Context()
	if env.Captcha != nil {
		if request.CaptchaToken == "" {
			response.Error(c, http.StatusBadRequest, "captchaToken is required")
			return
		}
		result, err := env.Captcha.Assess(ctx, request.CaptchaToken, captchaActionRegister, middleware.ClientIP(c), c.Request.UserAgent())
		if err != nil {
			response.Internal(c, env.Logger, "Failed to verify reCAPTCHA", err)
			return
		}
		if !services.Passed(env.Captcha, result) {
			response.Error(c, http.StatusBadRequest, "reCAPTCHA verification failed")
			return
		}
	}

	email := services.NormalizeEmail(request.Email)
	exists, err := services.UserExist(ctx, env.Store, email)
	if err != nil {
		response.Internal(c, env.Logger, "Failed to check existing email", err)
		return
	}
	if exists {
		response.Error(c, http.StatusBadRequest, "Email is already registered")
		return
	}

	cost := env.Config.Auth.BcryptCost
	hashedPassword, err := services.HashPassword(request.Password, cost)
	if err != nil {
		response.Internal(c, env.Logger, "Failed to hash password", err)
		return
	}

	now := env.Now()
	user := &model.User{
		UserID:    uuid.New().String(),
		Name:      strings.TrimSpace(request.Name),
		Email:     email,
		Password:  hashedPassword,
		Role:      model.RoleUser,
		Active:    model.UserActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	code, err := services.IssueCode(&user.Verification, now, env.Config.Auth.CodeTTL, cost)
	if err != nil {
		response.Internal(c, env.Logger, "Failed to generate verification code", err)
		return
	}
	if err := env.Store.SaveUser(ctx, user); err != nil {
		response.Internal(c, env.Logger, "Failed to create user", err)
		return
	}

	sent := sendCode(c, env, user.Email, services.PurposeVerify, code)
	response.Success(c, http.StatusCreated, "User registered successfully. Please verify your email.", gin.H{
		"userId":    user.UserID,
		"emailSent": sent,
	})
}
