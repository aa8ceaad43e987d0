package auth

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"teamhub/dto"
	"teamhub/model"
	"teamhub/response"
	"teamhub/services"
	"teamhub/store"
)

const forgotPasswordMessage = "If the email is registered, a reset code has been sent"

// sendCode emails code and reports whether delivery succeeded. A failed
// delivery is logged; the caller can ask for a resend.
func sendCode(c *gin.Context, env *services.Env, to, purpose, code string) bool {
	subject, body := services.CodeEmail(purpose, code, env.Config.Auth.CodeTTL)
	if err := env.Mailer.Send(c.Request.Context(), to, subject, body); err != nil {
		env.Logger.WarnContext(c.Request.Context(), "send code email",
			slog.String("purpose", purpose),
			slog.String("error", err.Error()),
		)
		return false
	}
	return true
}

func codeError(c *gin.Context, err error, label string) {
	switch {
	case errors.Is(err, services.ErrCodeMissing):
		response.Error(c, http.StatusBadRequest, "No "+label+" code is pending. Please request a new one.")
	case errors.Is(err, services.ErrCodeExpired):
		response.Error(c, http.StatusBadRequest, "The "+label+" code has expired. Please request a new one.")
	case errors.Is(err, services.ErrCodeAttempts):
		response.Error(c, http.StatusTooManyRequests, "Too many invalid "+label+" codes. Please request a new one.")
	default:
		response.Error(c, http.StatusBadRequest, "Invalid "+label+" code")
	}
}

// rejectCode persists the attempt counter when err changed it and writes the
// matching error response.
func rejectCode(c *gin.Context, env *services.Env, user *model.User, err error, label string) {
	if services.AttemptCounted(err) {
		if saveErr := env.Store.SaveUser(c.Request.Context(), user); saveErr != nil {
			response.Internal(c, env.Logger, "Failed to record "+label+" attempt", saveErr)
			return
		}
	}
	codeError(c, err, label)
}

func tooSoon(c *gin.Context, wait time.Duration) {
	seconds := int(math.Ceil(wait.Seconds()))
	c.Header("Retry-After", strconv.Itoa(seconds))
	c.JSON(http.StatusTooManyRequests, gin.H{
		"success":    false,
		"message":    "Please wait before requesting another code",
		"retryAfter": seconds,
	})
}

func lookupUser(c *gin.Context, env *services.Env, email string) (*model.User, bool) {
	user, err := env.Store.GetUserByEmail(c.Request.Context(), services.NormalizeEmail(email))
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

func VerifyEmail(c *gin.Context, env *services.Env) {
	var request dto.VerifyEmailRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		response.Error(c, http.StatusBadRequest, dto.ValidationMessage(err))
		return
	}

	user, ok := lookupUser(c, env, request.Email)
	if !ok {
		return
	}
	if user.Verified {
		response.Error(c, http.StatusBadRequest, "Email is already verified")
		return
	}

	now := env.Now()
	if err := services.CheckCode(&user.Verification, request.Code, now); err != nil {
		rejectCode(c, env, user, err, "verification")
		return
	}

	user.Verified = true
	user.Verification.Clear()
	user.UpdatedAt = now
	if err := env.Store.SaveUser(c.Request.Context(), user); err != nil {
		response.Internal(c, env.Logger, "Failed to verify email", err)
		return
	}

	tokens, err := issueTokens(c, env, user)
	if err != nil {
		response.Internal(c, env.Logger, "Failed to create tokens", err)
		return
	}
	response.Success(c, http.StatusOK, "Email verified successfully", gin.H{
		"token": tokens,
		"user":  dto.NewUserResponse(user),
	})
}

func ResendVerification(c *gin.Context, env *services.Env) {
	var request dto.EmailRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		response.Error(c, http.StatusBadRequest, dto.ValidationMessage(err))
		return
	}

	user, ok := lookupUser(c, env, request.Email)
	if !ok {
		return
	}
	if user.Verified {
		response.Error(c, http.StatusBadRequest, "Email is already verified")
		return
	}

	now := env.Now()
	if wait := services.CooldownRemaining(user.Verification, now, env.Config.Auth.ResendCooldown); wait > 0 {
		tooSoon(c, wait)
		return
	}

	code, err := services.IssueCode(&user.Verification, now, env.Config.Auth.CodeTTL, env.Config.Auth.BcryptCost)
	if err != nil {
		response.Internal(c, env.Logger, "Failed to generate verification code", err)
		return
	}
	user.UpdatedAt = now
	if err := env.Store.SaveUser(c.Request.Context(), user); err != nil {
		response.Internal(c, env.Logger, "Failed to store verification code", err)
		return
	}

	sent := sendCode(c, env, user.Email, services.PurposeVerify, code)
	response.Success(c, http.StatusOK, "Verification code sent", gin.H{"emailSent": sent})
}

func ForgotPassword(c *gin.Context, env *services.Env) {
	var request dto.EmailRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		response.Error(c, http.StatusBadRequest, dto.ValidationMessage(err))
		return
	}

	ctx := c.Request.Context()
	user, err := env.Store.GetUserByEmail(ctx, services.NormalizeEmail(request.Email))
	if errors.Is(err, store.ErrNotFound) {
		response.Success(c, http.StatusOK, forgotPasswordMessage, nil)
		return
	}
	if err != nil {
		response.Internal(c, env.Logger, "Failed to load user", err)
		return
	}
	if user.Active == model.UserDeleted {
		response.Success(c, http.StatusOK, forgotPasswordMessage, nil)
		return
	}

	now := env.Now()
	if wait := services.CooldownRemaining(user.Reset, now, env.Config.Auth.ResendCooldown); wait > 0 {
		tooSoon(c, wait)
		return
	}

	code, err := services.IssueCode(&user.Reset, now, env.Config.Auth.CodeTTL, env.Config.Auth.BcryptCost)
	if err != nil {
		response.Internal(c, env.Logger, "Failed to generate reset code", err)
		return
	}
	user.UpdatedAt = now
	if err := env.Store.SaveUser(ctx, user); err != nil {
		response.Internal(c, env.Logger, "Failed to store reset code", err)
		return
	}

	sendCode(c, env, user.Email, services.PurposeReset, code)
	response.Success(c, http.StatusOK, forgotPasswordMessage, nil)
}

func ResetPassword(c *gin.Context, env *services.Env) {
	var request dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		response.Error(c, http.StatusBadRequest, dto.ValidationMessage(err))
		return
	}

	ctx := c.Request.Context()
	user, err := env.Store.GetUserByEmail(ctx, services.NormalizeEmail(request.Email))
	if errors.Is(err, store.ErrNotFound) {
		codeError(c, services.ErrCodeMissing, "reset")
		return
	}
	if err != nil {
		response.Internal(c, env.Logger, "Failed to load user", err)
		return
	}

	now := env.Now()
	if err := services.CheckCode(&user.Reset, request.Code, now); err != nil {
		rejectCode(c, env, user, err, "reset")
		return
	}

	hashedPassword, err := services.HashPassword(request.Password, env.Config.Auth.BcryptCost)
	if err != nil {
		response.Internal(c, env.Logger, "Failed to hash password", err)
		return
	}
	user.Password = hashedPassword
	user.Reset.Clear()
	user.UpdatedAt = now
	if err := env.Store.SaveUser(ctx, user); err != nil {
		response.Internal(c, env.Logger, "Failed to reset password", err)
		return
	}
	if err := revokeRefreshToken(c, env, user.UserID); err != nil {
		response.Internal(c, env.Logger, "Failed to revoke sessions", err)
		return
	}

	response.Success(c, http.StatusOK, "Password reset successfully", nil)
}
