package services

import (
	"log/slog"
	"time"

	"teamhub/config"
	"teamhub/store"
)

// Env carries the dependencies shared by every controller.
type Env struct {
	Config  *config.Config
	Store   store.Store
	Tokens  *TokenService
	Mailer  Mailer
	Video   *VideoService
	Captcha CaptchaVerifier
	Logger  *slog.Logger
	Now     func() time.Time
}

// NewEnv wires the services that only depend on configuration. Video and
// Captcha stay nil when they are not configured.
func NewEnv(cfg *config.Config, db store.Store, mailer Mailer, logger *slog.Logger) *Env {
	now := time.Now
	env := &Env{
		Config: cfg,
		Store:  db,
		Tokens: NewTokenService(cfg.Auth, now),
		Mailer: mailer,
		Logger: logger,
		Now:    now,
	}
	if cfg.VideoEnabled() {
		env.Video = NewVideoService(cfg.Video, now)
	}
	return env
}
