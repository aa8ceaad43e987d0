package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"teamhub/config"
	"teamhub/connection"
	"teamhub/services"
	"teamhub/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := newLogger(cfg.GinMode)
	slog.SetDefault(logger)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newLogger(mode string) *slog.Logger {
	if mode == gin.ReleaseMode {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	shutdownTracing, err := telemetry.Setup(ctx, "teamhub", cfg.OTelEndpoint, cfg.OTelEnabled)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("shutdown tracing", slog.String("error", err.Error()))
		}
	}()

	db, err := connection.OpenStore(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()
	logger.Info("store connected", slog.String("driver", cfg.Store.Driver))

	env := services.NewEnv(cfg, db, services.NewMailer(cfg.Mail, logger), logger)
	if cfg.Captcha.Enabled {
		verifier, err := services.NewRecaptchaVerifier(ctx, cfg.Captcha)
		if err != nil {
			return err
		}
		defer verifier.Close()
		env.Captcha = verifier
	}
	if env.Video == nil {
		logger.Warn("video join tokens disabled: VIDEO_API_KEY or VIDEO_API_SECRET not set")
	}

	return connection.StartServer(ctx, env)
}
