package config

import (
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET_KEY", "access")
	t.Setenv("JWT_REFRESH_SECRET_KEY", "refresh")
	t.Setenv("GIN_MODE", "debug")
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" || cfg.Store.Driver != "firestore" || cfg.Mail.Driver != "log" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Auth.CodeTTL != 15*time.Minute || cfg.Auth.ResendCooldown != time.Minute {
		t.Fatalf("code defaults = %v / %v", cfg.Auth.CodeTTL, cfg.Auth.ResendCooldown)
	}
	if len(cfg.TrustedProxies) != 0 {
		t.Fatalf("trusted proxies = %v, want none", cfg.TrustedProxies)
	}
	if cfg.Auth.InviteTTL != 7*24*time.Hour {
		t.Fatalf("invite ttl = %v", cfg.Auth.InviteTTL)
	}
	if cfg.VideoEnabled() {
		t.Fatal("video enabled without credentials")
	}
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("JWT_REFRESH_SECRET_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without JWT secrets")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	setRequired(t)
	t.Setenv("STORE_DRIVER", "mongo")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("VIDEO_API_KEY", "key")
	t.Setenv("VIDEO_API_SECRET", "secret")
	t.Setenv("OTP_RESEND_COOLDOWN", "2m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Driver != "mongo" {
		t.Fatalf("driver = %q", cfg.Store.Driver)
	}
	if len(cfg.Origins) != 2 || cfg.Origins[1] != "https://b.example" {
		t.Fatalf("origins = %v", cfg.Origins)
	}
	if !cfg.VideoEnabled() {
		t.Fatal("video should be enabled")
	}
	if cfg.Auth.ResendCooldown != 2*time.Minute {
		t.Fatalf("cooldown = %v", cfg.Auth.ResendCooldown)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"store driver", map[string]string{"STORE_DRIVER": "sqlite"}, "STORE_DRIVER"},
		{"mail driver", map[string]string{"MAIL_DRIVER": "pigeon"}, "MAIL_DRIVER"},
		{"smtp settings", map[string]string{"MAIL_DRIVER": "smtp"}, "SMTP"},
		{"resend key", map[string]string{"MAIL_DRIVER": "resend"}, "RESEND_API_KEY"},
		{"gin mode", map[string]string{"GIN_MODE": "verbose"}, "GIN_MODE"},
		{"log mail in release", map[string]string{"GIN_MODE": "release"}, "MAIL_DRIVER"},
		{"captcha project", map[string]string{"RECAPTCHA_ENABLED": "true"}, "RECAPTCHA_SITE_KEY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want mention of %s", err, tt.want)
			}
		})
	}
}
