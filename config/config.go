package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port    string   `env:"PORT" envDefault:"8080"`
	GinMode string   `env:"GIN_MODE" envDefault:"release"`
	Origins []string `env:"CORS_ALLOW_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`

	// TrustedProxies lists the proxy addresses or CIDRs whose forwarding
	// headers are honoured. Empty means the peer address is the client.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	Store StoreConfig
	Auth  AuthConfig
	Mail  MailConfig
	Video VideoConfig

	Captcha CaptchaConfig

	OTelEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTelEnabled  bool   `env:"OTEL_ENABLED" envDefault:"true"`
}

type StoreConfig struct {
	// Driver is one of firestore, mongo or memory.
	Driver              string        `env:"STORE_DRIVER" envDefault:"firestore"`
	FirebaseProjectID   string        `env:"FIREBASE_PROJECT_ID"`
	FirebaseCredentials string        `env:"GOOGLE_APPLICATION_CREDENTIALS_1"`
	MongoURI            string        `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase       string        `env:"MONGO_DATABASE" envDefault:"teamhub"`
	ConnectTimeout      time.Duration `env:"STORE_CONNECT_TIMEOUT" envDefault:"10s"`
}

type AuthConfig struct {
	AccessSecret    string        `env:"JWT_SECRET_KEY,required,notEmpty"`
	RefreshSecret   string        `env:"JWT_REFRESH_SECRET_KEY,required,notEmpty"`
	Issuer          string        `env:"JWT_ISSUER" envDefault:"teamhub"`
	AccessTTL       time.Duration `env:"JWT_ACCESS_TTL" envDefault:"60m"`
	RefreshTTL      time.Duration `env:"JWT_REFRESH_TTL" envDefault:"168h"`
	InviteTTL       time.Duration `env:"TEAM_INVITE_TTL" envDefault:"168h"`
	CodeTTL         time.Duration `env:"OTP_TTL" envDefault:"15m"`
	ResendCooldown  time.Duration `env:"OTP_RESEND_COOLDOWN" envDefault:"60s"`
	BcryptCost      int           `env:"BCRYPT_COST" envDefault:"10"`
	RateLimitPerSec float64       `env:"AUTH_RATE_LIMIT" envDefault:"5"`
	RateLimitBurst  int           `env:"AUTH_RATE_BURST" envDefault:"10"`
}

type MailConfig struct {
	// Driver is one of smtp, resend or log.
	Driver       string `env:"MAIL_DRIVER" envDefault:"log"`
	From         string `env:"MAIL_FROM" envDefault:"TeamHub <no-reply@teamhub.local>"`
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     string `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	ResendAPIKey string `env:"RESEND_API_KEY"`
	ResendURL    string `env:"RESEND_API_URL" envDefault:"https://api.resend.com/emails"`
}

type VideoConfig struct {
	APIKey    string        `env:"VIDEO_API_KEY"`
	APISecret string        `env:"VIDEO_API_SECRET"`
	TokenTTL  time.Duration `env:"VIDEO_TOKEN_TTL" envDefault:"1h"`
}

type CaptchaConfig struct {
	Enabled     bool    `env:"RECAPTCHA_ENABLED" envDefault:"false"`
	ProjectID   string  `env:"GOOGLE_CLOUD_PROJECT_ID"`
	SiteKey     string  `env:"RECAPTCHA_SITE_KEY"`
	Credentials string  `env:"GOOGLE_APPLICATION_CREDENTIALS_2"`
	MinScore    float32 `env:"RECAPTCHA_MIN_SCORE" envDefault:"0.5"`
}

// Load reads .env when present and parses the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unsupported GIN_MODE %q", c.GinMode)
	}
	switch c.Store.Driver {
	case "firestore", "mongo", "memory":
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}
	switch c.Mail.Driver {
	case "smtp":
		if c.Mail.SMTPHost == "" || c.Mail.SMTPUsername == "" || c.Mail.SMTPPassword == "" {
			return fmt.Errorf("missing required SMTP environment variables")
		}
	case "resend":
		if c.Mail.ResendAPIKey == "" {
			return fmt.Errorf("RESEND_API_KEY is required for the resend mail driver")
		}
	case "log":
		if c.GinMode == "release" {
			return fmt.Errorf("MAIL_DRIVER must be smtp or resend in release mode")
		}
	default:
		return fmt.Errorf("unsupported MAIL_DRIVER %q", c.Mail.Driver)
	}
	if c.Captcha.Enabled && (c.Captcha.ProjectID == "" || c.Captcha.SiteKey == "") {
		return fmt.Errorf("GOOGLE_CLOUD_PROJECT_ID and RECAPTCHA_SITE_KEY are required when reCAPTCHA is enabled")
	}
	if c.Auth.RateLimitPerSec <= 0 || c.Auth.RateLimitBurst <= 0 {
		return fmt.Errorf("auth rate limit must be positive")
	}
	return nil
}

// VideoEnabled reports whether video join tokens can be minted.
func (c *Config) VideoEnabled() bool {
	return c.Video.APIKey != "" && c.Video.APISecret != ""
}
