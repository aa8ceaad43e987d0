// Package testkit builds an in-memory environment for handler tests.
package testkit

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"teamhub/config"
	"teamhub/dto"
	"teamhub/model"
	"teamhub/services"
	"teamhub/store"
)

// Epoch is the initial time of every harness clock.
var Epoch = time.Date(2024, 1, 6, 12, 0, 0, 0, time.UTC)

// Config returns a configuration suitable for tests: cheap bcrypt, a high
// rate limit and video enabled.
func Config() *config.Config {
	return &config.Config{
		Port:    "0",
		GinMode: gin.TestMode,
		Origins: []string{"*"},
		Store:   config.StoreConfig{Driver: "memory"},
		Auth: config.AuthConfig{
			AccessSecret:    "test-access-secret",
			RefreshSecret:   "test-refresh-secret",
			Issuer:          "teamhub-test",
			AccessTTL:       time.Hour,
			RefreshTTL:      7 * 24 * time.Hour,
			InviteTTL:       7 * 24 * time.Hour,
			CodeTTL:         15 * time.Minute,
			ResendCooldown:  time.Minute,
			BcryptCost:      bcrypt.MinCost,
			RateLimitPerSec: 1000,
			RateLimitBurst:  1000,
		},
		Mail: config.MailConfig{Driver: "log"},
		Video: config.VideoConfig{
			APIKey:    "video-key",
			APISecret: "video-secret",
			TokenTTL:  time.Hour,
		},
	}
}

type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type Message struct {
	To      string
	Subject string
	Body    string
}

// Outbox is a Mailer that records messages instead of sending them.
type Outbox struct {
	mu       sync.Mutex
	messages []Message
	Err      error
}

func (o *Outbox) Send(_ context.Context, to, subject, htmlBody string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.Err != nil {
		return o.Err
	}
	o.messages = append(o.messages, Message{To: to, Subject: subject, Body: htmlBody})
	return nil
}

func (o *Outbox) Messages(to string) []Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []Message
	for _, m := range o.messages {
		if m.To == to {
			out = append(out, m)
		}
	}
	return out
}

var codePattern = regexp.MustCompile(`<strong[^>]*>(\d{6})</strong>`)

// LastCode returns the code of the latest message sent to to, or "".
func (o *Outbox) LastCode(to string) string {
	messages := o.Messages(to)
	if len(messages) == 0 {
		return ""
	}
	match := codePattern.FindStringSubmatch(messages[len(messages)-1].Body)
	if match == nil {
		return ""
	}
	return match[1]
}

// Captcha is a scripted CaptchaVerifier.
type Captcha struct {
	Result *services.AssessmentResult
	Err    error
	Min    float32
	Calls  int
}

func (f *Captcha) Assess(context.Context, string, string, string, string) (*services.AssessmentResult, error) {
	f.Calls++
	return f.Result, f.Err
}

func (f *Captcha) MinScore() float32 { return f.Min }

type Harness struct {
	Env    *services.Env
	Store  *store.MemoryStore
	Outbox *Outbox
	Clock  *Clock
}

// New returns a harness over a fresh memory store. Pass nil to use Config().
func New(t testing.TB, cfg *config.Config) *Harness {
	t.Helper()
	if cfg == nil {
		cfg = Config()
	}

	clock := &Clock{now: Epoch}
	db := store.NewMemoryStore()
	outbox := &Outbox{}
	env := &services.Env{
		Config: cfg,
		Store:  db,
		Tokens: services.NewTokenService(cfg.Auth, clock.Now),
		Mailer: outbox,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:    clock.Now,
	}
	if cfg.VideoEnabled() {
		env.Video = services.NewVideoService(cfg.Video, clock.Now)
	}
	return &Harness{Env: env, Store: db, Outbox: outbox, Clock: clock}
}

// Router mounts the given controllers under /api on a bare test engine.
func (h *Harness) Router(t testing.TB, controllers ...func(*gin.RouterGroup, *services.Env)) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if err := dto.RegisterValidators(); err != nil {
		t.Fatalf("register validators: %v", err)
	}
	router := gin.New()
	if err := router.SetTrustedProxies(h.Env.Config.TrustedProxies); err != nil {
		t.Fatalf("trusted proxies: %v", err)
	}
	api := router.Group("/api")
	for _, register := range controllers {
		register(api, h.Env)
	}
	return router
}

// CreateUser stores an active user with the given password.
func (h *Harness) CreateUser(t testing.TB, name, email, password string, verified bool) *model.User {
	t.Helper()
	hashed, err := services.HashPassword(password, h.Env.Config.Auth.BcryptCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	now := h.Clock.Now()
	user := &model.User{
		UserID:    uuid.New().String(),
		Name:      name,
		Email:     services.NormalizeEmail(email),
		Password:  hashed,
		Role:      model.RoleUser,
		Active:    model.UserActive,
		Verified:  verified,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.Store.SaveUser(context.Background(), user); err != nil {
		t.Fatalf("save user: %v", err)
	}
	return user
}

func (h *Harness) Token(t testing.TB, user *model.User) string {
	t.Helper()
	token, err := h.Env.Tokens.CreateAccessToken(user)
	if err != nil {
		t.Fatalf("create access token: %v", err)
	}
	return token
}

// CreateTeam stores a team administered by admin with the given members.
func (h *Harness) CreateTeam(t testing.TB, name string, admin *model.User, members ...*model.User) *model.Team {
	t.Helper()
	team := services.NewTeam(uuid.New().String(), name, "", admin.UserID, h.Clock.Now())
	for _, m := range members {
		if err := services.AddMember(team, m.UserID); err != nil {
			t.Fatalf("add member: %v", err)
		}
	}
	if err := h.Store.SaveTeam(context.Background(), team); err != nil {
		t.Fatalf("save team: %v", err)
	}
	return team
}

// Do performs a JSON request against router.
func Do(t testing.TB, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return Serve(router, req)
}

func Serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// Decode unmarshals the response body into dst.
func Decode(t testing.TB, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

// Expect fails the test when rec does not carry status.
func Expect(t testing.TB, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d; body = %s", rec.Code, status, rec.Body.String())
	}
}
