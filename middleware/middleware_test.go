package middleware

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"teamhub/model"
	"teamhub/testkit"
)

func TestAccessTokenMiddleware(t *testing.T) {
	h := testkit.New(t, nil)
	user := h.CreateUser(t, "Alice", "alice@example.com", "secret1", true)
	refresh, _, err := h.Env.Tokens.CreateRefreshToken(user.UserID)
	if err != nil {
		t.Fatalf("CreateRefreshToken: %v", err)
	}

	router := h.Router(t)
	router.GET("/private", AccessTokenMiddleware(h.Env.Tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": CurrentUserID(c), "email": CurrentClaims(c).Email})
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer abc", http.StatusUnauthorized},
		{"refresh token", "Bearer " + refresh, http.StatusUnauthorized},
		{"valid token", "Bearer " + h.Token(t, user), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := testkit.Serve(router, req)
			testkit.Expect(t, rec, tt.want)
		})
	}

	token := h.Token(t, user)
	h.Clock.Advance(2 * time.Hour)
	rec := testkit.Do(t, router, http.MethodGet, "/private", token, nil)
	testkit.Expect(t, rec, http.StatusUnauthorized)
}

func TestActiveAccount(t *testing.T) {
	h := testkit.New(t, nil)
	active := h.CreateUser(t, "Alice", "alice@example.com", "secret1", true)
	inactive := h.CreateUser(t, "Bob", "bob@example.com", "secret1", true)
	inactive.Active = model.UserInactive
	deleted := h.CreateUser(t, "Carol", "carol@example.com", "secret1", true)
	deleted.Active = model.UserDeleted
	for _, u := range []*model.User{inactive, deleted} {
		if err := h.Store.SaveUser(context.Background(), u); err != nil {
			t.Fatalf("SaveUser: %v", err)
		}
	}
	removed := h.CreateUser(t, "Dave", "dave@example.com", "secret1", true)
	removedToken := h.Token(t, removed)
	if err := h.Store.DeleteUser(context.Background(), removed.UserID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	router := h.Router(t)
	router.GET("/private", AccessTokenMiddleware(h.Env.Tokens), ActiveAccount(h.Store, h.Env.Logger), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"active", h.Token(t, active), http.StatusNoContent},
		{"inactive", h.Token(t, inactive), http.StatusForbidden},
		{"deleted", h.Token(t, deleted), http.StatusForbidden},
		{"removed", removedToken, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testkit.Expect(t, testkit.Do(t, router, http.MethodGet, "/private", tt.token, nil), tt.want)
		})
	}
}

func TestTeamGuards(t *testing.T) {
	h := testkit.New(t, nil)
	admin := h.CreateUser(t, "Admin", "admin@example.com", "secret1", true)
	member := h.CreateUser(t, "Member", "member@example.com", "secret1", true)
	stranger := h.CreateUser(t, "Stranger", "stranger@example.com", "secret1", true)
	team := h.CreateTeam(t, "Core", admin, member)

	router := h.Router(t)
	group := router.Group("/teams/:teamId", AccessTokenMiddleware(h.Env.Tokens), TeamMember(h.Store, h.Env.Logger))
	group.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"teamId": CurrentTeam(c).TeamID})
	})
	group.POST("/admin", TeamAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	path := "/teams/" + team.TeamID
	testkit.Expect(t, testkit.Do(t, router, http.MethodGet, path, h.Token(t, member), nil), http.StatusOK)
	testkit.Expect(t, testkit.Do(t, router, http.MethodGet, path, h.Token(t, stranger), nil), http.StatusForbidden)
	testkit.Expect(t, testkit.Do(t, router, http.MethodGet, "/teams/missing", h.Token(t, admin), nil), http.StatusNotFound)

	testkit.Expect(t, testkit.Do(t, router, http.MethodPost, path+"/admin", h.Token(t, admin), nil), http.StatusNoContent)
	testkit.Expect(t, testkit.Do(t, router, http.MethodPost, path+"/admin", h.Token(t, member), nil), http.StatusForbidden)
}

func TestIPRateLimiter(t *testing.T) {
	limiter := NewIPRateLimiter(1, 2)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	if !limiter.Allow("1.1.1.1") || !limiter.Allow("1.1.1.1") {
		t.Fatal("burst requests rejected")
	}
	if limiter.Allow("1.1.1.1") {
		t.Fatal("request beyond burst allowed")
	}
	if !limiter.Allow("2.2.2.2") {
		t.Fatal("other client limited")
	}

	now = now.Add(time.Second)
	if !limiter.Allow("1.1.1.1") {
		t.Fatal("token not refilled after one second")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	h := testkit.New(t, nil)
	router := h.Router(t)
	router.GET("/ping", RateLimit(NewIPRateLimiter(0.001, 1)), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	testkit.Expect(t, testkit.Do(t, router, http.MethodGet, "/ping", "", nil), http.StatusNoContent)
	testkit.Expect(t, testkit.Do(t, router, http.MethodGet, "/ping", "", nil), http.StatusTooManyRequests)
}
