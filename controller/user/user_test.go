package user

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"teamhub/model"
	"teamhub/services"
	"teamhub/store"
	"teamhub/testkit"
)

func TestSearchUser(t *testing.T) {
	h := testkit.New(t, nil)
	alice := h.CreateUser(t, "Alice", "alice@example.com", "secret1", true)
	h.CreateUser(t, "Alina", "alina@example.com", "secret1", true)
	gone := h.CreateUser(t, "Alix", "alix@example.com", "secret1", true)
	gone.Active = model.UserDeleted
	if err := h.Store.SaveUser(context.Background(), gone); err != nil {
		t.Fatalf("SaveUser: %v", err)
	}
	router := h.Router(t, UserController)

	testkit.Expect(t, testkit.Do(t, router, http.MethodGet, "/api/users/search", h.Token(t, alice), nil), http.StatusBadRequest)

	rec := testkit.Do(t, router, http.MethodGet, "/api/users/search?email=ALI", h.Token(t, alice), nil)
	testkit.Expect(t, rec, http.StatusOK)
	var got struct {
		Users []struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		} `json:"users"`
	}
	testkit.Decode(t, rec, &got)
	if len(got.Users) != 2 {
		t.Fatalf("users = %+v", got.Users)
	}
	for _, u := range got.Users {
		if u.Password != "" {
			t.Fatal("password hash exposed")
		}
	}
}

func TestUpdateProfile(t *testing.T) {
	h := testkit.New(t, nil)
	alice := h.CreateUser(t, "Alice", "alice@example.com", "secret1", true)
	router := h.Router(t, UserController)
	token := h.Token(t, alice)

	testkit.Expect(t, testkit.Do(t, router, http.MethodPut, "/api/users/profile", token, gin.H{}), http.StatusBadRequest)
	testkit.Expect(t, testkit.Do(t, router, http.MethodPut, "/api/users/profile", token, gin.H{"name": " A "}), http.StatusBadRequest)
	testkit.Expect(t, testkit.Do(t, router, http.MethodPut, "/api/users/profile", token, gin.H{"name": " Alice B ", "profile": "https://cdn.example/a.png"}), http.StatusOK)

	stored, _ := h.Store.GetUser(context.Background(), alice.UserID)
	if stored.Name != "Alice B" || stored.Profile != "https://cdn.example/a.png" {
		t.Fatalf("stored = %+v", stored)
	}
}

func TestChangePassword(t *testing.T) {
	h := testkit.New(t, nil)
	alice := h.CreateUser(t, "Alice", "alice@example.com", "secret1", true)
	router := h.Router(t, UserController)
	token := h.Token(t, alice)

	testkit.Expect(t, testkit.Do(t, router, http.MethodPut, "/api/users/password", token, gin.H{"currentPassword": "wrong", "newPassword": "secret2"}), http.StatusUnauthorized)
	testkit.Expect(t, testkit.Do(t, router, http.MethodPut, "/api/users/password", token, gin.H{"currentPassword": "secret1", "newPassword": "123"}), http.StatusBadRequest)
	testkit.Expect(t, testkit.Do(t, router, http.MethodPut, "/api/users/password", token, gin.H{"currentPassword": "secret1", "newPassword": strings.Repeat("é", 40)}), http.StatusBadRequest)
	testkit.Expect(t, testkit.Do(t, router, http.MethodPut, "/api/users/password", token, gin.H{"currentPassword": "secret1", "newPassword": "secret2"}), http.StatusOK)

	stored, _ := h.Store.GetUser(context.Background(), alice.UserID)
	if !services.CheckPassword(stored.Password, "secret2") {
		t.Fatal("password not changed")
	}
}

func TestDeleteAccount(t *testing.T) {
	h := testkit.New(t, nil)
	ctx := context.Background()
	loner := h.CreateUser(t, "Loner", "loner@example.com", "secret1", true)
	teamed := h.CreateUser(t, "Teamed", "teamed@example.com", "secret1", true)
	h.CreateTeam(t, "Core", teamed)
	router := h.Router(t, UserController)

	lonerToken := h.Token(t, loner)
	testkit.Expect(t, testkit.Do(t, router, http.MethodDelete, "/api/users/account", lonerToken, nil), http.StatusOK)
	testkit.Expect(t, testkit.Do(t, router, http.MethodGet, "/api/users/search?email=t", lonerToken, nil), http.StatusUnauthorized)
	if _, err := h.Store.GetUser(ctx, loner.UserID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("loner still stored: %v", err)
	}

	teamedToken := h.Token(t, teamed)
	testkit.Expect(t, testkit.Do(t, router, http.MethodDelete, "/api/users/account", teamedToken, nil), http.StatusOK)
	testkit.Expect(t, testkit.Do(t, router, http.MethodGet, "/api/users/search?email=t", teamedToken, nil), http.StatusForbidden)
	stored, err := h.Store.GetUser(ctx, teamed.UserID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if stored.Active != model.UserDeleted {
		t.Fatalf("active = %q, want %q", stored.Active, model.UserDeleted)
	}
}
