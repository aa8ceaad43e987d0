package services

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"teamhub/config"
	"teamhub/model"
)

func testTokenService(now *time.Time) *TokenService {
	return NewTokenService(config.AuthConfig{
		AccessSecret:  "access",
		RefreshSecret: "refresh",
		Issuer:        "teamhub-test",
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
		InviteTTL:     48 * time.Hour,
		BcryptCost:    bcrypt.MinCost,
	}, func() time.Time { return *now })
}

func TestAccessToken(t *testing.T) {
	now := day(1)
	tokens := testTokenService(&now)
	user := &model.User{UserID: "u1", Email: "a@example.com", Role: model.RoleUser}

	signed, err := tokens.CreateAccessToken(user)
	if err != nil {
		t.Fatalf("CreateAccessToken: %v", err)
	}
	claims, err := tokens.ParseAccessToken(signed)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "a@example.com" {
		t.Fatalf("claims = %+v", claims)
	}

	now = now.Add(2 * time.Hour)
	if _, err := tokens.ParseAccessToken(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token err = %v", err)
	}
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	now := day(1)
	tokens := testTokenService(&now)

	refresh, _, err := tokens.CreateRefreshToken("u1")
	if err != nil {
		t.Fatalf("CreateRefreshToken: %v", err)
	}
	if _, err := tokens.ParseAccessToken(refresh); err == nil {
		t.Fatal("refresh token accepted as access token")
	}

	invite, _, err := tokens.CreateInviteToken("team-1", "u1")
	if err != nil {
		t.Fatalf("CreateInviteToken: %v", err)
	}
	if _, err := tokens.ParseAccessToken(invite); err == nil {
		t.Fatal("invite token accepted as access token")
	}

	access, err := tokens.CreateAccessToken(&model.User{UserID: "u1"})
	if err != nil {
		t.Fatalf("CreateAccessToken: %v", err)
	}
	if _, err := tokens.ParseInviteToken(access); err == nil {
		t.Fatal("access token accepted as invite token")
	}
}

func TestRejectsOtherSigningMethods(t *testing.T) {
	now := day(1)
	tokens := testTokenService(&now)
	claims := &model.AccessClaims{UserID: "u1", RegisteredClaims: tokens.registered(audienceAccess, time.Hour)}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := tokens.ParseAccessToken(unsigned); err == nil {
		t.Fatal("unsigned token accepted")
	}
}

func TestVerifyRefreshToken(t *testing.T) {
	now := day(1)
	tokens := testTokenService(&now)

	signed, record, err := tokens.CreateRefreshToken("u1")
	if err != nil {
		t.Fatalf("CreateRefreshToken: %v", err)
	}
	if record.TokenHash == signed {
		t.Fatal("refresh token stored in plain text")
	}
	claims, err := tokens.ParseRefreshToken(signed)
	if err != nil {
		t.Fatalf("ParseRefreshToken: %v", err)
	}
	if err := tokens.VerifyRefreshToken(record, claims, signed); err != nil {
		t.Fatalf("VerifyRefreshToken: %v", err)
	}

	other, otherRecord, err := tokens.CreateRefreshToken("u1")
	if err != nil {
		t.Fatalf("CreateRefreshToken: %v", err)
	}
	otherClaims, err := tokens.ParseRefreshToken(other)
	if err != nil {
		t.Fatalf("ParseRefreshToken: %v", err)
	}
	if err := tokens.VerifyRefreshToken(otherRecord, claims, signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("superseded token err = %v", err)
	}
	if err := tokens.VerifyRefreshToken(otherRecord, otherClaims, other); err != nil {
		t.Fatalf("current token: %v", err)
	}

	otherRecord.Revoked = true
	if err := tokens.VerifyRefreshToken(otherRecord, otherClaims, other); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("revoked token err = %v", err)
	}
}

func TestInviteToken(t *testing.T) {
	now := day(1)
	tokens := testTokenService(&now)

	signed, expiresAt, err := tokens.CreateInviteToken("team-1", "u1")
	if err != nil {
		t.Fatalf("CreateInviteToken: %v", err)
	}
	if !expiresAt.Equal(now.Add(48 * time.Hour)) {
		t.Fatalf("expiresAt = %v", expiresAt)
	}
	claims, err := tokens.ParseInviteToken(signed)
	if err != nil {
		t.Fatalf("ParseInviteToken: %v", err)
	}
	if claims.TeamID != "team-1" || claims.InvitedBy != "u1" {
		t.Fatalf("claims = %+v", claims)
	}

	now = now.Add(49 * time.Hour)
	if _, err := tokens.ParseInviteToken(signed); err == nil {
		t.Fatal("expired invite accepted")
	}
}
