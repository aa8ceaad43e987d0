package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"teamhub/config"
	"teamhub/model"
)

func TestMintVideoToken(t *testing.T) {
	now := day(1)
	video := NewVideoService(config.VideoConfig{APIKey: "key", APISecret: "secret", TokenTTL: time.Hour}, func() time.Time { return now })

	signed, expires, err := video.MintToken("u1", CallIDForTeam("t1"))
	if err != nil {
		t.Fatalf("MintToken: %v", err)
	}
	if !expires.Equal(now.Add(time.Hour)) {
		t.Fatalf("expires = %v", expires)
	}

	claims := &model.VideoClaims{}
	_, err = jwt.ParseWithClaims(signed, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	}, jwt.WithTimeFunc(func() time.Time { return now }), jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "u1" || claims.CallID != "team-t1" {
		t.Fatalf("claims = %+v", claims)
	}
	if claims.IssuedAt == nil || !claims.IssuedAt.Time.Equal(now) {
		t.Fatalf("iat = %v", claims.IssuedAt)
	}
	if video.APIKey() != "key" {
		t.Fatalf("APIKey = %q", video.APIKey())
	}
}
