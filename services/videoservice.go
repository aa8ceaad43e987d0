package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"teamhub/config"
	"teamhub/model"
)

// VideoService mints short-lived user tokens for the video SDK. The SDK
// verifies them with the shared API secret.
type VideoService struct {
	apiKey string
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewVideoService(cfg config.VideoConfig, now func() time.Time) *VideoService {
	return &VideoService{
		apiKey: cfg.APIKey,
		secret: []byte(cfg.APISecret),
		ttl:    cfg.TokenTTL,
		now:    now,
	}
}

func (s *VideoService) APIKey() string {
	return s.apiKey
}

func CallIDForTeam(teamID string) string {
	return "team-" + teamID
}

func (s *VideoService) MintToken(userID, callID string) (string, time.Time, error) {
	issued := s.now()
	expires := issued.Add(s.ttl)
	claims := &model.VideoClaims{
		UserID: userID,
		CallID: callID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expires, nil
}
