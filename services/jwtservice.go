package services

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"teamhub/config"
	"teamhub/model"
)

const (
	audienceAccess = "access"
	audienceInvite = "team-invite"
)

var ErrInvalidToken = errors.New("token is invalid or expired")

type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	inviteTTL     time.Duration
	bcryptCost    int
	now           func() time.Time
}

func NewTokenService(cfg config.AuthConfig, now func() time.Time) *TokenService {
	return &TokenService{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		issuer:        cfg.Issuer,
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		inviteTTL:     cfg.InviteTTL,
		bcryptCost:    cfg.BcryptCost,
		now:           now,
	}
}

func (s *TokenService) registered(audience string, ttl time.Duration) jwt.RegisteredClaims {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	if audience != "" {
		claims.Audience = jwt.ClaimStrings{audience}
	}
	return claims
}

func (s *TokenService) parse(token string, claims jwt.Claims, secret []byte, audience string) error {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return nil
}

func (s *TokenService) CreateAccessToken(user *model.User) (string, error) {
	claims := &model.AccessClaims{
		UserID:           user.UserID,
		Email:            user.Email,
		Role:             user.Role,
		RegisteredClaims: s.registered(audienceAccess, s.accessTTL),
	}
	claims.Subject = user.UserID
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.accessSecret)
}

func (s *TokenService) ParseAccessToken(token string) (*model.AccessClaims, error) {
	claims := &model.AccessClaims{}
	if err := s.parse(token, claims, s.accessSecret, audienceAccess); err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing userId", ErrInvalidToken)
	}
	return claims, nil
}

// CreateRefreshToken signs a new refresh token and returns the record to
// persist; only a hash of the token is stored.
func (s *TokenService) CreateRefreshToken(userID string) (string, *model.RefreshToken, error) {
	tokenID := uuid.New().String()
	claims := &model.RefreshClaims{
		UserID:           userID,
		TokenID:          tokenID,
		RegisteredClaims: s.registered("", s.refreshTTL),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.refreshSecret)
	if err != nil {
		return "", nil, err
	}
	hash, err := HashRefreshToken(signed, s.bcryptCost)
	if err != nil {
		return "", nil, err
	}
	return signed, &model.RefreshToken{
		UserID:    userID,
		TokenHash: hash,
		TokenID:   tokenID,
		CreatedAt: claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *TokenService) ParseRefreshToken(token string) (*model.RefreshClaims, error) {
	claims := &model.RefreshClaims{}
	if err := s.parse(token, claims, s.refreshSecret, ""); err != nil {
		return nil, err
	}
	if claims.UserID == "" || claims.TokenID == "" {
		return nil, fmt.Errorf("%w: missing userId", ErrInvalidToken)
	}
	return claims, nil
}

// VerifyRefreshToken checks a presented refresh token against the stored record.
func (s *TokenService) VerifyRefreshToken(record *model.RefreshToken, claims *model.RefreshClaims, token string) error {
	if record.Revoked || record.TokenID != claims.TokenID || !s.now().Before(record.ExpiresAt) {
		return ErrInvalidToken
	}
	if err := CompareRefreshToken(record.TokenHash, token); err != nil {
		return ErrInvalidToken
	}
	return nil
}

func (s *TokenService) CreateInviteToken(teamID, invitedBy string) (string, time.Time, error) {
	claims := &model.InviteClaims{
		TeamID:           teamID,
		InvitedBy:        invitedBy,
		RegisteredClaims: s.registered(audienceInvite, s.inviteTTL),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.accessSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, claims.ExpiresAt.Time, nil
}

func (s *TokenService) ParseInviteToken(token string) (*model.InviteClaims, error) {
	claims := &model.InviteClaims{}
	if err := s.parse(token, claims, s.accessSecret, audienceInvite); err != nil {
		return nil, err
	}
	if claims.TeamID == "" {
		return nil, fmt.Errorf("%w: missing teamId", ErrInvalidToken)
	}
	return claims, nil
}

// HashRefreshToken bcrypts the SHA-256 digest of token; JWTs exceed bcrypt's
// 72-byte input limit.
func HashRefreshToken(token string, cost int) (string, error) {
	hash := sha256.Sum256([]byte(token))
	hashedToken, err := bcrypt.GenerateFromPassword(hash[:], cost)
	if err != nil {
		return "", err
	}
	return string(hashedToken), nil
}

func CompareRefreshToken(hashed, token string) error {
	hash := sha256.Sum256([]byte(token))
	return bcrypt.CompareHashAndPassword([]byte(hashed), hash[:])
}
