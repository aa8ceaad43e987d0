package model

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RefreshToken is the stored record of the single live refresh token of a user.
type RefreshToken struct {
	UserID    string    `firestore:"userid" bson:"_id"`
	TokenHash string    `firestore:"tokenhash" bson:"tokenhash"`
	TokenID   string    `firestore:"tokenid" bson:"tokenid"`
	CreatedAt time.Time `firestore:"createdat" bson:"createdat"`
	ExpiresAt time.Time `firestore:"expiresat" bson:"expiresat"`
	Revoked   bool      `firestore:"revoked" bson:"revoked"`
}

type AccessClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	UserID  string `json:"userId"`
	TokenID string `json:"tokenId"`
	jwt.RegisteredClaims
}

// InviteClaims authorizes joining a team as a member until expiry.
type InviteClaims struct {
	TeamID    string `json:"teamId"`
	InvitedBy string `json:"invitedBy"`
	jwt.RegisteredClaims
}

// VideoClaims follow the user-token layout expected by the video SDK.
type VideoClaims struct {
	UserID string `json:"user_id"`
	CallID string `json:"call_id,omitempty"`
	jwt.RegisteredClaims
}
