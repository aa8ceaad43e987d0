package model

import "time"

type User struct {
	UserID    string    `firestore:"userid" bson:"_id" json:"userId"`
	Name      string    `firestore:"name" bson:"name" json:"name"`
	Email     string    `firestore:"email" bson:"email" json:"email"`
	Password  string    `firestore:"password" bson:"password" json:"-"`
	Profile   string    `firestore:"profile" bson:"profile" json:"profile"`
	Role      string    `firestore:"role" bson:"role" json:"role"`
	Active    string    `firestore:"active" bson:"active" json:"active"`
	Verified  bool      `firestore:"verified" bson:"verified" json:"verified"`
	CreatedAt time.Time `firestore:"createdat" bson:"createdat" json:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedat" bson:"updatedat" json:"updatedAt"`

	Verification CodeState `firestore:"verification" bson:"verification" json:"-"`
	Reset        CodeState `firestore:"reset" bson:"reset" json:"-"`
}

// CodeState is a one-time emailed code: only its bcrypt hash is stored.
type CodeState struct {
	CodeHash  string    `firestore:"codehash" bson:"codehash"`
	ExpiresAt time.Time `firestore:"expiresat" bson:"expiresat"`
	SentAt    time.Time `firestore:"sentat" bson:"sentat"`
	Attempts  int       `firestore:"attempts" bson:"attempts"`
}

func (s CodeState) Pending() bool {
	return s.CodeHash != ""
}

func (s *CodeState) Clear() {
	s.CodeHash = ""
	s.ExpiresAt = time.Time{}
	s.Attempts = 0
}

// Active values.
const (
	UserActive   = "1"
	UserInactive = "0"
	UserDeleted  = "2"
)

// Platform roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
