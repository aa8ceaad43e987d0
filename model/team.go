package model

import (
	"slices"
	"time"
)

type Team struct {
	TeamID      string    `firestore:"teamid" bson:"_id" json:"teamId"`
	Name        string    `firestore:"name" bson:"name" json:"name"`
	Description string    `firestore:"description" bson:"description" json:"description"`
	Members     []string  `firestore:"members" bson:"members" json:"members"`
	Admins      []string  `firestore:"admins" bson:"admins" json:"admins"`
	CreatedBy   string    `firestore:"createdby" bson:"createdby" json:"createdBy"`
	CreatedAt   time.Time `firestore:"createdat" bson:"createdat" json:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedat" bson:"updatedat" json:"updatedAt"`
}

func (t *Team) IsAdmin(userID string) bool {
	return slices.Contains(t.Admins, userID)
}

// HasUser reports whether userID is in either the member or the admin list.
func (t *Team) HasUser(userID string) bool {
	return slices.Contains(t.Members, userID) || t.IsAdmin(userID)
}

// UserIDs returns every distinct user of the team, admins first.
func (t *Team) UserIDs() []string {
	ids := make([]string, 0, len(t.Admins)+len(t.Members))
	for _, id := range t.Admins {
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	for _, id := range t.Members {
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids
}

// Team roles as exposed over the API.
const (
	TeamRoleAdmin  = "admin"
	TeamRoleMember = "member"
)
