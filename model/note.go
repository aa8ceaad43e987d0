package model

import "time"

type Note struct {
	NoteID       string    `firestore:"noteid" bson:"_id" json:"noteId"`
	TeamID       string    `firestore:"teamid" bson:"teamid" json:"teamId"`
	Title        string    `firestore:"title" bson:"title" json:"title"`
	Content      string    `firestore:"content" bson:"content" json:"content"`
	Tags         []string  `firestore:"tags" bson:"tags" json:"tags"`
	CreatedBy    string    `firestore:"createdby" bson:"createdby" json:"createdBy"`
	LastEditedBy string    `firestore:"lasteditedby" bson:"lasteditedby" json:"lastEditedBy"`
	CreatedAt    time.Time `firestore:"createdat" bson:"createdat" json:"createdAt"`
	UpdatedAt    time.Time `firestore:"updatedat" bson:"updatedat" json:"updatedAt"`
}
