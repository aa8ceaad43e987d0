package model

import (
	"time"
)

type ProjectTask struct {
	TaskID       string    `firestore:"taskid" bson:"_id" json:"taskId"`
	TeamID       string    `firestore:"teamid" bson:"teamid" json:"teamId"`
	Name         string    `firestore:"name" bson:"name" json:"name"`
	Start        time.Time `firestore:"start" bson:"start" json:"start"`
	End          time.Time `firestore:"end" bson:"end" json:"end"`
	Progress     int       `firestore:"progress" bson:"progress" json:"progress"`
	AutoProgress bool      `firestore:"autoprogress" bson:"autoprogress" json:"autoProgress"`
	Type         string    `firestore:"type" bson:"type" json:"type"`
	AssigneeID   string    `firestore:"assigneeid" bson:"assigneeid" json:"assigneeId,omitempty"`
	Dependencies []string  `firestore:"dependencies" bson:"dependencies" json:"dependencies"`
	DisplayOrder int       `firestore:"displayorder" bson:"displayorder" json:"displayOrder"`
	CreatedBy    string    `firestore:"createdby" bson:"createdby" json:"createdBy"`
	CreatedAt    time.Time `firestore:"createdat" bson:"createdat" json:"createdAt"`
	UpdatedAt    time.Time `firestore:"updatedat" bson:"updatedat" json:"updatedAt"`
}

const (
	TaskTypeTask      = "task"
	TaskTypeMilestone = "milestone"
)
