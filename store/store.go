// Package store persists users, teams, notes, tasks and refresh tokens in a
// document database. Writes are whole-document saves: concurrent updates to
// the same document follow last-writer-wins.
package store

import (
	"context"
	"errors"

	"teamhub/model"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("document not found")

type UserStore interface {
	SaveUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, userID string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUsers(ctx context.Context, userIDs []string) ([]model.User, error)
	SearchUsersByEmail(ctx context.Context, prefix string, limit int) ([]model.User, error)
	DeleteUser(ctx context.Context, userID string) error
}

type TeamStore interface {
	SaveTeam(ctx context.Context, team *model.Team) error
	GetTeam(ctx context.Context, teamID string) (*model.Team, error)
	ListTeamsByUser(ctx context.Context, userID string) ([]model.Team, error)
	DeleteTeam(ctx context.Context, teamID string) error
}

type NoteStore interface {
	SaveNote(ctx context.Context, note *model.Note) error
	GetNote(ctx context.Context, teamID, noteID string) (*model.Note, error)
	ListNotes(ctx context.Context, teamID string) ([]model.Note, error)
	DeleteNote(ctx context.Context, teamID, noteID string) error
	DeleteNotesByTeam(ctx context.Context, teamID string) error
}

type TaskStore interface {
	SaveTask(ctx context.Context, task *model.ProjectTask) error
	GetTask(ctx context.Context, teamID, taskID string) (*model.ProjectTask, error)
	ListTasks(ctx context.Context, teamID string) ([]model.ProjectTask, error)
	DeleteTask(ctx context.Context, teamID, taskID string) error
	DeleteTasksByTeam(ctx context.Context, teamID string) error
}

type TokenStore interface {
	SaveRefreshToken(ctx context.Context, token *model.RefreshToken) error
	GetRefreshToken(ctx context.Context, userID string) (*model.RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, userID string) error
}

type Store interface {
	UserStore
	TeamStore
	NoteStore
	TaskStore
	TokenStore
	Close() error
}

// Collection names shared by the document backends.
const (
	UsersCollection         = "Users"
	TeamsCollection         = "Teams"
	NotesCollection         = "Notes"
	TasksCollection         = "Tasks"
	RefreshTokensCollection = "refreshTokens"
)

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*FirestoreStore)(nil)
	_ Store = (*MongoStore)(nil)
)
