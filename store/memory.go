package store

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"

	"teamhub/model"
)

// MemoryStore keeps every collection in process memory. It backs local
// development (STORE_DRIVER=memory) and the tests.
type MemoryStore struct {
	mu     sync.RWMutex
	users  map[string]model.User
	teams  map[string]model.Team
	notes  map[string]model.Note
	tasks  map[string]model.ProjectTask
	tokens map[string]model.RefreshToken
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:  make(map[string]model.User),
		teams:  make(map[string]model.Team),
		notes:  make(map[string]model.Note),
		tasks:  make(map[string]model.ProjectTask),
		tokens: make(map[string]model.RefreshToken),
	}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) SaveUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.UserID] = *user
	return nil
}

func (s *MemoryStore) GetUser(_ context.Context, userID string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetUsers(_ context.Context, userIDs []string) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]model.User, 0, len(userIDs))
	for _, id := range userIDs {
		if user, ok := s.users[id]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

func (s *MemoryStore) SearchUsersByEmail(_ context.Context, prefix string, limit int) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var users []model.User
	for _, user := range s.users {
		if strings.HasPrefix(user.Email, prefix) {
			users = append(users, user)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (s *MemoryStore) DeleteUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		return ErrNotFound
	}
	delete(s.users, userID)
	return nil
}

func (s *MemoryStore) SaveTeam(_ context.Context, team *model.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := *team
	t.Members = slices.Clone(team.Members)
	t.Admins = slices.Clone(team.Admins)
	s.teams[team.TeamID] = t
	return nil
}

func (s *MemoryStore) GetTeam(_ context.Context, teamID string) (*model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	team, ok := s.teams[teamID]
	if !ok {
		return nil, ErrNotFound
	}
	team.Members = slices.Clone(team.Members)
	team.Admins = slices.Clone(team.Admins)
	return &team, nil
}

func (s *MemoryStore) ListTeamsByUser(_ context.Context, userID string) ([]model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var teams []model.Team
	for _, team := range s.teams {
		if team.HasUser(userID) {
			team.Members = slices.Clone(team.Members)
			team.Admins = slices.Clone(team.Admins)
			teams = append(teams, team)
		}
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].CreatedAt.Before(teams[j].CreatedAt) })
	return teams, nil
}

func (s *MemoryStore) DeleteTeam(_ context.Context, teamID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.teams[teamID]; !ok {
		return ErrNotFound
	}
	delete(s.teams, teamID)
	return nil
}

func (s *MemoryStore) SaveNote(_ context.Context, note *model.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := *note
	n.Tags = slices.Clone(note.Tags)
	s.notes[note.NoteID] = n
	return nil
}

func (s *MemoryStore) GetNote(_ context.Context, teamID, noteID string) (*model.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	note, ok := s.notes[noteID]
	if !ok || note.TeamID != teamID {
		return nil, ErrNotFound
	}
	note.Tags = slices.Clone(note.Tags)
	return &note, nil
}

func (s *MemoryStore) ListNotes(_ context.Context, teamID string) ([]model.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var notes []model.Note
	for _, note := range s.notes {
		if note.TeamID == teamID {
			note.Tags = slices.Clone(note.Tags)
			notes = append(notes, note)
		}
	}
	return notes, nil
}

func (s *MemoryStore) DeleteNote(_ context.Context, teamID, noteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	note, ok := s.notes[noteID]
	if !ok || note.TeamID != teamID {
		return ErrNotFound
	}
	delete(s.notes, noteID)
	return nil
}

func (s *MemoryStore) DeleteNotesByTeam(_ context.Context, teamID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, note := range s.notes {
		if note.TeamID == teamID {
			delete(s.notes, id)
		}
	}
	return nil
}

func (s *MemoryStore) SaveTask(_ context.Context, task *model.ProjectTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := *task
	t.Dependencies = slices.Clone(task.Dependencies)
	s.tasks[task.TaskID] = t
	return nil
}

func (s *MemoryStore) GetTask(_ context.Context, teamID, taskID string) (*model.ProjectTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, ok := s.tasks[taskID]
	if !ok || task.TeamID != teamID {
		return nil, ErrNotFound
	}
	task.Dependencies = slices.Clone(task.Dependencies)
	return &task, nil
}

func (s *MemoryStore) ListTasks(_ context.Context, teamID string) ([]model.ProjectTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var tasks []model.ProjectTask
	for _, task := range s.tasks {
		if task.TeamID == teamID {
			task.Dependencies = slices.Clone(task.Dependencies)
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

func (s *MemoryStore) DeleteTask(_ context.Context, teamID, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[taskID]
	if !ok || task.TeamID != teamID {
		return ErrNotFound
	}
	delete(s.tasks, taskID)
	return nil
}

func (s *MemoryStore) DeleteTasksByTeam(_ context.Context, teamID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, task := range s.tasks {
		if task.TeamID == teamID {
			delete(s.tasks, id)
		}
	}
	return nil
}

func (s *MemoryStore) SaveRefreshToken(_ context.Context, token *model.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token.UserID] = *token
	return nil
}

func (s *MemoryStore) GetRefreshToken(_ context.Context, userID string) (*model.RefreshToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.tokens[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &token, nil
}

func (s *MemoryStore) DeleteRefreshToken(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, userID)
	return nil
}
