package store

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"teamhub/model"
)

type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func notFound(err error) error {
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}

// getDoc loads a single document into dst.
func getDoc(ctx context.Context, ref *firestore.DocumentRef, dst any) error {
	snap, err := ref.Get(ctx)
	if err != nil {
		return notFound(err)
	}
	if !snap.Exists() {
		return ErrNotFound
	}
	if err := snap.DataTo(dst); err != nil {
		return fmt.Errorf("decode %s: %w", ref.Path, err)
	}
	return nil
}

func collect[T any](iter *firestore.DocumentIterator) ([]T, error) {
	defer iter.Stop()
	var out []T
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var v T
		if err := doc.DataTo(&v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", doc.Ref.Path, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *FirestoreStore) deleteWhere(ctx context.Context, collection, field, value string) error {
	refs, err := s.client.Collection(collection).Where(field, "==", value).Documents(ctx).GetAll()
	if err != nil {
		return err
	}
	if len(refs) == 0 {
		return nil
	}
	bw := s.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(refs))
	for _, doc := range refs {
		job, err := bw.Delete(doc.Ref)
		if err != nil {
			bw.End()
			return err
		}
		jobs = append(jobs, job)
	}
	bw.End()

	results := make([]error, len(jobs))
	for i, job := range jobs {
		_, results[i] = job.Results()
	}
	return deleteFailures(collection, results)
}

// deleteFailures folds per-document delete results. Documents that are
// already gone count as deleted.
func deleteFailures(collection string, results []error) error {
	var errs []error
	for _, err := range results {
		if err != nil && status.Code(err) != codes.NotFound {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("delete %d of %d %s documents: %w", len(errs), len(results), collection, errors.Join(errs...))
}

func (s *FirestoreStore) SaveUser(ctx context.Context, user *model.User) error {
	_, err := s.client.Collection(UsersCollection).Doc(user.UserID).Set(ctx, user)
	return err
}

func (s *FirestoreStore) GetUser(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	if err := getDoc(ctx, s.client.Collection(UsersCollection).Doc(userID), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *FirestoreStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	docs, err := s.client.Collection(UsersCollection).Where("email", "==", email).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrNotFound
	}
	var user model.User
	if err := docs[0].DataTo(&user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &user, nil
}

func (s *FirestoreStore) GetUsers(ctx context.Context, userIDs []string) ([]model.User, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	refs := make([]*firestore.DocumentRef, len(userIDs))
	for i, id := range userIDs {
		refs[i] = s.client.Collection(UsersCollection).Doc(id)
	}
	snaps, err := s.client.GetAll(ctx, refs)
	if err != nil {
		return nil, err
	}
	users := make([]model.User, 0, len(snaps))
	for _, snap := range snaps {
		if !snap.Exists() {
			continue
		}
		var user model.User
		if err := snap.DataTo(&user); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *FirestoreStore) SearchUsersByEmail(ctx context.Context, prefix string, limit int) ([]model.User, error) {
	q := s.client.Collection(UsersCollection).
		Where("email", ">=", prefix).
		Where("email", "<=", prefix+"\uf8ff").
		OrderBy("email", firestore.Asc)
	if limit > 0 {
		q = q.Limit(limit)
	}
	return collect[model.User](q.Documents(ctx))
}

func (s *FirestoreStore) DeleteUser(ctx context.Context, userID string) error {
	_, err := s.client.Collection(UsersCollection).Doc(userID).Delete(ctx, firestore.Exists)
	return notFound(err)
}

func (s *FirestoreStore) SaveTeam(ctx context.Context, team *model.Team) error {
	_, err := s.client.Collection(TeamsCollection).Doc(team.TeamID).Set(ctx, team)
	return err
}

func (s *FirestoreStore) GetTeam(ctx context.Context, teamID string) (*model.Team, error) {
	var team model.Team
	if err := getDoc(ctx, s.client.Collection(TeamsCollection).Doc(teamID), &team); err != nil {
		return nil, err
	}
	return &team, nil
}

// ListTeamsByUser merges two array-contains queries since Firestore cannot
// OR them in a single query.
func (s *FirestoreStore) ListTeamsByUser(ctx context.Context, userID string) ([]model.Team, error) {
	teams := s.client.Collection(TeamsCollection)
	asMember, err := collect[model.Team](teams.Where("members", "array-contains", userID).Documents(ctx))
	if err != nil {
		return nil, err
	}
	asAdmin, err := collect[model.Team](teams.Where("admins", "array-contains", userID).Documents(ctx))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(asMember))
	out := make([]model.Team, 0, len(asMember)+len(asAdmin))
	for _, team := range append(asMember, asAdmin...) {
		if seen[team.TeamID] {
			continue
		}
		seen[team.TeamID] = true
		out = append(out, team)
	}
	return out, nil
}

func (s *FirestoreStore) DeleteTeam(ctx context.Context, teamID string) error {
	_, err := s.client.Collection(TeamsCollection).Doc(teamID).Delete(ctx, firestore.Exists)
	return notFound(err)
}

func (s *FirestoreStore) SaveNote(ctx context.Context, note *model.Note) error {
	_, err := s.client.Collection(NotesCollection).Doc(note.NoteID).Set(ctx, note)
	return err
}

func (s *FirestoreStore) GetNote(ctx context.Context, teamID, noteID string) (*model.Note, error) {
	var note model.Note
	if err := getDoc(ctx, s.client.Collection(NotesCollection).Doc(noteID), &note); err != nil {
		return nil, err
	}
	if note.TeamID != teamID {
		return nil, ErrNotFound
	}
	return &note, nil
}

func (s *FirestoreStore) ListNotes(ctx context.Context, teamID string) ([]model.Note, error) {
	return collect[model.Note](s.client.Collection(NotesCollection).Where("teamid", "==", teamID).Documents(ctx))
}

func (s *FirestoreStore) DeleteNote(ctx context.Context, teamID, noteID string) error {
	if _, err := s.GetNote(ctx, teamID, noteID); err != nil {
		return err
	}
	_, err := s.client.Collection(NotesCollection).Doc(noteID).Delete(ctx)
	return err
}

func (s *FirestoreStore) DeleteNotesByTeam(ctx context.Context, teamID string) error {
	return s.deleteWhere(ctx, NotesCollection, "teamid", teamID)
}

func (s *FirestoreStore) SaveTask(ctx context.Context, task *model.ProjectTask) error {
	_, err := s.client.Collection(TasksCollection).Doc(task.TaskID).Set(ctx, task)
	return err
}

func (s *FirestoreStore) GetTask(ctx context.Context, teamID, taskID string) (*model.ProjectTask, error) {
	var task model.ProjectTask
	if err := getDoc(ctx, s.client.Collection(TasksCollection).Doc(taskID), &task); err != nil {
		return nil, err
	}
	if task.TeamID != teamID {
		return nil, ErrNotFound
	}
	return &task, nil
}

func (s *FirestoreStore) ListTasks(ctx context.Context, teamID string) ([]model.ProjectTask, error) {
	return collect[model.ProjectTask](s.client.Collection(TasksCollection).Where("teamid", "==", teamID).Documents(ctx))
}

func (s *FirestoreStore) DeleteTask(ctx context.Context, teamID, taskID string) error {
	if _, err := s.GetTask(ctx, teamID, taskID); err != nil {
		return err
	}
	_, err := s.client.Collection(TasksCollection).Doc(taskID).Delete(ctx)
	return err
}

func (s *FirestoreStore) DeleteTasksByTeam(ctx context.Context, teamID string) error {
	return s.deleteWhere(ctx, TasksCollection, "teamid", teamID)
}

func (s *FirestoreStore) SaveRefreshToken(ctx context.Context, token *model.RefreshToken) error {
	_, err := s.client.Collection(RefreshTokensCollection).Doc(token.UserID).Set(ctx, token)
	return err
}

func (s *FirestoreStore) GetRefreshToken(ctx context.Context, userID string) (*model.RefreshToken, error) {
	var token model.RefreshToken
	if err := getDoc(ctx, s.client.Collection(RefreshTokensCollection).Doc(userID), &token); err != nil {
		return nil, err
	}
	return &token, nil
}

func (s *FirestoreStore) DeleteRefreshToken(ctx context.Context, userID string) error {
	_, err := s.client.Collection(RefreshTokensCollection).Doc(userID).Delete(ctx)
	return err
}
