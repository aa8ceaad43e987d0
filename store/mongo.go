package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"teamhub/model"
)

type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// OpenMongo connects to uri, pings the server and ensures the indexes the
// queries rely on.
func OpenMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s := &MongoStore{client: client, db: client.Database(database)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	indexes := map[string]mongo.IndexModel{
		UsersCollection: {Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		TeamsCollection: {Keys: bson.D{{Key: "members", Value: 1}}},
		NotesCollection: {Keys: bson.D{{Key: "teamid", Value: 1}, {Key: "updatedat", Value: -1}}},
		TasksCollection: {Keys: bson.D{{Key: "teamid", Value: 1}, {Key: "displayorder", Value: 1}}},
	}
	for name, index := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateOne(ctx, index); err != nil {
			return fmt.Errorf("create index on %s: %w", name, err)
		}
	}
	return nil
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

func (s *MongoStore) upsert(ctx context.Context, collection, id string, doc any) error {
	_, err := s.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	return err
}

func (s *MongoStore) findOne(ctx context.Context, collection string, filter bson.M, dst any) error {
	err := s.db.Collection(collection).FindOne(ctx, filter).Decode(dst)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) deleteOne(ctx context.Context, collection string, filter bson.M) error {
	res, err := s.db.Collection(collection).DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) SaveUser(ctx context.Context, user *model.User) error {
	return s.upsert(ctx, UsersCollection, user.UserID, user)
}

func (s *MongoStore) GetUser(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	if err := s.findOne(ctx, UsersCollection, bson.M{"_id": userID}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := s.findOne(ctx, UsersCollection, bson.M{"email": email}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *MongoStore) GetUsers(ctx context.Context, userIDs []string) ([]model.User, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	return findAll[model.User](ctx, s.db.Collection(UsersCollection), bson.M{"_id": bson.M{"$in": userIDs}})
}

func (s *MongoStore) SearchUsersByEmail(ctx context.Context, prefix string, limit int) ([]model.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "email", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	filter := bson.M{"email": bson.M{"$regex": "^" + regexp.QuoteMeta(prefix)}}
	return findAll[model.User](ctx, s.db.Collection(UsersCollection), filter, opts)
}

func (s *MongoStore) DeleteUser(ctx context.Context, userID string) error {
	return s.deleteOne(ctx, UsersCollection, bson.M{"_id": userID})
}

func (s *MongoStore) SaveTeam(ctx context.Context, team *model.Team) error {
	return s.upsert(ctx, TeamsCollection, team.TeamID, team)
}

func (s *MongoStore) GetTeam(ctx context.Context, teamID string) (*model.Team, error) {
	var team model.Team
	if err := s.findOne(ctx, TeamsCollection, bson.M{"_id": teamID}, &team); err != nil {
		return nil, err
	}
	return &team, nil
}

func (s *MongoStore) ListTeamsByUser(ctx context.Context, userID string) ([]model.Team, error) {
	filter := bson.M{"$or": bson.A{bson.M{"members": userID}, bson.M{"admins": userID}}}
	return findAll[model.Team](ctx, s.db.Collection(TeamsCollection), filter, options.Find().SetSort(bson.D{{Key: "createdat", Value: 1}}))
}

func (s *MongoStore) DeleteTeam(ctx context.Context, teamID string) error {
	return s.deleteOne(ctx, TeamsCollection, bson.M{"_id": teamID})
}

func (s *MongoStore) SaveNote(ctx context.Context, note *model.Note) error {
	return s.upsert(ctx, NotesCollection, note.NoteID, note)
}

func (s *MongoStore) GetNote(ctx context.Context, teamID, noteID string) (*model.Note, error) {
	var note model.Note
	if err := s.findOne(ctx, NotesCollection, bson.M{"_id": noteID, "teamid": teamID}, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (s *MongoStore) ListNotes(ctx context.Context, teamID string) ([]model.Note, error) {
	return findAll[model.Note](ctx, s.db.Collection(NotesCollection), bson.M{"teamid": teamID})
}

func (s *MongoStore) DeleteNote(ctx context.Context, teamID, noteID string) error {
	return s.deleteOne(ctx, NotesCollection, bson.M{"_id": noteID, "teamid": teamID})
}

func (s *MongoStore) DeleteNotesByTeam(ctx context.Context, teamID string) error {
	_, err := s.db.Collection(NotesCollection).DeleteMany(ctx, bson.M{"teamid": teamID})
	return err
}

func (s *MongoStore) SaveTask(ctx context.Context, task *model.ProjectTask) error {
	return s.upsert(ctx, TasksCollection, task.TaskID, task)
}

func (s *MongoStore) GetTask(ctx context.Context, teamID, taskID string) (*model.ProjectTask, error) {
	var task model.ProjectTask
	if err := s.findOne(ctx, TasksCollection, bson.M{"_id": taskID, "teamid": teamID}, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *MongoStore) ListTasks(ctx context.Context, teamID string) ([]model.ProjectTask, error) {
	return findAll[model.ProjectTask](ctx, s.db.Collection(TasksCollection), bson.M{"teamid": teamID})
}

func (s *MongoStore) DeleteTask(ctx context.Context, teamID, taskID string) error {
	return s.deleteOne(ctx, TasksCollection, bson.M{"_id": taskID, "teamid": teamID})
}

func (s *MongoStore) DeleteTasksByTeam(ctx context.Context, teamID string) error {
	_, err := s.db.Collection(TasksCollection).DeleteMany(ctx, bson.M{"teamid": teamID})
	return err
}

func (s *MongoStore) SaveRefreshToken(ctx context.Context, token *model.RefreshToken) error {
	return s.upsert(ctx, RefreshTokensCollection, token.UserID, token)
}

func (s *MongoStore) GetRefreshToken(ctx context.Context, userID string) (*model.RefreshToken, error) {
	var token model.RefreshToken
	if err := s.findOne(ctx, RefreshTokensCollection, bson.M{"_id": userID}, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

func (s *MongoStore) DeleteRefreshToken(ctx context.Context, userID string) error {
	_, err := s.db.Collection(RefreshTokensCollection).DeleteOne(ctx, bson.M{"_id": userID})
	return err
}
