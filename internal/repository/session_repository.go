package repository

import (
	"context"
	"errors"
	"time"

	"game-service/internal/apperrors"
	"game-service/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SessionRepository struct {
	Col *mongo.Collection
}

func NewSessionRepository(db *mongo.Database) *SessionRepository {
	return &SessionRepository{Col: db.Collection("sessions")}
}

// EnsureIndexes creates the unique compound index that guarantees at most one
// session per (game_id, student_id). Creation is run at startup.
func (r *SessionRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.Col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "game_id", Value: 1},
			{Key: "student_id", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetName("uniq_game_student"),
	})
	return apperrors.Storage("create session indexes", err)
}

func (r *SessionRepository) FindByGameAndStudent(ctx context.Context, gameID, studentID string) (*models.GameSession, error) {
	var session models.GameSession
	err := r.Col.FindOne(ctx, bson.M{"game_id": gameID, "student_id": studentID}).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.Storage("find session", err)
	}
	return &session, nil
}

// Create inserts a new session. A uniqueness violation on (game_id,
// student_id) is reported as apperrors.ErrDuplicate; the caller re-reads the
// existing session instead of failing.
func (r *SessionRepository) Create(ctx context.Context, session *models.GameSession) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	_, err := r.Col.InsertOne(ctx, session)
	if mongo.IsDuplicateKeyError(err) {
		return apperrors.ErrDuplicate
	}
	if err != nil {
		return apperrors.Storage("insert session", err)
	}
	return nil
}

// AdvanceCursor performs the compare-and-swap that serializes submissions for
// one session: the update only matches while the stored version equals
// fromVersion. Returns false when another writer got there first.
func (r *SessionRepository) AdvanceCursor(ctx context.Context, sessionID string, fromVersion int64, newIndex int, finishedAt *time.Time) (bool, error) {
	set := bson.M{
		"current_question_index": newIndex,
		"version":                fromVersion + 1,
	}
	if finishedAt != nil {
		set["finished_at"] = finishedAt
	}
	res, err := r.Col.UpdateOne(ctx,
		bson.M{"_id": sessionID, "version": fromVersion},
		bson.M{"$set": set})
	if err != nil {
		return false, apperrors.Storage("advance session cursor", err)
	}
	return res.MatchedCount == 1, nil
}

func (r *SessionRepository) ListByGame(ctx context.Context, gameID string) ([]models.GameSession, error) {
	cur, err := r.Col.Find(ctx, bson.M{"game_id": gameID})
	if err != nil {
		return nil, apperrors.Storage("list sessions", err)
	}
	defer cur.Close(ctx)
	var sessions []models.GameSession
	for cur.Next(ctx) {
		var s models.GameSession
		if err := cur.Decode(&s); err != nil {
			return nil, apperrors.Storage("decode session", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}
