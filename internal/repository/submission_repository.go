package repository

import (
	"context"

	"game-service/internal/apperrors"
	"game-service/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SubmissionRepository struct {
	Col *mongo.Collection
}

func NewSubmissionRepository(db *mongo.Database) *SubmissionRepository {
	return &SubmissionRepository{Col: db.Collection("submissions")}
}

// Append inserts a submission. The collection is append-only: submissions are
// never updated or removed.
func (r *SubmissionRepository) Append(ctx context.Context, submission *models.AnswerSubmission) error {
	if submission.ID == "" {
		submission.ID = uuid.NewString()
	}
	if _, err := r.Col.InsertOne(ctx, submission); err != nil {
		return apperrors.Storage("insert submission", err)
	}
	return nil
}

func (r *SubmissionRepository) FindBySession(ctx context.Context, sessionID string) ([]models.AnswerSubmission, error) {
	opts := options.Find().SetSort(bson.D{{Key: "question_index", Value: 1}})
	cur, err := r.Col.Find(ctx, bson.M{"session_id": sessionID}, opts)
	if err != nil {
		return nil, apperrors.Storage("list submissions", err)
	}
	defer cur.Close(ctx)
	var submissions []models.AnswerSubmission
	for cur.Next(ctx) {
		var s models.AnswerSubmission
		if err := cur.Decode(&s); err != nil {
			return nil, apperrors.Storage("decode submission", err)
		}
		submissions = append(submissions, s)
	}
	return submissions, nil
}
