package repository

import (
	"context"
	"errors"
	"regexp"

	"game-service/internal/apperrors"
	"game-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// QuestionRepository reads from the question catalog collection. The catalog
// is owned by another service; this repository never writes to it.
type QuestionRepository struct {
	Col *mongo.Collection
}

func NewQuestionRepository(db *mongo.Database) *QuestionRepository {
	return &QuestionRepository{Col: db.Collection("questions")}
}

// FindByCategory returns up to limit questions whose theme path equals
// categoryPath or sits below it. An empty path matches every question.
// Results come back in catalog order.
func (r *QuestionRepository) FindByCategory(ctx context.Context, categoryPath string, limit int) ([]models.Question, error) {
	if limit <= 0 {
		return []models.Question{}, nil
	}
	filter := bson.M{}
	if categoryPath != "" {
		filter["themes"] = bson.M{
			"$regex": "^" + regexp.QuoteMeta(categoryPath) + "(/|$)",
		}
	}
	opts := options.Find().SetLimit(int64(limit))
	cur, err := r.Col.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperrors.Storage("find questions by category", err)
	}
	defer cur.Close(ctx)
	var questions []models.Question
	for cur.Next(ctx) {
		var q models.Question
		if err := cur.Decode(&q); err != nil {
			return nil, apperrors.Storage("decode question", err)
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func (r *QuestionRepository) FindByID(ctx context.Context, id string) (*models.Question, error) {
	var question models.Question
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&question)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.Storage("find question", err)
	}
	return &question, nil
}
