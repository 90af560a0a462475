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
)

type GameRepository struct {
	Col *mongo.Collection
}

func NewGameRepository(db *mongo.Database) *GameRepository {
	return &GameRepository{Col: db.Collection("games")}
}

func (r *GameRepository) Create(ctx context.Context, game *models.Game) error {
	if game.ID == "" {
		game.ID = uuid.NewString()
	}
	if _, err := r.Col.InsertOne(ctx, game); err != nil {
		return apperrors.Storage("insert game", err)
	}
	return nil
}

func (r *GameRepository) FindByID(ctx context.Context, id string) (*models.Game, error) {
	var game models.Game
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&game)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.Storage("find game", err)
	}
	return &game, nil
}

func (r *GameRepository) FindByRoomAndID(ctx context.Context, roomID, gameID string) (*models.Game, error) {
	var game models.Game
	err := r.Col.FindOne(ctx, bson.M{"_id": gameID, "room_id": roomID}).Decode(&game)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.Storage("find game by room", err)
	}
	return &game, nil
}

// StartPlay transitions the game to currently_played and fixes its playable
// window. The update is conditional on the game still being in created so
// that concurrent start calls apply the transition at most once.
func (r *GameRepository) StartPlay(ctx context.Context, gameID string, start, finish time.Time) (bool, error) {
	res, err := r.Col.UpdateOne(ctx,
		bson.M{"_id": gameID, "status": models.StatusCreated},
		bson.M{"$set": bson.M{
			"status":             models.StatusCurrentlyPlayed,
			"config.start_date":  start,
			"config.finish_date": finish,
			"updated_at":         time.Now(),
		}})
	if err != nil {
		return false, apperrors.Storage("start game", err)
	}
	return res.MatchedCount == 1, nil
}

// MarkFinished moves a currently played game to its terminal state. Applied
// lazily once a playability check observes the finish date has passed.
func (r *GameRepository) MarkFinished(ctx context.Context, gameID string) (bool, error) {
	res, err := r.Col.UpdateOne(ctx,
		bson.M{"_id": gameID, "status": models.StatusCurrentlyPlayed},
		bson.M{"$set": bson.M{
			"status":     models.StatusFinished,
			"updated_at": time.Now(),
		}})
	if err != nil {
		return false, apperrors.Storage("finish game", err)
	}
	return res.MatchedCount == 1, nil
}

func (r *GameRepository) UpdateDates(ctx context.Context, gameID string, start, finish time.Time) error {
	res, err := r.Col.UpdateOne(ctx,
		bson.M{"_id": gameID},
		bson.M{"$set": bson.M{
			"config.start_date":  start,
			"config.finish_date": finish,
			"updated_at":         time.Now(),
		}})
	if err != nil {
		return apperrors.Storage("update game dates", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
