package repository

import (
	"context"
	"errors"

	"game-service/internal/apperrors"
	"game-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// RoomRepository answers room-membership checks against the rooms collection,
// which is maintained by the platform's CRUD services.
type RoomRepository struct {
	Col *mongo.Collection
}

func NewRoomRepository(db *mongo.Database) *RoomRepository {
	return &RoomRepository{Col: db.Collection("rooms")}
}

func (r *RoomRepository) FindByID(ctx context.Context, roomID string) (*models.Room, error) {
	var room models.Room
	err := r.Col.FindOne(ctx, bson.M{"_id": roomID}).Decode(&room)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.Storage("find room", err)
	}
	return &room, nil
}

// IsStudentInRoom treats a missing room the same as a missing enrollment.
func (r *RoomRepository) IsStudentInRoom(ctx context.Context, roomID, studentID string) (bool, error) {
	room, err := r.FindByID(ctx, roomID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return room.HasStudent(studentID), nil
}
