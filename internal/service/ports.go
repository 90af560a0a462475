package service

import (
	"context"
	"time"

	"game-service/internal/models"
)

// Storage and collaborator ports. The Mongo repositories in
// internal/repository satisfy them; services receive them through their
// constructors and never touch the driver directly.

type GameStore interface {
	Create(ctx context.Context, game *models.Game) error
	FindByID(ctx context.Context, id string) (*models.Game, error)
	FindByRoomAndID(ctx context.Context, roomID, gameID string) (*models.Game, error)
	StartPlay(ctx context.Context, gameID string, start, finish time.Time) (bool, error)
	MarkFinished(ctx context.Context, gameID string) (bool, error)
	UpdateDates(ctx context.Context, gameID string, start, finish time.Time) error
}

type SessionStore interface {
	FindByGameAndStudent(ctx context.Context, gameID, studentID string) (*models.GameSession, error)
	Create(ctx context.Context, session *models.GameSession) error
	AdvanceCursor(ctx context.Context, sessionID string, fromVersion int64, newIndex int, finishedAt *time.Time) (bool, error)
	ListByGame(ctx context.Context, gameID string) ([]models.GameSession, error)
}

type SubmissionStore interface {
	Append(ctx context.Context, submission *models.AnswerSubmission) error
	FindBySession(ctx context.Context, sessionID string) ([]models.AnswerSubmission, error)
}

// QuestionCatalog is the read-only question bank owned by another service.
type QuestionCatalog interface {
	FindByCategory(ctx context.Context, categoryPath string, limit int) ([]models.Question, error)
	FindByID(ctx context.Context, id string) (*models.Question, error)
}

type RoomMembership interface {
	IsStudentInRoom(ctx context.Context, roomID, studentID string) (bool, error)
}

// Cache is the slice of the Redis client the services use. A nil Cache
// disables caching; cache failures degrade to store reads.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
