package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"game-service/internal/apperrors"
	"game-service/internal/models"

	"github.com/google/uuid"
)

// membershipCacheTTL bounds how long a positive room-membership check is
// reused. Negative results are never cached.
const membershipCacheTTL = 5 * time.Minute

// SessionService creates and looks up play sessions, one per (game, student).
type SessionService struct {
	sessions  SessionStore
	rooms     RoomMembership
	lifecycle *GameService
	cache     Cache
	logger    *log.Logger
	now       func() time.Time
}

func NewSessionService(sessions SessionStore, rooms RoomMembership, lifecycle *GameService, cache Cache, logger *log.Logger) *SessionService {
	if logger == nil {
		logger = log.Default()
	}
	return &SessionService{
		sessions:  sessions,
		rooms:     rooms,
		lifecycle: lifecycle,
		cache:     cache,
		logger:    logger,
		now:       time.Now,
	}
}

// StartSessionForStudent returns the student's session for the game, creating
// it on first call. Repeated calls are idempotent: they return the existing
// session and never create duplicates, including under concurrent retries,
// where the storage uniqueness constraint decides the winner.
func (s *SessionService) StartSessionForStudent(ctx context.Context, gameID, studentID string) (*models.GameSession, bool, error) {
	game, err := s.lifecycle.LoadGame(ctx, gameID)
	if err != nil {
		return nil, false, err
	}

	member, err := s.isMember(ctx, game.RoomID, studentID)
	if err != nil {
		return nil, false, err
	}
	if !member {
		return nil, false, fmt.Errorf("%w: student %s, room %s", apperrors.ErrForbidden, studentID, game.RoomID)
	}

	if err := s.lifecycle.EnsurePlayable(ctx, game, s.now()); err != nil {
		return nil, false, err
	}

	existing, err := s.sessions.FindByGameAndStudent(ctx, gameID, studentID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, false, err
	}

	session := &models.GameSession{
		GameID:               gameID,
		StudentID:            studentID,
		SessionToken:         uuid.NewString(),
		StartedAt:            s.now(),
		CurrentQuestionIndex: 0,
		Version:              1,
	}
	err = s.sessions.Create(ctx, session)
	if errors.Is(err, apperrors.ErrDuplicate) {
		// A concurrent start won the insert; adopt its session.
		existing, err := s.sessions.FindByGameAndStudent(ctx, gameID, studentID)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return session, true, nil
}

func (s *SessionService) GetSession(ctx context.Context, gameID, studentID string) (*models.GameSession, error) {
	return s.sessions.FindByGameAndStudent(ctx, gameID, studentID)
}

// Progress reports where the session stands inside its game.
func (s *SessionService) Progress(ctx context.Context, gameID, studentID string) (map[string]interface{}, error) {
	session, err := s.sessions.FindByGameAndStudent(ctx, gameID, studentID)
	if err != nil {
		return nil, err
	}
	game, err := s.lifecycle.LoadGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	total := len(game.QuestionIDs)
	answered := session.CurrentQuestionIndex
	percentage := 0.0
	if total > 0 {
		percentage = float64(answered) / float64(total) * 100
	}

	progress := map[string]interface{}{
		"session_id":         session.ID,
		"game_id":            gameID,
		"student_id":         studentID,
		"answered_questions": answered,
		"total_questions":    total,
		"progress_percent":   percentage,
		"finished":           session.Finished(),
		"started_at":         session.StartedAt,
	}
	if session.FinishedAt != nil {
		progress["finished_at"] = session.FinishedAt
	}
	return progress, nil
}

func (s *SessionService) isMember(ctx context.Context, roomID, studentID string) (bool, error) {
	key := membershipCacheKey(roomID, studentID)
	if s.cache != nil {
		if v, err := s.cache.Get(ctx, key); err == nil && v == "1" {
			return true, nil
		}
	}

	member, err := s.rooms.IsStudentInRoom(ctx, roomID, studentID)
	if err != nil {
		return false, err
	}
	if member && s.cache != nil {
		if err := s.cache.Set(ctx, key, "1", membershipCacheTTL); err != nil {
			s.logger.Printf("failed to cache membership %s: %v", key, err)
		}
	}
	return member, nil
}

func membershipCacheKey(roomID, studentID string) string {
	return fmt.Sprintf("room:%s:member:%s", roomID, studentID)
}
