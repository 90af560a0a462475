package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"game-service/internal/apperrors"
	"game-service/internal/models"
	"game-service/internal/selection"
)

// changedDatesWindowMinutes is the default window length when a teacher moves
// a game's start date without giving a finish date.
const changedDatesWindowMinutes = 30

// GameService owns game creation, status transitions and time-window
// validation.
type GameService struct {
	games    GameStore
	selector *selection.PoolSelector
	cache    Cache
	cacheTTL time.Duration
	logger   *log.Logger
	now      func() time.Time
}

func NewGameService(games GameStore, selector *selection.PoolSelector, cache Cache, cacheTTL time.Duration, logger *log.Logger) *GameService {
	if logger == nil {
		logger = log.Default()
	}
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}
	return &GameService{
		games:    games,
		selector: selector,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateGame assembles a new game in the created state. Explicitly requested
// question ids come first; the remainder up to question_count is filled from
// the catalog pool matching categoryFilter. An undersized pool is tolerated.
func (s *GameService) CreateGame(ctx context.Context, creatorID, roomID, name string, cfg models.GameConfig, categoryFilter string) (*models.Game, error) {
	if cfg.QuestionCount <= 0 {
		return nil, fmt.Errorf("%w: question_count must be positive", apperrors.ErrInvalidConfig)
	}
	if cfg.StartDate != nil && cfg.FinishDate != nil && cfg.FinishDate.Before(*cfg.StartDate) {
		return nil, fmt.Errorf("%w: start_date is after finish_date", apperrors.ErrInvalidConfig)
	}
	if cfg.StartDate != nil && cfg.FinishDate == nil {
		finish := cfg.StartDate.Add(models.DefaultWindowMinutes * time.Minute)
		cfg.FinishDate = &finish
	}

	questionIDs := dedupe(cfg.Questions)
	if len(questionIDs) > cfg.QuestionCount {
		questionIDs = questionIDs[:cfg.QuestionCount]
	}

	needed := cfg.QuestionCount - len(questionIDs)
	if needed > 0 {
		result, err := s.selector.SelectQuestions(ctx, &selection.SelectionCriteria{
			CategoryPath: categoryFilter,
			Count:        needed,
			ExcludeIDs:   questionIDs,
		})
		if err != nil {
			return nil, err
		}
		if result.Shortfall > 0 {
			s.logger.Printf("question pool for category %q is %d short of the requested %d", categoryFilter, result.Shortfall, cfg.QuestionCount)
		}
		for _, q := range result.Questions {
			questionIDs = append(questionIDs, q.ID)
		}
	}

	now := s.now()
	game := &models.Game{
		RoomID:      roomID,
		CreatorID:   creatorID,
		Name:        name,
		QuestionIDs: questionIDs,
		Config:      cfg,
		Status:      models.StatusCreated,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.games.Create(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

// StartGameInRoom transitions a created game to currently_played and fixes
// its playable window, defaulting the start to now. Starting a game that
// already left the created state is a no-op returning the current record.
func (s *GameService) StartGameInRoom(ctx context.Context, roomID, gameID string) (*models.Game, error) {
	game, err := s.games.FindByRoomAndID(ctx, roomID, gameID)
	if err != nil {
		return nil, err
	}
	if game.Status != models.StatusCreated {
		return game, nil
	}
	// A shortfall at creation is recoverable, but a game may not leave the
	// created state with nothing to play.
	if len(game.QuestionIDs) == 0 {
		return nil, fmt.Errorf("%w: game has no questions", apperrors.ErrInvalidConfig)
	}

	start := s.now()
	if game.Config.StartDate != nil {
		start = *game.Config.StartDate
	}
	finish := start.Add(models.DefaultWindowMinutes * time.Minute)
	if game.Config.FinishDate != nil {
		finish = *game.Config.FinishDate
	}

	applied, err := s.games.StartPlay(ctx, game.ID, start, finish)
	if err != nil {
		return nil, err
	}
	s.invalidateGame(ctx, game.ID)
	if !applied {
		// Lost the race against a concurrent start; the other caller already
		// applied the transition.
		return s.games.FindByRoomAndID(ctx, roomID, gameID)
	}

	game.Status = models.StatusCurrentlyPlayed
	game.Config.StartDate = &start
	game.Config.FinishDate = &finish
	game.UpdatedAt = s.now()
	return game, nil
}

// ChangeGameDates moves the playable window. A missing start defaults to now,
// a missing finish to start plus thirty minutes. When both are given the
// start must be strictly before the finish.
func (s *GameService) ChangeGameDates(ctx context.Context, roomID, gameID string, start, finish *time.Time) (*models.Game, error) {
	if start != nil && finish != nil && !start.Before(*finish) {
		return nil, fmt.Errorf("%w: start_date must be before finish_date", apperrors.ErrInvalidConfig)
	}

	game, err := s.games.FindByRoomAndID(ctx, roomID, gameID)
	if err != nil {
		return nil, err
	}

	effectiveStart := s.now()
	if start != nil {
		effectiveStart = *start
	}
	effectiveFinish := effectiveStart.Add(changedDatesWindowMinutes * time.Minute)
	if finish != nil {
		effectiveFinish = *finish
	}

	if err := s.games.UpdateDates(ctx, game.ID, effectiveStart, effectiveFinish); err != nil {
		return nil, err
	}
	s.invalidateGame(ctx, game.ID)

	game.Config.StartDate = &effectiveStart
	game.Config.FinishDate = &effectiveFinish
	game.UpdatedAt = s.now()
	return game, nil
}

// EnsurePlayable checks the game's state and window at the given instant and
// reports why play is not possible. A closed window also moves the game to
// its terminal state, best effort.
func (s *GameService) EnsurePlayable(ctx context.Context, game *models.Game, now time.Time) error {
	switch game.Status {
	case models.StatusCreated:
		return apperrors.ErrNotStarted
	case models.StatusFinished:
		return apperrors.ErrExpired
	}
	if sd := game.Config.StartDate; sd != nil && now.Before(*sd) {
		return apperrors.ErrNotStarted
	}
	if game.WindowClosed(now) {
		if _, err := s.games.MarkFinished(ctx, game.ID); err != nil {
			s.logger.Printf("failed to finish expired game %s: %v", game.ID, err)
		}
		s.invalidateGame(ctx, game.ID)
		return apperrors.ErrExpired
	}
	return nil
}

// LoadGame reads a game through the cache. Cache failures fall back to the
// store.
func (s *GameService) LoadGame(ctx context.Context, gameID string) (*models.Game, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, gameCacheKey(gameID)); err == nil && raw != "" {
			var game models.Game
			if err := json.Unmarshal([]byte(raw), &game); err == nil {
				return &game, nil
			}
		}
	}

	game, err := s.games.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(game); err == nil {
			if err := s.cache.Set(ctx, gameCacheKey(gameID), raw, s.cacheTTL); err != nil {
				s.logger.Printf("failed to cache game %s: %v", gameID, err)
			}
		}
	}
	return game, nil
}

func (s *GameService) invalidateGame(ctx context.Context, gameID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, gameCacheKey(gameID)); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Printf("failed to invalidate cached game %s: %v", gameID, err)
	}
}

func gameCacheKey(gameID string) string {
	return "game:" + gameID
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
