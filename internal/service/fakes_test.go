package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"game-service/internal/apperrors"
	"game-service/internal/models"
)

type fakeGameStore struct {
	mu     sync.Mutex
	games  map[string]*models.Game
	nextID int
}

func newFakeGameStore() *fakeGameStore {
	return &fakeGameStore{games: map[string]*models.Game{}}
}

func (f *fakeGameStore) Create(ctx context.Context, game *models.Game) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if game.ID == "" {
		f.nextID++
		game.ID = fmt.Sprintf("game-%d", f.nextID)
	}
	stored := *game
	f.games[game.ID] = &stored
	return nil
}

func (f *fakeGameStore) FindByID(ctx context.Context, id string) (*models.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	game, ok := f.games[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *game
	return &copied, nil
}

func (f *fakeGameStore) FindByRoomAndID(ctx context.Context, roomID, gameID string) (*models.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	game, ok := f.games[gameID]
	if !ok || game.RoomID != roomID {
		return nil, apperrors.ErrNotFound
	}
	copied := *game
	return &copied, nil
}

func (f *fakeGameStore) StartPlay(ctx context.Context, gameID string, start, finish time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	game, ok := f.games[gameID]
	if !ok || game.Status != models.StatusCreated {
		return false, nil
	}
	game.Status = models.StatusCurrentlyPlayed
	game.Config.StartDate = &start
	game.Config.FinishDate = &finish
	return true, nil
}

func (f *fakeGameStore) MarkFinished(ctx context.Context, gameID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	game, ok := f.games[gameID]
	if !ok || game.Status != models.StatusCurrentlyPlayed {
		return false, nil
	}
	game.Status = models.StatusFinished
	return true, nil
}

func (f *fakeGameStore) UpdateDates(ctx context.Context, gameID string, start, finish time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	game, ok := f.games[gameID]
	if !ok {
		return apperrors.ErrNotFound
	}
	game.Config.StartDate = &start
	game.Config.FinishDate = &finish
	return nil
}

type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*models.GameSession
	nextID   int

	// failAdvance injects lost compare-and-swap races.
	failAdvance int
	// duplicateOnInsert simulates losing the unique-index race: the insert
	// fails with ErrDuplicate after a concurrent winner's session appears.
	duplicateOnInsert bool
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]*models.GameSession{}}
}

func (f *fakeSessionStore) FindByGameAndStudent(ctx context.Context, gameID, studentID string) (*models.GameSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.GameID == gameID && s.StudentID == studentID {
			copied := *s
			return &copied, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeSessionStore) Create(ctx context.Context, session *models.GameSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.GameID == session.GameID && s.StudentID == session.StudentID {
			return apperrors.ErrDuplicate
		}
	}
	if f.duplicateOnInsert {
		f.duplicateOnInsert = false
		winner := *session
		f.nextID++
		winner.ID = fmt.Sprintf("session-%d", f.nextID)
		winner.SessionToken = "winner-token"
		f.sessions[winner.ID] = &winner
		return apperrors.ErrDuplicate
	}
	f.nextID++
	session.ID = fmt.Sprintf("session-%d", f.nextID)
	stored := *session
	f.sessions[session.ID] = &stored
	return nil
}

func (f *fakeSessionStore) AdvanceCursor(ctx context.Context, sessionID string, fromVersion int64, newIndex int, finishedAt *time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAdvance > 0 {
		f.failAdvance--
		return false, nil
	}
	session, ok := f.sessions[sessionID]
	if !ok || session.Version != fromVersion {
		return false, nil
	}
	session.CurrentQuestionIndex = newIndex
	session.Version = fromVersion + 1
	if finishedAt != nil {
		session.FinishedAt = finishedAt
	}
	return true, nil
}

func (f *fakeSessionStore) ListByGame(ctx context.Context, gameID string) ([]models.GameSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.GameSession
	for _, s := range f.sessions {
		if s.GameID == gameID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSessionStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sessions)
}

type fakeSubmissionStore struct {
	mu          sync.Mutex
	submissions []models.AnswerSubmission
	nextID      int
}

func newFakeSubmissionStore() *fakeSubmissionStore {
	return &fakeSubmissionStore{}
}

func (f *fakeSubmissionStore) Append(ctx context.Context, submission *models.AnswerSubmission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	submission.ID = fmt.Sprintf("submission-%d", f.nextID)
	f.submissions = append(f.submissions, *submission)
	return nil
}

func (f *fakeSubmissionStore) FindBySession(ctx context.Context, sessionID string) ([]models.AnswerSubmission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.AnswerSubmission
	for _, s := range f.submissions {
		if s.SessionID == sessionID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeCatalog struct {
	order     []string
	questions map[string]models.Question
}

func newFakeCatalog(questions ...models.Question) *fakeCatalog {
	c := &fakeCatalog{questions: map[string]models.Question{}}
	for _, q := range questions {
		c.order = append(c.order, q.ID)
		c.questions[q.ID] = q
	}
	return c
}

func (f *fakeCatalog) FindByCategory(ctx context.Context, categoryPath string, limit int) ([]models.Question, error) {
	var out []models.Question
	for _, id := range f.order {
		q := f.questions[id]
		if !q.MatchesTheme(categoryPath) {
			continue
		}
		out = append(out, q)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeCatalog) FindByID(ctx context.Context, id string) (*models.Question, error) {
	q, ok := f.questions[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &q, nil
}

type fakeRooms struct {
	members map[string][]string
}

func (f *fakeRooms) IsStudentInRoom(ctx context.Context, roomID, studentID string) (bool, error) {
	for _, id := range f.members[roomID] {
		if id == studentID {
			return true, nil
		}
	}
	return false, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
