package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"game-service/internal/apperrors"
	"game-service/internal/models"
)

// submitAttempts bounds the read-modify-write loop in SubmitAnswer: one
// retry after a lost version race, then the caller gets ErrConflict.
const submitAttempts = 2

type SubmissionInput struct {
	QuestionID       string  `json:"question_id"`
	SelectedOptionID *string `json:"selected_option_id,omitempty"`
	TypedAnswer      *string `json:"typed_answer,omitempty"`
}

type AnswerResult struct {
	IsCorrect      bool   `json:"is_correct"`
	Skipped        bool   `json:"skipped,omitempty"`
	NextQuestionID string `json:"next_question_id,omitempty"`
	GameFinished   bool   `json:"game_finished"`
}

// StudentResult is the per-student read projection of a game's outcomes.
type StudentResult struct {
	StudentID string `json:"student_id"`
	Answered  int    `json:"answered"`
	Correct   int    `json:"correct"`
	Finished  bool   `json:"finished"`
}

// GradingService grades submitted answers and advances session state.
type GradingService struct {
	sessions    SessionStore
	submissions SubmissionStore
	catalog     QuestionCatalog
	lifecycle   *GameService
	logger      *log.Logger
	now         func() time.Time
}

func NewGradingService(sessions SessionStore, submissions SubmissionStore, catalog QuestionCatalog, lifecycle *GameService, logger *log.Logger) *GradingService {
	if logger == nil {
		logger = log.Default()
	}
	return &GradingService{
		sessions:    sessions,
		submissions: submissions,
		catalog:     catalog,
		lifecycle:   lifecycle,
		logger:      logger,
		now:         time.Now,
	}
}

// SubmitAnswer grades the submission against the session's current question,
// records it and moves the cursor forward. Concurrent submissions for the
// same session are serialized by the session's version: the loser of the
// compare-and-swap rereads once, and a second loss surfaces ErrConflict.
func (s *GradingService) SubmitAnswer(ctx context.Context, gameID, studentID string, input *SubmissionInput) (*AnswerResult, error) {
	for attempt := 0; attempt < submitAttempts; attempt++ {
		result, lost, err := s.trySubmit(ctx, gameID, studentID, input)
		if err != nil {
			return nil, err
		}
		if lost {
			continue
		}
		return result, nil
	}
	return nil, apperrors.ErrConflict
}

func (s *GradingService) trySubmit(ctx context.Context, gameID, studentID string, input *SubmissionInput) (*AnswerResult, bool, error) {
	session, err := s.sessions.FindByGameAndStudent(ctx, gameID, studentID)
	if err != nil {
		return nil, false, err
	}
	if session.Finished() {
		return nil, false, apperrors.ErrAlreadyFinished
	}

	game, err := s.lifecycle.LoadGame(ctx, gameID)
	if err != nil {
		return nil, false, err
	}
	now := s.now()
	if err := s.lifecycle.EnsurePlayable(ctx, game, now); err != nil {
		return nil, false, err
	}

	index := session.CurrentQuestionIndex
	if index >= len(game.QuestionIDs) {
		return nil, false, apperrors.ErrAlreadyFinished
	}
	expectedID := game.QuestionIDs[index]

	skipped := false
	isCorrect := false
	if input.QuestionID != expectedID {
		if !game.Config.AllowSkips {
			return nil, false, fmt.Errorf("%w: expected question %s", apperrors.ErrOutOfOrder, expectedID)
		}
		// Skip the expected question: the cursor advances but no
		// correctness is recorded for it.
		skipped = true
	} else {
		question, err := s.catalog.FindByID(ctx, expectedID)
		if err != nil {
			return nil, false, err
		}
		isCorrect = grade(question, input)
	}

	newIndex := index + 1
	finished := newIndex == len(game.QuestionIDs)
	var finishedAt *time.Time
	if finished {
		finishedAt = &now
	}

	advanced, err := s.sessions.AdvanceCursor(ctx, session.ID, session.Version, newIndex, finishedAt)
	if err != nil {
		return nil, false, err
	}
	if !advanced {
		return nil, true, nil
	}

	// The submission row is written after winning the version race so each
	// (session, question) pair is recorded at most once. A failed append
	// leaves the cursor advanced with the question unrecorded; the error
	// surfaces and the question is not re-gradable.
	if !skipped {
		submission := &models.AnswerSubmission{
			SessionID:        session.ID,
			QuestionID:       expectedID,
			SelectedOptionID: input.SelectedOptionID,
			TypedAnswer:      input.TypedAnswer,
			IsCorrect:        isCorrect,
			QuestionIndex:    index,
			SubmittedAt:      now,
		}
		if err := s.submissions.Append(ctx, submission); err != nil {
			return nil, false, err
		}
	}

	result := &AnswerResult{
		IsCorrect:    isCorrect,
		Skipped:      skipped,
		GameFinished: finished,
	}
	if !finished {
		result.NextQuestionID = game.QuestionIDs[newIndex]
	}
	return result, false, nil
}

// SessionAnswers lists the graded submissions of the student's session.
func (s *GradingService) SessionAnswers(ctx context.Context, gameID, studentID string) ([]models.AnswerSubmission, error) {
	session, err := s.sessions.FindByGameAndStudent(ctx, gameID, studentID)
	if err != nil {
		return nil, err
	}
	return s.submissions.FindBySession(ctx, session.ID)
}

// GameResults assembles the per-student outcome projection for a game.
func (s *GradingService) GameResults(ctx context.Context, gameID string) ([]StudentResult, error) {
	if _, err := s.lifecycle.LoadGame(ctx, gameID); err != nil {
		return nil, err
	}
	sessions, err := s.sessions.ListByGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	results := make([]StudentResult, 0, len(sessions))
	for _, session := range sessions {
		submissions, err := s.submissions.FindBySession(ctx, session.ID)
		if err != nil {
			return nil, err
		}
		correct := 0
		for _, sub := range submissions {
			if sub.IsCorrect {
				correct++
			}
		}
		results = append(results, StudentResult{
			StudentID: session.StudentID,
			Answered:  len(submissions),
			Correct:   correct,
			Finished:  session.Finished(),
		})
	}
	return results, nil
}

// grade computes correctness: a selected option must name an answer entry
// flagged correct; free text is matched case-insensitively after trimming.
func grade(question *models.Question, input *SubmissionInput) bool {
	if input.SelectedOptionID != nil {
		return question.IsCorrectOption(*input.SelectedOptionID)
	}
	if input.TypedAnswer != nil {
		return question.MatchesTypedAnswer(*input.TypedAnswer)
	}
	return false
}
