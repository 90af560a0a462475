package models

import "time"

// GameSession is one student's attempt at a game. At most one session exists
// per (game_id, student_id), enforced by a unique compound index.
//
// CurrentQuestionIndex is a 0-based cursor into the game's question list; it
// only moves forward, one question per graded submission. Version backs the
// compare-and-swap used to serialize concurrent submissions for the same
// session.
type GameSession struct {
	ID                   string     `bson:"_id,omitempty" json:"id"`
	GameID               string     `bson:"game_id" json:"game_id"`
	StudentID            string     `bson:"student_id" json:"student_id"`
	SessionToken         string     `bson:"session_token" json:"session_token"`
	StartedAt            time.Time  `bson:"started_at" json:"started_at"`
	FinishedAt           *time.Time `bson:"finished_at,omitempty" json:"finished_at,omitempty"`
	CurrentQuestionIndex int        `bson:"current_question_index" json:"current_question_index"`
	Version              int64      `bson:"version" json:"-"`
}

// Finished reports whether the session has answered its last question.
func (s *GameSession) Finished() bool {
	return s.FinishedAt != nil
}
