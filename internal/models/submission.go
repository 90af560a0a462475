package models

import "time"

// AnswerSubmission is one graded answer inside a session. Rows are
// append-only; IsCorrect is computed once at grading time and never updated.
type AnswerSubmission struct {
	ID               string    `bson:"_id,omitempty" json:"id"`
	SessionID        string    `bson:"session_id" json:"session_id"`
	QuestionID       string    `bson:"question_id" json:"question_id"`
	SelectedOptionID *string   `bson:"selected_option_id,omitempty" json:"selected_option_id,omitempty"`
	TypedAnswer      *string   `bson:"typed_answer,omitempty" json:"typed_answer,omitempty"`
	IsCorrect        bool      `bson:"is_correct" json:"is_correct"`
	QuestionIndex    int       `bson:"question_index" json:"question_index"`
	SubmittedAt      time.Time `bson:"submitted_at" json:"submitted_at"`
}
