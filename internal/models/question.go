package models

import "strings"

// Question is read-only input owned by the question catalog. The game engine
// never writes to the questions collection.

type AnswerOption struct {
	ID      string `bson:"id" json:"id"`
	Text    string `bson:"text" json:"text"`
	Correct bool   `bson:"correct" json:"-"`
	Points  int    `bson:"points" json:"points"`
}

type Question struct {
	ID          string         `bson:"_id,omitempty" json:"id"`
	OwnerID     string         `bson:"owner_id" json:"owner_id"`
	Title       string         `bson:"title" json:"title"`
	Type        string         `bson:"type" json:"type"`
	Description string         `bson:"description" json:"description"`
	Pictures    []string       `bson:"pictures" json:"pictures"`
	Answers     []AnswerOption `bson:"answers" json:"answers"`
	Themes      []string       `bson:"themes" json:"themes"`
}

// IsCorrectOption reports whether optionID names an answer entry flagged
// correct.
func (q *Question) IsCorrectOption(optionID string) bool {
	for _, a := range q.Answers {
		if a.ID == optionID {
			return a.Correct
		}
	}
	return false
}

// MatchesTypedAnswer compares a free-text answer against every correct answer
// entry using a case-insensitive trim match.
func (q *Question) MatchesTypedAnswer(typed string) bool {
	typed = strings.TrimSpace(typed)
	if typed == "" {
		return false
	}
	for _, a := range q.Answers {
		if a.Correct && strings.EqualFold(typed, strings.TrimSpace(a.Text)) {
			return true
		}
	}
	return false
}

// MatchesTheme reports whether any of the question's theme paths fall under
// categoryPath. An empty filter matches everything.
func (q *Question) MatchesTheme(categoryPath string) bool {
	if categoryPath == "" {
		return true
	}
	for _, theme := range q.Themes {
		if theme == categoryPath || strings.HasPrefix(theme, categoryPath+"/") {
			return true
		}
	}
	return false
}
