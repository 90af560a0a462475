package models

import (
	"testing"
	"time"
)

func TestIsCorrectOption(t *testing.T) {
	question := &Question{
		Answers: []AnswerOption{
			{ID: "a", Text: "Paris", Correct: false},
			{ID: "b", Text: "Lyon", Correct: true},
		},
	}

	if question.IsCorrectOption("a") {
		t.Error("Expected option a to be incorrect")
	}
	if !question.IsCorrectOption("b") {
		t.Error("Expected option b to be correct")
	}
	if question.IsCorrectOption("missing") {
		t.Error("Expected unknown option to be incorrect")
	}
}

func TestMatchesTypedAnswer(t *testing.T) {
	question := &Question{
		Answers: []AnswerOption{
			{ID: "a", Text: "Photosynthesis", Correct: true},
			{ID: "b", Text: "Respiration", Correct: false},
		},
	}

	testCases := []struct {
		name  string
		typed string
		want  bool
	}{
		{"exact", "Photosynthesis", true},
		{"case insensitive", "photosynthesis", true},
		{"surrounding whitespace", "  Photosynthesis ", true},
		{"wrong answer text", "Respiration", false},
		{"empty", "", false},
		{"whitespace only", "   ", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := question.MatchesTypedAnswer(tc.typed); got != tc.want {
				t.Errorf("MatchesTypedAnswer(%q) = %v, want %v", tc.typed, got, tc.want)
			}
		})
	}
}

func TestMatchesTheme(t *testing.T) {
	question := &Question{Themes: []string{"science/biology", "exams"}}

	testCases := []struct {
		name     string
		category string
		want     bool
	}{
		{"empty filter matches all", "", true},
		{"exact path", "science/biology", true},
		{"parent path", "science", true},
		{"unrelated path", "history", false},
		{"prefix but not path segment", "scien", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := question.MatchesTheme(tc.category); got != tc.want {
				t.Errorf("MatchesTheme(%q) = %v, want %v", tc.category, got, tc.want)
			}
		})
	}
}

func TestRoomHasStudent(t *testing.T) {
	room := &Room{ID: "room-1", StudentIDs: []string{"student-1", "student-2"}}

	if !room.HasStudent("student-1") {
		t.Error("Expected student-1 to be enrolled")
	}
	if room.HasStudent("student-3") {
		t.Error("Expected student-3 not to be enrolled")
	}
	if (&Room{}).HasStudent("student-1") {
		t.Error("Expected empty room to have no students")
	}
}

func TestGameIsPlayable(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	before := now.Add(-time.Hour)
	after := now.Add(time.Hour)

	testCases := []struct {
		name   string
		status GameStatus
		start  *time.Time
		finish *time.Time
		want   bool
	}{
		{"created game is not playable", StatusCreated, &before, &after, false},
		{"finished game is not playable", StatusFinished, &before, &after, false},
		{"inside window", StatusCurrentlyPlayed, &before, &after, true},
		{"before start", StatusCurrentlyPlayed, &after, nil, false},
		{"after finish", StatusCurrentlyPlayed, &before, &before, false},
		{"finish boundary is exclusive", StatusCurrentlyPlayed, &before, &now, false},
		{"start boundary is inclusive", StatusCurrentlyPlayed, &now, &after, true},
		{"open-ended window", StatusCurrentlyPlayed, &before, nil, true},
		{"no dates at all", StatusCurrentlyPlayed, nil, nil, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			game := &Game{
				Status: tc.status,
				Config: GameConfig{StartDate: tc.start, FinishDate: tc.finish},
			}
			if got := game.IsPlayable(now); got != tc.want {
				t.Errorf("IsPlayable = %v, want %v", got, tc.want)
			}
		})
	}
}
