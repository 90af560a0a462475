package models

import "time"

type GameStatus string

const (
	StatusCreated         GameStatus = "created"
	StatusCurrentlyPlayed GameStatus = "currently_played"
	StatusFinished        GameStatus = "finished"
)

type GameType string

const (
	GameTypeSingle GameType = "single"
	GameTypeDuel   GameType = "duel"
	GameTypeTeam   GameType = "team"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// DefaultWindowMinutes is applied when a game is given a start date without a
// finish date.
const DefaultWindowMinutes = 60

type GameConfig struct {
	QuestionCount   int        `bson:"question_count" json:"question_count"`
	DurationMinutes int        `bson:"duration_minutes" json:"duration_minutes"`
	GameType        GameType   `bson:"game_type" json:"game_type"`
	Difficulty      Difficulty `bson:"difficulty" json:"difficulty"`
	AllowSkips      bool       `bson:"allow_skips" json:"allow_skips"`
	EnableHints     bool       `bson:"enable_hints" json:"enable_hints"`
	Questions       []string   `bson:"questions" json:"questions"`
	StartDate       *time.Time `bson:"start_date,omitempty" json:"start_date,omitempty"`
	FinishDate      *time.Time `bson:"finish_date,omitempty" json:"finish_date,omitempty"`
}

type Game struct {
	ID          string     `bson:"_id,omitempty" json:"id"`
	RoomID      string     `bson:"room_id" json:"room_id"`
	CreatorID   string     `bson:"creator_id" json:"creator_id"`
	Name        string     `bson:"name" json:"name"`
	QuestionIDs []string   `bson:"question_ids" json:"question_ids"`
	Config      GameConfig `bson:"config" json:"config"`
	Status      GameStatus `bson:"status" json:"status"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}

// IsPlayable reports whether the game accepts new sessions and submissions at
// the given instant: it has been started and now falls inside
// [start_date, finish_date). An unset finish date leaves the window open.
func (g *Game) IsPlayable(now time.Time) bool {
	if g.Status != StatusCurrentlyPlayed {
		return false
	}
	if sd := g.Config.StartDate; sd != nil && now.Before(*sd) {
		return false
	}
	if fd := g.Config.FinishDate; fd != nil && !now.Before(*fd) {
		return false
	}
	return true
}

// WindowClosed reports whether the finish date has passed.
func (g *Game) WindowClosed(now time.Time) bool {
	fd := g.Config.FinishDate
	return fd != nil && !now.Before(*fd)
}

type Room struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	Name       string    `bson:"name" json:"name"`
	TeacherID  string    `bson:"teacher_id" json:"teacher_id"`
	StudentIDs []string  `bson:"student_ids" json:"student_ids"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}

// HasStudent reports whether the student is enrolled in the room.
func (r *Room) HasStudent(studentID string) bool {
	for _, id := range r.StudentIDs {
		if id == studentID {
			return true
		}
	}
	return false
}
