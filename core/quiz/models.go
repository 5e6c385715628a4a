package quiz

import (
	"time"

	"github.com/trezcool/darasa/core"
)

// Attempt is an immutable record of one quiz submission. Students may retake
// a quiz any number of times; every take appends a new Attempt.
type Attempt struct {
	ID        string    `json:"id" db:"id"`
	QuizID    string    `json:"quiz_id" db:"quiz_id"`
	StudentID string    `json:"student_id" db:"student_id"`
	Score     int       `json:"score" db:"score"`
	Total     int       `json:"total" db:"total"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
}

// Percentage returns the attempt's score as a percentage; 0 for an empty quiz.
func (a Attempt) Percentage() float64 {
	if a.Total == 0 {
		return 0
	}
	return float64(a.Score) / float64(a.Total) * 100
}

// Submission maps each question ID to the ID of the single selected answer.
type Submission map[string]string

// NewSubmission is the payload for taking a quiz.
type NewSubmission struct {
	Answers Submission `json:"answers" validate:"required"`
}

func (ns *NewSubmission) Validate() error { return core.Validate.Struct(ns) }

// Stats aggregates a quiz's attempts for its course's instructor.
type Stats struct {
	AttemptCount int     `json:"attempt_count"`
	AvgScore     float64 `json:"avg_score"`
	MinScore     int     `json:"min_score"`
	MaxScore     int     `json:"max_score"`
}
