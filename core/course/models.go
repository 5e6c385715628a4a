package course

import (
	"time"

	"github.com/trezcool/darasa/core"
)

// Course is the root of the content ownership chain. It is owned by the
// instructor who created it; ownership of every nested entity (Lesson, Quiz,
// Question, Answer) is resolved by walking up to the Course.
type Course struct {
	ID           string    `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	Description  string    `json:"description" db:"description"`
	InstructorID string    `json:"instructor_id" db:"instructor_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// Lesson belongs to a Course. Order is a positive integer, unique within the
// course; lessons are presented in ascending order.
type Lesson struct {
	ID        string    `json:"id" db:"id"`
	CourseID  string    `json:"course_id" db:"course_id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	Order     int       `json:"order" db:"ord"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// Quiz is attached to a Lesson; at most one per lesson.
type Quiz struct {
	ID        string    `json:"id" db:"id"`
	LessonID  string    `json:"lesson_id" db:"lesson_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
}

type Question struct {
	ID     string `json:"id" db:"id"`
	QuizID string `json:"quiz_id" db:"quiz_id"`
	Text   string `json:"text" db:"text"`
}

// Answer is a choice for a Question. The schema permits several answers with
// IsCorrect set; scoring only ever checks the single selected answer's flag.
type Answer struct {
	ID         string `json:"id" db:"id"`
	QuestionID string `json:"question_id" db:"question_id"`
	Text       string `json:"text" db:"text"`
	IsCorrect  bool   `json:"is_correct" db:"is_correct"`
}

// Detail aggregates for the API layer.

type CourseDetail struct {
	Course
	Lessons []Lesson `json:"lessons"`
}

type QuestionDetail struct {
	Question
	Answers []Answer `json:"answers"`
}

type QuizDetail struct {
	Quiz
	Questions []QuestionDetail `json:"questions"`
}

// Kind names an entity type in the ownership chain.
type Kind string

const (
	KindCourse   Kind = "course"
	KindLesson   Kind = "lesson"
	KindQuiz     Kind = "quiz"
	KindQuestion Kind = "question"
	KindAnswer   Kind = "answer"
)

// Ref identifies an existing entity anywhere in the ownership chain.
type Ref struct {
	Kind Kind
	ID   string
}

// Creation / mutation payloads

type NewCourse struct {
	Title       string `json:"title" validate:"required,min=3"`
	Description string `json:"description" validate:"required"`
}

func (nc *NewCourse) Validate() error {
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)
	return core.Validate.Struct(nc)
}

type UpdateCourse struct {
	Title       string `json:"title" validate:"omitempty,min=3"`
	Description string `json:"description"`
}

func (uc *UpdateCourse) Validate(orig Course) error {
	if title := core.CleanString(uc.Title); title != "" {
		uc.Title = title
	} else {
		uc.Title = orig.Title
	}
	if desc := core.CleanString(uc.Description); desc != "" {
		uc.Description = desc
	} else {
		uc.Description = orig.Description
	}
	return core.Validate.Struct(uc)
}

type NewLesson struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
	Order   int    `json:"order" validate:"required,gt=0"`
}

func (nl *NewLesson) Validate() error {
	nl.Title = core.CleanString(nl.Title)
	return core.Validate.Struct(nl)
}

type UpdateLesson struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Order   *int   `json:"order" validate:"omitempty,gt=0"`
}

func (ul *UpdateLesson) Validate(orig Lesson) error {
	if title := core.CleanString(ul.Title); title != "" {
		ul.Title = title
	} else {
		ul.Title = orig.Title
	}
	if ul.Content == "" {
		ul.Content = orig.Content
	}
	if ul.Order == nil {
		ul.Order = &orig.Order
	}
	return core.Validate.Struct(ul)
}

type NewQuestion struct {
	Text string `json:"text" validate:"required"`
}

func (nq *NewQuestion) Validate() error {
	nq.Text = core.CleanString(nq.Text)
	return core.Validate.Struct(nq)
}

type NewAnswer struct {
	Text      string `json:"text" validate:"required"`
	IsCorrect bool   `json:"is_correct"`
}

func (na *NewAnswer) Validate() error {
	na.Text = core.CleanString(na.Text)
	return core.Validate.Struct(na)
}

type UpdateAnswer struct {
	Text      string `json:"text"`
	IsCorrect *bool  `json:"is_correct"`
}

func (ua *UpdateAnswer) Validate(orig Answer) error {
	if text := core.CleanString(ua.Text); text != "" {
		ua.Text = text
	} else {
		ua.Text = orig.Text
	}
	if ua.IsCorrect == nil {
		ua.IsCorrect = &orig.IsCorrect
	}
	return core.Validate.Struct(ua)
}
