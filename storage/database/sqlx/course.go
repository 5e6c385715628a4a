package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/darasa/core/course"
)

const (
	courseColumns   = `id, title, description, instructor_id, created_at, updated_at`
	lessonColumns   = `id, course_id, title, content, ord, created_at, updated_at`
	quizColumns     = `id, lesson_id, created_at`
	questionColumns = `id, quiz_id, text`
	answerColumns   = `id, question_id, text, is_correct`
)

type courseRepository struct {
	db *sqlx.DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *sqlx.DB) course.Repository {
	return &courseRepository{db: db}
}

// Courses

func (repo *courseRepository) CreateCourse(ctx context.Context, c course.Course) (course.Course, error) {
	query := `
		INSERT INTO course (title, description, instructor_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + courseColumns
	err := repo.db.GetContext(ctx, &c, query, c.Title, c.Description, c.InstructorID, c.CreatedAt, c.UpdatedAt)
	return c, err
}

func (repo *courseRepository) GetCourseByID(ctx context.Context, id string) (course.Course, error) {
	var c course.Course
	err := repo.db.GetContext(ctx, &c, `SELECT `+courseColumns+` FROM course WHERE id = $1`, id)
	if err != nil {
		return course.Course{}, trapNoRowsErr(err, course.ErrNotFound)
	}
	return c, nil
}

func (repo *courseRepository) QueryCourses(ctx context.Context) ([]course.Course, error) {
	courses := make([]course.Course, 0)
	err := repo.db.SelectContext(ctx, &courses, `SELECT `+courseColumns+` FROM course ORDER BY created_at`)
	return courses, err
}

func (repo *courseRepository) QueryCoursesByInstructor(ctx context.Context, instructorID string) ([]course.Course, error) {
	courses := make([]course.Course, 0)
	err := repo.db.SelectContext(ctx, &courses,
		`SELECT `+courseColumns+` FROM course WHERE instructor_id = $1 ORDER BY created_at`, instructorID)
	return courses, err
}

func (repo *courseRepository) UpdateCourse(ctx context.Context, c course.Course) (course.Course, error) {
	query := `
		UPDATE course SET title = $1, description = $2, updated_at = $3
		WHERE id = $4
		RETURNING ` + courseColumns
	err := repo.db.GetContext(ctx, &c, query, c.Title, c.Description, c.UpdatedAt, c.ID)
	if err != nil {
		return course.Course{}, trapNoRowsErr(err, course.ErrNotFound)
	}
	return c, nil
}

func (repo *courseRepository) DeleteCourse(ctx context.Context, id string) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM course WHERE id = $1`, id)
	return err
}

// Lessons

func (repo *courseRepository) CreateLesson(ctx context.Context, l course.Lesson) (course.Lesson, error) {
	query := `
		INSERT INTO lesson (course_id, title, content, ord, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + lessonColumns
	err := repo.db.GetContext(ctx, &l, query, l.CourseID, l.Title, l.Content, l.Order, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "lesson_course_ord_key") {
			return course.Lesson{}, course.ErrDuplicateLessonOrder
		}
		return course.Lesson{}, err
	}
	return l, nil
}

func (repo *courseRepository) GetLessonByID(ctx context.Context, id string) (course.Lesson, error) {
	var l course.Lesson
	err := repo.db.GetContext(ctx, &l, `SELECT `+lessonColumns+` FROM lesson WHERE id = $1`, id)
	if err != nil {
		return course.Lesson{}, trapNoRowsErr(err, course.ErrNotFound)
	}
	return l, nil
}

func (repo *courseRepository) QueryLessonsByCourse(ctx context.Context, courseID string) ([]course.Lesson, error) {
	lessons := make([]course.Lesson, 0)
	err := repo.db.SelectContext(ctx, &lessons,
		`SELECT `+lessonColumns+` FROM lesson WHERE course_id = $1 ORDER BY ord`, courseID)
	return lessons, err
}

func (repo *courseRepository) UpdateLesson(ctx context.Context, l course.Lesson) (course.Lesson, error) {
	query := `
		UPDATE lesson SET title = $1, content = $2, ord = $3, updated_at = $4
		WHERE id = $5
		RETURNING ` + lessonColumns
	err := repo.db.GetContext(ctx, &l, query, l.Title, l.Content, l.Order, l.UpdatedAt, l.ID)
	if err != nil {
		if isUniqueViolation(err, "lesson_course_ord_key") {
			return course.Lesson{}, course.ErrDuplicateLessonOrder
		}
		return course.Lesson{}, trapNoRowsErr(err, course.ErrNotFound)
	}
	return l, nil
}

func (repo *courseRepository) DeleteLesson(ctx context.Context, id string) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM lesson WHERE id = $1`, id)
	return err
}

// Quizzes

func (repo *courseRepository) CreateQuiz(ctx context.Context, q course.Quiz) (course.Quiz, error) {
	query := `INSERT INTO quiz (lesson_id, created_at) VALUES ($1, $2) RETURNING ` + quizColumns
	err := repo.db.GetContext(ctx, &q, query, q.LessonID, q.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "quiz_lesson_id_key") {
			return course.Quiz{}, course.ErrQuizExists
		}
		return course.Quiz{}, err
	}
	return q, nil
}

func (repo *courseRepository) GetQuizByID(ctx context.Context, id string) (course.Quiz, error) {
	var q course.Quiz
	err := repo.db.GetContext(ctx, &q, `SELECT `+quizColumns+` FROM quiz WHERE id = $1`, id)
	if err != nil {
		return course.Quiz{}, trapNoRowsErr(err, course.ErrNotFound)
	}
	return q, nil
}

func (repo *courseRepository) GetQuizByLessonID(ctx context.Context, lessonID string) (course.Quiz, error) {
	var q course.Quiz
	err := repo.db.GetContext(ctx, &q, `SELECT `+quizColumns+` FROM quiz WHERE lesson_id = $1`, lessonID)
	if err != nil {
		return course.Quiz{}, trapNoRowsErr(err, course.ErrNotFound)
	}
	return q, nil
}

func (repo *courseRepository) DeleteQuiz(ctx context.Context, id string) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM quiz WHERE id = $1`, id)
	return err
}

// Questions

func (repo *courseRepository) CreateQuestion(ctx context.Context, q course.Question) (course.Question, error) {
	query := `INSERT INTO question (quiz_id, text) VALUES ($1, $2) RETURNING ` + questionColumns
	err := repo.db.GetContext(ctx, &q, query, q.QuizID, q.Text)
	return q, err
}

func (repo *courseRepository) GetQuestionByID(ctx context.Context, id string) (course.Question, error) {
	var q course.Question
	err := repo.db.GetContext(ctx, &q, `SELECT `+questionColumns+` FROM question WHERE id = $1`, id)
	if err != nil {
		return course.Question{}, trapNoRowsErr(err, course.ErrNotFound)
	}
	return q, nil
}

func (repo *courseRepository) QueryQuestionsByQuiz(ctx context.Context, quizID string) ([]course.Question, error) {
	questions := make([]course.Question, 0)
	err := repo.db.SelectContext(ctx, &questions,
		`SELECT `+questionColumns+` FROM question WHERE quiz_id = $1 ORDER BY id`, quizID)
	return questions, err
}

func (repo *courseRepository) UpdateQuestion(ctx context.Context, q course.Question) (course.Question, error) {
	query := `UPDATE question SET text = $1 WHERE id = $2 RETURNING ` + questionColumns
	err := repo.db.GetContext(ctx, &q, query, q.Text, q.ID)
	if err != nil {
		return course.Question{}, trapNoRowsErr(err, course.ErrNotFound)
	}
	return q, nil
}

func (repo *courseRepository) DeleteQuestion(ctx context.Context, id string) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM question WHERE id = $1`, id)
	return err
}

// Answers

func (repo *courseRepository) CreateAnswer(ctx context.Context, a course.Answer) (course.Answer, error) {
	query := `INSERT INTO answer (question_id, text, is_correct) VALUES ($1, $2, $3) RETURNING ` + answerColumns
	err := repo.db.GetContext(ctx, &a, query, a.QuestionID, a.Text, a.IsCorrect)
	return a, err
}

func (repo *courseRepository) GetAnswerByID(ctx context.Context, id string) (course.Answer, error) {
	var a course.Answer
	err := repo.db.GetContext(ctx, &a, `SELECT `+answerColumns+` FROM answer WHERE id = $1`, id)
	if err != nil {
		return course.Answer{}, trapNoRowsErr(err, course.ErrNotFound)
	}
	return a, nil
}

func (repo *courseRepository) QueryAnswersByQuestion(ctx context.Context, questionID string) ([]course.Answer, error) {
	answers := make([]course.Answer, 0)
	err := repo.db.SelectContext(ctx, &answers,
		`SELECT `+answerColumns+` FROM answer WHERE question_id = $1 ORDER BY id`, questionID)
	return answers, err
}

func (repo *courseRepository) UpdateAnswer(ctx context.Context, a course.Answer) (course.Answer, error) {
	query := `UPDATE answer SET text = $1, is_correct = $2 WHERE id = $3 RETURNING ` + answerColumns
	err := repo.db.GetContext(ctx, &a, query, a.Text, a.IsCorrect, a.ID)
	if err != nil {
		return course.Answer{}, trapNoRowsErr(err, course.ErrNotFound)
	}
	return a, nil
}

func (repo *courseRepository) DeleteAnswer(ctx context.Context, id string) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM answer WHERE id = $1`, id)
	return err
}
