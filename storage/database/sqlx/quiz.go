package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/darasa/core/quiz"
)

const attemptColumns = `id, quiz_id, student_id, score, total, created_at`

type attemptRepository struct {
	db *sqlx.DB
}

var _ quiz.Repository = (*attemptRepository)(nil) // interface compliance check

func NewAttemptRepository(db *sqlx.DB) quiz.Repository {
	return &attemptRepository{db: db}
}

func (repo *attemptRepository) CreateAttempt(ctx context.Context, att quiz.Attempt) (quiz.Attempt, error) {
	query := `
		INSERT INTO quiz_attempt (quiz_id, student_id, score, total, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + attemptColumns
	err := repo.db.GetContext(ctx, &att, query, att.QuizID, att.StudentID, att.Score, att.Total, att.CreatedAt)
	return att, err
}

func (repo *attemptRepository) GetAttemptByID(ctx context.Context, id string) (quiz.Attempt, error) {
	var att quiz.Attempt
	err := repo.db.GetContext(ctx, &att, `SELECT `+attemptColumns+` FROM quiz_attempt WHERE id = $1`, id)
	if err != nil {
		return quiz.Attempt{}, trapNoRowsErr(err, quiz.ErrNotFound)
	}
	return att, nil
}

func (repo *attemptRepository) QueryAttemptsByQuiz(ctx context.Context, quizID string) ([]quiz.Attempt, error) {
	attempts := make([]quiz.Attempt, 0)
	err := repo.db.SelectContext(ctx, &attempts,
		`SELECT `+attemptColumns+` FROM quiz_attempt WHERE quiz_id = $1 ORDER BY created_at DESC`, quizID)
	return attempts, err
}

func (repo *attemptRepository) QueryAttemptsByStudent(ctx context.Context, studentID string) ([]quiz.Attempt, error) {
	attempts := make([]quiz.Attempt, 0)
	err := repo.db.SelectContext(ctx, &attempts,
		`SELECT `+attemptColumns+` FROM quiz_attempt WHERE student_id = $1 ORDER BY created_at DESC`, studentID)
	return attempts, err
}

func (repo *attemptRepository) QueryAttemptsByStudentAndCourse(ctx context.Context, studentID, courseID string, limit int) ([]quiz.Attempt, error) {
	query := `
		SELECT qa.id, qa.quiz_id, qa.student_id, qa.score, qa.total, qa.created_at
		FROM quiz_attempt qa
		         JOIN quiz q ON q.id = qa.quiz_id
		         JOIN lesson l ON l.id = q.lesson_id
		WHERE qa.student_id = $1
		  AND l.course_id = $2
		ORDER BY qa.created_at DESC`
	args := []interface{}{studentID, courseID}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	attempts := make([]quiz.Attempt, 0)
	err := repo.db.SelectContext(ctx, &attempts, query, args...)
	return attempts, err
}

func (repo *attemptRepository) AttemptStats(ctx context.Context, quizID string) (quiz.Stats, error) {
	query := `
		SELECT COUNT(*)                 AS attempt_count,
		       COALESCE(AVG(score), 0) AS avg_score,
		       COALESCE(MIN(score), 0) AS min_score,
		       COALESCE(MAX(score), 0) AS max_score
		FROM quiz_attempt
		WHERE quiz_id = $1`
	var row struct {
		AttemptCount int     `db:"attempt_count"`
		AvgScore     float64 `db:"avg_score"`
		MinScore     int     `db:"min_score"`
		MaxScore     int     `db:"max_score"`
	}
	if err := repo.db.GetContext(ctx, &row, query, quizID); err != nil {
		return quiz.Stats{}, err
	}
	return quiz.Stats{
		AttemptCount: row.AttemptCount,
		AvgScore:     row.AvgScore,
		MinScore:     row.MinScore,
		MaxScore:     row.MaxScore,
	}, nil
}
