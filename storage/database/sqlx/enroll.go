package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/darasa/core/enroll"
)

const (
	enrollmentColumns = `id, student_id, course_id, date_enrolled`
	progressColumns   = `id, enrollment_id, lesson_id, completed, date_completed`
)

type enrollRepository struct {
	db *sqlx.DB
}

var _ enroll.Repository = (*enrollRepository)(nil) // interface compliance check

func NewEnrollmentRepository(db *sqlx.DB) enroll.Repository {
	return &enrollRepository{db: db}
}

func (repo *enrollRepository) GetOrCreateEnrollment(ctx context.Context, studentID, courseID string, now time.Time) (enroll.Enrollment, bool, error) {
	// single atomic check-and-insert; xmax = 0 only on a freshly inserted row
	query := `
		INSERT INTO enrollment (student_id, course_id, date_enrolled)
		VALUES ($1, $2, $3)
		ON CONFLICT (student_id, course_id) DO UPDATE SET student_id = excluded.student_id
		RETURNING ` + enrollmentColumns + `, (xmax = 0) AS created`
	var row struct {
		enroll.Enrollment
		Created bool `db:"created"`
	}
	if err := repo.db.GetContext(ctx, &row, query, studentID, courseID, now); err != nil {
		return enroll.Enrollment{}, false, err
	}
	return row.Enrollment, row.Created, nil
}

func (repo *enrollRepository) GetEnrollment(ctx context.Context, studentID, courseID string) (enroll.Enrollment, error) {
	var enr enroll.Enrollment
	err := repo.db.GetContext(ctx, &enr,
		`SELECT `+enrollmentColumns+` FROM enrollment WHERE student_id = $1 AND course_id = $2`, studentID, courseID)
	if err != nil {
		return enroll.Enrollment{}, trapNoRowsErr(err, enroll.ErrNotFound)
	}
	return enr, nil
}

func (repo *enrollRepository) GetEnrollmentByID(ctx context.Context, id string) (enroll.Enrollment, error) {
	var enr enroll.Enrollment
	err := repo.db.GetContext(ctx, &enr, `SELECT `+enrollmentColumns+` FROM enrollment WHERE id = $1`, id)
	if err != nil {
		return enroll.Enrollment{}, trapNoRowsErr(err, enroll.ErrNotFound)
	}
	return enr, nil
}

func (repo *enrollRepository) QueryEnrollmentsByStudent(ctx context.Context, studentID string) ([]enroll.Enrollment, error) {
	enrollments := make([]enroll.Enrollment, 0)
	err := repo.db.SelectContext(ctx, &enrollments,
		`SELECT `+enrollmentColumns+` FROM enrollment WHERE student_id = $1 ORDER BY date_enrolled`, studentID)
	return enrollments, err
}

func (repo *enrollRepository) QueryEnrollmentsByCourse(ctx context.Context, courseID string) ([]enroll.Enrollment, error) {
	enrollments := make([]enroll.Enrollment, 0)
	err := repo.db.SelectContext(ctx, &enrollments,
		`SELECT `+enrollmentColumns+` FROM enrollment WHERE course_id = $1 ORDER BY date_enrolled`, courseID)
	return enrollments, err
}

func (repo *enrollRepository) CountEnrollmentsByCourse(ctx context.Context, courseID string) (int, error) {
	var count int
	err := repo.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM enrollment WHERE course_id = $1`, courseID)
	return count, err
}

func (repo *enrollRepository) CompleteLessonProgress(ctx context.Context, enrollmentID, lessonID string, now time.Time) (enroll.LessonProgress, bool, error) {
	// idempotent upsert; a prior date_completed is never overwritten
	query := `
		INSERT INTO lesson_progress (enrollment_id, lesson_id, completed, date_completed)
		VALUES ($1, $2, TRUE, $3)
		ON CONFLICT (enrollment_id, lesson_id) DO UPDATE
			SET completed      = TRUE,
			    date_completed = COALESCE(lesson_progress.date_completed, excluded.date_completed)
		RETURNING ` + progressColumns + `, (xmax = 0) AS created`
	var row struct {
		enroll.LessonProgress
		Created bool `db:"created"`
	}
	if err := repo.db.GetContext(ctx, &row, query, enrollmentID, lessonID, now); err != nil {
		return enroll.LessonProgress{}, false, err
	}
	return row.LessonProgress, row.Created, nil
}

func (repo *enrollRepository) QueryLessonProgress(ctx context.Context, enrollmentID string) ([]enroll.LessonProgress, error) {
	progress := make([]enroll.LessonProgress, 0)
	err := repo.db.SelectContext(ctx, &progress,
		`SELECT `+progressColumns+` FROM lesson_progress WHERE enrollment_id = $1 ORDER BY id`, enrollmentID)
	return progress, err
}

func (repo *enrollRepository) CountCompletedLessons(ctx context.Context, enrollmentID string) (int, error) {
	var count int
	err := repo.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM lesson_progress WHERE enrollment_id = $1 AND completed`, enrollmentID)
	return count, err
}
