package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core/enroll"
)

type enrollRepository struct {
	db *enrollTables
}

var _ enroll.Repository = (*enrollRepository)(nil) // interface compliance check

func NewEnrollmentRepository(db *DB) enroll.Repository {
	return &enrollRepository{db: db.enroll}
}

func (repo *enrollRepository) GetOrCreateEnrollment(ctx context.Context, studentID, courseID string, now time.Time) (enroll.Enrollment, bool, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, enr := range repo.db.enrollments {
		if enr.StudentID == studentID && enr.CourseID == courseID {
			return *enr, false, nil
		}
	}
	enr := enroll.Enrollment{
		ID:           uuid.NewString(),
		StudentID:    studentID,
		CourseID:     courseID,
		DateEnrolled: now,
	}
	repo.db.enrollments[enr.ID] = &enr
	return enr, true, nil
}

func (repo *enrollRepository) GetEnrollment(ctx context.Context, studentID, courseID string) (enroll.Enrollment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, enr := range repo.db.enrollments {
		if enr.StudentID == studentID && enr.CourseID == courseID {
			return *enr, nil
		}
	}
	return enroll.Enrollment{}, enroll.ErrNotFound
}

func (repo *enrollRepository) GetEnrollmentByID(ctx context.Context, id string) (enroll.Enrollment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if enr, ok := repo.db.enrollments[id]; ok {
		return *enr, nil
	}
	return enroll.Enrollment{}, enroll.ErrNotFound
}

func (repo *enrollRepository) QueryEnrollmentsByStudent(ctx context.Context, studentID string) ([]enroll.Enrollment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var enrollments []enroll.Enrollment
	for _, enr := range repo.db.enrollments {
		if enr.StudentID == studentID {
			enrollments = append(enrollments, *enr)
		}
	}
	sort.Slice(enrollments, func(i, j int) bool { return enrollments[i].DateEnrolled.Before(enrollments[j].DateEnrolled) })
	return enrollments, nil
}

func (repo *enrollRepository) QueryEnrollmentsByCourse(ctx context.Context, courseID string) ([]enroll.Enrollment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var enrollments []enroll.Enrollment
	for _, enr := range repo.db.enrollments {
		if enr.CourseID == courseID {
			enrollments = append(enrollments, *enr)
		}
	}
	sort.Slice(enrollments, func(i, j int) bool { return enrollments[i].DateEnrolled.Before(enrollments[j].DateEnrolled) })
	return enrollments, nil
}

func (repo *enrollRepository) CountEnrollmentsByCourse(ctx context.Context, courseID string) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var count int
	for _, enr := range repo.db.enrollments {
		if enr.CourseID == courseID {
			count++
		}
	}
	return count, nil
}

func (repo *enrollRepository) CompleteLessonProgress(ctx context.Context, enrollmentID, lessonID string, now time.Time) (enroll.LessonProgress, bool, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, prog := range repo.db.progress {
		if prog.EnrollmentID == enrollmentID && prog.LessonID == lessonID {
			if !prog.Completed {
				prog.Completed = true
				prog.DateCompleted = null.TimeFrom(now)
			}
			return *prog, false, nil
		}
	}
	prog := enroll.LessonProgress{
		ID:            uuid.NewString(),
		EnrollmentID:  enrollmentID,
		LessonID:      lessonID,
		Completed:     true,
		DateCompleted: null.TimeFrom(now),
	}
	repo.db.progress[prog.ID] = &prog
	return prog, true, nil
}

func (repo *enrollRepository) QueryLessonProgress(ctx context.Context, enrollmentID string) ([]enroll.LessonProgress, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var progress []enroll.LessonProgress
	for _, prog := range repo.db.progress {
		if prog.EnrollmentID == enrollmentID {
			progress = append(progress, *prog)
		}
	}
	sort.Slice(progress, func(i, j int) bool { return progress[i].ID < progress[j].ID })
	return progress, nil
}

func (repo *enrollRepository) CountCompletedLessons(ctx context.Context, enrollmentID string) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var count int
	for _, prog := range repo.db.progress {
		if prog.EnrollmentID == enrollmentID && prog.Completed {
			count++
		}
	}
	return count, nil
}
