// Package report builds read-only aggregates over courses, enrollments and
// quiz attempts: the instructor's course analytics and the student dashboard.
package report

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/enroll"
	"github.com/trezcool/darasa/core/policy"
	"github.com/trezcool/darasa/core/quiz"
	"github.com/trezcool/darasa/core/user"
)

// recentAttemptLimit caps the attempts shown per dashboard entry.
const recentAttemptLimit = 5

type Service struct {
	courseSvc *course.Service
	enrollSvc *enroll.Service
	quizSvc   *quiz.Service
}

func NewService(courseSvc *course.Service, enrollSvc *enroll.Service, quizSvc *quiz.Service) *Service {
	return &Service{
		courseSvc: courseSvc,
		enrollSvc: enrollSvc,
		quizSvc:   quizSvc,
	}
}

// CourseAnalytics aggregates a course's enrollments, completion and quiz
// attempts for its owner.
func (svc *Service) CourseAnalytics(ctx context.Context, actor user.User, courseID string) (CourseAnalytics, error) {
	crs, err := svc.courseSvc.Repo().GetCourseByID(ctx, courseID)
	if err != nil {
		return CourseAnalytics{}, err
	}
	if err = policy.CanManageCourseContent(actor, crs.InstructorID); err != nil {
		return CourseAnalytics{}, err
	}

	lessons, err := svc.courseSvc.Repo().QueryLessonsByCourse(ctx, courseID)
	if err != nil {
		return CourseAnalytics{}, err
	}
	enrollments, err := svc.enrollSvc.Repo().QueryEnrollmentsByCourse(ctx, courseID)
	if err != nil {
		return CourseAnalytics{}, err
	}

	analytics := CourseAnalytics{
		Course:          crs,
		EnrollmentCount: len(enrollments),
		LessonCount:     len(lessons),
	}

	if len(enrollments) > 0 {
		var totalPct float64
		for _, enr := range enrollments {
			prog, err := svc.enrollSvc.ProgressFor(ctx, enr)
			if err != nil {
				return CourseAnalytics{}, err
			}
			totalPct += prog.CompletionPercentage
		}
		analytics.AvgCompletion = totalPct / float64(len(enrollments))
	}

	for _, lsn := range lessons {
		qz, err := svc.courseSvc.Repo().GetQuizByLessonID(ctx, lsn.ID)
		if err != nil {
			if errors.Cause(err) == course.ErrNotFound {
				continue
			}
			return CourseAnalytics{}, err
		}
		stats, err := svc.quizSvc.Repo().AttemptStats(ctx, qz.ID)
		if err != nil {
			return CourseAnalytics{}, err
		}
		analytics.QuizStats = append(analytics.QuizStats, QuizStats{
			LessonID:    lsn.ID,
			LessonTitle: lsn.Title,
			QuizID:      qz.ID,
			Stats:       stats,
		})
	}
	return analytics, nil
}

// StudentDashboard summarizes actor's enrolled courses: progress plus their
// most recent attempts per course.
func (svc *Service) StudentDashboard(ctx context.Context, actor user.User) ([]DashboardEntry, error) {
	if err := policy.RequireStudent(actor); err != nil {
		return nil, err
	}
	enrollments, err := svc.enrollSvc.QueryByStudent(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	entries := make([]DashboardEntry, 0, len(enrollments))
	for _, enr := range enrollments {
		crs, err := svc.courseSvc.Repo().GetCourseByID(ctx, enr.CourseID)
		if err != nil {
			return nil, err
		}
		prog, err := svc.enrollSvc.ProgressFor(ctx, enr)
		if err != nil {
			return nil, err
		}
		attempts, err := svc.quizSvc.Repo().QueryAttemptsByStudentAndCourse(ctx, actor.ID, enr.CourseID, recentAttemptLimit)
		if err != nil {
			return nil, err
		}
		entries = append(entries, DashboardEntry{
			Course:         crs,
			Enrollment:     enr,
			Progress:       prog,
			RecentAttempts: attempts,
		})
	}
	return entries, nil
}
