package enroll

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/policy"
	"github.com/trezcool/darasa/core/user"
)

var (
	// errors
	ErrNotFound = errors.New("enrollment not found")

	// ErrNotEnrolled gates lesson completion, progress and quiz submission on
	// an active enrollment in the target lesson's course.
	ErrNotEnrolled = policy.Forbidden(policy.ReasonEnrollmentRequired)
)

type (
	Repository interface {
		// GetOrCreateEnrollment atomically fetches or creates the enrollment for
		// (studentID, courseID). The returned flag reports whether a new row was
		// created; concurrent calls for the same pair yield the same row.
		GetOrCreateEnrollment(ctx context.Context, studentID, courseID string, now time.Time) (Enrollment, bool, error)
		GetEnrollment(ctx context.Context, studentID, courseID string) (Enrollment, error)
		GetEnrollmentByID(ctx context.Context, id string) (Enrollment, error)
		QueryEnrollmentsByStudent(ctx context.Context, studentID string) ([]Enrollment, error)
		QueryEnrollmentsByCourse(ctx context.Context, courseID string) ([]Enrollment, error)
		CountEnrollmentsByCourse(ctx context.Context, courseID string) (int, error)

		// CompleteLessonProgress atomically fetches or creates the progress row
		// for (enrollmentID, lessonID) and marks it completed. DateCompleted is
		// set to now only if the row was not already completed.
		CompleteLessonProgress(ctx context.Context, enrollmentID, lessonID string, now time.Time) (LessonProgress, bool, error)
		QueryLessonProgress(ctx context.Context, enrollmentID string) ([]LessonProgress, error)
		CountCompletedLessons(ctx context.Context, enrollmentID string) (int, error)
	}

	Service struct {
		repo      Repository
		courseSvc *course.Service
		mailSvc   core.EmailService
	}
)

func NewService(repo Repository, courseSvc *course.Service, mailSvc core.EmailService) *Service {
	return &Service{
		repo:      repo,
		courseSvc: courseSvc,
		mailSvc:   mailSvc,
	}
}

func (svc *Service) Repo() Repository { return svc.repo }

// Enroll registers actor (a student) in the course. The operation is
// idempotent: re-enrolling returns the existing enrollment with created=false
// and sends no mail.
func (svc *Service) Enroll(ctx context.Context, actor user.User, courseID string) (Enrollment, bool, error) {
	if err := policy.RequireStudent(actor); err != nil {
		return Enrollment{}, false, err
	}
	crs, err := svc.courseSvc.Repo().GetCourseByID(ctx, courseID)
	if err != nil {
		return Enrollment{}, false, err
	}

	enr, created, err := svc.repo.GetOrCreateEnrollment(ctx, actor.ID, crs.ID, time.Now().UTC())
	if err != nil {
		return Enrollment{}, false, err
	}
	if created {
		go svc.sendEnrollmentMail(actor, crs)
	}
	return enr, created, nil
}

// MarkLessonCompleted records actor's completion of the lesson. Idempotent:
// completing an already-completed lesson returns created=false and changes
// nothing, DateCompleted included.
func (svc *Service) MarkLessonCompleted(ctx context.Context, actor user.User, lessonID string) (LessonProgress, bool, error) {
	if err := policy.RequireStudent(actor); err != nil {
		return LessonProgress{}, false, err
	}
	crs, err := svc.courseSvc.ResolveCourse(ctx, course.Ref{Kind: course.KindLesson, ID: lessonID})
	if err != nil {
		return LessonProgress{}, false, err
	}
	enr, err := svc.enrollmentFor(ctx, actor.ID, crs.ID)
	if err != nil {
		return LessonProgress{}, false, err
	}

	return svc.repo.CompleteLessonProgress(ctx, enr.ID, lessonID, time.Now().UTC())
}

// Progress reports actor's advancement through the course. A course with no
// lessons reports 0%.
func (svc *Service) Progress(ctx context.Context, actor user.User, courseID string) (Progress, error) {
	if err := policy.RequireStudent(actor); err != nil {
		return Progress{}, err
	}
	enr, err := svc.enrollmentFor(ctx, actor.ID, courseID)
	if err != nil {
		return Progress{}, err
	}
	return svc.ProgressFor(ctx, enr)
}

// ProgressFor computes the progress summary for an existing enrollment.
func (svc *Service) ProgressFor(ctx context.Context, enr Enrollment) (Progress, error) {
	lessons, err := svc.courseSvc.Repo().QueryLessonsByCourse(ctx, enr.CourseID)
	if err != nil {
		return Progress{}, err
	}
	completed, err := svc.repo.CountCompletedLessons(ctx, enr.ID)
	if err != nil {
		return Progress{}, err
	}

	prog := Progress{
		CompletedLessons: completed,
		TotalLessons:     len(lessons),
	}
	if prog.TotalLessons > 0 {
		prog.CompletionPercentage = float64(prog.CompletedLessons) / float64(prog.TotalLessons) * 100
	}
	return prog, nil
}

// EnrollmentFor fetches the enrollment for (studentID, courseID), failing with
// ErrNotEnrolled when there is none.
func (svc *Service) EnrollmentFor(ctx context.Context, studentID, courseID string) (Enrollment, error) {
	return svc.enrollmentFor(ctx, studentID, courseID)
}

// QueryByStudent returns all of a student's enrollments.
func (svc *Service) QueryByStudent(ctx context.Context, studentID string) ([]Enrollment, error) {
	return svc.repo.QueryEnrollmentsByStudent(ctx, studentID)
}

// QueryByCourse lists a course's enrollments; only the course owner may see them.
func (svc *Service) QueryByCourse(ctx context.Context, actor user.User, courseID string) ([]Enrollment, error) {
	crs, err := svc.courseSvc.Repo().GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err = policy.CanManageCourseContent(actor, crs.InstructorID); err != nil {
		return nil, err
	}
	return svc.repo.QueryEnrollmentsByCourse(ctx, courseID)
}

func (svc *Service) enrollmentFor(ctx context.Context, studentID, courseID string) (Enrollment, error) {
	enr, err := svc.repo.GetEnrollment(ctx, studentID, courseID)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Enrollment{}, ErrNotEnrolled
		}
		return Enrollment{}, err
	}
	return enr, nil
}

func (svc *Service) sendEnrollmentMail(usr user.User, crs course.Course) {
	svc.mailSvc.SendMessages(
		&core.EmailMessage{
			To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
			Subject:      "Enrollment Confirmation: " + crs.Title,
			TemplateName: "enrollment-confirmation",
			TemplateData: struct {
				User   user.User
				Course course.Course
			}{User: usr, Course: crs},
		},
	)
}
