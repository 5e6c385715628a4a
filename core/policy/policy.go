// Package policy holds the authorization rules gating every operation on the
// course catalog, enrollments and quiz attempts.
//
// Rules are pure functions over an explicit actor; there is no ambient
// request/session state in the core. Callers resolve the ownership chain
// (Answer -> Question -> Quiz -> Lesson -> Course -> instructor) at call time
// and pass the root Course's instructor in; a prior check is never cached
// across requests.
package policy

import (
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/user"
)

// ErrUnauthenticated is returned for anonymous or deactivated actors. The
// HTTP layer turns it into a login redirect (401), never a 403.
var ErrUnauthenticated = errors.New("authentication required")

// Reason qualifies a ForbiddenError.
type Reason string

const (
	ReasonInstructorOnly     Reason = "InstructorOnly"
	ReasonStudentOnly        Reason = "StudentOnly"
	ReasonNotCourseOwner     Reason = "NotCourseOwner"
	ReasonEnrollmentRequired Reason = "EnrollmentRequired"
	ReasonResultsPrivate     Reason = "ResultsPrivate"
)

var reasonTexts = map[Reason]string{
	ReasonInstructorOnly:     "only instructors can manage course content",
	ReasonStudentOnly:        "only students can perform this action",
	ReasonNotCourseOwner:     "you do not manage this course",
	ReasonEnrollmentRequired: "you are not enrolled in this course",
	ReasonResultsPrivate:     "quiz results are private",
}

type ForbiddenError struct {
	Reason Reason
}

func (e *ForbiddenError) Error() string {
	if text, ok := reasonTexts[e.Reason]; ok {
		return text
	}
	return "permission denied"
}

func Forbidden(reason Reason) error {
	return &ForbiddenError{Reason: reason}
}

// IsForbidden reports whether err is a ForbiddenError, optionally of a specific reason.
func IsForbidden(err error, reasons ...Reason) bool {
	fErr, ok := errors.Cause(err).(*ForbiddenError)
	if !ok {
		return false
	}
	if len(reasons) == 0 {
		return true
	}
	for _, r := range reasons {
		if fErr.Reason == r {
			return true
		}
	}
	return false
}

// Authenticated fails with ErrUnauthenticated unless actor is a known, active user.
func Authenticated(actor user.User) error {
	if actor.ID == "" || !actor.IsActive {
		return ErrUnauthenticated
	}
	return nil
}

// CanManageCourseContent checks whether actor may create, update or delete
// content (courses, lessons, quizzes, questions, answers).
//
// courseInstructorID is the instructor owning the root Course of the target
// resource's ownership chain; it is empty for course creation, where no chain
// exists yet.
func CanManageCourseContent(actor user.User, courseInstructorID string) error {
	if err := Authenticated(actor); err != nil {
		return err
	}
	if !actor.IsInstructor() && !actor.IsSuperuser {
		return Forbidden(ReasonInstructorOnly)
	}
	if courseInstructorID != "" && courseInstructorID != actor.ID && !actor.IsSuperuser {
		return Forbidden(ReasonNotCourseOwner)
	}
	return nil
}

// CanViewAttempt checks whether actor may view a quiz attempt's result:
// the attempting student, a superuser, or the instructor owning the course
// the quiz belongs to.
func CanViewAttempt(actor user.User, attemptStudentID, courseInstructorID string) error {
	if err := Authenticated(actor); err != nil {
		return err
	}
	if actor.IsSuperuser || actor.ID == attemptStudentID || actor.ID == courseInstructorID {
		return nil
	}
	return Forbidden(ReasonResultsPrivate)
}

// RequireStudent gates quiz-taking and lesson-completion actions. The
// enrollment check is the caller's: it needs the course resolved from the
// target resource.
func RequireStudent(actor user.User) error {
	if err := Authenticated(actor); err != nil {
		return err
	}
	if !actor.IsStudent() {
		return Forbidden(ReasonStudentOnly)
	}
	return nil
}
