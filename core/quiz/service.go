package quiz

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/enroll"
	"github.com/trezcool/darasa/core/policy"
	"github.com/trezcool/darasa/core/user"
)

var (
	// errors
	ErrNotFound = errors.New("attempt not found")

	// ErrAnswerNotFound is a data-integrity fault: the submitted answer id does
	// not exist. The form constrains choices to the question's own answers, so
	// this is not a validation error.
	ErrAnswerNotFound = errors.New("answer not found")

	// ErrIncompleteSubmission rejects a submission leaving any question
	// unanswered; partial credit is never computed or stored.
	ErrIncompleteSubmission = errors.New("all questions must be answered")
)

type (
	Repository interface {
		CreateAttempt(ctx context.Context, att Attempt) (Attempt, error)
		GetAttemptByID(ctx context.Context, id string) (Attempt, error)
		QueryAttemptsByQuiz(ctx context.Context, quizID string) ([]Attempt, error)
		QueryAttemptsByStudent(ctx context.Context, studentID string) ([]Attempt, error)
		// QueryAttemptsByStudentAndCourse returns the student's attempts on any
		// quiz in the course, most recent first, capped at limit (0 = no cap).
		QueryAttemptsByStudentAndCourse(ctx context.Context, studentID, courseID string, limit int) ([]Attempt, error)
		AttemptStats(ctx context.Context, quizID string) (Stats, error)
	}

	Service struct {
		repo      Repository
		courseSvc *course.Service
		enrollSvc *enroll.Service
	}
)

func NewService(repo Repository, courseSvc *course.Service, enrollSvc *enroll.Service) *Service {
	return &Service{
		repo:      repo,
		courseSvc: courseSvc,
		enrollSvc: enrollSvc,
	}
}

func (svc *Service) Repo() Repository { return svc.repo }

// Submit scores actor's submission against the quiz and records an immutable
// Attempt. Either a full Attempt is recorded or none is. Retakes are
// unlimited; every submission appends a new Attempt.
func (svc *Service) Submit(ctx context.Context, actor user.User, quizID string, sub Submission) (Attempt, error) {
	if err := policy.RequireStudent(actor); err != nil {
		return Attempt{}, err
	}
	crs, err := svc.courseSvc.ResolveCourse(ctx, course.Ref{Kind: course.KindQuiz, ID: quizID})
	if err != nil {
		return Attempt{}, err
	}
	if _, err = svc.enrollSvc.EnrollmentFor(ctx, actor.ID, crs.ID); err != nil {
		return Attempt{}, err
	}

	questions, err := svc.courseSvc.Repo().QueryQuestionsByQuiz(ctx, quizID)
	if err != nil {
		return Attempt{}, err
	}
	// input contract: every question answered, checked before scoring begins
	for _, qst := range questions {
		if sub[qst.ID] == "" {
			return Attempt{}, core.NewValidationError(
				ErrIncompleteSubmission,
				core.FieldError{Field: qst.ID, Error: "an answer is required"},
			)
		}
	}

	score, total, err := svc.score(ctx, questions, sub)
	if err != nil {
		return Attempt{}, err
	}
	return svc.repo.CreateAttempt(ctx, Attempt{
		QuizID:    quizID,
		StudentID: actor.ID,
		Score:     score,
		Total:     total,
		CreatedAt: time.Now().UTC(),
	})
}

// score counts correct selections. A question with no selection contributes 0
// without failing; an unknown answer id fails with ErrAnswerNotFound.
func (svc *Service) score(ctx context.Context, questions []course.Question, sub Submission) (score, total int, err error) {
	total = len(questions)
	for _, qst := range questions {
		ansID, ok := sub[qst.ID]
		if !ok || ansID == "" {
			continue
		}
		ans, err := svc.courseSvc.Repo().GetAnswerByID(ctx, ansID)
		if err != nil {
			if errors.Cause(err) == course.ErrNotFound {
				return 0, 0, ErrAnswerNotFound
			}
			return 0, 0, err
		}
		if ans.IsCorrect {
			score++
		}
	}
	return score, total, nil
}

// GetAttempt returns an attempt's result. Results are private: only the
// attempting student, the course's instructor or a superuser may view them.
func (svc *Service) GetAttempt(ctx context.Context, actor user.User, id string) (Attempt, error) {
	att, err := svc.repo.GetAttemptByID(ctx, id)
	if err != nil {
		return Attempt{}, err
	}
	crs, err := svc.courseSvc.ResolveCourse(ctx, course.Ref{Kind: course.KindQuiz, ID: att.QuizID})
	if err != nil {
		return Attempt{}, err
	}
	if err = policy.CanViewAttempt(actor, att.StudentID, crs.InstructorID); err != nil {
		return Attempt{}, err
	}
	return att, nil
}

// QueryMine returns all of actor's own attempts.
func (svc *Service) QueryMine(ctx context.Context, actor user.User) ([]Attempt, error) {
	if err := policy.Authenticated(actor); err != nil {
		return nil, err
	}
	return svc.repo.QueryAttemptsByStudent(ctx, actor.ID)
}

// QueryByQuiz lists a quiz's attempts for its course's owner.
func (svc *Service) QueryByQuiz(ctx context.Context, actor user.User, quizID string) ([]Attempt, error) {
	if err := svc.checkOwnership(ctx, actor, quizID); err != nil {
		return nil, err
	}
	return svc.repo.QueryAttemptsByQuiz(ctx, quizID)
}

// StatsByQuiz aggregates a quiz's attempts for its course's owner.
func (svc *Service) StatsByQuiz(ctx context.Context, actor user.User, quizID string) (Stats, error) {
	if err := svc.checkOwnership(ctx, actor, quizID); err != nil {
		return Stats{}, err
	}
	return svc.repo.AttemptStats(ctx, quizID)
}

func (svc *Service) checkOwnership(ctx context.Context, actor user.User, quizID string) error {
	crs, err := svc.courseSvc.ResolveCourse(ctx, course.Ref{Kind: course.KindQuiz, ID: quizID})
	if err != nil {
		return err
	}
	return policy.CanManageCourseContent(actor, crs.InstructorID)
}
