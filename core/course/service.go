package course

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/policy"
	"github.com/trezcool/darasa/core/user"
)

var (
	// errors
	ErrNotFound             = errors.New("not found")
	ErrDuplicateLessonOrder = errors.New("a lesson with this order already exists in this course")
	ErrQuizExists           = errors.New("this lesson already has a quiz")
)

type (
	Repository interface {
		CreateCourse(ctx context.Context, c Course) (Course, error)
		GetCourseByID(ctx context.Context, id string) (Course, error)
		QueryCourses(ctx context.Context) ([]Course, error)
		QueryCoursesByInstructor(ctx context.Context, instructorID string) ([]Course, error)
		UpdateCourse(ctx context.Context, c Course) (Course, error)
		// DeleteCourse cascades down the ownership chain: lessons, quizzes,
		// questions, answers, enrollments, progress and attempts all go with it.
		DeleteCourse(ctx context.Context, id string) error

		// CreateLesson fails with ErrDuplicateLessonOrder when (course, order) is taken.
		CreateLesson(ctx context.Context, l Lesson) (Lesson, error)
		GetLessonByID(ctx context.Context, id string) (Lesson, error)
		// QueryLessonsByCourse returns the course's lessons in ascending order.
		QueryLessonsByCourse(ctx context.Context, courseID string) ([]Lesson, error)
		UpdateLesson(ctx context.Context, l Lesson) (Lesson, error)
		DeleteLesson(ctx context.Context, id string) error

		// CreateQuiz fails with ErrQuizExists when the lesson already has one.
		CreateQuiz(ctx context.Context, q Quiz) (Quiz, error)
		GetQuizByID(ctx context.Context, id string) (Quiz, error)
		GetQuizByLessonID(ctx context.Context, lessonID string) (Quiz, error)
		DeleteQuiz(ctx context.Context, id string) error

		CreateQuestion(ctx context.Context, q Question) (Question, error)
		GetQuestionByID(ctx context.Context, id string) (Question, error)
		QueryQuestionsByQuiz(ctx context.Context, quizID string) ([]Question, error)
		UpdateQuestion(ctx context.Context, q Question) (Question, error)
		DeleteQuestion(ctx context.Context, id string) error

		CreateAnswer(ctx context.Context, a Answer) (Answer, error)
		GetAnswerByID(ctx context.Context, id string) (Answer, error)
		QueryAnswersByQuestion(ctx context.Context, questionID string) ([]Answer, error)
		UpdateAnswer(ctx context.Context, a Answer) (Answer, error)
		DeleteAnswer(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Repo() Repository { return svc.repo }

// ResolveCourse walks the ownership chain from any entity up to its root
// Course. Any break in the chain fails with ErrNotFound.
func (svc *Service) ResolveCourse(ctx context.Context, ref Ref) (Course, error) {
	id := ref.ID
	kind := ref.Kind

	if kind == KindAnswer {
		ans, err := svc.repo.GetAnswerByID(ctx, id)
		if err != nil {
			return Course{}, err
		}
		id, kind = ans.QuestionID, KindQuestion
	}
	if kind == KindQuestion {
		qst, err := svc.repo.GetQuestionByID(ctx, id)
		if err != nil {
			return Course{}, err
		}
		id, kind = qst.QuizID, KindQuiz
	}
	if kind == KindQuiz {
		qz, err := svc.repo.GetQuizByID(ctx, id)
		if err != nil {
			return Course{}, err
		}
		id, kind = qz.LessonID, KindLesson
	}
	if kind == KindLesson {
		lsn, err := svc.repo.GetLessonByID(ctx, id)
		if err != nil {
			return Course{}, err
		}
		id = lsn.CourseID
	}
	return svc.repo.GetCourseByID(ctx, id)
}

// checkOwnership resolves ref's root Course and verifies actor may manage it.
func (svc *Service) checkOwnership(ctx context.Context, actor user.User, ref Ref) (Course, error) {
	crs, err := svc.ResolveCourse(ctx, ref)
	if err != nil {
		return Course{}, err
	}
	if err = policy.CanManageCourseContent(actor, crs.InstructorID); err != nil {
		return Course{}, err
	}
	return crs, nil
}

// Courses

func (svc *Service) CreateCourse(ctx context.Context, actor user.User, nc NewCourse) (Course, error) {
	if err := policy.CanManageCourseContent(actor, ""); err != nil {
		return Course{}, err
	}
	now := time.Now().UTC()
	return svc.repo.CreateCourse(ctx, Course{
		Title:        nc.Title,
		Description:  nc.Description,
		InstructorID: actor.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func (svc *Service) QueryCourses(ctx context.Context, actor user.User) ([]Course, error) {
	if err := policy.Authenticated(actor); err != nil {
		return nil, err
	}
	return svc.repo.QueryCourses(ctx)
}

func (svc *Service) GetCourse(ctx context.Context, actor user.User, id string) (CourseDetail, error) {
	if err := policy.Authenticated(actor); err != nil {
		return CourseDetail{}, err
	}
	crs, err := svc.repo.GetCourseByID(ctx, id)
	if err != nil {
		return CourseDetail{}, err
	}
	lessons, err := svc.repo.QueryLessonsByCourse(ctx, id)
	if err != nil {
		return CourseDetail{}, err
	}
	return CourseDetail{Course: crs, Lessons: lessons}, nil
}

func (svc *Service) UpdateCourse(ctx context.Context, actor user.User, id string, uc UpdateCourse) (Course, error) {
	crs, err := svc.checkOwnership(ctx, actor, Ref{Kind: KindCourse, ID: id})
	if err != nil {
		return Course{}, err
	}
	if err = uc.Validate(crs); err != nil {
		return Course{}, err
	}
	crs.Title = uc.Title
	crs.Description = uc.Description
	crs.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateCourse(ctx, crs)
}

func (svc *Service) DeleteCourse(ctx context.Context, actor user.User, id string) error {
	if _, err := svc.checkOwnership(ctx, actor, Ref{Kind: KindCourse, ID: id}); err != nil {
		return err
	}
	return svc.repo.DeleteCourse(ctx, id)
}

// Lessons

func (svc *Service) CreateLesson(ctx context.Context, actor user.User, courseID string, nl NewLesson) (Lesson, error) {
	if _, err := svc.checkOwnership(ctx, actor, Ref{Kind: KindCourse, ID: courseID}); err != nil {
		return Lesson{}, err
	}
	now := time.Now().UTC()
	return svc.repo.CreateLesson(ctx, Lesson{
		CourseID:  courseID,
		Title:     nl.Title,
		Content:   nl.Content,
		Order:     nl.Order,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) GetLesson(ctx context.Context, actor user.User, id string) (Lesson, error) {
	if err := policy.Authenticated(actor); err != nil {
		return Lesson{}, err
	}
	return svc.repo.GetLessonByID(ctx, id)
}

func (svc *Service) UpdateLesson(ctx context.Context, actor user.User, id string, ul UpdateLesson) (Lesson, error) {
	if _, err := svc.checkOwnership(ctx, actor, Ref{Kind: KindLesson, ID: id}); err != nil {
		return Lesson{}, err
	}
	lsn, err := svc.repo.GetLessonByID(ctx, id)
	if err != nil {
		return Lesson{}, err
	}
	if err = ul.Validate(lsn); err != nil {
		return Lesson{}, err
	}
	lsn.Title = ul.Title
	lsn.Content = ul.Content
	lsn.Order = *ul.Order
	lsn.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateLesson(ctx, lsn)
}

func (svc *Service) DeleteLesson(ctx context.Context, actor user.User, id string) error {
	if _, err := svc.checkOwnership(ctx, actor, Ref{Kind: KindLesson, ID: id}); err != nil {
		return err
	}
	return svc.repo.DeleteLesson(ctx, id)
}

// Quizzes

func (svc *Service) CreateQuiz(ctx context.Context, actor user.User, lessonID string) (Quiz, error) {
	if _, err := svc.checkOwnership(ctx, actor, Ref{Kind: KindLesson, ID: lessonID}); err != nil {
		return Quiz{}, err
	}
	return svc.repo.CreateQuiz(ctx, Quiz{
		LessonID:  lessonID,
		CreatedAt: time.Now().UTC(),
	})
}

func (svc *Service) GetQuiz(ctx context.Context, actor user.User, id string) (QuizDetail, error) {
	if err := policy.Authenticated(actor); err != nil {
		return QuizDetail{}, err
	}
	qz, err := svc.repo.GetQuizByID(ctx, id)
	if err != nil {
		return QuizDetail{}, err
	}
	questions, err := svc.repo.QueryQuestionsByQuiz(ctx, id)
	if err != nil {
		return QuizDetail{}, err
	}
	detail := QuizDetail{Quiz: qz, Questions: make([]QuestionDetail, 0, len(questions))}
	for _, qst := range questions {
		answers, err := svc.repo.QueryAnswersByQuestion(ctx, qst.ID)
		if err != nil {
			return QuizDetail{}, err
		}
		detail.Questions = append(detail.Questions, QuestionDetail{Question: qst, Answers: answers})
	}
	return detail, nil
}

func (svc *Service) DeleteQuiz(ctx context.Context, actor user.User, id string) error {
	if _, err := svc.checkOwnership(ctx, actor, Ref{Kind: KindQuiz, ID: id}); err != nil {
		return err
	}
	return svc.repo.DeleteQuiz(ctx, id)
}

// Questions

func (svc *Service) CreateQuestion(ctx context.Context, actor user.User, quizID string, nq NewQuestion) (Question, error) {
	if _, err := svc.checkOwnership(ctx, actor, Ref{Kind: KindQuiz, ID: quizID}); err != nil {
		return Question{}, err
	}
	return svc.repo.CreateQuestion(ctx, Question{
		QuizID: quizID,
		Text:   nq.Text,
	})
}

func (svc *Service) UpdateQuestion(ctx context.Context, actor user.User, id string, nq NewQuestion) (Question, error) {
	if _, err := svc.checkOwnership(ctx, actor, Ref{Kind: KindQuestion, ID: id}); err != nil {
		return Question{}, err
	}
	qst, err := svc.repo.GetQuestionByID(ctx, id)
	if err != nil {
		return Question{}, err
	}
	qst.Text = nq.Text
	return svc.repo.UpdateQuestion(ctx, qst)
}

func (svc *Service) DeleteQuestion(ctx context.Context, actor user.User, id string) error {
	if _, err := svc.checkOwnership(ctx, actor, Ref{Kind: KindQuestion, ID: id}); err != nil {
		return err
	}
	return svc.repo.DeleteQuestion(ctx, id)
}

// Answers

func (svc *Service) CreateAnswer(ctx context.Context, actor user.User, questionID string, na NewAnswer) (Answer, error) {
	if _, err := svc.checkOwnership(ctx, actor, Ref{Kind: KindQuestion, ID: questionID}); err != nil {
		return Answer{}, err
	}
	return svc.repo.CreateAnswer(ctx, Answer{
		QuestionID: questionID,
		Text:       na.Text,
		IsCorrect:  na.IsCorrect,
	})
}

func (svc *Service) UpdateAnswer(ctx context.Context, actor user.User, id string, ua UpdateAnswer) (Answer, error) {
	if _, err := svc.checkOwnership(ctx, actor, Ref{Kind: KindAnswer, ID: id}); err != nil {
		return Answer{}, err
	}
	ans, err := svc.repo.GetAnswerByID(ctx, id)
	if err != nil {
		return Answer{}, err
	}
	if err = ua.Validate(ans); err != nil {
		return Answer{}, err
	}
	ans.Text = ua.Text
	ans.IsCorrect = *ua.IsCorrect
	return svc.repo.UpdateAnswer(ctx, ans)
}

func (svc *Service) DeleteAnswer(ctx context.Context, actor user.User, id string) error {
	if _, err := svc.checkOwnership(ctx, actor, Ref{Kind: KindAnswer, ID: id}); err != nil {
		return err
	}
	return svc.repo.DeleteAnswer(ctx, id)
}
