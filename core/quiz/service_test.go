package quiz_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/enroll"
	"github.com/trezcool/darasa/core/policy"
	"github.com/trezcool/darasa/core/quiz"
	"github.com/trezcool/darasa/core/user"
	emailsvc "github.com/trezcool/darasa/services/email"
	dummydb "github.com/trezcool/darasa/storage/database/dummy"
	testutil "github.com/trezcool/darasa/tests"
)

type testEnv struct {
	usrRepo   user.Repository
	courseSvc *course.Service
	enrollSvc *enroll.Service
	svc       *quiz.Service
}

func setup(t *testing.T) testEnv {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open(): %v", err)
	}
	courseSvc := course.NewService(dummydb.NewCourseRepository(db))
	enrollSvc := enroll.NewService(dummydb.NewEnrollmentRepository(db), courseSvc, emailsvc.NewConsoleServiceMock())
	return testEnv{
		usrRepo:   dummydb.NewUserRepository(db),
		courseSvc: courseSvc,
		enrollSvc: enrollSvc,
		svc:       quiz.NewService(dummydb.NewAttemptRepository(db), courseSvc, enrollSvc),
	}
}

// A student enrolls in "Algebra I", takes the "Fractions" quiz and gets a
// perfect score.
func TestService_Submit(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	instructor := testutil.CreateInstructor(t, env.usrRepo, "teachergift")
	student := testutil.CreateStudent(t, env.usrRepo, "studygrace")
	crs := testutil.CreateCourse(t, env.courseSvc.Repo(), instructor.ID, "Algebra I")
	lsn := testutil.CreateLesson(t, env.courseSvc.Repo(), crs.ID, "Fractions", 1)
	qz := testutil.CreateQuiz(t, env.courseSvc.Repo(), lsn.ID, 1)
	qst := qz.Questions[0]
	testutil.Enroll(t, env.enrollSvc.Repo(), student.ID, crs.ID)

	att, err := env.svc.Submit(ctx, student, qz.ID, quiz.Submission{
		qst.ID: testutil.CorrectAnswer(t, qz, 0).ID,
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if att.Score != 1 || att.Total != 1 {
		t.Errorf("attempt = %d/%d, want 1/1", att.Score, att.Total)
	}
	if att.StudentID != student.ID || att.QuizID != qz.ID {
		t.Errorf("attempt = %+v, want student %q on quiz %q", att, student.ID, qz.ID)
	}
	if att.Percentage() != 100 {
		t.Errorf("Percentage() = %v, want 100", att.Percentage())
	}

	// retakes append a new attempt
	again, err := env.svc.Submit(ctx, student, qz.ID, quiz.Submission{
		qst.ID: testutil.WrongAnswer(t, qz, 0).ID,
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if again.ID == att.ID {
		t.Error("retake reused the attempt ID")
	}
	if again.Score != 0 {
		t.Errorf("retake score = %d, want 0", again.Score)
	}

	atts, err := env.svc.QueryMine(ctx, student)
	if err != nil {
		t.Fatalf("QueryMine() error = %v", err)
	}
	if len(atts) != 2 {
		t.Errorf("len(attempts) = %d, want 2", len(atts))
	}
}

func TestService_Submit_gates(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	instructor := testutil.CreateInstructor(t, env.usrRepo, "teachergift")
	outsider := testutil.CreateStudent(t, env.usrRepo, "outsider")
	crs := testutil.CreateCourse(t, env.courseSvc.Repo(), instructor.ID, "Algebra I")
	lsn := testutil.CreateLesson(t, env.courseSvc.Repo(), crs.ID, "Fractions", 1)
	qz := testutil.CreateQuiz(t, env.courseSvc.Repo(), lsn.ID, 1)
	sub := quiz.Submission{qz.Questions[0].ID: testutil.CorrectAnswer(t, qz, 0).ID}

	t.Run("anonymous", func(t *testing.T) {
		_, err := env.svc.Submit(ctx, user.User{}, qz.ID, sub)
		if errors.Cause(err) != policy.ErrUnauthenticated {
			t.Errorf("Submit() error = %v, want %v", err, policy.ErrUnauthenticated)
		}
	})
	t.Run("instructor", func(t *testing.T) {
		_, err := env.svc.Submit(ctx, instructor, qz.ID, sub)
		if !policy.IsForbidden(err, policy.ReasonStudentOnly) {
			t.Errorf("Submit() error = %v, want forbidden(StudentOnly)", err)
		}
	})
	t.Run("not enrolled", func(t *testing.T) {
		_, err := env.svc.Submit(ctx, outsider, qz.ID, sub)
		if !policy.IsForbidden(err, policy.ReasonEnrollmentRequired) {
			t.Errorf("Submit() error = %v, want %v", err, enroll.ErrNotEnrolled)
		}
	})
	t.Run("unknown quiz", func(t *testing.T) {
		_, err := env.svc.Submit(ctx, outsider, "nope", sub)
		if errors.Cause(err) != course.ErrNotFound {
			t.Errorf("Submit() error = %v, want %v", err, course.ErrNotFound)
		}
	})
}

func TestService_Submit_incomplete(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	instructor := testutil.CreateInstructor(t, env.usrRepo, "teachergift")
	student := testutil.CreateStudent(t, env.usrRepo, "studygrace")
	crs := testutil.CreateCourse(t, env.courseSvc.Repo(), instructor.ID, "Algebra I")
	lsn := testutil.CreateLesson(t, env.courseSvc.Repo(), crs.ID, "Fractions", 1)
	qz := testutil.CreateQuiz(t, env.courseSvc.Repo(), lsn.ID, 2)
	testutil.Enroll(t, env.enrollSvc.Repo(), student.ID, crs.ID)

	// second question left unanswered
	_, err := env.svc.Submit(ctx, student, qz.ID, quiz.Submission{
		qz.Questions[0].ID: testutil.CorrectAnswer(t, qz, 0).ID,
	})
	var vErr *core.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Submit() error = %v, want a validation error", err)
	}
	if len(vErr.Fields) != 1 || vErr.Fields[0].Field != qz.Questions[1].ID {
		t.Errorf("Fields = %+v, want the unanswered question flagged", vErr.Fields)
	}

	// nothing was recorded
	atts, err := env.svc.QueryMine(ctx, student)
	if err != nil {
		t.Fatalf("QueryMine() error = %v", err)
	}
	if len(atts) != 0 {
		t.Errorf("len(attempts) = %d, want 0", len(atts))
	}
}

func TestService_Submit_unknownAnswer(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	instructor := testutil.CreateInstructor(t, env.usrRepo, "teachergift")
	student := testutil.CreateStudent(t, env.usrRepo, "studygrace")
	crs := testutil.CreateCourse(t, env.courseSvc.Repo(), instructor.ID, "Algebra I")
	lsn := testutil.CreateLesson(t, env.courseSvc.Repo(), crs.ID, "Fractions", 1)
	qz := testutil.CreateQuiz(t, env.courseSvc.Repo(), lsn.ID, 1)
	testutil.Enroll(t, env.enrollSvc.Repo(), student.ID, crs.ID)

	_, err := env.svc.Submit(ctx, student, qz.ID, quiz.Submission{qz.Questions[0].ID: "bogus"})
	if errors.Cause(err) != quiz.ErrAnswerNotFound {
		t.Errorf("Submit() error = %v, want %v", err, quiz.ErrAnswerNotFound)
	}

	atts, err := env.svc.QueryMine(ctx, student)
	if err != nil {
		t.Fatalf("QueryMine() error = %v", err)
	}
	if len(atts) != 0 {
		t.Errorf("len(attempts) = %d, want 0", len(atts))
	}
}

func TestService_GetAttempt(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	owner := testutil.CreateInstructor(t, env.usrRepo, "owner")
	other := testutil.CreateInstructor(t, env.usrRepo, "other")
	student := testutil.CreateStudent(t, env.usrRepo, "studygrace")
	peer := testutil.CreateStudent(t, env.usrRepo, "peer")
	crs := testutil.CreateCourse(t, env.courseSvc.Repo(), owner.ID, "Algebra I")
	lsn := testutil.CreateLesson(t, env.courseSvc.Repo(), crs.ID, "Fractions", 1)
	qz := testutil.CreateQuiz(t, env.courseSvc.Repo(), lsn.ID, 1)
	testutil.Enroll(t, env.enrollSvc.Repo(), student.ID, crs.ID)

	att, err := env.svc.Submit(ctx, student, qz.ID, quiz.Submission{
		qz.Questions[0].ID: testutil.CorrectAnswer(t, qz, 0).ID,
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	tests := []struct {
		name    string
		actor   user.User
		wantErr bool
	}{
		{name: "attempting student", actor: student},
		{name: "course instructor", actor: owner},
		{name: "other instructor", actor: other, wantErr: true},
		{name: "other student", actor: peer, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := env.svc.GetAttempt(ctx, tt.actor, att.ID)
			if tt.wantErr {
				if !policy.IsForbidden(err, policy.ReasonResultsPrivate) {
					t.Errorf("GetAttempt() error = %v, want forbidden(ResultsPrivate)", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetAttempt() error = %v", err)
			}
			if got.ID != att.ID {
				t.Errorf("ID = %q, want %q", got.ID, att.ID)
			}
		})
	}

	t.Run("unknown attempt", func(t *testing.T) {
		_, err := env.svc.GetAttempt(ctx, student, "nope")
		if errors.Cause(err) != quiz.ErrNotFound {
			t.Errorf("GetAttempt() error = %v, want %v", err, quiz.ErrNotFound)
		}
	})
}

func TestService_StatsByQuiz(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	owner := testutil.CreateInstructor(t, env.usrRepo, "owner")
	other := testutil.CreateInstructor(t, env.usrRepo, "other")
	s1 := testutil.CreateStudent(t, env.usrRepo, "s1")
	s2 := testutil.CreateStudent(t, env.usrRepo, "s2")
	crs := testutil.CreateCourse(t, env.courseSvc.Repo(), owner.ID, "Algebra I")
	lsn := testutil.CreateLesson(t, env.courseSvc.Repo(), crs.ID, "Fractions", 1)
	qz := testutil.CreateQuiz(t, env.courseSvc.Repo(), lsn.ID, 2)
	testutil.Enroll(t, env.enrollSvc.Repo(), s1.ID, crs.ID)
	testutil.Enroll(t, env.enrollSvc.Repo(), s2.ID, crs.ID)

	// s1 aces it, s2 flunks one
	if _, err := env.svc.Submit(ctx, s1, qz.ID, quiz.Submission{
		qz.Questions[0].ID: testutil.CorrectAnswer(t, qz, 0).ID,
		qz.Questions[1].ID: testutil.CorrectAnswer(t, qz, 1).ID,
	}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if _, err := env.svc.Submit(ctx, s2, qz.ID, quiz.Submission{
		qz.Questions[0].ID: testutil.CorrectAnswer(t, qz, 0).ID,
		qz.Questions[1].ID: testutil.WrongAnswer(t, qz, 1).ID,
	}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	stats, err := env.svc.StatsByQuiz(ctx, owner, qz.ID)
	if err != nil {
		t.Fatalf("StatsByQuiz() error = %v", err)
	}
	if stats.AttemptCount != 2 || stats.MinScore != 1 || stats.MaxScore != 2 || stats.AvgScore != 1.5 {
		t.Errorf("StatsByQuiz() = %+v, want 2 attempts, min 1, max 2, avg 1.5", stats)
	}

	if _, err = env.svc.StatsByQuiz(ctx, other, qz.ID); !policy.IsForbidden(err, policy.ReasonNotCourseOwner) {
		t.Errorf("StatsByQuiz() error = %v, want forbidden(NotCourseOwner)", err)
	}
	if _, err = env.svc.QueryByQuiz(ctx, s1, qz.ID); !policy.IsForbidden(err, policy.ReasonInstructorOnly) {
		t.Errorf("QueryByQuiz() error = %v, want forbidden(InstructorOnly)", err)
	}
}
