package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/enroll"
	"github.com/trezcool/darasa/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	role user.Role,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Role:      role,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser(): %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser(): %v", err)
	}
	return usr
}

func CreateStudent(t *testing.T, repo user.Repository, uname string) user.User {
	t.Helper()
	return CreateUser(t, repo, uname, uname, uname+"@test.cd", "", user.RoleStudent, true)
}

func CreateInstructor(t *testing.T, repo user.Repository, uname string) user.User {
	t.Helper()
	return CreateUser(t, repo, uname, uname, uname+"@test.cd", "", user.RoleInstructor, true)
}

func CreateCourse(t *testing.T, repo course.Repository, instructorID, title string) course.Course {
	t.Helper()

	now := time.Now().UTC()
	crs, err := repo.CreateCourse(context.Background(), course.Course{
		Title:        title,
		Description:  title + " description",
		InstructorID: instructorID,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateCourse(): %v", err)
	}
	return crs
}

func CreateLesson(t *testing.T, repo course.Repository, courseID, title string, order int) course.Lesson {
	t.Helper()

	now := time.Now().UTC()
	lsn, err := repo.CreateLesson(context.Background(), course.Lesson{
		CourseID:  courseID,
		Title:     title,
		Content:   title + " content",
		Order:     order,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateLesson(): %v", err)
	}
	return lsn
}

// CreateQuiz attaches a quiz to the lesson with nQuestions questions, each
// having one correct and one incorrect answer.
func CreateQuiz(t *testing.T, repo course.Repository, lessonID string, nQuestions int) course.QuizDetail {
	t.Helper()

	ctx := context.Background()
	qz, err := repo.CreateQuiz(ctx, course.Quiz{LessonID: lessonID, CreatedAt: time.Now().UTC()})
	if err != nil {
		t.Fatalf("CreateQuiz(): %v", err)
	}

	detail := course.QuizDetail{Quiz: qz}
	for i := 0; i < nQuestions; i++ {
		qst, err := repo.CreateQuestion(ctx, course.Question{QuizID: qz.ID, Text: "question"})
		if err != nil {
			t.Fatalf("CreateQuestion(): %v", err)
		}
		correct, err := repo.CreateAnswer(ctx, course.Answer{QuestionID: qst.ID, Text: "right", IsCorrect: true})
		if err != nil {
			t.Fatalf("CreateAnswer(): %v", err)
		}
		wrong, err := repo.CreateAnswer(ctx, course.Answer{QuestionID: qst.ID, Text: "wrong"})
		if err != nil {
			t.Fatalf("CreateAnswer(): %v", err)
		}
		detail.Questions = append(detail.Questions, course.QuestionDetail{
			Question: qst,
			Answers:  []course.Answer{correct, wrong},
		})
	}
	return detail
}

// CorrectAnswer returns the correct answer of the i-th question.
func CorrectAnswer(t *testing.T, detail course.QuizDetail, i int) course.Answer {
	t.Helper()

	for _, ans := range detail.Questions[i].Answers {
		if ans.IsCorrect {
			return ans
		}
	}
	t.Fatalf("CorrectAnswer(): question %d has no correct answer", i)
	return course.Answer{}
}

// WrongAnswer returns an incorrect answer of the i-th question.
func WrongAnswer(t *testing.T, detail course.QuizDetail, i int) course.Answer {
	t.Helper()

	for _, ans := range detail.Questions[i].Answers {
		if !ans.IsCorrect {
			return ans
		}
	}
	t.Fatalf("WrongAnswer(): question %d has no incorrect answer", i)
	return course.Answer{}
}

func Enroll(t *testing.T, repo enroll.Repository, studentID, courseID string) enroll.Enrollment {
	t.Helper()

	enr, _, err := repo.GetOrCreateEnrollment(context.Background(), studentID, courseID, time.Now().UTC())
	if err != nil {
		t.Fatalf("Enroll(): %v", err)
	}
	return enr
}
