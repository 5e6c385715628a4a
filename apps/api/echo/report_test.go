package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/trezcool/darasa/core/quiz"
	"github.com/trezcool/darasa/core/report"
	testutil "github.com/trezcool/darasa/tests"
)

func Test_reportApi_dashboard(t *testing.T) {
	app := setup(t)

	instructor := testutil.CreateInstructor(t, app.usrRepo, "teachergift")
	student := testutil.CreateStudent(t, app.usrRepo, "studygrace")
	crs := testutil.CreateCourse(t, app.courseSvc.Repo(), instructor.ID, "Algebra I")
	lsn := testutil.CreateLesson(t, app.courseSvc.Repo(), crs.ID, "Fractions", 1)
	qz := testutil.CreateQuiz(t, app.courseSvc.Repo(), lsn.ID, 1)
	testutil.Enroll(t, app.enrollSvc.Repo(), student.ID, crs.ID)
	studentToken := getToken(t, student)

	req, rec := newAuthRequest(http.MethodPost, "/v1/lessons/"+lsn.ID+"/complete", studentToken)
	app.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	body := marchallObj(t, quiz.NewSubmission{Answers: quiz.Submission{
		qz.Questions[0].ID: testutil.CorrectAnswer(t, qz, 0).ID,
	}})
	req, rec = newAuthRequest(http.MethodPost, "/v1/quizzes/"+qz.ID+"/attempts", studentToken, body)
	app.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	t.Run("instructors have no dashboard", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/dashboard", getToken(t, instructor))
		app.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: forbidden("StudentOnly")}, rec)
	})

	t.Run("student dashboard", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/dashboard", studentToken)
		app.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}

		var entries []report.DashboardEntry
		if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("len(entries) = %d, want 1", len(entries))
		}
		entry := entries[0]
		if entry.Course.ID != crs.ID {
			t.Errorf("Course.ID = %q, want %q", entry.Course.ID, crs.ID)
		}
		if entry.Progress.CompletionPercentage != 100 {
			t.Errorf("CompletionPercentage = %v, want 100", entry.Progress.CompletionPercentage)
		}
		if len(entry.RecentAttempts) != 1 {
			t.Errorf("len(RecentAttempts) = %d, want 1", len(entry.RecentAttempts))
		}
	})
}

func Test_reportApi_courseAnalytics(t *testing.T) {
	app := setup(t)

	owner := testutil.CreateInstructor(t, app.usrRepo, "owner")
	other := testutil.CreateInstructor(t, app.usrRepo, "other")
	student := testutil.CreateStudent(t, app.usrRepo, "studygrace")
	crs := testutil.CreateCourse(t, app.courseSvc.Repo(), owner.ID, "Algebra I")
	lsn := testutil.CreateLesson(t, app.courseSvc.Repo(), crs.ID, "Fractions", 1)
	testutil.CreateQuiz(t, app.courseSvc.Repo(), lsn.ID, 1)
	testutil.Enroll(t, app.enrollSvc.Repo(), student.ID, crs.ID)

	path := "/v1/courses/" + crs.ID + "/analytics"

	t.Run("only the owner", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, path, getToken(t, other))
		app.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: forbidden("NotCourseOwner")}, rec)
	})

	t.Run("owner analytics", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, path, getToken(t, owner))
		app.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}

		var analytics report.CourseAnalytics
		if err := json.Unmarshal(rec.Body.Bytes(), &analytics); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if analytics.EnrollmentCount != 1 || analytics.LessonCount != 1 {
			t.Errorf("analytics = %+v, want 1 enrollment and 1 lesson", analytics)
		}
		if len(analytics.QuizStats) != 1 {
			t.Errorf("len(QuizStats) = %d, want 1", len(analytics.QuizStats))
		}
	})
}
