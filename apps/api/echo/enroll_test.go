package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/trezcool/darasa/core/enroll"
	testutil "github.com/trezcool/darasa/tests"
)

func Test_enrollApi_enroll(t *testing.T) {
	app := setup(t)

	instructor := testutil.CreateInstructor(t, app.usrRepo, "teachergift")
	student := testutil.CreateStudent(t, app.usrRepo, "studygrace")
	crs := testutil.CreateCourse(t, app.courseSvc.Repo(), instructor.ID, "Algebra I")

	path := "/v1/courses/" + crs.ID + "/enroll"
	studentToken := getToken(t, student)

	t.Run("auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, path)
		app.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)
	})

	t.Run("instructors cannot enroll", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, path, getToken(t, instructor))
		app.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: forbidden("StudentOnly")}, rec)
	})

	t.Run("unknown course", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/courses/nope/enroll", studentToken)
		app.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})}, rec)
	})

	t.Run("idempotent", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, path, studentToken)
		app.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		var enr enroll.Enrollment
		if err := json.Unmarshal(rec.Body.Bytes(), &enr); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}

		// re-enrolling returns the existing enrollment
		req, rec = newAuthRequest(http.MethodPost, path, studentToken)
		app.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, enr)}, rec)
	})
}

func Test_enrollApi_completeLesson(t *testing.T) {
	app := setup(t)

	instructor := testutil.CreateInstructor(t, app.usrRepo, "teachergift")
	student := testutil.CreateStudent(t, app.usrRepo, "studygrace")
	outsider := testutil.CreateStudent(t, app.usrRepo, "outsider")
	crs := testutil.CreateCourse(t, app.courseSvc.Repo(), instructor.ID, "Algebra I")
	lsn := testutil.CreateLesson(t, app.courseSvc.Repo(), crs.ID, "Fractions", 1)
	testutil.Enroll(t, app.enrollSvc.Repo(), student.ID, crs.ID)

	path := "/v1/lessons/" + lsn.ID + "/complete"
	studentToken := getToken(t, student)

	t.Run("enrollment required", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, path, getToken(t, outsider))
		app.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: forbidden("EnrollmentRequired")}, rec)
	})

	t.Run("idempotent", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, path, studentToken)
		app.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		var prog enroll.LessonProgress
		if err := json.Unmarshal(rec.Body.Bytes(), &prog); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if !prog.Completed {
			t.Error("Completed = false, want true")
		}

		// re-completing changes nothing
		req, rec = newAuthRequest(http.MethodPost, path, studentToken)
		app.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, prog)}, rec)
	})
}

func Test_enrollApi_progress(t *testing.T) {
	app := setup(t)

	instructor := testutil.CreateInstructor(t, app.usrRepo, "teachergift")
	student := testutil.CreateStudent(t, app.usrRepo, "studygrace")
	crs := testutil.CreateCourse(t, app.courseSvc.Repo(), instructor.ID, "Algebra I")
	lsn := testutil.CreateLesson(t, app.courseSvc.Repo(), crs.ID, "Fractions", 1)
	testutil.CreateLesson(t, app.courseSvc.Repo(), crs.ID, "Decimals", 2)
	testutil.Enroll(t, app.enrollSvc.Repo(), student.ID, crs.ID)

	path := "/v1/courses/" + crs.ID + "/progress"
	studentToken := getToken(t, student)

	req, rec := newAuthRequest(http.MethodGet, path, studentToken)
	app.app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: marchallObj(t, enroll.Progress{TotalLessons: 2}),
	}, rec)

	req, rec = newAuthRequest(http.MethodPost, "/v1/lessons/"+lsn.ID+"/complete", studentToken)
	app.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	req, rec = newAuthRequest(http.MethodGet, path, studentToken)
	app.app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: marchallObj(t, enroll.Progress{CompletedLessons: 1, TotalLessons: 2, CompletionPercentage: 50}),
	}, rec)
}

func Test_enrollApi_queryByCourse(t *testing.T) {
	app := setup(t)

	owner := testutil.CreateInstructor(t, app.usrRepo, "owner")
	other := testutil.CreateInstructor(t, app.usrRepo, "other")
	student := testutil.CreateStudent(t, app.usrRepo, "studygrace")
	crs := testutil.CreateCourse(t, app.courseSvc.Repo(), owner.ID, "Algebra I")
	enr := testutil.Enroll(t, app.enrollSvc.Repo(), student.ID, crs.ID)

	path := "/v1/courses/" + crs.ID + "/enrollments"

	tests := []httpTest{
		{
			name: "Only the owner sees enrollments", path: path, token: getToken(t, other),
			wantCode: http.StatusForbidden, wantData: forbidden("NotCourseOwner"),
		},
		{
			name: "Owner lists enrollments", path: path, token: getToken(t, owner),
			wantCode: http.StatusOK, wantData: marchallList(t, enr),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_enrollApi_queryMine(t *testing.T) {
	app := setup(t)

	instructor := testutil.CreateInstructor(t, app.usrRepo, "teachergift")
	student := testutil.CreateStudent(t, app.usrRepo, "studygrace")
	crs1 := testutil.CreateCourse(t, app.courseSvc.Repo(), instructor.ID, "Algebra I")
	crs2 := testutil.CreateCourse(t, app.courseSvc.Repo(), instructor.ID, "Geometry")
	enr1 := testutil.Enroll(t, app.enrollSvc.Repo(), student.ID, crs1.ID)
	enr2 := testutil.Enroll(t, app.enrollSvc.Repo(), student.ID, crs2.ID)

	req, rec := newAuthRequest(http.MethodGet, "/v1/enrollments", getToken(t, student))
	app.app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, enr1, enr2)}, rec)
}
