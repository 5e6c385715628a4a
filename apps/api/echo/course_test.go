package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/trezcool/darasa/core/course"
	testutil "github.com/trezcool/darasa/tests"
)

func Test_courseApi_create(t *testing.T) {
	app := setup(t)

	instructor := testutil.CreateInstructor(t, app.usrRepo, "teachergift")
	student := testutil.CreateStudent(t, app.usrRepo, "studygrace")
	body := marchallObj(t, course.NewCourse{Title: "Algebra I", Description: "Numbers and letters"})

	tests := []httpTest{
		{
			name: "Auth required", method: http.MethodPost, path: "/v1/courses", body: body,
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "Students cannot create", method: http.MethodPost, path: "/v1/courses", body: body,
			token: getToken(t, student), wantCode: http.StatusForbidden, wantData: forbidden("InstructorOnly"),
		},
		{
			name: "Title too short", method: http.MethodPost, path: "/v1/courses",
			body:  marchallObj(t, course.NewCourse{Title: "Al", Description: "d"}),
			token: getToken(t, instructor), wantCode: http.StatusBadRequest,
		},
		{
			name: "Instructors create", method: http.MethodPost, path: "/v1/courses", body: body,
			token: getToken(t, instructor), wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusCreated {
				var crs course.Course
				if err := json.Unmarshal(rec.Body.Bytes(), &crs); err != nil {
					t.Fatalf("unmarshalling response: %v", err)
				}
				if crs.InstructorID != instructor.ID {
					t.Errorf("InstructorID = %q, want %q", crs.InstructorID, instructor.ID)
				}
			}
		})
	}
}

func Test_courseApi_retrieve(t *testing.T) {
	app := setup(t)

	instructor := testutil.CreateInstructor(t, app.usrRepo, "teachergift")
	student := testutil.CreateStudent(t, app.usrRepo, "studygrace")
	crs := testutil.CreateCourse(t, app.courseSvc.Repo(), instructor.ID, "Algebra I")
	lsn1 := testutil.CreateLesson(t, app.courseSvc.Repo(), crs.ID, "Fractions", 1)
	lsn2 := testutil.CreateLesson(t, app.courseSvc.Repo(), crs.ID, "Decimals", 2)

	tests := []httpTest{
		{
			name: "Auth required", path: "/v1/courses/" + crs.ID,
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "Not found", path: "/v1/courses/nope", token: getToken(t, student),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "Any authenticated user may browse", path: "/v1/courses/" + crs.ID, token: getToken(t, student),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, course.CourseDetail{Course: crs, Lessons: []course.Lesson{lsn1, lsn2}}),
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

func Test_courseApi_update(t *testing.T) {
	app := setup(t)

	owner := testutil.CreateInstructor(t, app.usrRepo, "owner")
	other := testutil.CreateInstructor(t, app.usrRepo, "other")
	crs := testutil.CreateCourse(t, app.courseSvc.Repo(), owner.ID, "Algebra I")
	body := marchallObj(t, course.UpdateCourse{Title: "Algebra II"})

	tests := []httpTest{
		{
			name: "Only the owner may update", method: http.MethodPut, path: "/v1/courses/" + crs.ID, body: body,
			token: getToken(t, other), wantCode: http.StatusForbidden, wantData: forbidden("NotCourseOwner"),
		},
		{
			name: "Owner updates", method: http.MethodPut, path: "/v1/courses/" + crs.ID, body: body,
			token: getToken(t, owner), wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				var got course.Course
				if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
					t.Fatalf("unmarshalling response: %v", err)
				}
				if got.Title != "Algebra II" {
					t.Errorf("Title = %q, want %q", got.Title, "Algebra II")
				}
				// unset fields keep their value
				if got.Description != crs.Description {
					t.Errorf("Description = %q, want %q", got.Description, crs.Description)
				}
			}
		})
	}
}

func Test_courseApi_createLesson(t *testing.T) {
	app := setup(t)

	owner := testutil.CreateInstructor(t, app.usrRepo, "owner")
	other := testutil.CreateInstructor(t, app.usrRepo, "other")
	crs := testutil.CreateCourse(t, app.courseSvc.Repo(), owner.ID, "Algebra I")
	testutil.CreateLesson(t, app.courseSvc.Repo(), crs.ID, "Fractions", 1)

	path := "/v1/courses/" + crs.ID + "/lessons"
	ownerToken := getToken(t, owner)

	tests := []httpTest{
		{
			name: "Only the owner may add lessons", method: http.MethodPost, path: path,
			body:  marchallObj(t, course.NewLesson{Title: "Decimals", Content: "c", Order: 2}),
			token: getToken(t, other), wantCode: http.StatusForbidden, wantData: forbidden("NotCourseOwner"),
		},
		{
			name: "Order must be positive", method: http.MethodPost, path: path,
			body:  marchallObj(t, course.NewLesson{Title: "Decimals", Content: "c", Order: -1}),
			token: ownerToken, wantCode: http.StatusBadRequest,
		},
		{
			name: "Duplicate order conflicts", method: http.MethodPost, path: path,
			body:     marchallObj(t, course.NewLesson{Title: "Decimals", Content: "c", Order: 1}),
			token:    ownerToken, wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: "a lesson with this order already exists in this course"}),
		},
		{
			name: "Owner adds a lesson", method: http.MethodPost, path: path,
			body:  marchallObj(t, course.NewLesson{Title: "Decimals", Content: "c", Order: 2}),
			token: ownerToken, wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_courseApi_createQuiz(t *testing.T) {
	app := setup(t)

	owner := testutil.CreateInstructor(t, app.usrRepo, "owner")
	crs := testutil.CreateCourse(t, app.courseSvc.Repo(), owner.ID, "Algebra I")
	lsn := testutil.CreateLesson(t, app.courseSvc.Repo(), crs.ID, "Fractions", 1)

	path := "/v1/lessons/" + lsn.ID + "/quiz"
	token := getToken(t, owner)

	req, rec := newAuthRequest(http.MethodPost, path, token)
	app.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	// a lesson carries at most one quiz
	req, rec = newAuthRequest(http.MethodPost, path, token)
	app.app.ServeHTTP(rec, req)
	tt := httpTest{
		wantCode: http.StatusConflict,
		wantData: marchallObj(t, httpErr{Error: "this lesson already has a quiz"}),
	}
	checkCodeAndData(t, tt, rec)
}

func Test_courseApi_destroy(t *testing.T) {
	app := setup(t)

	owner := testutil.CreateInstructor(t, app.usrRepo, "owner")
	other := testutil.CreateInstructor(t, app.usrRepo, "other")
	crs := testutil.CreateCourse(t, app.courseSvc.Repo(), owner.ID, "Algebra I")
	lsn := testutil.CreateLesson(t, app.courseSvc.Repo(), crs.ID, "Fractions", 1)
	qz := testutil.CreateQuiz(t, app.courseSvc.Repo(), lsn.ID, 1)

	t.Run("only the owner may delete", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/courses/"+crs.ID, getToken(t, other))
		app.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: forbidden("NotCourseOwner")}, rec)
	})

	t.Run("deletion cascades", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/courses/"+crs.ID, getToken(t, owner))
		app.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusNoContent, rec.Body.String())
		}

		for _, path := range []string{"/v1/courses/" + crs.ID, "/v1/lessons/" + lsn.ID, "/v1/quizzes/" + qz.ID} {
			req, rec := newAuthRequest(http.MethodGet, path, getToken(t, owner))
			app.app.ServeHTTP(rec, req)
			if rec.Code != http.StatusNotFound {
				t.Errorf("GET %s code = %v; want %v", path, rec.Code, http.StatusNotFound)
			}
		}
	})
}
