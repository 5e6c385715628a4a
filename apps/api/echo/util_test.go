package echoapi

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/enroll"
	"github.com/trezcool/darasa/core/quiz"
	"github.com/trezcool/darasa/core/report"
	"github.com/trezcool/darasa/core/user"
	emailsvc "github.com/trezcool/darasa/services/email"
	logsvc "github.com/trezcool/darasa/services/logger"
	dummydb "github.com/trezcool/darasa/storage/database/dummy"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

func init() {
	core.Conf.Debug = false
	core.Conf.TestMode = true
}

type testApp struct {
	app Server

	usrRepo   user.Repository
	courseSvc *course.Service
	enrollSvc *enroll.Service
	quizSvc   *quiz.Service
}

func setup(t *testing.T) *testApp {
	t.Helper()

	// set up DB & repos
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open(): %v", err)
	}
	usrRepo := dummydb.NewUserRepository(db)

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock()
	usrSvc := user.NewServiceMock(usrRepo, mailSvc)
	courseSvc := course.NewService(dummydb.NewCourseRepository(db))
	enrollSvc := enroll.NewService(dummydb.NewEnrollmentRepository(db), courseSvc, mailSvc)
	quizSvc := quiz.NewService(dummydb.NewAttemptRepository(db), courseSvc, enrollSvc)
	reportSvc := report.NewService(courseSvc, enrollSvc, quizSvc)

	// set up server
	return &testApp{
		app: NewServer(
			&Options{
				DisableReqLogs: true,
				Logger:         logsvc.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags)),
				UserSvc:        usrSvc,
				CourseSvc:      courseSvc,
				EnrollSvc:      enrollSvc,
				QuizSvc:        quizSvc,
				ReportSvc:      reportSvc,
			},
		),
		usrRepo:   usrRepo,
		courseSvc: courseSvc,
		enrollSvc: enrollSvc,
		quizSvc:   quizSvc,
	}
}

type httpErr struct {
	Error string `json:"error"`
}

type forbiddenErr struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()

	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func forbidden(reason string) []byte {
	texts := map[string]string{
		"InstructorOnly":     "only instructors can manage course content",
		"StudentOnly":        "only students can perform this action",
		"NotCourseOwner":     "you do not manage this course",
		"EnrollmentRequired": "you are not enrolled in this course",
		"ResultsPrivate":     "quiz results are private",
	}
	data, _ := json.Marshal(forbiddenErr{Error: texts[reason], Reason: reason})
	return data
}
