package report

import (
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/enroll"
	"github.com/trezcool/darasa/core/quiz"
)

// CourseAnalytics is the instructor's view of one of their courses.
type CourseAnalytics struct {
	Course          course.Course `json:"course"`
	EnrollmentCount int           `json:"enrollment_count"`
	LessonCount     int           `json:"lesson_count"`
	AvgCompletion   float64       `json:"avg_completion"`
	QuizStats       []QuizStats   `json:"quiz_stats"`
}

// QuizStats ties a quiz's aggregate attempt figures to its lesson.
type QuizStats struct {
	LessonID    string     `json:"lesson_id"`
	LessonTitle string     `json:"lesson_title"`
	QuizID      string     `json:"quiz_id"`
	Stats       quiz.Stats `json:"stats"`
}

// DashboardEntry is the student's view of one enrolled course.
type DashboardEntry struct {
	Course         course.Course     `json:"course"`
	Enrollment     enroll.Enrollment `json:"enrollment"`
	Progress       enroll.Progress   `json:"progress"`
	RecentAttempts []quiz.Attempt    `json:"recent_attempts"`
}
