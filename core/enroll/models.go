package enroll

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Enrollment links a student to a course. At most one exists per
// (student, course) pair; enrolling twice returns the existing row.
type Enrollment struct {
	ID           string    `json:"id" db:"id"`
	StudentID    string    `json:"student_id" db:"student_id"`
	CourseID     string    `json:"course_id" db:"course_id"`
	DateEnrolled time.Time `json:"date_enrolled" db:"date_enrolled"` // UTC
}

// LessonProgress records a student's completion of one lesson under an
// enrollment. DateCompleted is set once, on the first completion; repeated
// completions leave it untouched.
type LessonProgress struct {
	ID            string    `json:"id" db:"id"`
	EnrollmentID  string    `json:"enrollment_id" db:"enrollment_id"`
	LessonID      string    `json:"lesson_id" db:"lesson_id"`
	Completed     bool      `json:"completed" db:"completed"`
	DateCompleted null.Time `json:"date_completed" db:"date_completed"`
}

// Progress summarizes a student's advancement through a course.
type Progress struct {
	CompletedLessons     int     `json:"completed_lessons"`
	TotalLessons         int     `json:"total_lessons"`
	CompletionPercentage float64 `json:"completion_percentage"`
}
