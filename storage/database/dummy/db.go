// Package dummydb provides in-memory implementations of the repositories,
// used by tests and local development.
package dummydb

import (
	"sync"

	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/enroll"
	"github.com/trezcool/darasa/core/quiz"
	"github.com/trezcool/darasa/core/user"
)

type (
	DB struct {
		user    *userTable
		course  *courseTables
		enroll  *enrollTables
		attempt *attemptTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	courseTables struct {
		sync.RWMutex
		courses   map[string]*course.Course
		lessons   map[string]*course.Lesson
		quizzes   map[string]*course.Quiz
		questions map[string]*course.Question
		answers   map[string]*course.Answer
	}

	enrollTables struct {
		sync.RWMutex
		enrollments map[string]*enroll.Enrollment
		progress    map[string]*enroll.LessonProgress
	}

	attemptTable struct {
		sync.RWMutex
		table map[string]*quiz.Attempt
	}
)

func Open() (*DB, error) {
	db := &DB{
		user: &userTable{table: make(map[string]*user.User)},
		course: &courseTables{
			courses:   make(map[string]*course.Course),
			lessons:   make(map[string]*course.Lesson),
			quizzes:   make(map[string]*course.Quiz),
			questions: make(map[string]*course.Question),
			answers:   make(map[string]*course.Answer),
		},
		enroll: &enrollTables{
			enrollments: make(map[string]*enroll.Enrollment),
			progress:    make(map[string]*enroll.LessonProgress),
		},
		attempt: &attemptTable{table: make(map[string]*quiz.Attempt)},
	}
	return db, nil
}
