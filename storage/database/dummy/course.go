package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/darasa/core/course"
)

type courseRepository struct {
	db *courseTables
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepository{db: db.course}
}

// Courses

func (repo *courseRepository) CreateCourse(ctx context.Context, c course.Course) (course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	c.ID = uuid.NewString()
	repo.db.courses[c.ID] = &c
	return c, nil
}

func (repo *courseRepository) GetCourseByID(ctx context.Context, id string) (course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if c, ok := repo.db.courses[id]; ok {
		return *c, nil
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) QueryCourses(ctx context.Context) ([]course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	courses := make([]course.Course, 0, len(repo.db.courses))
	for _, c := range repo.db.courses {
		courses = append(courses, *c)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].CreatedAt.Before(courses[j].CreatedAt) })
	return courses, nil
}

func (repo *courseRepository) QueryCoursesByInstructor(ctx context.Context, instructorID string) ([]course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var courses []course.Course
	for _, c := range repo.db.courses {
		if c.InstructorID == instructorID {
			courses = append(courses, *c)
		}
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].CreatedAt.Before(courses[j].CreatedAt) })
	return courses, nil
}

func (repo *courseRepository) UpdateCourse(ctx context.Context, c course.Course) (course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.courses[c.ID]; !ok {
		return course.Course{}, course.ErrNotFound
	}
	repo.db.courses[c.ID] = &c
	return c, nil
}

func (repo *courseRepository) DeleteCourse(ctx context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, lsn := range repo.db.lessons {
		if lsn.CourseID == id {
			repo.deleteLessonCascade(lsn.ID)
		}
	}
	delete(repo.db.courses, id)
	return nil
}

// Lessons

func (repo *courseRepository) CreateLesson(ctx context.Context, l course.Lesson) (course.Lesson, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, lsn := range repo.db.lessons {
		if lsn.CourseID == l.CourseID && lsn.Order == l.Order {
			return course.Lesson{}, course.ErrDuplicateLessonOrder
		}
	}
	l.ID = uuid.NewString()
	repo.db.lessons[l.ID] = &l
	return l, nil
}

func (repo *courseRepository) GetLessonByID(ctx context.Context, id string) (course.Lesson, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if l, ok := repo.db.lessons[id]; ok {
		return *l, nil
	}
	return course.Lesson{}, course.ErrNotFound
}

func (repo *courseRepository) QueryLessonsByCourse(ctx context.Context, courseID string) ([]course.Lesson, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var lessons []course.Lesson
	for _, l := range repo.db.lessons {
		if l.CourseID == courseID {
			lessons = append(lessons, *l)
		}
	}
	sort.Slice(lessons, func(i, j int) bool { return lessons[i].Order < lessons[j].Order })
	return lessons, nil
}

func (repo *courseRepository) UpdateLesson(ctx context.Context, l course.Lesson) (course.Lesson, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.lessons[l.ID]; !ok {
		return course.Lesson{}, course.ErrNotFound
	}
	for _, lsn := range repo.db.lessons {
		if lsn.ID != l.ID && lsn.CourseID == l.CourseID && lsn.Order == l.Order {
			return course.Lesson{}, course.ErrDuplicateLessonOrder
		}
	}
	repo.db.lessons[l.ID] = &l
	return l, nil
}

func (repo *courseRepository) DeleteLesson(ctx context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.deleteLessonCascade(id)
	return nil
}

// deleteLessonCascade removes a lesson and its quiz tree. Callers hold the lock.
func (repo *courseRepository) deleteLessonCascade(id string) {
	for _, qz := range repo.db.quizzes {
		if qz.LessonID == id {
			repo.deleteQuizCascade(qz.ID)
		}
	}
	delete(repo.db.lessons, id)
}

// Quizzes

func (repo *courseRepository) CreateQuiz(ctx context.Context, q course.Quiz) (course.Quiz, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, qz := range repo.db.quizzes {
		if qz.LessonID == q.LessonID {
			return course.Quiz{}, course.ErrQuizExists
		}
	}
	q.ID = uuid.NewString()
	repo.db.quizzes[q.ID] = &q
	return q, nil
}

func (repo *courseRepository) GetQuizByID(ctx context.Context, id string) (course.Quiz, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if q, ok := repo.db.quizzes[id]; ok {
		return *q, nil
	}
	return course.Quiz{}, course.ErrNotFound
}

func (repo *courseRepository) GetQuizByLessonID(ctx context.Context, lessonID string) (course.Quiz, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, q := range repo.db.quizzes {
		if q.LessonID == lessonID {
			return *q, nil
		}
	}
	return course.Quiz{}, course.ErrNotFound
}

func (repo *courseRepository) DeleteQuiz(ctx context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.deleteQuizCascade(id)
	return nil
}

func (repo *courseRepository) deleteQuizCascade(id string) {
	for _, qst := range repo.db.questions {
		if qst.QuizID == id {
			repo.deleteQuestionCascade(qst.ID)
		}
	}
	delete(repo.db.quizzes, id)
}

// Questions

func (repo *courseRepository) CreateQuestion(ctx context.Context, q course.Question) (course.Question, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	q.ID = uuid.NewString()
	repo.db.questions[q.ID] = &q
	return q, nil
}

func (repo *courseRepository) GetQuestionByID(ctx context.Context, id string) (course.Question, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if q, ok := repo.db.questions[id]; ok {
		return *q, nil
	}
	return course.Question{}, course.ErrNotFound
}

func (repo *courseRepository) QueryQuestionsByQuiz(ctx context.Context, quizID string) ([]course.Question, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var questions []course.Question
	for _, q := range repo.db.questions {
		if q.QuizID == quizID {
			questions = append(questions, *q)
		}
	}
	sort.Slice(questions, func(i, j int) bool { return questions[i].ID < questions[j].ID })
	return questions, nil
}

func (repo *courseRepository) UpdateQuestion(ctx context.Context, q course.Question) (course.Question, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.questions[q.ID]; !ok {
		return course.Question{}, course.ErrNotFound
	}
	repo.db.questions[q.ID] = &q
	return q, nil
}

func (repo *courseRepository) DeleteQuestion(ctx context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.deleteQuestionCascade(id)
	return nil
}

func (repo *courseRepository) deleteQuestionCascade(id string) {
	for _, ans := range repo.db.answers {
		if ans.QuestionID == id {
			delete(repo.db.answers, ans.ID)
		}
	}
	delete(repo.db.questions, id)
}

// Answers

func (repo *courseRepository) CreateAnswer(ctx context.Context, a course.Answer) (course.Answer, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	a.ID = uuid.NewString()
	repo.db.answers[a.ID] = &a
	return a, nil
}

func (repo *courseRepository) GetAnswerByID(ctx context.Context, id string) (course.Answer, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if a, ok := repo.db.answers[id]; ok {
		return *a, nil
	}
	return course.Answer{}, course.ErrNotFound
}

func (repo *courseRepository) QueryAnswersByQuestion(ctx context.Context, questionID string) ([]course.Answer, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var answers []course.Answer
	for _, a := range repo.db.answers {
		if a.QuestionID == questionID {
			answers = append(answers, *a)
		}
	}
	sort.Slice(answers, func(i, j int) bool { return answers[i].ID < answers[j].ID })
	return answers, nil
}

func (repo *courseRepository) UpdateAnswer(ctx context.Context, a course.Answer) (course.Answer, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.answers[a.ID]; !ok {
		return course.Answer{}, course.ErrNotFound
	}
	repo.db.answers[a.ID] = &a
	return a, nil
}

func (repo *courseRepository) DeleteAnswer(ctx context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	delete(repo.db.answers, id)
	return nil
}
