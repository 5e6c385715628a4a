package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/darasa/core/quiz"
)

type attemptRepository struct {
	db      *attemptTable
	courses *courseTables
}

var _ quiz.Repository = (*attemptRepository)(nil) // interface compliance check

func NewAttemptRepository(db *DB) quiz.Repository {
	return &attemptRepository{db: db.attempt, courses: db.course}
}

func (repo *attemptRepository) CreateAttempt(ctx context.Context, att quiz.Attempt) (quiz.Attempt, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	att.ID = uuid.NewString()
	repo.db.table[att.ID] = &att
	return att, nil
}

func (repo *attemptRepository) GetAttemptByID(ctx context.Context, id string) (quiz.Attempt, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if att, ok := repo.db.table[id]; ok {
		return *att, nil
	}
	return quiz.Attempt{}, quiz.ErrNotFound
}

func (repo *attemptRepository) QueryAttemptsByQuiz(ctx context.Context, quizID string) ([]quiz.Attempt, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var attempts []quiz.Attempt
	for _, att := range repo.db.table {
		if att.QuizID == quizID {
			attempts = append(attempts, *att)
		}
	}
	sortByNewest(attempts)
	return attempts, nil
}

func (repo *attemptRepository) QueryAttemptsByStudent(ctx context.Context, studentID string) ([]quiz.Attempt, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var attempts []quiz.Attempt
	for _, att := range repo.db.table {
		if att.StudentID == studentID {
			attempts = append(attempts, *att)
		}
	}
	sortByNewest(attempts)
	return attempts, nil
}

func (repo *attemptRepository) QueryAttemptsByStudentAndCourse(ctx context.Context, studentID, courseID string, limit int) ([]quiz.Attempt, error) {
	quizIDs := repo.courseQuizIDs(courseID)

	repo.db.RLock()
	defer repo.db.RUnlock()

	var attempts []quiz.Attempt
	for _, att := range repo.db.table {
		if att.StudentID == studentID && quizIDs[att.QuizID] {
			attempts = append(attempts, *att)
		}
	}
	sortByNewest(attempts)
	if limit > 0 && len(attempts) > limit {
		attempts = attempts[:limit]
	}
	return attempts, nil
}

func (repo *attemptRepository) AttemptStats(ctx context.Context, quizID string) (quiz.Stats, error) {
	attempts, err := repo.QueryAttemptsByQuiz(ctx, quizID)
	if err != nil {
		return quiz.Stats{}, err
	}

	stats := quiz.Stats{AttemptCount: len(attempts)}
	if stats.AttemptCount == 0 {
		return stats, nil
	}

	var sum int
	stats.MinScore = attempts[0].Score
	for _, att := range attempts {
		sum += att.Score
		if att.Score < stats.MinScore {
			stats.MinScore = att.Score
		}
		if att.Score > stats.MaxScore {
			stats.MaxScore = att.Score
		}
	}
	stats.AvgScore = float64(sum) / float64(stats.AttemptCount)
	return stats, nil
}

func (repo *attemptRepository) courseQuizIDs(courseID string) map[string]bool {
	repo.courses.RLock()
	defer repo.courses.RUnlock()

	lessonIDs := make(map[string]bool)
	for _, lsn := range repo.courses.lessons {
		if lsn.CourseID == courseID {
			lessonIDs[lsn.ID] = true
		}
	}
	quizIDs := make(map[string]bool)
	for _, qz := range repo.courses.quizzes {
		if lessonIDs[qz.LessonID] {
			quizIDs[qz.ID] = true
		}
	}
	return quizIDs
}

func sortByNewest(attempts []quiz.Attempt) {
	sort.Slice(attempts, func(i, j int) bool { return attempts[i].CreatedAt.After(attempts[j].CreatedAt) })
}
