package quiz

import (
	"context"
	"testing"

	"github.com/trezcool/darasa/core/course"
)

// stubCourseRepo only knows answers; scoring never touches the rest.
type stubCourseRepo struct {
	course.Repository
	answers map[string]course.Answer
}

func (repo stubCourseRepo) GetAnswerByID(ctx context.Context, id string) (course.Answer, error) {
	if ans, ok := repo.answers[id]; ok {
		return ans, nil
	}
	return course.Answer{}, course.ErrNotFound
}

func TestService_score(t *testing.T) {
	questions := []course.Question{
		{ID: "q1", QuizID: "qz"},
		{ID: "q2", QuizID: "qz"},
		{ID: "q3", QuizID: "qz"},
	}
	answers := map[string]course.Answer{
		"a1-right": {ID: "a1-right", QuestionID: "q1", IsCorrect: true},
		"a1-wrong": {ID: "a1-wrong", QuestionID: "q1"},
		"a2-right": {ID: "a2-right", QuestionID: "q2", IsCorrect: true},
		"a2-wrong": {ID: "a2-wrong", QuestionID: "q2"},
		"a3-right": {ID: "a3-right", QuestionID: "q3", IsCorrect: true},
		"a3-wrong": {ID: "a3-wrong", QuestionID: "q3"},
	}
	svc := NewService(nil, course.NewService(stubCourseRepo{answers: answers}), nil)

	tests := []struct {
		name      string
		sub       Submission
		wantScore int
		wantErr   error
	}{
		{
			name:      "all correct",
			sub:       Submission{"q1": "a1-right", "q2": "a2-right", "q3": "a3-right"},
			wantScore: 3,
		},
		{
			name:      "some correct",
			sub:       Submission{"q1": "a1-right", "q2": "a2-wrong", "q3": "a3-right"},
			wantScore: 2,
		},
		{
			name: "none answered",
			sub:  Submission{},
		},
		{
			name: "unanswered question contributes zero",
			sub:       Submission{"q1": "a1-wrong", "q3": "a3-right"},
			wantScore: 1,
		},
		{
			name:    "unknown answer id",
			sub:     Submission{"q1": "a1-right", "q2": "bogus", "q3": "a3-right"},
			wantErr: ErrAnswerNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, total, err := svc.score(context.Background(), questions, tt.sub)
			if err != tt.wantErr {
				t.Fatalf("score() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if score != tt.wantScore {
				t.Errorf("score = %d, want %d", score, tt.wantScore)
			}
			if total != len(questions) {
				t.Errorf("total = %d, want %d", total, len(questions))
			}
		})
	}
}
