package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateEligible(t *testing.T) {
	eval := Evaluate(Snapshot{
		CompletedLessons: 5,
		TotalLessons:     5,
		PassedQuizzes:    2,
		TotalQuizzes:     2,
	})

	assert.True(t, eval.AllLessonsCompleted)
	assert.True(t, eval.AllQuizzesPassed)
	assert.True(t, eval.Eligible)
}

func TestEvaluateMissingLesson(t *testing.T) {
	eval := Evaluate(Snapshot{
		CompletedLessons: 4,
		TotalLessons:     5,
		PassedQuizzes:    2,
		TotalQuizzes:     2,
	})

	assert.False(t, eval.AllLessonsCompleted)
	assert.True(t, eval.AllQuizzesPassed)
	assert.False(t, eval.Eligible)
}

func TestEvaluateMissingQuiz(t *testing.T) {
	eval := Evaluate(Snapshot{
		CompletedLessons: 5,
		TotalLessons:     5,
		PassedQuizzes:    1,
		TotalQuizzes:     2,
	})

	assert.True(t, eval.AllLessonsCompleted)
	assert.False(t, eval.AllQuizzesPassed)
	assert.False(t, eval.Eligible)
}

func TestEvaluateAlreadyIssued(t *testing.T) {
	eval := Evaluate(Snapshot{
		CompletedLessons:  5,
		TotalLessons:      5,
		PassedQuizzes:     2,
		TotalQuizzes:      2,
		CertificateIssued: true,
	})

	assert.True(t, eval.AllLessonsCompleted)
	assert.True(t, eval.AllQuizzesPassed)
	assert.False(t, eval.Eligible)
}

func TestEvaluateNoQuizzesTriviallyPassed(t *testing.T) {
	eval := Evaluate(Snapshot{
		CompletedLessons: 3,
		TotalLessons:     3,
		PassedQuizzes:    0,
		TotalQuizzes:     0,
	})

	assert.True(t, eval.AllQuizzesPassed)
	assert.True(t, eval.Eligible)
}

func TestEvaluateEmptyCourse(t *testing.T) {
	eval := Evaluate(Snapshot{})

	assert.True(t, eval.AllLessonsCompleted)
	assert.True(t, eval.AllQuizzesPassed)
	assert.True(t, eval.Eligible)
}
