package progress

import (
	"math"

	courseModels "lms/models/course"
)

// AnswerBreakdown is the per-question grading outcome kept for review display
type AnswerBreakdown struct {
	QuestionID      uint   `json:"question_id"`
	SubmittedAnswer string `json:"submitted_answer"`
	IsCorrect       bool   `json:"is_correct"`
	PointsAwarded   int    `json:"points_awarded"`
}

// GradeResult is the outcome of grading one submission
type GradeResult struct {
	Score          int               `json:"score"` // 0-100
	EarnedPoints   int               `json:"earned_points"`
	TotalPoints    int               `json:"total_points"`
	CorrectCount   int               `json:"correct_count"`
	TotalQuestions int               `json:"total_questions"`
	Passed         bool              `json:"passed"`
	Breakdown      []AnswerBreakdown `json:"breakdown"`
}

// GradeQuiz grades a submission against the quiz definition. Pure and
// deterministic: correctness is exact match against the configured answer, no
// partial credit. Unanswered questions score zero.
func GradeQuiz(quiz *courseModels.Quiz, questions []courseModels.QuizQuestion, answers map[uint]string) (*GradeResult, error) {
	totalPoints := 0
	for _, q := range questions {
		totalPoints += q.Points
	}
	if totalPoints == 0 {
		return nil, ErrInvalidQuizDefinition
	}

	result := &GradeResult{
		TotalPoints:    totalPoints,
		TotalQuestions: len(questions),
		Breakdown:      make([]AnswerBreakdown, 0, len(questions)),
	}

	for _, q := range questions {
		submitted, answered := answers[q.ID]
		isCorrect := answered && submitted == q.CorrectAnswer

		awarded := 0
		if isCorrect {
			awarded = q.Points
			result.EarnedPoints += q.Points
			result.CorrectCount++
		}

		result.Breakdown = append(result.Breakdown, AnswerBreakdown{
			QuestionID:      q.ID,
			SubmittedAnswer: submitted,
			IsCorrect:       isCorrect,
			PointsAwarded:   awarded,
		})
	}

	result.Score = int(math.Round(100 * float64(result.EarnedPoints) / float64(totalPoints)))
	result.Passed = result.Score >= quiz.PassingScore

	return result, nil
}
