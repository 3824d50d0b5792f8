package progress

// Snapshot is the state the eligibility decision is computed over
type Snapshot struct {
	CompletedLessons  int64
	TotalLessons      int64
	PassedQuizzes     int64
	TotalQuizzes      int64
	CertificateIssued bool
}

// Evaluation is the computed eligibility outcome
type Evaluation struct {
	AllLessonsCompleted bool `json:"all_lessons_completed"`
	AllQuizzesPassed    bool `json:"all_quizzes_passed"`
	Eligible            bool `json:"eligible"`
}

// Evaluate decides whether certification criteria hold. Pure function: a
// course with zero quizzes trivially satisfies the quiz condition, and an
// already-issued certificate makes the pair ineligible for another.
func Evaluate(s Snapshot) Evaluation {
	allLessons := s.CompletedLessons == s.TotalLessons
	allQuizzes := s.PassedQuizzes == s.TotalQuizzes

	return Evaluation{
		AllLessonsCompleted: allLessons,
		AllQuizzesPassed:    allQuizzes,
		Eligible:            allLessons && allQuizzes && !s.CertificateIssued,
	}
}
