package course

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Enrollment tracks a user's enrollment in a course with progress.
// At most one record exists per (user, course) pair.
type Enrollment struct {
	gorm.Model
	UserID           uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_enrollments_user_course"`
	CourseID         uint       `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollments_user_course"`
	Status           string     `json:"status" gorm:"default:'ENROLLED'"` // ENROLLED, IN_PROGRESS, COMPLETED
	Progress         int        `json:"progress" gorm:"default:0"`        // completion percentage (0-100), recomputed on every mutation
	TimeSpentMinutes int64      `json:"time_spent_minutes" gorm:"default:0"`
	IsCompleted      bool       `json:"is_completed" gorm:"default:false"`
	CompletedAt      *time.Time `json:"completed_at"`

	// Certificate reference, mirrors the Certificate record's identity.
	// CertificateIssued transitions false->true exactly once.
	CertificateIssued   bool       `json:"certificate_issued" gorm:"default:false"`
	CertificateIssuedAt *time.Time `json:"certificate_issued_at"`
	CertificateNumber   string     `json:"certificate_number"`

	IsDeleted bool `gorm:"default:false"`
}

// LessonCompletion records a completed lesson, keyed by (user, lesson).
// Idempotent: repeat completions update the score only.
type LessonCompletion struct {
	gorm.Model
	UserID      uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_lesson_completions_user_lesson"`
	LessonID    uint      `json:"lesson_id" gorm:"not null;uniqueIndex:idx_lesson_completions_user_lesson"`
	CourseID    uint      `json:"course_id" gorm:"index;not null"`
	Score       *int      `json:"score"`
	CompletedAt time.Time `json:"completed_at"`
	IsDeleted   bool      `gorm:"default:false"`
}

// QuizProgress aggregates a user's attempts at one quiz.
// BestScore never decreases and Passed never reverts to false.
type QuizProgress struct {
	gorm.Model
	UserID       uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_quiz_progresses_user_quiz"`
	QuizID       uint       `json:"quiz_id" gorm:"not null;uniqueIndex:idx_quiz_progresses_user_quiz"`
	CourseID     uint       `json:"course_id" gorm:"index;not null"`
	AttemptCount int        `json:"attempt_count" gorm:"default:0"`
	BestScore    int        `json:"best_score" gorm:"default:0"`
	Passed       bool       `json:"passed" gorm:"default:false"`
	PassedAt     *time.Time `json:"passed_at"`
	IsDeleted    bool       `gorm:"default:false"`
}

// QuizAttempt records a single graded submission
type QuizAttempt struct {
	gorm.Model
	UserID           uint           `json:"user_id" gorm:"index;not null"`
	QuizID           uint           `json:"quiz_id" gorm:"index;not null"`
	CourseID         uint           `json:"course_id" gorm:"index;not null"`
	AttemptNumber    int            `json:"attempt_number" gorm:"not null"`
	Score            int            `json:"score"`
	CorrectCount     int            `json:"correct_count"`
	TotalQuestions   int            `json:"total_questions"`
	Breakdown        datatypes.JSON `json:"breakdown"` // per-question correctness for review display
	TimeSpentMinutes int64          `json:"time_spent_minutes"`
	CompletedAt      time.Time      `json:"completed_at"`
	IsDeleted        bool           `gorm:"default:false"`
}
