package progress

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math"
	"time"

	"lms/services/catalog"
	"lms/services/keylock"

	courseModels "lms/models/course"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Issuer issues a certificate for an eligible (user, course) pair. Implemented
// by the certificate service; declared here so the tracker stays decoupled
// from it.
type Issuer interface {
	Issue(ctx context.Context, userID, courseID uint) (*courseModels.Certificate, error)
}

// Tracker owns the mutable per-enrollment progress record. Every mutation for
// one (user, course) pair runs under the same advisory lock, then re-runs the
// eligibility evaluation and, on the first transition to eligible, triggers
// certificate issuance.
type Tracker struct {
	DB      *gorm.DB
	Catalog *catalog.Service
	Issuer  Issuer
	Locks   *keylock.KeyLock
}

func NewTracker(db *gorm.DB, cat *catalog.Service, issuer Issuer, locks *keylock.KeyLock) *Tracker {
	return &Tracker{DB: db, Catalog: cat, Issuer: issuer, Locks: locks}
}

// LessonResult is returned from RecordLessonComplete
type LessonResult struct {
	Enrollment       courseModels.Enrollment `json:"enrollment"`
	AlreadyCompleted bool                    `json:"already_completed"`
	Evaluation       Evaluation              `json:"evaluation"`
}

// QuizSubmissionResult is returned from RecordQuizAttempt
type QuizSubmissionResult struct {
	AttemptNumber int               `json:"attempt_number"`
	Score         int               `json:"score"`
	Passed        bool              `json:"passed"`      // this attempt
	QuizPassed    bool              `json:"quiz_passed"` // best over all attempts
	BestScore     int               `json:"best_score"`
	CanRetake     bool              `json:"can_retake"`
	Breakdown     []AnswerBreakdown `json:"breakdown"`
	Evaluation    Evaluation        `json:"evaluation"`
}

// QuizState summarizes a user's standing on one quiz
type QuizState struct {
	QuizID       uint       `json:"quiz_id"`
	Title        string     `json:"title"`
	PassingScore int        `json:"passing_score"`
	MaxAttempts  int        `json:"max_attempts"`
	AttemptCount int        `json:"attempt_count"`
	BestScore    int        `json:"best_score"`
	Passed       bool       `json:"passed"`
	PassedAt     *time.Time `json:"passed_at"`
	CanRetake    bool       `json:"can_retake"`
}

// Detail is the full progress view served to learners and admin tooling
type Detail struct {
	Enrollment       courseModels.Enrollment         `json:"enrollment"`
	Summary          *catalog.CourseSummary          `json:"course"`
	CompletedLessons []courseModels.LessonCompletion `json:"completed_lessons"`
	Quizzes          []QuizState                     `json:"quizzes"`
	Evaluation       Evaluation                      `json:"evaluation"`
}

// RecordLessonComplete marks a lesson completed. Repeat calls for the same
// lesson update the stored score only and report AlreadyCompleted; the
// completion set never holds duplicates.
func (t *Tracker) RecordLessonComplete(ctx context.Context, userID, courseID, lessonID uint, score *int) (*LessonResult, error) {
	result, shouldIssue, err := t.recordLessonLocked(ctx, userID, courseID, lessonID, score)
	if err != nil {
		return nil, err
	}
	if shouldIssue {
		t.runIssuance(ctx, userID, courseID, &result.Enrollment)
	}
	return result, nil
}

func (t *Tracker) recordLessonLocked(ctx context.Context, userID, courseID, lessonID uint, score *int) (*LessonResult, bool, error) {
	unlock := t.Locks.Lock(userID, courseID)
	defer unlock()

	enrollment, err := t.loadEnrollment(userID, courseID)
	if err != nil {
		return nil, false, err
	}

	if _, err := t.Catalog.Lesson(courseID, lessonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrNotFound
		}
		return nil, false, err
	}

	alreadyCompleted := false
	var completion courseModels.LessonCompletion
	err = t.DB.Where("user_id = ? AND lesson_id = ? AND is_deleted = ?", userID, lessonID, false).
		First(&completion).Error
	switch {
	case err == nil:
		alreadyCompleted = true
		if score != nil {
			completion.Score = score
			if err := t.DB.Save(&completion).Error; err != nil {
				return nil, false, err
			}
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		completion = courseModels.LessonCompletion{
			UserID:      userID,
			LessonID:    lessonID,
			CourseID:    courseID,
			Score:       score,
			CompletedAt: time.Now(),
		}
		if err := t.DB.Create(&completion).Error; err != nil {
			// A concurrent insert for the same pair is the same completion.
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, false, err
			}
			alreadyCompleted = true
		}
	default:
		return nil, false, err
	}

	eval, shouldIssue, err := t.refreshProgress(ctx, t.DB, enrollment)
	if err != nil {
		return nil, false, err
	}

	return &LessonResult{
		Enrollment:       *enrollment,
		AlreadyCompleted: alreadyCompleted,
		Evaluation:       eval,
	}, shouldIssue, nil
}

// RecordQuizAttempt grades a submission and appends the attempt. Attempt
// numbers are assigned in submission order under the enrollment lock, so they
// are never reused or skipped.
func (t *Tracker) RecordQuizAttempt(ctx context.Context, userID, courseID, quizID uint, answers map[uint]string, timeSpentMinutes int64) (*QuizSubmissionResult, error) {
	result, shouldIssue, err := t.recordQuizLocked(ctx, userID, courseID, quizID, answers, timeSpentMinutes)
	if err != nil {
		return nil, err
	}
	if shouldIssue {
		t.runIssuance(ctx, userID, courseID, nil)
	}
	return result, nil
}

func (t *Tracker) recordQuizLocked(ctx context.Context, userID, courseID, quizID uint, answers map[uint]string, timeSpentMinutes int64) (*QuizSubmissionResult, bool, error) {
	unlock := t.Locks.Lock(userID, courseID)
	defer unlock()

	enrollment, err := t.loadEnrollment(userID, courseID)
	if err != nil {
		return nil, false, err
	}

	quiz, questions, err := t.Catalog.QuizWithQuestions(courseID, quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrNotFound
		}
		return nil, false, err
	}

	var state courseModels.QuizProgress
	err = t.DB.Where("user_id = ? AND quiz_id = ? AND is_deleted = ?", userID, quizID, false).
		First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		state = courseModels.QuizProgress{UserID: userID, QuizID: quizID, CourseID: courseID}
	} else if err != nil {
		return nil, false, err
	}

	if quiz.MaxAttempts > 0 && state.AttemptCount >= quiz.MaxAttempts && !state.Passed {
		return nil, false, ErrAttemptLimitExceeded
	}

	grade, err := GradeQuiz(quiz, questions, answers)
	if err != nil {
		return nil, false, err
	}

	attemptNumber := state.AttemptCount + 1
	breakdownJSON, err := json.Marshal(grade.Breakdown)
	if err != nil {
		return nil, false, err
	}

	now := time.Now()
	attempt := courseModels.QuizAttempt{
		UserID:           userID,
		QuizID:           quizID,
		CourseID:         courseID,
		AttemptNumber:    attemptNumber,
		Score:            grade.Score,
		CorrectCount:     grade.CorrectCount,
		TotalQuestions:   grade.TotalQuestions,
		Breakdown:        datatypes.JSON(breakdownJSON),
		TimeSpentMinutes: timeSpentMinutes,
		CompletedAt:      now,
	}
	state.AttemptCount = attemptNumber
	if grade.Score > state.BestScore {
		state.BestScore = grade.Score
	}
	if grade.Passed && !state.Passed {
		state.Passed = true
		state.PassedAt = &now
	}

	if timeSpentMinutes > 0 {
		enrollment.TimeSpentMinutes += timeSpentMinutes
	}

	// The attempt row, the aggregate state and the enrollment refresh are one
	// logical write: a partial failure would leave an orphan attempt whose
	// number gets reused on retry.
	var eval Evaluation
	var shouldIssue bool
	err = t.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&attempt).Error; err != nil {
			return err
		}
		if err := tx.Save(&state).Error; err != nil {
			return err
		}
		var err error
		eval, shouldIssue, err = t.refreshProgress(ctx, tx, enrollment)
		return err
	})
	if err != nil {
		return nil, false, err
	}

	canRetake := state.Passed || quiz.MaxAttempts == 0 || state.AttemptCount < quiz.MaxAttempts

	return &QuizSubmissionResult{
		AttemptNumber: attemptNumber,
		Score:         grade.Score,
		Passed:        grade.Passed,
		QuizPassed:    state.Passed,
		BestScore:     state.BestScore,
		CanRetake:     canRetake,
		Breakdown:     grade.Breakdown,
		Evaluation:    eval,
	}, shouldIssue, nil
}

// AddTimeSpent accumulates study time. The counter never decreases. Like the
// other mutations it re-runs the eligibility check, so a previously failed
// issuance gets retried on the next heartbeat.
func (t *Tracker) AddTimeSpent(ctx context.Context, userID, courseID uint, minutes int64) (*courseModels.Enrollment, error) {
	enrollment, shouldIssue, err := t.addTimeLocked(ctx, userID, courseID, minutes)
	if err != nil {
		return nil, err
	}
	if shouldIssue {
		t.runIssuance(ctx, userID, courseID, enrollment)
	}
	return enrollment, nil
}

func (t *Tracker) addTimeLocked(ctx context.Context, userID, courseID uint, minutes int64) (*courseModels.Enrollment, bool, error) {
	unlock := t.Locks.Lock(userID, courseID)
	defer unlock()

	enrollment, err := t.loadEnrollment(userID, courseID)
	if err != nil {
		return nil, false, err
	}

	if minutes > 0 {
		enrollment.TimeSpentMinutes += minutes
	}

	_, shouldIssue, err := t.refreshProgress(ctx, t.DB, enrollment)
	if err != nil {
		return nil, false, err
	}

	return enrollment, shouldIssue, nil
}

// Detail returns the full progress view with freshly computed eligibility flags
func (t *Tracker) Detail(ctx context.Context, userID, courseID uint) (*Detail, error) {
	enrollment, err := t.loadEnrollment(userID, courseID)
	if err != nil {
		return nil, err
	}

	summary, err := t.Catalog.CourseSummaryFresh(ctx, courseID)
	if err != nil {
		if errors.Is(err, catalog.ErrCourseNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var completions []courseModels.LessonCompletion
	if err := t.DB.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		Order("completed_at asc").Find(&completions).Error; err != nil {
		return nil, err
	}

	quizzes, err := t.Catalog.Quizzes(courseID)
	if err != nil {
		return nil, err
	}

	var passedQuizzes int64
	states := make([]QuizState, len(quizzes))
	for i, quiz := range quizzes {
		var qp courseModels.QuizProgress
		err := t.DB.Where("user_id = ? AND quiz_id = ? AND is_deleted = ?", userID, quiz.ID, false).
			First(&qp).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if qp.Passed {
			passedQuizzes++
		}
		states[i] = QuizState{
			QuizID:       quiz.ID,
			Title:        quiz.Title,
			PassingScore: quiz.PassingScore,
			MaxAttempts:  quiz.MaxAttempts,
			AttemptCount: qp.AttemptCount,
			BestScore:    qp.BestScore,
			Passed:       qp.Passed,
			PassedAt:     qp.PassedAt,
			CanRetake:    qp.Passed || quiz.MaxAttempts == 0 || qp.AttemptCount < quiz.MaxAttempts,
		}
	}

	eval := Evaluate(Snapshot{
		CompletedLessons:  int64(len(completions)),
		TotalLessons:      summary.TotalLessons,
		PassedQuizzes:     passedQuizzes,
		TotalQuizzes:      summary.TotalQuizzes,
		CertificateIssued: enrollment.CertificateIssued,
	})

	return &Detail{
		Enrollment:       *enrollment,
		Summary:          summary,
		CompletedLessons: completions,
		Quizzes:          states,
		Evaluation:       eval,
	}, nil
}

func (t *Tracker) loadEnrollment(userID, courseID uint) (*courseModels.Enrollment, error) {
	var enrollment courseModels.Enrollment
	err := t.DB.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &enrollment, nil
}

// refreshProgress recomputes the derived fields from fresh catalog counts,
// persists the enrollment through db (the caller's handle or transaction), and
// reports whether issuance should run. Must be called with the enrollment lock
// held.
func (t *Tracker) refreshProgress(ctx context.Context, db *gorm.DB, enrollment *courseModels.Enrollment) (Evaluation, bool, error) {
	summary, err := t.Catalog.CourseSummaryFresh(ctx, enrollment.CourseID)
	if err != nil {
		return Evaluation{}, false, err
	}

	var completedLessons int64
	if err := db.Model(&courseModels.LessonCompletion{}).
		Where("user_id = ? AND course_id = ? AND is_deleted = ?", enrollment.UserID, enrollment.CourseID, false).
		Count(&completedLessons).Error; err != nil {
		return Evaluation{}, false, err
	}

	var passedQuizzes int64
	if err := db.Model(&courseModels.QuizProgress{}).
		Where("user_id = ? AND course_id = ? AND passed = ? AND is_deleted = ?", enrollment.UserID, enrollment.CourseID, true, false).
		Count(&passedQuizzes).Error; err != nil {
		return Evaluation{}, false, err
	}

	if summary.TotalLessons > 0 {
		enrollment.Progress = int(math.Round(100 * float64(completedLessons) / float64(summary.TotalLessons)))
	} else {
		enrollment.Progress = 0
	}

	if enrollment.Progress >= 100 {
		enrollment.Status = "COMPLETED"
	} else if enrollment.Progress > 0 || enrollment.TimeSpentMinutes > 0 {
		enrollment.Status = "IN_PROGRESS"
	}

	eval := Evaluate(Snapshot{
		CompletedLessons:  completedLessons,
		TotalLessons:      summary.TotalLessons,
		PassedQuizzes:     passedQuizzes,
		TotalQuizzes:      summary.TotalQuizzes,
		CertificateIssued: enrollment.CertificateIssued,
	})

	if eval.Eligible && !enrollment.IsCompleted {
		now := time.Now()
		enrollment.IsCompleted = true
		enrollment.CompletedAt = &now
	}

	if err := db.Save(enrollment).Error; err != nil {
		return Evaluation{}, false, err
	}

	// Eligible already implies no certificate reference on this record. A
	// previous failed issuance leaves IsCompleted set and re-triggers here.
	return eval, eval.Eligible, nil
}

// runIssuance invokes the certificate issuer after the enrollment lock is
// released. Failures are logged and left retryable: the learner's completion
// state is already durable.
func (t *Tracker) runIssuance(ctx context.Context, userID, courseID uint, enrollment *courseModels.Enrollment) {
	cert, err := t.Issuer.Issue(ctx, userID, courseID)
	if err != nil {
		log.Printf("[PROGRESS] Certificate issuance failed for user=%d course=%d: %v", userID, courseID, err)
		return
	}
	if enrollment != nil {
		enrollment.CertificateIssued = true
		enrollment.CertificateIssuedAt = &cert.IssuedAt
		enrollment.CertificateNumber = cert.CertificateNumber
	}
}
