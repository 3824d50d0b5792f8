// Package certificate issues and verifies course completion certificates.
// Issuance is at-most-once per (user, course) pair: the enrollment lock
// serializes in-process attempts and the unique index on (user_id, course_id)
// resolves anything that still races across processes.
package certificate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"lms/models"
	courseModels "lms/models/course"
	"lms/services/catalog"
	"lms/services/keylock"
	"lms/services/progress"
	"lms/utils"

	"gorm.io/gorm"
)

const issueRetries = 3

// Issuer creates certificate records for eligible enrollments
type Issuer struct {
	DB            *gorm.DB
	Catalog       *catalog.Service
	Locks         *keylock.KeyLock
	ValidityYears int // 0 means issued certificates never expire

	// Notify, when set, runs after a successful issuance (email, webhook).
	// Failures there never affect the issued record.
	Notify func(cert *courseModels.Certificate, user *models.User)
}

func NewIssuer(db *gorm.DB, cat *catalog.Service, locks *keylock.KeyLock) *Issuer {
	return &Issuer{DB: db, Catalog: cat, Locks: locks}
}

// Signature computes the tamper-evidence hash stored on a certificate:
// SHA-256 over the user, course, completion time and final score. Detects
// post-hoc edits of exported records; this is not a key-based signature.
func Signature(userID, courseID uint, completedAt time.Time, finalScore int) string {
	payload := fmt.Sprintf("%d|%d|%s|%d", userID, courseID, completedAt.UTC().Format(time.RFC3339), finalScore)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// Issue creates the certificate for an eligible (user, course) pair, or
// returns the already-issued one. Callers losing a concurrent race receive
// the winner's certificate, not an error.
func (i *Issuer) Issue(ctx context.Context, userID, courseID uint) (*courseModels.Certificate, error) {
	unlock := i.Locks.Lock(userID, courseID)
	defer unlock()

	var existing courseModels.Certificate
	err := i.DB.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var enrollment courseModels.Enrollment
	err = i.DB.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, progress.ErrNotFound
		}
		return nil, err
	}

	summary, err := i.Catalog.CourseSummaryFresh(ctx, courseID)
	if err != nil {
		if errors.Is(err, catalog.ErrCourseNotFound) {
			return nil, progress.ErrMissingPrerequisite
		}
		return nil, err
	}

	eval, err := i.evaluate(userID, courseID, summary)
	if err != nil {
		return nil, err
	}
	if !eval.Eligible {
		return nil, progress.ErrNotEligible
	}

	var user models.User
	if err := i.DB.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, progress.ErrMissingPrerequisite
		}
		return nil, err
	}

	now := time.Now()
	completedAt := now
	if enrollment.CompletedAt != nil {
		completedAt = *enrollment.CompletedAt
	}

	finalScore, err := i.finalScore(userID, courseID, summary)
	if err != nil {
		return nil, err
	}

	totalHours := int(math.Round(float64(enrollment.TimeSpentMinutes) / 60))

	var validUntil *time.Time
	if i.ValidityYears > 0 {
		expiry := now.AddDate(i.ValidityYears, 0, 0)
		validUntil = &expiry
	}

	for attempt := 0; attempt < issueRetries; attempt++ {
		cert := courseModels.Certificate{
			UserID:            userID,
			CourseID:          courseID,
			CertificateNumber: utils.GenerateCertificateNumber(),
			VerificationCode:  utils.GenerateVerificationCode(),
			DigitalSignature:  Signature(userID, courseID, completedAt, finalScore),
			Snapshot: courseModels.IssueSnapshot{
				StudentName:    user.Name,
				CourseName:     summary.Title,
				InstructorName: summary.InstructorName,
			},
			FinalScore:          finalScore,
			TotalTimeSpentHours: totalHours,
			SkillsEarned:        summary.Skills,
			Status:              courseModels.CertificateStatusActive,
			IssuedAt:            now,
			ValidUntil:          validUntil,
		}

		// Certificate creation and the enrollment's certificate reference
		// are the two halves of one logical operation.
		err := i.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&cert).Error; err != nil {
				return err
			}
			return tx.Model(&courseModels.Enrollment{}).
				Where("id = ?", enrollment.ID).
				Updates(map[string]interface{}{
					"certificate_issued":    true,
					"certificate_issued_at": now,
					"certificate_number":    cert.CertificateNumber,
					"is_completed":          true,
					"completed_at":          completedAt,
				}).Error
		})

		if err == nil {
			log.Printf("[ISSUER] Issued certificate %s for user=%d course=%d", cert.CertificateNumber, userID, courseID)
			if i.Notify != nil {
				go i.Notify(&cert, &user)
			}
			return &cert, nil
		}

		if !isDuplicateErr(err) {
			log.Printf("[ISSUER] Issuance failed for user=%d course=%d: %v", userID, courseID, err)
			return nil, err
		}

		// Unique violation: either another writer issued for this pair, or a
		// generated number/code collided globally.
		var winner courseModels.Certificate
		lookupErr := i.DB.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
			First(&winner).Error
		if lookupErr == nil {
			return &winner, nil
		}
		if !errors.Is(lookupErr, gorm.ErrRecordNotFound) {
			return nil, lookupErr
		}
		// Token collision: regenerate and retry.
	}

	return nil, fmt.Errorf("certificate number collision persisted for user=%d course=%d", userID, courseID)
}

func (i *Issuer) evaluate(userID, courseID uint, summary *catalog.CourseSummary) (progress.Evaluation, error) {
	var completedLessons int64
	if err := i.DB.Model(&courseModels.LessonCompletion{}).
		Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		Count(&completedLessons).Error; err != nil {
		return progress.Evaluation{}, err
	}

	var passedQuizzes int64
	if err := i.DB.Model(&courseModels.QuizProgress{}).
		Where("user_id = ? AND course_id = ? AND passed = ? AND is_deleted = ?", userID, courseID, true, false).
		Count(&passedQuizzes).Error; err != nil {
		return progress.Evaluation{}, err
	}

	// No certificate row exists at this point, so the issued flag is false
	// here even if the enrollment carries a stale reference.
	return progress.Evaluate(progress.Snapshot{
		CompletedLessons: completedLessons,
		TotalLessons:     summary.TotalLessons,
		PassedQuizzes:    passedQuizzes,
		TotalQuizzes:     summary.TotalQuizzes,
	}), nil
}

// finalScore averages the best score across the course's published quizzes. A
// course with no quizzes scores 100 (kept from the original grading behavior).
func (i *Issuer) finalScore(userID, courseID uint, summary *catalog.CourseSummary) (int, error) {
	if summary.TotalQuizzes == 0 {
		return 100, nil
	}

	// Stale progress rows for since-unpublished quizzes must not drag the
	// average; only quizzes that counted toward eligibility count here.
	quizzes, err := i.Catalog.Quizzes(courseID)
	if err != nil {
		return 0, err
	}
	quizIDs := make([]uint, len(quizzes))
	for n, q := range quizzes {
		quizIDs[n] = q.ID
	}

	var states []courseModels.QuizProgress
	if err := i.DB.Where("user_id = ? AND course_id = ? AND quiz_id IN ? AND is_deleted = ?", userID, courseID, quizIDs, false).
		Find(&states).Error; err != nil {
		return 0, err
	}
	if len(states) == 0 {
		return 0, progress.ErrNotEligible
	}

	total := 0
	for _, s := range states {
		total += s.BestScore
	}
	return int(math.Round(float64(total) / float64(len(states)))), nil
}

// isDuplicateErr recognizes unique-constraint violations. TranslateError
// maps them to gorm.ErrDuplicatedKey on both postgres and sqlite; the string
// checks cover drivers that slip through untranslated.
func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}
