package certificate

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"lms/models"
	courseModels "lms/models/course"
	"lms/services/catalog"
	"lms/services/keylock"
	"lms/services/progress"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:issuer%d?mode=memory&cache=shared&_busy_timeout=5000", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&courseModels.Course{},
		&courseModels.Lesson{},
		&courseModels.Quiz{},
		&courseModels.QuizQuestion{},
		&courseModels.Enrollment{},
		&courseModels.LessonCompletion{},
		&courseModels.QuizProgress{},
		&courseModels.QuizAttempt{},
		&courseModels.Certificate{},
	))

	return db
}

type issueFixture struct {
	db     *gorm.DB
	issuer *Issuer
	user   models.User
	course courseModels.Course
}

// newEligibleFixture seeds a user who has completed every lesson and passed
// every quiz of a published course, ready for issuance.
func newEligibleFixture(t *testing.T, quizScores ...int) *issueFixture {
	t.Helper()
	db := newTestDB(t)

	user := models.User{Name: "Asha Verma", Email: "asha@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	course := courseModels.Course{
		Title:          "Go Fundamentals",
		InstructorName: "R. Mehta",
		Skills:         "go,testing",
		Status:         "ACTIVE",
		IsPublished:    true,
	}
	require.NoError(t, db.Create(&course).Error)

	lesson := courseModels.Lesson{CourseID: course.ID, Title: "Intro", ContentType: "TEXT", IsPublished: true}
	require.NoError(t, db.Create(&lesson).Error)

	completedAt := time.Now().Add(-time.Hour)
	enrollment := courseModels.Enrollment{
		UserID:           user.ID,
		CourseID:         course.ID,
		Status:           "COMPLETED",
		Progress:         100,
		TimeSpentMinutes: 150,
		IsCompleted:      true,
		CompletedAt:      &completedAt,
	}
	require.NoError(t, db.Create(&enrollment).Error)

	require.NoError(t, db.Create(&courseModels.LessonCompletion{
		UserID:      user.ID,
		LessonID:    lesson.ID,
		CourseID:    course.ID,
		CompletedAt: completedAt,
	}).Error)

	for i, score := range quizScores {
		quiz := courseModels.Quiz{CourseID: course.ID, Title: fmt.Sprintf("Quiz %d", i+1), PassingScore: 60, IsPublished: true}
		require.NoError(t, db.Create(&quiz).Error)
		passedAt := completedAt
		require.NoError(t, db.Create(&courseModels.QuizProgress{
			UserID:       user.ID,
			QuizID:       quiz.ID,
			CourseID:     course.ID,
			AttemptCount: 1,
			BestScore:    score,
			Passed:       true,
			PassedAt:     &passedAt,
		}).Error)
	}

	issuer := NewIssuer(db, catalog.NewService(db, nil), keylock.New())

	return &issueFixture{db: db, issuer: issuer, user: user, course: course}
}

func TestIssueCreatesCertificate(t *testing.T) {
	f := newEligibleFixture(t, 80, 90)

	cert, err := f.issuer.Issue(context.Background(), f.user.ID, f.course.ID)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(cert.CertificateNumber, "CERT-"))
	assert.Len(t, cert.VerificationCode, 16)
	assert.Equal(t, courseModels.CertificateStatusActive, cert.Status)
	assert.Equal(t, 85, cert.FinalScore)
	assert.Equal(t, 3, cert.TotalTimeSpentHours) // 150 minutes rounds to 3 hours
	assert.Equal(t, "Asha Verma", cert.Snapshot.StudentName)
	assert.Equal(t, "Go Fundamentals", cert.Snapshot.CourseName)
	assert.Equal(t, "R. Mehta", cert.Snapshot.InstructorName)
	assert.Equal(t, "go,testing", cert.SkillsEarned)
	assert.Nil(t, cert.ValidUntil)

	var enrollment courseModels.Enrollment
	require.NoError(t, f.db.Where("user_id = ? AND course_id = ?", f.user.ID, f.course.ID).First(&enrollment).Error)
	assert.True(t, enrollment.CertificateIssued)
	assert.Equal(t, cert.CertificateNumber, enrollment.CertificateNumber)
	assert.NotNil(t, enrollment.CertificateIssuedAt)
}

func TestIssueSignatureMatchesPayload(t *testing.T) {
	f := newEligibleFixture(t, 80)

	cert, err := f.issuer.Issue(context.Background(), f.user.ID, f.course.ID)
	require.NoError(t, err)

	var enrollment courseModels.Enrollment
	require.NoError(t, f.db.Where("user_id = ? AND course_id = ?", f.user.ID, f.course.ID).First(&enrollment).Error)
	require.NotNil(t, enrollment.CompletedAt)

	assert.Equal(t, Signature(f.user.ID, f.course.ID, *enrollment.CompletedAt, cert.FinalScore), cert.DigitalSignature)
}

func TestIssueIdempotent(t *testing.T) {
	f := newEligibleFixture(t, 80)
	ctx := context.Background()

	first, err := f.issuer.Issue(ctx, f.user.ID, f.course.ID)
	require.NoError(t, err)

	second, err := f.issuer.Issue(ctx, f.user.ID, f.course.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CertificateNumber, second.CertificateNumber)

	var count int64
	require.NoError(t, f.db.Model(&courseModels.Certificate{}).
		Where("user_id = ? AND course_id = ?", f.user.ID, f.course.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestIssueConcurrentSingleCertificate(t *testing.T) {
	f := newEligibleFixture(t, 80)
	ctx := context.Background()

	const racers = 10
	certs := make([]*courseModels.Certificate, racers)
	errs := make([]error, racers)

	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			certs[i], errs[i] = f.issuer.Issue(ctx, f.user.ID, f.course.ID)
		}(i)
	}
	wg.Wait()

	for i := 0; i < racers; i++ {
		require.NoError(t, errs[i])
		require.NotNil(t, certs[i])
		assert.Equal(t, certs[0].CertificateNumber, certs[i].CertificateNumber)
	}

	var count int64
	require.NoError(t, f.db.Model(&courseModels.Certificate{}).
		Where("user_id = ? AND course_id = ?", f.user.ID, f.course.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestIssueNotEligible(t *testing.T) {
	f := newEligibleFixture(t, 80)

	// Remove the lesson completion: the pair is no longer eligible
	require.NoError(t, f.db.Where("user_id = ?", f.user.ID).Delete(&courseModels.LessonCompletion{}).Error)

	_, err := f.issuer.Issue(context.Background(), f.user.ID, f.course.ID)
	assert.ErrorIs(t, err, progress.ErrNotEligible)

	var count int64
	require.NoError(t, f.db.Model(&courseModels.Certificate{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestIssueUnknownEnrollment(t *testing.T) {
	f := newEligibleFixture(t, 80)

	_, err := f.issuer.Issue(context.Background(), f.user.ID, 9999)
	assert.ErrorIs(t, err, progress.ErrNotFound)
}

func TestIssueFinalScoreWithoutQuizzes(t *testing.T) {
	f := newEligibleFixture(t)

	cert, err := f.issuer.Issue(context.Background(), f.user.ID, f.course.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, cert.FinalScore)
}

func TestIssueFinalScoreIgnoresUnpublishedQuizzes(t *testing.T) {
	f := newEligibleFixture(t, 80)

	// A quiz withdrawn after the learner attempted it leaves a stale progress
	// row behind; it counts toward neither eligibility nor the final score.
	retired := courseModels.Quiz{CourseID: f.course.ID, Title: "Retired", PassingScore: 60, IsPublished: false}
	require.NoError(t, f.db.Create(&retired).Error)
	require.NoError(t, f.db.Create(&courseModels.QuizProgress{
		UserID:       f.user.ID,
		QuizID:       retired.ID,
		CourseID:     f.course.ID,
		AttemptCount: 2,
		BestScore:    20,
	}).Error)

	cert, err := f.issuer.Issue(context.Background(), f.user.ID, f.course.ID)
	require.NoError(t, err)
	assert.Equal(t, 80, cert.FinalScore)
}

func TestIssueValidityWindow(t *testing.T) {
	f := newEligibleFixture(t, 80)
	f.issuer.ValidityYears = 2

	cert, err := f.issuer.Issue(context.Background(), f.user.ID, f.course.ID)
	require.NoError(t, err)

	require.NotNil(t, cert.ValidUntil)
	expected := cert.IssuedAt.AddDate(2, 0, 0)
	assert.WithinDuration(t, expected, *cert.ValidUntil, time.Second)
}

func TestIssueRunsNotify(t *testing.T) {
	f := newEligibleFixture(t, 80)

	notified := make(chan string, 1)
	f.issuer.Notify = func(cert *courseModels.Certificate, user *models.User) {
		notified <- cert.CertificateNumber
	}

	cert, err := f.issuer.Issue(context.Background(), f.user.ID, f.course.ID)
	require.NoError(t, err)

	select {
	case number := <-notified:
		assert.Equal(t, cert.CertificateNumber, number)
	case <-time.After(2 * time.Second):
		t.Fatal("notify hook was never invoked")
	}
}

func TestSignatureDeterministic(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	first := Signature(7, 42, at, 85)
	assert.Equal(t, first, Signature(7, 42, at, 85))
	assert.Len(t, first, 64)

	// Any input change produces a different hash
	assert.NotEqual(t, first, Signature(8, 42, at, 85))
	assert.NotEqual(t, first, Signature(7, 43, at, 85))
	assert.NotEqual(t, first, Signature(7, 42, at.Add(time.Second), 85))
	assert.NotEqual(t, first, Signature(7, 42, at, 86))
}
