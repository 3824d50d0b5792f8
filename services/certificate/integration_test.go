package certificate

import (
	"context"
	"fmt"
	"testing"

	"lms/models"
	courseModels "lms/models/course"
	"lms/services/catalog"
	"lms/services/keylock"
	"lms/services/progress"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Drives the path learners actually take: tracker mutations feeding the real
// issuer over one shared lock set, wired the way the engine wires them.
func TestTrackerDrivesRealIssuer(t *testing.T) {
	db := newTestDB(t)

	user := models.User{Name: "Asha Verma", Email: "asha.tracker@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	course := courseModels.Course{
		Title:          "Go Fundamentals",
		InstructorName: "R. Mehta",
		Skills:         "go,testing",
		Status:         "ACTIVE",
		IsPublished:    true,
	}
	require.NoError(t, db.Create(&course).Error)

	lessons := make([]courseModels.Lesson, 2)
	for i := range lessons {
		lessons[i] = courseModels.Lesson{
			CourseID:    course.ID,
			Title:       fmt.Sprintf("Lesson %d", i+1),
			ContentType: "TEXT",
			OrderIndex:  i,
			IsPublished: true,
		}
		require.NoError(t, db.Create(&lessons[i]).Error)
	}

	quiz := courseModels.Quiz{CourseID: course.ID, Title: "Final", PassingScore: 70, MaxAttempts: 3, IsPublished: true}
	require.NoError(t, db.Create(&quiz).Error)
	question := courseModels.QuizQuestion{QuizID: quiz.ID, Prompt: "Question 1", CorrectAnswer: "A", Points: 1}
	require.NoError(t, db.Create(&question).Error)

	require.NoError(t, db.Create(&courseModels.Enrollment{UserID: user.ID, CourseID: course.ID, Status: "ENROLLED"}).Error)

	locks := keylock.New()
	cat := catalog.NewService(db, nil)
	issuer := NewIssuer(db, cat, locks)
	tracker := progress.NewTracker(db, cat, issuer, locks)
	ctx := context.Background()

	for _, lesson := range lessons {
		_, err := tracker.RecordLessonComplete(ctx, user.ID, course.ID, lesson.ID, nil)
		require.NoError(t, err)
	}

	// A failed attempt leaves the pair ineligible and nothing issued
	failed, err := tracker.RecordQuizAttempt(ctx, user.ID, course.ID, quiz.ID, map[uint]string{question.ID: "Z"}, 30)
	require.NoError(t, err)
	assert.False(t, failed.Passed)

	var count int64
	require.NoError(t, db.Model(&courseModels.Certificate{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	// The passing attempt completes the course and issues for real
	passed, err := tracker.RecordQuizAttempt(ctx, user.ID, course.ID, quiz.ID, map[uint]string{question.ID: "A"}, 30)
	require.NoError(t, err)
	assert.True(t, passed.Passed)
	assert.True(t, passed.Evaluation.Eligible)

	var cert courseModels.Certificate
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&cert).Error)
	assert.Equal(t, 100, cert.FinalScore)
	assert.Equal(t, courseModels.CertificateStatusActive, cert.Status)
	assert.Equal(t, "Asha Verma", cert.Snapshot.StudentName)
	assert.Equal(t, "Go Fundamentals", cert.Snapshot.CourseName)
	assert.Equal(t, 1, cert.TotalTimeSpentHours) // 60 minutes over both attempts

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	assert.True(t, enrollment.CertificateIssued)
	assert.Equal(t, cert.CertificateNumber, enrollment.CertificateNumber)
	assert.NotNil(t, enrollment.CertificateIssuedAt)

	require.NoError(t, db.Model(&courseModels.Certificate{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
