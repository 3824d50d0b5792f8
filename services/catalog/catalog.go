// Package catalog is the read side of the course catalog: published lessons,
// quizzes with their questions, and per-course totals. Summaries are served
// through a pull-through Redis cache with a TTL per key; reads that feed
// eligibility decisions use the Fresh variants and bypass it.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	courseModels "lms/models/course"

	"gorm.io/gorm"
)

// ErrCourseNotFound is returned when the course does not exist or is not published.
var ErrCourseNotFound = errors.New("course not found")

// Service reads course catalog data
type Service struct {
	DB    *gorm.DB
	Cache *Cache
}

func NewService(db *gorm.DB, cache *Cache) *Service {
	return &Service{DB: db, Cache: cache}
}

// CourseSummary carries the catalog data the progress engine consumes
type CourseSummary struct {
	CourseID       uint   `json:"course_id"`
	Title          string `json:"title"`
	InstructorName string `json:"instructor_name"`
	Skills         string `json:"skills"`
	Duration       int64  `json:"duration"`
	TotalLessons   int64  `json:"total_lessons"`
	TotalQuizzes   int64  `json:"total_quizzes"`
}

func summaryKey(courseID uint) string {
	return fmt.Sprintf("catalog:summary:%d", courseID)
}

// CourseSummary returns the summary, served from cache when possible
func (s *Service) CourseSummary(ctx context.Context, courseID uint) (*CourseSummary, error) {
	if raw, ok := s.Cache.get(ctx, summaryKey(courseID)); ok {
		var summary CourseSummary
		if err := json.Unmarshal([]byte(raw), &summary); err == nil {
			return &summary, nil
		}
	}

	summary, err := s.loadSummary(courseID)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(summary); err == nil {
		s.Cache.set(ctx, summaryKey(courseID), string(raw))
	}
	return summary, nil
}

// CourseSummaryFresh bypasses the cache. Eligibility evaluation must never
// see stale lesson/quiz counts.
func (s *Service) CourseSummaryFresh(ctx context.Context, courseID uint) (*CourseSummary, error) {
	return s.loadSummary(courseID)
}

// Invalidate drops the cached summary after a catalog write
func (s *Service) Invalidate(ctx context.Context, courseID uint) {
	s.Cache.del(ctx, summaryKey(courseID))
}

func (s *Service) loadSummary(courseID uint) (*CourseSummary, error) {
	var course courseModels.Course
	if err := s.DB.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	var totalLessons int64
	if err := s.DB.Model(&courseModels.Lesson{}).
		Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).
		Count(&totalLessons).Error; err != nil {
		return nil, err
	}

	var totalQuizzes int64
	if err := s.DB.Model(&courseModels.Quiz{}).
		Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).
		Count(&totalQuizzes).Error; err != nil {
		return nil, err
	}

	return &CourseSummary{
		CourseID:       course.ID,
		Title:          course.Title,
		InstructorName: course.InstructorName,
		Skills:         course.Skills,
		Duration:       course.Duration,
		TotalLessons:   totalLessons,
		TotalQuizzes:   totalQuizzes,
	}, nil
}

// Lesson returns one published lesson of a course
func (s *Service) Lesson(courseID, lessonID uint) (*courseModels.Lesson, error) {
	var lesson courseModels.Lesson
	err := s.DB.Where("id = ? AND course_id = ? AND is_deleted = ? AND is_published = ?",
		lessonID, courseID, false, true).First(&lesson).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &lesson, nil
}

// Lessons returns the published lessons of a course in order
func (s *Service) Lessons(courseID uint) ([]courseModels.Lesson, error) {
	var lessons []courseModels.Lesson
	err := s.DB.Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).
		Order("order_index asc").Find(&lessons).Error
	return lessons, err
}

// Quizzes returns the published quizzes of a course in order
func (s *Service) Quizzes(courseID uint) ([]courseModels.Quiz, error) {
	var quizzes []courseModels.Quiz
	err := s.DB.Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).
		Order("order_index asc").Find(&quizzes).Error
	return quizzes, err
}

// QuizWithQuestions returns one published quiz and its question list
func (s *Service) QuizWithQuestions(courseID, quizID uint) (*courseModels.Quiz, []courseModels.QuizQuestion, error) {
	var quiz courseModels.Quiz
	err := s.DB.Where("id = ? AND course_id = ? AND is_deleted = ? AND is_published = ?",
		quizID, courseID, false, true).First(&quiz).Error
	if err != nil {
		return nil, nil, err
	}

	var questions []courseModels.QuizQuestion
	err = s.DB.Where("quiz_id = ? AND is_deleted = ?", quizID, false).
		Order("order_index asc").Find(&questions).Error
	if err != nil {
		return nil, nil, err
	}

	return &quiz, questions, nil
}
