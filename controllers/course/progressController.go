package controllers

import (
	"errors"
	"lms/middleware"
	"lms/services/engine"
	"lms/services/progress"

	"github.com/gofiber/fiber/v2"
)

// progressErrorResponse maps service errors to the JSON envelope
func progressErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, progress.ErrNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Record not found!", nil)
	case errors.Is(err, progress.ErrAttemptLimitExceeded):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Maximum attempts reached for this quiz!", nil)
	case errors.Is(err, progress.ErrInvalidQuizDefinition):
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Quiz has no scorable points!", nil)
	case errors.Is(err, progress.ErrNotEligible):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Certification criteria not met!", nil)
	case errors.Is(err, progress.ErrMissingPrerequisite):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Related records could not be resolved!", nil)
	default:
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Something went wrong!", nil)
	}
}

// MarkLessonComplete records a completed lesson for the current user
func MarkLessonComplete(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	lessonID := c.Locals("lessonID").(int)

	reqData, _ := c.Locals("validatedLessonComplete").(*struct {
		Score *int `json:"score"`
	})
	var score *int
	if reqData != nil {
		score = reqData.Score
	}

	result, err := engine.Tracker.RecordLessonComplete(c.Context(), userID, uint(courseID), uint(lessonID), score)
	if err != nil {
		return progressErrorResponse(c, err)
	}

	message := "Lesson marked as completed!"
	if result.AlreadyCompleted {
		message = "Lesson was already completed!"
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, message, result)
}

// SubmitQuizAttempt grades and records a quiz submission
func SubmitQuizAttempt(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	quizID := c.Locals("quizID").(int)

	reqData, ok := c.Locals("validatedQuizSubmit").(*struct {
		Answers          map[uint]string `json:"answers" validate:"required,min=1"`
		TimeSpentMinutes int64           `json:"time_spent_minutes" validate:"gte=0"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	result, err := engine.Tracker.RecordQuizAttempt(c.Context(), userID, uint(courseID), uint(quizID), reqData.Answers, reqData.TimeSpentMinutes)
	if err != nil {
		return progressErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Answer submitted!", result)
}

// AddTimeSpent accumulates study time on the enrollment
func AddTimeSpent(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedTimeSpent").(*struct {
		Minutes int64 `json:"minutes"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	enrollment, err := engine.Tracker.AddTimeSpent(c.Context(), userID, uint(courseID), reqData.Minutes)
	if err != nil {
		return progressErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Time recorded!", enrollment)
}

// GetUserProgress returns the detailed progress view with eligibility flags
func GetUserProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	detail, err := engine.Tracker.Detail(c.Context(), userID, uint(courseID))
	if err != nil {
		return progressErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", detail)
}
