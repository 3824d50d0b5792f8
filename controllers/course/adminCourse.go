package controllers

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	"lms/services/engine"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminCreateCourse creates a new course in DRAFT status
func AdminCreateCourse(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCreateCourse").(*struct {
		Title          string `json:"title" validate:"required,min=3,max=255"`
		Description    string `json:"description" validate:"required"`
		InstructorName string `json:"instructor_name" validate:"required"`
		Duration       int64  `json:"duration" validate:"gte=0"`
		Skills         string `json:"skills"`
		ThumbnailURL   string `json:"thumbnail_url"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course := courseModels.Course{
		Title:          reqData.Title,
		Description:    reqData.Description,
		InstructorName: reqData.InstructorName,
		Duration:       reqData.Duration,
		Skills:         reqData.Skills,
		ThumbnailURL:   reqData.ThumbnailURL,
		Status:         "DRAFT",
	}

	if err := database.Database.Db.Create(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course created successfully!", course)
}

// AdminPublishCourse flips a course to ACTIVE and published
func AdminPublishCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	course.Status = "ACTIVE"
	course.IsPublished = true
	if err := database.Database.Db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to publish course!", nil)
	}

	// lesson/quiz counts change what learners see
	engine.Catalog.Invalidate(c.Context(), course.ID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course published successfully!", course)
}

// AdminAddLesson adds a lesson to an existing course
func AdminAddLesson(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedAddLesson").(*struct {
		Title       string `json:"title" validate:"required,min=3,max=255"`
		Description string `json:"description"`
		ContentType string `json:"content_type" validate:"required,oneof=TEXT VIDEO"`
		TextContent string `json:"text_content"`
		VideoURL    string `json:"video_url"`
		OrderIndex  int    `json:"order_index" validate:"gte=0"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	lesson := courseModels.Lesson{
		CourseID:    course.ID,
		Title:       reqData.Title,
		Description: reqData.Description,
		ContentType: reqData.ContentType,
		TextContent: reqData.TextContent,
		VideoURL:    reqData.VideoURL,
		OrderIndex:  reqData.OrderIndex,
		IsPublished: true,
	}

	if err := database.Database.Db.Create(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add lesson!", nil)
	}

	engine.Catalog.Invalidate(c.Context(), course.ID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson added successfully!", lesson)
}

// AdminAddQuiz adds a quiz with its questions to an existing course
func AdminAddQuiz(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedAddQuiz").(*struct {
		Title        string `json:"title" validate:"required,min=3,max=255"`
		PassingScore int    `json:"passing_score" validate:"gte=0,lte=100"`
		MaxAttempts  int    `json:"max_attempts" validate:"gte=0"`
		OrderIndex   int    `json:"order_index" validate:"gte=0"`
		Questions    []struct {
			Prompt        string `json:"prompt" validate:"required"`
			CorrectAnswer string `json:"correct_answer" validate:"required"`
			Points        int    `json:"points" validate:"gte=0"`
			OrderIndex    int    `json:"order_index" validate:"gte=0"`
		} `json:"questions" validate:"required,min=1,dive"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	quiz := courseModels.Quiz{
		CourseID:     course.ID,
		Title:        reqData.Title,
		PassingScore: reqData.PassingScore,
		MaxAttempts:  reqData.MaxAttempts,
		OrderIndex:   reqData.OrderIndex,
		IsPublished:  true,
	}

	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&quiz).Error; err != nil {
			return err
		}
		for _, q := range reqData.Questions {
			question := courseModels.QuizQuestion{
				QuizID:        quiz.ID,
				Prompt:        q.Prompt,
				CorrectAnswer: q.CorrectAnswer,
				Points:        q.Points,
				OrderIndex:    q.OrderIndex,
			}
			if err := tx.Create(&question).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add quiz!", nil)
	}

	engine.Catalog.Invalidate(c.Context(), course.ID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz added successfully!", fiber.Map{
		"quiz":            quiz,
		"total_questions": len(reqData.Questions),
	})
}
