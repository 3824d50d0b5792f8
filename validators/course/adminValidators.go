package courseValidator

import (
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// ============ Course Validators ============

// CreateCourseAdmin validates admin course creation request
func CreateCourseAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title          string `json:"title" validate:"required,min=3,max=255"`
			Description    string `json:"description" validate:"required"`
			InstructorName string `json:"instructor_name" validate:"required"`
			Duration       int64  `json:"duration" validate:"gte=0"`
			Skills         string `json:"skills"`
			ThumbnailURL   string `json:"thumbnail_url"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("validatedCreateCourse", reqData)
		return c.Next()
	}
}

// AddLessonAdmin validates admin lesson creation request
func AddLessonAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string `json:"title" validate:"required,min=3,max=255"`
			Description string `json:"description"`
			ContentType string `json:"content_type" validate:"required,oneof=TEXT VIDEO"`
			TextContent string `json:"text_content"`
			VideoURL    string `json:"video_url"`
			OrderIndex  int    `json:"order_index" validate:"gte=0"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		// Content must match the declared type
		errors := make(map[string]string)
		if reqData.ContentType == "TEXT" && reqData.TextContent == "" {
			errors["text_content"] = "Text content is required for TEXT lessons!"
		}
		if reqData.ContentType == "VIDEO" && reqData.VideoURL == "" {
			errors["video_url"] = "Video URL is required for VIDEO lessons!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAddLesson", reqData)
		return c.Next()
	}
}

// AddQuizAdmin validates admin quiz creation request including questions
func AddQuizAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
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

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		// A quiz where every question is worth zero can never be graded
		totalPoints := 0
		for _, q := range reqData.Questions {
			totalPoints += q.Points
		}
		if totalPoints == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"questions": "At least one question must have points!",
			})
		}

		c.Locals("validatedAddQuiz", reqData)
		return c.Next()
	}
}

// ============ Certificate Validators ============

// GenerateCertificateAdmin validates the manual issuance request
func GenerateCertificateAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			UserID   uint `json:"user_id" validate:"required"`
			CourseID uint `json:"course_id" validate:"required"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("validatedGenerateCert", reqData)
		return c.Next()
	}
}
