package courseValidator

import (
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// LessonComplete validates the optional body of a lesson completion. An
// empty body is fine, the score is optional.
func LessonComplete() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Score *int `json:"score"`
		})

		if len(c.Body()) > 0 {
			if err := c.BodyParser(reqData); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
		}

		if reqData.Score != nil && (*reqData.Score < 0 || *reqData.Score > 100) {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"score": "Score must be between 0 and 100!",
			})
		}

		c.Locals("validatedLessonComplete", reqData)
		return c.Next()
	}
}

// QuizSubmit validates a quiz submission body
func QuizSubmit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Answers          map[uint]string `json:"answers" validate:"required,min=1"`
			TimeSpentMinutes int64           `json:"time_spent_minutes" validate:"gte=0"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("validatedQuizSubmit", reqData)
		return c.Next()
	}
}

// TimeSpent validates a study-time report body
func TimeSpent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Minutes int64 `json:"minutes"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Minutes <= 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"minutes": "Minutes must be greater than 0!",
			})
		}

		c.Locals("validatedTimeSpent", reqData)
		return c.Next()
	}
}
