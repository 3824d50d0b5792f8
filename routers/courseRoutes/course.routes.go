package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all user-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	userGroup := app.Group("/course")

	// Course listing and details (published courses only)
	userGroup.Get("/list", middleware.JWTMiddleware, validators.CourseList(), controllers.GetAllCourses)
	userGroup.Get("/:id", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseDetails)

	// Enrollment
	userGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.CourseID(), controllers.EnrollInCourse)
	userGroup.Get("/enrollments/list", middleware.JWTMiddleware, controllers.GetUserEnrollmentsList)

	// Progress tracking
	userGroup.Post("/:id/lesson/:lessonId/complete", middleware.JWTMiddleware, validators.CourseID(), validators.LessonID(), validators.LessonComplete(), controllers.MarkLessonComplete)
	userGroup.Post("/:id/quiz/:quizId/submit", middleware.JWTMiddleware, validators.CourseID(), validators.QuizID(), validators.QuizSubmit(), controllers.SubmitQuizAttempt)
	userGroup.Post("/:id/time", middleware.JWTMiddleware, validators.CourseID(), validators.TimeSpent(), controllers.AddTimeSpent)
	userGroup.Get("/:id/progress", middleware.JWTMiddleware, validators.CourseID(), controllers.GetUserProgress)

	// Certificates earned by the current user
	certGroup := app.Group("/certificates")
	certGroup.Get("/list", middleware.JWTMiddleware, controllers.GetUserCertificates)
}
