package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up all admin course management routes
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/course")

	// Course management
	adminGroup.Post("/create", middleware.JWTMiddleware, middleware.AdminOnly, validators.CreateCourseAdmin(), controllers.AdminCreateCourse)
	adminGroup.Post("/:id/publish", middleware.JWTMiddleware, middleware.AdminOnly, validators.CourseID(), controllers.AdminPublishCourse)

	// Content management
	adminGroup.Post("/:id/lesson", middleware.JWTMiddleware, middleware.AdminOnly, validators.CourseID(), validators.AddLessonAdmin(), controllers.AdminAddLesson)
	adminGroup.Post("/:id/quiz", middleware.JWTMiddleware, middleware.AdminOnly, validators.CourseID(), validators.AddQuizAdmin(), controllers.AdminAddQuiz)

	// Certificate management
	certGroup := app.Group("/admin/certificates")
	certGroup.Get("/issued", middleware.JWTMiddleware, middleware.AdminOnly, validators.CourseList(), controllers.AdminGetIssuedCertificates)
	certGroup.Post("/generate", middleware.JWTMiddleware, middleware.AdminOnly, validators.GenerateCertificateAdmin(), controllers.AdminGenerateCertificate)
	certGroup.Post("/:certId/revoke", middleware.JWTMiddleware, middleware.AdminOnly, validators.CertificateID(), controllers.AdminRevokeCertificate)
}
