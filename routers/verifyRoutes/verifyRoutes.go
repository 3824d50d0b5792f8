package verifyRoutes

import (
	controllers "lms/controllers/course"

	"github.com/gofiber/fiber/v2"
)

// SetupVerifyRoutes sets up the public certificate verification routes.
// No authentication: employers and third parties hit these directly.
func SetupVerifyRoutes(app *fiber.App) {
	verifyGroup := app.Group("/verify")

	verifyGroup.Get("/code/:code", controllers.VerifyCertificateByCode)
	verifyGroup.Get("/certificate/:number", controllers.VerifyCertificateByNumber)
}
