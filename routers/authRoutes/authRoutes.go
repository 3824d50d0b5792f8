package authRoutes

import (
	authController "lms/controllers/auth"
	validators "lms/validators/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes sets up the authentication routes
func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/signup", validators.SignUp(), authController.SignUp)
	authGroup.Post("/login", validators.Login(), authController.Login)
}
