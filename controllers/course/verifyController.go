package controllers

import (
	"lms/middleware"
	"lms/services/engine"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// VerifyCertificateByCode is the public verification lookup by shareable
// code. Intentionally unauthenticated: third parties verify without login.
func VerifyCertificateByCode(c *fiber.Ctx) error {
	code := strings.TrimSpace(c.Params("code"))
	if code == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Verification code is required!", nil)
	}

	result, err := engine.Verifier.VerifyByCode(code)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Verification failed!", nil)
	}

	if !result.Valid && result.Certificate == nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "No certificate found for this code.", result)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate verification result.", result)
}

// VerifyCertificateByNumber is the public lookup by certificate number, for
// direct-link display
func VerifyCertificateByNumber(c *fiber.Ctx) error {
	number := strings.TrimSpace(c.Params("number"))
	if number == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Certificate number is required!", nil)
	}

	result, err := engine.Verifier.VerifyByNumber(number)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Verification failed!", nil)
	}

	if !result.Valid && result.Certificate == nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "No certificate found for this number.", result)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate verification result.", result)
}
