package controllers

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	"lms/services/engine"
	"time"

	"github.com/gofiber/fiber/v2"
)

// AdminGenerateCertificate issues a certificate for a learner on demand.
// Goes through the same issuance path as automatic completion, so the
// eligibility rules and the one-certificate-per-enrollment guarantee hold.
func AdminGenerateCertificate(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedGenerateCert").(*struct {
		UserID   uint `json:"user_id" validate:"required"`
		CourseID uint `json:"course_id" validate:"required"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	cert, err := engine.Issuer.Issue(c.Context(), reqData.UserID, reqData.CourseID)
	if err != nil {
		return progressErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate generated successfully!", cert)
}

// AdminRevokeCertificate marks an issued certificate as revoked
func AdminRevokeCertificate(c *fiber.Ctx) error {
	certID := c.Locals("certificateID").(int)

	var cert courseModels.Certificate
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", certID, false).First(&cert).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
	}

	if cert.Status == courseModels.CertificateStatusRevoked {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Certificate is already revoked!", nil)
	}

	cert.Status = courseModels.CertificateStatusRevoked
	if err := database.Database.Db.Save(&cert).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to revoke certificate!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate revoked successfully!", cert)
}

// AdminGetIssuedCertificates lists issued certificates with pagination
func AdminGetIssuedCertificates(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedList").(*struct {
		Page  *int `json:"page"`
		Limit *int `json:"limit"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	page := *reqData.Page
	limit := *reqData.Limit
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&courseModels.Certificate{}).Where("is_deleted = ?", false)

	if status := c.Query("status"); status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	db.Count(&total)

	var certificates []courseModels.Certificate
	if err := db.Offset(offset).Limit(limit).Order("issued_at desc").Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates": certificates,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
		"generated_at": time.Now().UTC(),
	})
}
