package utils

import (
	"lms/config"
	"log"
	"time"

	"github.com/go-resty/resty/v2"
)

// NotifyCertificateIssued posts the issuance event to the configured webhook
// (badge service, analytics). Fire-and-forget: failures are logged only.
func NotifyCertificateIssued(certificateNumber, verificationCode, studentName, courseName string, issuedAt time.Time) {
	url := config.AppConfig.CertificateWebhookURL
	if url == "" {
		return
	}

	client := resty.New().SetTimeout(10 * time.Second)

	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"event":              "certificate.issued",
			"certificate_number": certificateNumber,
			"verification_code":  verificationCode,
			"student_name":       studentName,
			"course_name":        courseName,
			"issued_at":          issuedAt.UTC().Format(time.RFC3339),
		}).
		Post(url)

	if err != nil {
		log.Printf("[WEBHOOK] Failed to notify certificate %s: %v", certificateNumber, err)
		return
	}
	if resp.StatusCode() >= 400 {
		log.Printf("[WEBHOOK] Certificate %s notification rejected with status %d", certificateNumber, resp.StatusCode())
	}
}
