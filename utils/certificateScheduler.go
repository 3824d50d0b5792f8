package utils

import (
	"lms/database"
	courseModels "lms/models/course"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// InitializeCertificateScheduler sets up the certificate expiry scheduler
func InitializeCertificateScheduler() {
	log.Println("[CERT-SCHEDULER] Initializing certificate scheduler...")

	c := cron.New()

	// Run daily at 2 AM to expire certificates past their validity window
	c.AddFunc("0 2 * * *", func() {
		log.Println("[CERT-SCHEDULER] Running daily certificate expiry check...")
		ExpireCertificates()
	})

	c.Start()
	log.Println("[CERT-SCHEDULER] Certificate scheduler started - runs daily at 2 AM")
}

// ExpireCertificates marks ACTIVE certificates past their ValidUntil as EXPIRED
func ExpireCertificates() {
	db := database.Database.Db
	now := time.Now()

	result := db.Model(&courseModels.Certificate{}).
		Where("status = ? AND valid_until IS NOT NULL AND valid_until < ? AND is_deleted = false",
			courseModels.CertificateStatusActive, now).
		Update("status", courseModels.CertificateStatusExpired)

	if result.Error != nil {
		log.Printf("[CERT-SCHEDULER] Error expiring certificates: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("[CERT-SCHEDULER] Expired %d certificates", result.RowsAffected)
	}
}
