package main

import (
	"fmt"
	"log"
	"time"

	"lms/config"
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/xuri/excelize/v2"
)

// Exports all issued certificates to an xlsx report for the operations
// team. Run from the repo root: go run scripts/exportCertificates.go
func main() {
	// Load config and connect to database
	config.LoadConfig()
	database.ConnectDb()

	var certificates []courseModels.Certificate
	if err := database.Database.Db.Where("is_deleted = ?", false).Order("issued_at asc").Find(&certificates).Error; err != nil {
		log.Fatalf("Failed to fetch certificates: %v", err)
	}

	log.Printf("Total certificates to export: %d", len(certificates))

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Failed to close workbook: %v", err)
		}
	}()

	sheet := "Certificates"
	index, err := f.NewSheet(sheet)
	if err != nil {
		log.Fatalf("Failed to create sheet: %v", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{
		"Certificate Number", "Verification Code", "Student Name", "Student Email",
		"Course", "Instructor", "Final Score", "Time Spent (hours)",
		"Status", "Issued At", "Valid Until",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	exported := 0
	for i, cert := range certificates {
		row := i + 2

		// Email lives on the user row, the snapshot only carries names
		var user models.User
		email := ""
		if err := database.Database.Db.Where("id = ?", cert.UserID).First(&user).Error; err == nil {
			email = user.Email
		}

		validUntil := "Never"
		if cert.ValidUntil != nil {
			validUntil = cert.ValidUntil.Format("2006-01-02")
		}

		values := []interface{}{
			cert.CertificateNumber,
			cert.VerificationCode,
			cert.Snapshot.StudentName,
			email,
			cert.Snapshot.CourseName,
			cert.Snapshot.InstructorName,
			cert.FinalScore,
			cert.TotalTimeSpentHours,
			cert.Status,
			cert.IssuedAt.Format("2006-01-02 15:04:05"),
			validUntil,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			f.SetCellValue(sheet, cell, v)
		}
		exported++
	}

	filename := fmt.Sprintf("certificates_%s.xlsx", time.Now().Format("20060102_150405"))
	if err := f.SaveAs(filename); err != nil {
		log.Fatalf("Failed to save workbook: %v", err)
	}

	log.Printf("Exported %d certificates to %s", exported, filename)
}
