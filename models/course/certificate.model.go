package course

import (
	"time"

	"gorm.io/gorm"
)

// Certificate status values
const (
	CertificateStatusActive  = "ACTIVE"
	CertificateStatusRevoked = "REVOKED"
	CertificateStatusExpired = "EXPIRED"
)

// IssueSnapshot holds display names copied from the live records at issuance
// time. Certificates are historical documents: these fields are never
// refreshed when the user or course is later renamed.
type IssueSnapshot struct {
	StudentName    string `json:"student_name"`
	CourseName     string `json:"course_name"`
	InstructorName string `json:"instructor_name"`
}

// Certificate represents an issued certificate for course completion.
// Created exactly once per (user, course) pair; immutable afterwards except
// for administrative revocation and scheduled expiry.
type Certificate struct {
	gorm.Model
	UserID   uint `json:"user_id" gorm:"not null;uniqueIndex:idx_certificates_user_course"`
	CourseID uint `json:"course_id" gorm:"not null;uniqueIndex:idx_certificates_user_course"`

	CertificateNumber string `json:"certificate_number" gorm:"uniqueIndex;not null"`
	VerificationCode  string `json:"verification_code" gorm:"uniqueIndex;not null"`

	// SHA-256 over user, course, completion time and final score. Tamper
	// evidence for exported records, not a key-based signature.
	DigitalSignature string `json:"digital_signature" gorm:"not null"`

	Snapshot IssueSnapshot `json:"snapshot" gorm:"embedded"`

	FinalScore          int    `json:"final_score"` // 0-100
	TotalTimeSpentHours int    `json:"total_time_spent_hours"`
	SkillsEarned        string `json:"skills_earned"`

	Status     string     `json:"status" gorm:"default:'ACTIVE'"` // ACTIVE, REVOKED, EXPIRED
	IssuedAt   time.Time  `json:"issued_at"`
	ValidUntil *time.Time `json:"valid_until"` // nil means never expires
	IsDeleted  bool       `gorm:"default:false"`
}
