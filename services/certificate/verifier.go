package certificate

import (
	"errors"
	"time"

	courseModels "lms/models/course"

	"gorm.io/gorm"
)

// PublicCertificate is the display-safe subset served on the unauthenticated
// verification pages. No internal row identifiers beyond the certificate
// number itself.
type PublicCertificate struct {
	CertificateNumber   string     `json:"certificate_number"`
	StudentName         string     `json:"student_name"`
	CourseName          string     `json:"course_name"`
	InstructorName      string     `json:"instructor_name"`
	FinalScore          int        `json:"final_score"`
	TotalTimeSpentHours int        `json:"total_time_spent_hours"`
	SkillsEarned        string     `json:"skills_earned"`
	Status              string     `json:"status"`
	IssuedAt            time.Time  `json:"issued_at"`
	ValidUntil          *time.Time `json:"valid_until"`
}

// VerificationResult is returned from public lookups. A fabricated or
// unknown code yields Valid=false with no certificate payload.
type VerificationResult struct {
	Valid       bool               `json:"valid"`
	Certificate *PublicCertificate `json:"certificate"`
}

// Verifier is the public read path over issued certificates
type Verifier struct {
	DB *gorm.DB
}

func NewVerifier(db *gorm.DB) *Verifier {
	return &Verifier{DB: db}
}

// IsValid reports whether a certificate is currently valid
func IsValid(cert *courseModels.Certificate, now time.Time) bool {
	if cert.Status != courseModels.CertificateStatusActive {
		return false
	}
	if cert.ValidUntil != nil && now.After(*cert.ValidUntil) {
		return false
	}
	return true
}

// VerifyByCode looks up a certificate by its shareable verification code
func (v *Verifier) VerifyByCode(code string) (*VerificationResult, error) {
	return v.verify("verification_code = ?", code)
}

// VerifyByNumber looks up a certificate by its certificate number, for
// direct-link display
func (v *Verifier) VerifyByNumber(number string) (*VerificationResult, error) {
	return v.verify("certificate_number = ?", number)
}

func (v *Verifier) verify(query string, arg string) (*VerificationResult, error) {
	var cert courseModels.Certificate
	err := v.DB.Where(query, arg).Where("is_deleted = ?", false).First(&cert).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &VerificationResult{Valid: false}, nil
		}
		return nil, err
	}

	return &VerificationResult{
		Valid:       IsValid(&cert, time.Now()),
		Certificate: publicView(&cert),
	}, nil
}

func publicView(cert *courseModels.Certificate) *PublicCertificate {
	return &PublicCertificate{
		CertificateNumber:   cert.CertificateNumber,
		StudentName:         cert.Snapshot.StudentName,
		CourseName:          cert.Snapshot.CourseName,
		InstructorName:      cert.Snapshot.InstructorName,
		FinalScore:          cert.FinalScore,
		TotalTimeSpentHours: cert.TotalTimeSpentHours,
		SkillsEarned:        cert.SkillsEarned,
		Status:              cert.Status,
		IssuedAt:            cert.IssuedAt,
		ValidUntil:          cert.ValidUntil,
	}
}
