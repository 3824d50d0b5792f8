package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCertificateNumberFormat(t *testing.T) {
	number := GenerateCertificateNumber()

	parts := strings.Split(number, "-")
	assert.Len(t, parts, 3)
	assert.Equal(t, "CERT", parts[0])
	assert.NotEmpty(t, parts[1])
	assert.Len(t, parts[2], 4)
	assert.Equal(t, strings.ToUpper(number), number)
}

func TestGenerateCertificateNumberSuffixVaries(t *testing.T) {
	suffixes := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		parts := strings.Split(GenerateCertificateNumber(), "-")
		suffixes[parts[2]] = true
	}

	// 1000 draws over a 32^4 space collide only occasionally; back-to-back
	// calls collapsing onto one suffix would show up here.
	assert.Greater(t, len(suffixes), 900)
}

func TestGenerateVerificationCodeFormat(t *testing.T) {
	code := GenerateVerificationCode()

	assert.Len(t, code, 16)
	assert.Equal(t, strings.ToUpper(code), code)
	assert.NotContains(t, code, "-")
}

func TestGenerateVerificationCodeUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		code := GenerateVerificationCode()
		assert.False(t, seen[code], "verification code %s repeated", code)
		seen[code] = true
	}
}
