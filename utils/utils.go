package utils

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const certNumberAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateCertificateNumber builds a human-legible certificate number from a
// timestamp token plus a random suffix, e.g. CERT-M1A2B3C4-X7KQ. The suffix
// comes from the shared package-level source so same-instant calls still
// differ. Global uniqueness is enforced by the database; collisions are
// regenerated.
func GenerateCertificateNumber() string {
	token := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))

	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = certNumberAlphabet[rand.Intn(len(certNumberAlphabet))]
	}

	return fmt.Sprintf("CERT-%s-%s", token, suffix)
}

// GenerateVerificationCode builds the shareable lookup code, independent of
// the certificate number
func GenerateVerificationCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:16])
}
