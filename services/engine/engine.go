// Package engine wires the progress and certification services over the
// global database handle. Initialized once at startup, after ConnectDb.
package engine

import (
	"lms/config"
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
	"lms/services/catalog"
	"lms/services/certificate"
	"lms/services/keylock"
	"lms/services/progress"
	"lms/utils"
)

var (
	Catalog  *catalog.Service
	Tracker  *progress.Tracker
	Issuer   *certificate.Issuer
	Verifier *certificate.Verifier
)

// Init builds the service graph. The tracker and the issuer share one lock
// table so every mutation and issuance for a (user, course) pair serializes
// on the same key.
func Init() {
	db := database.Database.Db

	cache := catalog.NewCache(config.AppConfig.RedisURL, config.AppConfig.CatalogCacheTTL)
	Catalog = catalog.NewService(db, cache)

	locks := keylock.New()

	Issuer = certificate.NewIssuer(db, Catalog, locks)
	Issuer.ValidityYears = config.AppConfig.CertValidityYears
	Issuer.Notify = func(cert *courseModels.Certificate, user *models.User) {
		utils.SendCertificateEmail(user.Email, user.Name, cert.Snapshot.CourseName,
			cert.CertificateNumber, cert.VerificationCode)
		utils.NotifyCertificateIssued(cert.CertificateNumber, cert.VerificationCode,
			cert.Snapshot.StudentName, cert.Snapshot.CourseName, cert.IssuedAt)
	}

	Tracker = progress.NewTracker(db, Catalog, Issuer, locks)
	Verifier = certificate.NewVerifier(db)
}
