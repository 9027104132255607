package service

import (
	"fmt"
	"time"

	"github.com/healplus/compliance/internal/crypto"
	retentionDomain "github.com/healplus/compliance/internal/retention/domain"
)

// VerificationHash computes the integrity fingerprint of a ledger row: a
// SHA-256 digest over the immutable identity fields. Any later drift in these
// fields (storage corruption, manual tampering) changes the fingerprint and
// fails the integrity check.
func VerificationHash(record *retentionDomain.RetentionRecord) string {
	canonical := fmt.Sprintf(
		"%s_%s_%s_%s_%s",
		record.EntityType,
		record.EntityID,
		record.CreatedAt.UTC().Format(time.RFC3339Nano),
		record.RetentionUntil.UTC().Format(time.RFC3339Nano),
		record.LegalBasis,
	)
	return crypto.DigestHex([]byte(canonical))
}
