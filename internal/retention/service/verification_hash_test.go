package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	retentionDomain "github.com/healplus/compliance/internal/retention/domain"
)

func TestVerificationHash(t *testing.T) {
	createdAt := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	record := &retentionDomain.RetentionRecord{
		EntityType:     "WoundAssessment",
		EntityID:       "42",
		CreatedAt:      createdAt,
		RetentionUntil: createdAt.AddDate(0, 0, 2555),
		LegalBasis:     retentionDomain.LegalBasisLei13787,
	}

	hash := VerificationHash(record)
	assert.Len(t, hash, 64)

	t.Run("Deterministic", func(t *testing.T) {
		assert.Equal(t, hash, VerificationHash(record))
	})

	t.Run("TimezoneIndependent", func(t *testing.T) {
		shifted := *record
		shifted.CreatedAt = record.CreatedAt.In(time.FixedZone("BRT", -3*60*60))
		assert.Equal(t, hash, VerificationHash(&shifted))
	})

	t.Run("ChangesWithIdentityFields", func(t *testing.T) {
		changed := *record
		changed.EntityID = "43"
		assert.NotEqual(t, hash, VerificationHash(&changed))

		changed = *record
		changed.RetentionUntil = record.RetentionUntil.Add(time.Hour)
		assert.NotEqual(t, hash, VerificationHash(&changed))

		changed = *record
		changed.LegalBasis = retentionDomain.LegalBasisLGPD
		assert.NotEqual(t, hash, VerificationHash(&changed))
	})

	t.Run("IgnoresMutableState", func(t *testing.T) {
		changed := *record
		changed.IsBackedUp = true
		changed.BackupHash = "abc"
		changed.SpecialHandlingNotes = "notes"
		assert.Equal(t, hash, VerificationHash(&changed))
	})
}
