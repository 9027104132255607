package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetentionRecord_Status(t *testing.T) {
	t.Run("Active", func(t *testing.T) {
		record := RetentionRecord{}
		assert.Equal(t, StatusActive, record.Status())
	})

	t.Run("BackedUp", func(t *testing.T) {
		record := RetentionRecord{IsBackedUp: true}
		assert.Equal(t, StatusBackedUp, record.Status())
	})

	t.Run("MarkedForDeletion", func(t *testing.T) {
		record := RetentionRecord{IsBackedUp: true, IsMarkedForDeletion: true}
		assert.Equal(t, StatusMarkedForDeletion, record.Status())
	})

	t.Run("Deleted", func(t *testing.T) {
		record := RetentionRecord{IsBackedUp: true, IsMarkedForDeletion: true, IsDeleted: true}
		assert.Equal(t, StatusDeleted, record.Status())
	})
}

func TestRetentionRecord_Expired(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	record := RetentionRecord{RetentionUntil: now}

	assert.False(t, record.Expired(now))
	assert.True(t, record.Expired(now.Add(time.Second)))
	assert.False(t, record.Expired(now.Add(-time.Second)))
}

func TestRetentionRecord_GraceElapsed(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	grace := 30 * 24 * time.Hour

	t.Run("NotMarked", func(t *testing.T) {
		record := RetentionRecord{}
		assert.False(t, record.GraceElapsed(now, grace))
	})

	t.Run("GraceStillRunning", func(t *testing.T) {
		markedAt := now.Add(-grace).Add(time.Hour)
		record := RetentionRecord{MarkedForDeletionAt: &markedAt}
		assert.False(t, record.GraceElapsed(now, grace))
	})

	t.Run("GraceElapsed", func(t *testing.T) {
		markedAt := now.Add(-grace)
		record := RetentionRecord{MarkedForDeletionAt: &markedAt}
		assert.True(t, record.GraceElapsed(now, grace))
	})
}

func TestIntegrityStatistics_IntegrityPercentage(t *testing.T) {
	assert.Equal(t, 0.0, IntegrityStatistics{}.IntegrityPercentage())
	assert.Equal(t, 50.0, IntegrityStatistics{TotalRecords: 4, VerifiedRecords: 2}.IntegrityPercentage())
	assert.Equal(t, 100.0, IntegrityStatistics{TotalRecords: 3, VerifiedRecords: 3}.IntegrityPercentage())
}
