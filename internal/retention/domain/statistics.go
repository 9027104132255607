package domain

// RetentionStatistics aggregates ledger counts by backup/deletion status.
type RetentionStatistics struct {
	TotalRecords    int64
	BackedUpRecords int64
	PendingDeletion int64
	DeletedRecords  int64
}

// IntegrityStatistics aggregates ledger counts by integrity status.
type IntegrityStatistics struct {
	TotalRecords           int64
	VerifiedRecords        int64
	FailedRecords          int64
	SpecialHandlingRecords int64
}

// IntegrityPercentage is the share of records whose integrity currently
// verifies, as a percentage. Zero when the ledger is empty.
func (s IntegrityStatistics) IntegrityPercentage() float64 {
	if s.TotalRecords == 0 {
		return 0.0
	}
	return float64(s.VerifiedRecords) / float64(s.TotalRecords) * 100.0
}
