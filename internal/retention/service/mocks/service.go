// Package mocks provides mock implementations for testing the lifecycle
// sweeps.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/healplus/compliance/internal/backup"
	retentionDomain "github.com/healplus/compliance/internal/retention/domain"
)

// MockLedger is a mock implementation of Ledger for testing.
type MockLedger struct {
	mock.Mock
}

// Update mocks the Update method of Ledger.
func (m *MockLedger) Update(ctx context.Context, record *retentionDomain.RetentionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// FindPendingBackup mocks the FindPendingBackup method of Ledger.
func (m *MockLedger) FindPendingBackup(ctx context.Context) ([]*retentionDomain.RetentionRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*retentionDomain.RetentionRecord), args.Error(1)
}

// FindExpiredReadyForDeletion mocks the FindExpiredReadyForDeletion method of Ledger.
func (m *MockLedger) FindExpiredReadyForDeletion(
	ctx context.Context,
	now time.Time,
) ([]*retentionDomain.RetentionRecord, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*retentionDomain.RetentionRecord), args.Error(1)
}

// FindMarkedBefore mocks the FindMarkedBefore method of Ledger.
func (m *MockLedger) FindMarkedBefore(
	ctx context.Context,
	threshold time.Time,
) ([]*retentionDomain.RetentionRecord, error) {
	args := m.Called(ctx, threshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*retentionDomain.RetentionRecord), args.Error(1)
}

// FindNeedingVerification mocks the FindNeedingVerification method of Ledger.
func (m *MockLedger) FindNeedingVerification(
	ctx context.Context,
	cutoff time.Time,
	limit int,
) ([]*retentionDomain.RetentionRecord, error) {
	args := m.Called(ctx, cutoff, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*retentionDomain.RetentionRecord), args.Error(1)
}

// MockBackupArchiver is a mock implementation of BackupArchiver for testing.
type MockBackupArchiver struct {
	mock.Mock
}

// CreateBackup mocks the CreateBackup method of BackupArchiver.
func (m *MockBackupArchiver) CreateBackup(
	ctx context.Context,
	record *retentionDomain.RetentionRecord,
) (*backup.Result, error) {
	args := m.Called(ctx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*backup.Result), args.Error(1)
}

// VerifyIntegrity mocks the VerifyIntegrity method of BackupArchiver.
func (m *MockBackupArchiver) VerifyIntegrity(ctx context.Context, location, expectedHash string) (bool, error) {
	args := m.Called(ctx, location, expectedHash)
	return args.Bool(0), args.Error(1)
}

// MockEntityRemover is a mock implementation of EntityRemover for testing.
type MockEntityRemover struct {
	mock.Mock
}

// Delete mocks the Delete method of EntityRemover.
func (m *MockEntityRemover) Delete(ctx context.Context, entityType, entityID, deletedBy string) error {
	args := m.Called(ctx, entityType, entityID, deletedBy)
	return args.Error(0)
}
