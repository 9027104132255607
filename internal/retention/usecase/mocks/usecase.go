// Package mocks provides mock implementations for testing the retention use
// case.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	retentionDomain "github.com/healplus/compliance/internal/retention/domain"
)

// MockRetentionRepository is a mock implementation of RetentionRepository for testing.
type MockRetentionRepository struct {
	mock.Mock
}

// Create mocks the Create method of RetentionRepository.
func (m *MockRetentionRepository) Create(ctx context.Context, record *retentionDomain.RetentionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// Update mocks the Update method of RetentionRepository.
func (m *MockRetentionRepository) Update(ctx context.Context, record *retentionDomain.RetentionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// GetByEntity mocks the GetByEntity method of RetentionRepository.
func (m *MockRetentionRepository) GetByEntity(
	ctx context.Context,
	entityType, entityID string,
) (*retentionDomain.RetentionRecord, error) {
	args := m.Called(ctx, entityType, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*retentionDomain.RetentionRecord), args.Error(1)
}

// ExistsActive mocks the ExistsActive method of RetentionRepository.
func (m *MockRetentionRepository) ExistsActive(ctx context.Context, entityType, entityID string) (bool, error) {
	args := m.Called(ctx, entityType, entityID)
	return args.Bool(0), args.Error(1)
}

// FindPendingBackup mocks the FindPendingBackup method of RetentionRepository.
func (m *MockRetentionRepository) FindPendingBackup(ctx context.Context) ([]*retentionDomain.RetentionRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*retentionDomain.RetentionRecord), args.Error(1)
}

// FindExpiredReadyForDeletion mocks the FindExpiredReadyForDeletion method of RetentionRepository.
func (m *MockRetentionRepository) FindExpiredReadyForDeletion(
	ctx context.Context,
	now time.Time,
) ([]*retentionDomain.RetentionRecord, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*retentionDomain.RetentionRecord), args.Error(1)
}

// FindMarkedBefore mocks the FindMarkedBefore method of RetentionRepository.
func (m *MockRetentionRepository) FindMarkedBefore(
	ctx context.Context,
	threshold time.Time,
) ([]*retentionDomain.RetentionRecord, error) {
	args := m.Called(ctx, threshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*retentionDomain.RetentionRecord), args.Error(1)
}

// FindNeedingVerification mocks the FindNeedingVerification method of RetentionRepository.
func (m *MockRetentionRepository) FindNeedingVerification(
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

// RetentionStatistics mocks the RetentionStatistics method of RetentionRepository.
func (m *MockRetentionRepository) RetentionStatistics(ctx context.Context) (*retentionDomain.RetentionStatistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*retentionDomain.RetentionStatistics), args.Error(1)
}

// IntegrityStatistics mocks the IntegrityStatistics method of RetentionRepository.
func (m *MockRetentionRepository) IntegrityStatistics(ctx context.Context) (*retentionDomain.IntegrityStatistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*retentionDomain.IntegrityStatistics), args.Error(1)
}

// MockRecordBackuper is a mock implementation of RecordBackuper for testing.
type MockRecordBackuper struct {
	mock.Mock
}

// BackupRecord mocks the BackupRecord method of RecordBackuper.
func (m *MockRecordBackuper) BackupRecord(ctx context.Context, record *retentionDomain.RetentionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// MockRecordVerifier is a mock implementation of RecordVerifier for testing.
type MockRecordVerifier struct {
	mock.Mock
}

// VerifyRecord mocks the VerifyRecord method of RecordVerifier.
func (m *MockRecordVerifier) VerifyRecord(ctx context.Context, record *retentionDomain.RetentionRecord) (bool, error) {
	args := m.Called(ctx, record)
	return args.Bool(0), args.Error(1)
}
