// Package mocks provides hand-written mocks for the compliance HTTP handler
// dependencies.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/healplus/compliance/internal/backup"
	retentionDomain "github.com/healplus/compliance/internal/retention/domain"
	retentionUseCase "github.com/healplus/compliance/internal/retention/usecase"
	signatureDomain "github.com/healplus/compliance/internal/signature/domain"
	signatureUseCase "github.com/healplus/compliance/internal/signature/usecase"
)

// MockSignatureUseCase is a mock implementation of SignatureUseCase.
type MockSignatureUseCase struct {
	mock.Mock
}

// Sign mocks the Sign method of SignatureUseCase.
func (m *MockSignatureUseCase) Sign(
	ctx context.Context,
	req signatureUseCase.SignRequest,
) (*signatureDomain.DigitalSignature, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*signatureDomain.DigitalSignature), args.Error(1)
}

// Verify mocks the Verify method of SignatureUseCase.
func (m *MockSignatureUseCase) Verify(
	ctx context.Context,
	documentID string,
	documentContent []byte,
) (*signatureUseCase.VerifyResult, error) {
	args := m.Called(ctx, documentID, documentContent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*signatureUseCase.VerifyResult), args.Error(1)
}

// Revoke mocks the Revoke method of SignatureUseCase.
func (m *MockSignatureUseCase) Revoke(ctx context.Context, documentID, reason string) error {
	args := m.Called(ctx, documentID, reason)
	return args.Error(0)
}

// ListByDocument mocks the ListByDocument method of SignatureUseCase.
func (m *MockSignatureUseCase) ListByDocument(
	ctx context.Context,
	documentID string,
) ([]*signatureDomain.DigitalSignature, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*signatureDomain.DigitalSignature), args.Error(1)
}

// IsDocumentSigned mocks the IsDocumentSigned method of SignatureUseCase.
func (m *MockSignatureUseCase) IsDocumentSigned(ctx context.Context, documentID string) (bool, error) {
	args := m.Called(ctx, documentID)
	return args.Bool(0), args.Error(1)
}

// MockRetentionUseCase is a mock implementation of RetentionUseCase.
type MockRetentionUseCase struct {
	mock.Mock
}

// Register mocks the Register method of RetentionUseCase.
func (m *MockRetentionUseCase) Register(
	ctx context.Context,
	req retentionUseCase.RegisterRequest,
) (*retentionDomain.RetentionRecord, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*retentionDomain.RetentionRecord), args.Error(1)
}

// GetByEntity mocks the GetByEntity method of RetentionUseCase.
func (m *MockRetentionUseCase) GetByEntity(
	ctx context.Context,
	entityType, entityID string,
) (*retentionDomain.RetentionRecord, error) {
	args := m.Called(ctx, entityType, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*retentionDomain.RetentionRecord), args.Error(1)
}

// ForceBackup mocks the ForceBackup method of RetentionUseCase.
func (m *MockRetentionUseCase) ForceBackup(
	ctx context.Context,
	entityType, entityID string,
) (*retentionDomain.RetentionRecord, error) {
	args := m.Called(ctx, entityType, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*retentionDomain.RetentionRecord), args.Error(1)
}

// ForceVerify mocks the ForceVerify method of RetentionUseCase.
func (m *MockRetentionUseCase) ForceVerify(
	ctx context.Context,
	entityType, entityID string,
) (*retentionDomain.RetentionRecord, error) {
	args := m.Called(ctx, entityType, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*retentionDomain.RetentionRecord), args.Error(1)
}

// Statistics mocks the Statistics method of RetentionUseCase.
func (m *MockRetentionUseCase) Statistics(ctx context.Context) (*retentionUseCase.Statistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*retentionUseCase.Statistics), args.Error(1)
}

// MockArchiveLister is a mock implementation of ArchiveLister.
type MockArchiveLister struct {
	mock.Mock
}

// ListBackups mocks the ListBackups method of ArchiveLister.
func (m *MockArchiveLister) ListBackups(ctx context.Context) ([]backup.ArchiveInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]backup.ArchiveInfo), args.Error(1)
}
