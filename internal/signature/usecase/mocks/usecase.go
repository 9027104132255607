// Package mocks provides mock implementations for testing the signature use
// case.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	signatureDomain "github.com/healplus/compliance/internal/signature/domain"
	signatureService "github.com/healplus/compliance/internal/signature/service"
)

// MockSignatureRepository is a mock implementation of SignatureRepository for testing.
type MockSignatureRepository struct {
	mock.Mock
}

// Create mocks the Create method of SignatureRepository.
func (m *MockSignatureRepository) Create(ctx context.Context, sig *signatureDomain.DigitalSignature) error {
	args := m.Called(ctx, sig)
	return args.Error(0)
}

// UpdateVerification mocks the UpdateVerification method of SignatureRepository.
func (m *MockSignatureRepository) UpdateVerification(ctx context.Context, sig *signatureDomain.DigitalSignature) error {
	args := m.Called(ctx, sig)
	return args.Error(0)
}

// GetLatestByDocument mocks the GetLatestByDocument method of SignatureRepository.
func (m *MockSignatureRepository) GetLatestByDocument(
	ctx context.Context,
	documentID string,
) (*signatureDomain.DigitalSignature, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*signatureDomain.DigitalSignature), args.Error(1)
}

// ListByDocument mocks the ListByDocument method of SignatureRepository.
func (m *MockSignatureRepository) ListByDocument(
	ctx context.Context,
	documentID string,
) ([]*signatureDomain.DigitalSignature, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*signatureDomain.DigitalSignature), args.Error(1)
}

// ExistsValidByDocument mocks the ExistsValidByDocument method of SignatureRepository.
func (m *MockSignatureRepository) ExistsValidByDocument(ctx context.Context, documentID string) (bool, error) {
	args := m.Called(ctx, documentID)
	return args.Bool(0), args.Error(1)
}

// MockDocumentSigner is a mock implementation of DocumentSigner for testing.
type MockDocumentSigner struct {
	mock.Mock
}

// ParseBundle mocks the ParseBundle method of DocumentSigner.
func (m *MockDocumentSigner) ParseBundle(pemData []byte) (*signatureService.Bundle, error) {
	args := m.Called(pemData)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*signatureService.Bundle), args.Error(1)
}

// Sign mocks the Sign method of DocumentSigner.
func (m *MockDocumentSigner) Sign(content []byte, bundle *signatureService.Bundle) (string, string, error) {
	args := m.Called(content, bundle)
	return args.String(0), args.String(1), args.Error(2)
}

// Verify mocks the Verify method of DocumentSigner.
func (m *MockDocumentSigner) Verify(content []byte, signature string, bundle *signatureService.Bundle) (bool, error) {
	args := m.Called(content, signature, bundle)
	return args.Bool(0), args.Error(1)
}

// GenerateBundle mocks the GenerateBundle method of DocumentSigner.
func (m *MockDocumentSigner) GenerateBundle(
	signerName, licenseID string,
	validFrom time.Time,
	validity time.Duration,
) ([]byte, error) {
	args := m.Called(signerName, licenseID, validFrom, validity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
