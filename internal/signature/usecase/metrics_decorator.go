package usecase

import (
	"context"
	"time"

	"github.com/healplus/compliance/internal/metrics"
	signatureDomain "github.com/healplus/compliance/internal/signature/domain"
)

// signatureUseCaseWithMetrics decorates SignatureUseCase with metrics instrumentation.
type signatureUseCaseWithMetrics struct {
	next    SignatureUseCase
	metrics metrics.BusinessMetrics
}

// NewSignatureUseCaseWithMetrics wraps a SignatureUseCase with metrics recording.
func NewSignatureUseCaseWithMetrics(useCase SignatureUseCase, m metrics.BusinessMetrics) SignatureUseCase {
	return &signatureUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (s *signatureUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	s.metrics.RecordOperation(ctx, "signature", operation, status)
	s.metrics.RecordDuration(ctx, "signature", operation, time.Since(start), status)
}

// Sign records metrics for signing operations.
func (s *signatureUseCaseWithMetrics) Sign(
	ctx context.Context,
	req SignRequest,
) (*signatureDomain.DigitalSignature, error) {
	start := time.Now()
	sig, err := s.next.Sign(ctx, req)
	s.record(ctx, "sign", start, err)
	return sig, err
}

// Verify records metrics for verification attempts.
func (s *signatureUseCaseWithMetrics) Verify(
	ctx context.Context,
	documentID string,
	documentContent []byte,
) (*VerifyResult, error) {
	start := time.Now()
	result, err := s.next.Verify(ctx, documentID, documentContent)
	s.record(ctx, "verify", start, err)
	return result, err
}

// Revoke records metrics for revocations.
func (s *signatureUseCaseWithMetrics) Revoke(ctx context.Context, documentID, reason string) error {
	start := time.Now()
	err := s.next.Revoke(ctx, documentID, reason)
	s.record(ctx, "revoke", start, err)
	return err
}

// ListByDocument records metrics for signature listings.
func (s *signatureUseCaseWithMetrics) ListByDocument(
	ctx context.Context,
	documentID string,
) ([]*signatureDomain.DigitalSignature, error) {
	start := time.Now()
	sigs, err := s.next.ListByDocument(ctx, documentID)
	s.record(ctx, "list_by_document", start, err)
	return sigs, err
}

// IsDocumentSigned records metrics for signed-status checks.
func (s *signatureUseCaseWithMetrics) IsDocumentSigned(ctx context.Context, documentID string) (bool, error) {
	start := time.Now()
	signed, err := s.next.IsDocumentSigned(ctx, documentID)
	s.record(ctx, "is_document_signed", start, err)
	return signed, err
}
