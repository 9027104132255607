package domain

import (
	"github.com/healplus/compliance/internal/errors"
)

// Signature-specific error definitions.
var (
	// ErrSignatureNotFound indicates no signature exists for the document.
	ErrSignatureNotFound = errors.Wrap(errors.ErrNotFound, "signature not found")

	// ErrInvalidCertificate indicates the certificate bundle could not be
	// parsed or carries no usable signing key.
	ErrInvalidCertificate = errors.Wrap(errors.ErrInvalidInput, "invalid certificate data")

	// ErrSigningFailed indicates the cryptographic signing step failed.
	ErrSigningFailed = errors.Wrap(errors.ErrInvalidInput, "signing failed")
)
