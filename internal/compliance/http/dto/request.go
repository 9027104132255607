// Package dto provides data transfer objects for the compliance API.
package dto

import (
	"time"

	validation "github.com/jellydator/validation"

	retentionDomain "github.com/healplus/compliance/internal/retention/domain"
	customValidation "github.com/healplus/compliance/internal/validation"
)

// SignDocumentRequest contains the parameters for signing a document.
type SignDocumentRequest struct {
	DocumentID      string `json:"document_id"`
	DocumentType    string `json:"document_type"`
	DocumentContent string `json:"document_content"`
	SignerID        string `json:"signer_id"`
	SignerName      string `json:"signer_name"`
	SignerLicenseID string `json:"signer_license_id"`
	// CertificateBundle is an optional PEM bundle (certificate plus EC
	// private key). When omitted a signing credential is provisioned.
	CertificateBundle string `json:"certificate_bundle,omitempty"`
}

// Validate checks if the sign request is valid.
func (r *SignDocumentRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.DocumentID, validation.Required, customValidation.NotBlank, validation.Length(1, 255)),
		validation.Field(&r.DocumentType, validation.Required, customValidation.NotBlank, validation.Length(1, 100)),
		validation.Field(&r.DocumentContent, validation.Required),
		validation.Field(&r.SignerID, validation.Required, customValidation.NotBlank, validation.Length(1, 255)),
		validation.Field(&r.SignerName, validation.Required, customValidation.NotBlank, validation.Length(1, 255)),
		validation.Field(&r.SignerLicenseID, validation.Required, customValidation.NotBlank, validation.Length(1, 100)),
	)
}

// RevokeSignaturesRequest contains the parameters for revoking every
// signature on a document.
type RevokeSignaturesRequest struct {
	Reason string `json:"reason"`
}

// Validate checks if the revoke request is valid.
func (r *RevokeSignaturesRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Reason, validation.Required, customValidation.NotBlank, validation.Length(1, 500)),
	)
}

// RegisterRetentionRequest contains the parameters for placing an entity
// under retention.
type RegisterRetentionRequest struct {
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	// CreatedAt is when the underlying record was created; defaults to now.
	CreatedAt *time.Time `json:"created_at,omitempty"`
	// RetentionDays overrides the configured default when positive.
	RetentionDays int `json:"retention_days,omitempty"`
	// LegalBasis overrides the default statute when present.
	LegalBasis string `json:"legal_basis,omitempty"`
}

// Validate checks if the register request is valid.
func (r *RegisterRetentionRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.EntityType, validation.Required, customValidation.NotBlank, validation.Length(1, 100)),
		validation.Field(&r.EntityID, validation.Required, customValidation.NotBlank, validation.Length(1, 255)),
		validation.Field(&r.RetentionDays, validation.Min(0)),
		validation.Field(&r.LegalBasis, customValidation.OneOf(
			string(retentionDomain.LegalBasisLei13787),
			string(retentionDomain.LegalBasisLGPD),
			string(retentionDomain.LegalBasisANVISA),
			string(retentionDomain.LegalBasisMedicalRecords),
			string(retentionDomain.LegalBasisConsent),
		)),
	)
}

// EntityRequest identifies a tracked entity, used by the forced backup and
// forced verification endpoints.
type EntityRequest struct {
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
}

// Validate checks if the entity request is valid.
func (r *EntityRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.EntityType, validation.Required, customValidation.NotBlank, validation.Length(1, 100)),
		validation.Field(&r.EntityID, validation.Required, customValidation.NotBlank, validation.Length(1, 255)),
	)
}
