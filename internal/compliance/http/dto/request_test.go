package dto

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	retentionDomain "github.com/healplus/compliance/internal/retention/domain"
)

func TestSignDocumentRequest_Validate(t *testing.T) {
	validRequest := func() SignDocumentRequest {
		return SignDocumentRequest{
			DocumentID:      "doc-1",
			DocumentType:    "WOUND_ASSESSMENT",
			DocumentContent: "patient record content",
			SignerID:        "dr-123",
			SignerName:      "Dr. Ana Souza",
			SignerLicenseID: "CRM-SP-12345",
		}
	}

	t.Run("Success_ValidRequest", func(t *testing.T) {
		req := validRequest()

		err := req.Validate()
		assert.NoError(t, err)
	})

	t.Run("Success_WithCertificateBundle", func(t *testing.T) {
		req := validRequest()
		req.CertificateBundle = "-----BEGIN CERTIFICATE-----\n...\n-----END CERTIFICATE-----"

		err := req.Validate()
		assert.NoError(t, err)
	})

	t.Run("Error_MissingDocumentID", func(t *testing.T) {
		req := validRequest()
		req.DocumentID = ""

		err := req.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "document_id")
	})

	t.Run("Error_BlankDocumentType", func(t *testing.T) {
		req := validRequest()
		req.DocumentType = "   "

		err := req.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "document_type")
	})

	t.Run("Error_EmptyContent", func(t *testing.T) {
		req := validRequest()
		req.DocumentContent = ""

		err := req.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "document_content")
	})

	t.Run("Error_MissingSignerFields", func(t *testing.T) {
		req := validRequest()
		req.SignerID = ""
		req.SignerName = ""
		req.SignerLicenseID = ""

		err := req.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "signer_id")
		assert.Contains(t, err.Error(), "signer_name")
		assert.Contains(t, err.Error(), "signer_license_id")
	})

	t.Run("Error_DocumentTypeTooLong", func(t *testing.T) {
		req := validRequest()
		req.DocumentType = strings.Repeat("a", 101)

		err := req.Validate()
		assert.Error(t, err)
	})
}

func TestRevokeSignaturesRequest_Validate(t *testing.T) {
	t.Run("Success_ValidReason", func(t *testing.T) {
		req := RevokeSignaturesRequest{Reason: "signer left the institution"}

		err := req.Validate()
		assert.NoError(t, err)
	})

	t.Run("Error_EmptyReason", func(t *testing.T) {
		req := RevokeSignaturesRequest{}

		err := req.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "reason")
	})

	t.Run("Error_BlankReason", func(t *testing.T) {
		req := RevokeSignaturesRequest{Reason: "   "}

		err := req.Validate()
		assert.Error(t, err)
	})

	t.Run("Error_ReasonTooLong", func(t *testing.T) {
		req := RevokeSignaturesRequest{Reason: strings.Repeat("a", 501)}

		err := req.Validate()
		assert.Error(t, err)
	})
}

func TestRegisterRetentionRequest_Validate(t *testing.T) {
	t.Run("Success_MinimalRequest", func(t *testing.T) {
		req := RegisterRetentionRequest{
			EntityType: "WoundAssessment",
			EntityID:   "42",
		}

		err := req.Validate()
		assert.NoError(t, err)
	})

	t.Run("Success_FullRequest", func(t *testing.T) {
		createdAt := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
		req := RegisterRetentionRequest{
			EntityType:    "WoundAssessment",
			EntityID:      "42",
			CreatedAt:     &createdAt,
			RetentionDays: 365,
			LegalBasis:    string(retentionDomain.LegalBasisANVISA),
		}

		err := req.Validate()
		assert.NoError(t, err)
	})

	t.Run("Success_EveryLegalBasis", func(t *testing.T) {
		for _, basis := range []retentionDomain.LegalBasis{
			retentionDomain.LegalBasisLei13787,
			retentionDomain.LegalBasisLGPD,
			retentionDomain.LegalBasisANVISA,
			retentionDomain.LegalBasisMedicalRecords,
			retentionDomain.LegalBasisConsent,
		} {
			req := RegisterRetentionRequest{
				EntityType: "WoundAssessment",
				EntityID:   "42",
				LegalBasis: string(basis),
			}

			err := req.Validate()
			assert.NoError(t, err, "legal basis %s should be accepted", basis)
		}
	})

	t.Run("Error_MissingEntityType", func(t *testing.T) {
		req := RegisterRetentionRequest{EntityID: "42"}

		err := req.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "entity_type")
	})

	t.Run("Error_UnknownLegalBasis", func(t *testing.T) {
		req := RegisterRetentionRequest{
			EntityType: "WoundAssessment",
			EntityID:   "42",
			LegalBasis: "FOLK_CUSTOM",
		}

		err := req.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "legal_basis")
	})

	t.Run("Error_NegativeRetentionDays", func(t *testing.T) {
		req := RegisterRetentionRequest{
			EntityType:    "WoundAssessment",
			EntityID:      "42",
			RetentionDays: -1,
		}

		err := req.Validate()
		assert.Error(t, err)
	})
}

func TestEntityRequest_Validate(t *testing.T) {
	t.Run("Success_ValidRequest", func(t *testing.T) {
		req := EntityRequest{EntityType: "WoundAssessment", EntityID: "42"}

		err := req.Validate()
		assert.NoError(t, err)
	})

	t.Run("Error_MissingEntityType", func(t *testing.T) {
		req := EntityRequest{EntityID: "42"}

		err := req.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "entity_type")
	})

	t.Run("Error_BlankEntityID", func(t *testing.T) {
		req := EntityRequest{EntityType: "WoundAssessment", EntityID: "  "}

		err := req.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "entity_id")
	})
}
