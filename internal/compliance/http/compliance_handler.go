package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/healplus/compliance/internal/backup"
	"github.com/healplus/compliance/internal/compliance/http/dto"
	"github.com/healplus/compliance/internal/httputil"
	retentionDomain "github.com/healplus/compliance/internal/retention/domain"
	retentionUseCase "github.com/healplus/compliance/internal/retention/usecase"
	signatureUseCase "github.com/healplus/compliance/internal/signature/usecase"
	customValidation "github.com/healplus/compliance/internal/validation"
)

// ArchiveLister lists the stored backup archives.
type ArchiveLister interface {
	ListBackups(ctx context.Context) ([]backup.ArchiveInfo, error)
}

// ComplianceHandler handles HTTP requests for the compliance API.
type ComplianceHandler struct {
	signatures signatureUseCase.SignatureUseCase
	retention  retentionUseCase.RetentionUseCase
	archives   ArchiveLister
	logger     *slog.Logger
	now        func() time.Time
}

// NewComplianceHandler creates a compliance handler with required dependencies.
func NewComplianceHandler(
	signatures signatureUseCase.SignatureUseCase,
	retention retentionUseCase.RetentionUseCase,
	archives ArchiveLister,
	logger *slog.Logger,
) *ComplianceHandler {
	return &ComplianceHandler{
		signatures: signatures,
		retention:  retention,
		archives:   archives,
		logger:     logger,
		now:        time.Now,
	}
}

// RegisterRoutes wires the compliance endpoints onto the given route group.
// The group must already run ActorMiddleware.
func (h *ComplianceHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/sign", RequireRole(h.logger, RoleClinician, RoleAdmin), h.SignHandler)
	group.GET("/verify/:documentId", h.VerifyHandler)
	group.GET("/signatures/:documentId", h.ListSignaturesHandler)
	group.GET("/signatures/:documentId/signed", h.SignedStatusHandler)
	group.POST("/signatures/:documentId/revoke", RequireRole(h.logger, RoleAdmin), h.RevokeHandler)

	group.POST("/retention/register", RequireRole(h.logger, RoleClinician, RoleAdmin), h.RegisterRetentionHandler)
	group.GET("/retention/:entityType/:entityId", h.GetRetentionHandler)

	group.POST("/backup/create", RequireRole(h.logger, RoleAdmin), h.CreateBackupHandler)
	group.POST("/integrity/verify", RequireRole(h.logger, RoleAdmin), h.VerifyIntegrityHandler)

	group.GET("/statistics", h.StatisticsHandler)
	group.GET("/backups", RequireRole(h.logger, RoleAdmin), h.ListBackupsHandler)
}

// SignHandler signs a document and appends the signature to the ledger.
// POST /v1/compliance/sign - requires the clinician or admin role.
func (h *ComplianceHandler) SignHandler(c *gin.Context) {
	var req dto.SignDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	sig, err := h.signatures.Sign(c.Request.Context(), signatureUseCase.SignRequest{
		DocumentID:        req.DocumentID,
		DocumentType:      req.DocumentType,
		DocumentContent:   []byte(req.DocumentContent),
		SignerID:          req.SignerID,
		SignerName:        req.SignerName,
		SignerLicenseID:   req.SignerLicenseID,
		CertificateBundle: []byte(req.CertificateBundle),
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapSignatureToResponse(sig, h.now().UTC()))
}

// VerifyHandler verifies the most recent signature for a document against the
// supplied content and persists the outcome.
// GET /v1/compliance/verify/:documentId?documentContent=...
func (h *ComplianceHandler) VerifyHandler(c *gin.Context) {
	documentID := c.Param("documentId")
	content, ok := c.GetQuery("documentContent")
	if !ok {
		// Accepted for callers using the snake_case form of the other fields.
		content, ok = c.GetQuery("document_content")
	}
	if !ok {
		httputil.HandleValidationErrorGin(
			c,
			fmt.Errorf("documentContent query parameter is required"),
			h.logger,
		)
		return
	}

	result, err := h.signatures.Verify(c.Request.Context(), documentID, []byte(content))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	resp := dto.VerifyResponse{
		DocumentID: documentID,
		Valid:      result.Valid,
		Status:     string(result.Status),
		Notes:      result.Notes,
	}
	if result.Signature != nil {
		sig := dto.MapSignatureToResponse(result.Signature, h.now().UTC())
		resp.Signature = &sig
	}
	c.JSON(http.StatusOK, resp)
}

// ListSignaturesHandler returns every signature for a document, newest first.
// GET /v1/compliance/signatures/:documentId
func (h *ComplianceHandler) ListSignaturesHandler(c *gin.Context) {
	documentID := c.Param("documentId")

	sigs, err := h.signatures.ListByDocument(c.Request.Context(), documentID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"signatures": dto.MapSignaturesToResponse(sigs, h.now().UTC())})
}

// SignedStatusHandler reports whether a document carries a valid signature.
// GET /v1/compliance/signatures/:documentId/signed
func (h *ComplianceHandler) SignedStatusHandler(c *gin.Context) {
	documentID := c.Param("documentId")

	signed, err := h.signatures.IsDocumentSigned(c.Request.Context(), documentID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.SignedStatusResponse{DocumentID: documentID, Signed: signed})
}

// RevokeHandler invalidates every signature on a document.
// POST /v1/compliance/signatures/:documentId/revoke - requires the admin role.
func (h *ComplianceHandler) RevokeHandler(c *gin.Context) {
	documentID := c.Param("documentId")

	var req dto.RevokeSignaturesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.signatures.Revoke(c.Request.Context(), documentID, req.Reason); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// RegisterRetentionHandler places an entity under retention.
// POST /v1/compliance/retention/register - requires the clinician or admin role.
func (h *ComplianceHandler) RegisterRetentionHandler(c *gin.Context) {
	var req dto.RegisterRetentionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	ucReq := retentionUseCase.RegisterRequest{
		EntityType:    req.EntityType,
		EntityID:      req.EntityID,
		RetentionDays: req.RetentionDays,
		LegalBasis:    retentionDomain.LegalBasis(req.LegalBasis),
	}
	if req.CreatedAt != nil {
		ucReq.CreatedAt = *req.CreatedAt
	}

	record, err := h.retention.Register(c.Request.Context(), ucReq)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapRecordToRegisterResponse(record))
}

// GetRetentionHandler returns the most recent ledger row for an entity.
// GET /v1/compliance/retention/:entityType/:entityId
func (h *ComplianceHandler) GetRetentionHandler(c *gin.Context) {
	record, err := h.retention.GetByEntity(
		c.Request.Context(),
		c.Param("entityType"),
		c.Param("entityId"),
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRetentionRecordToResponse(record))
}

// CreateBackupHandler forces an immediate backup of an entity.
// POST /v1/compliance/backup/create - requires the admin role.
func (h *ComplianceHandler) CreateBackupHandler(c *gin.Context) {
	var req dto.EntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	record, err := h.retention.ForceBackup(c.Request.Context(), req.EntityType, req.EntityID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRetentionRecordToResponse(record))
}

// VerifyIntegrityHandler forces an immediate integrity check of an entity.
// POST /v1/compliance/integrity/verify - requires the admin role.
func (h *ComplianceHandler) VerifyIntegrityHandler(c *gin.Context) {
	var req dto.EntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	record, err := h.retention.ForceVerify(c.Request.Context(), req.EntityType, req.EntityID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRetentionRecordToResponse(record))
}

// StatisticsHandler returns retention, integrity and backup aggregates. The
// backup section is best-effort: a failing archive store drops the section
// rather than failing the whole response.
// GET /v1/compliance/statistics
func (h *ComplianceHandler) StatisticsHandler(c *gin.Context) {
	stats, err := h.retention.Statistics(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	resp := dto.MapStatisticsToResponse(stats)
	infos, err := h.archives.ListBackups(c.Request.Context())
	if err != nil {
		h.logger.Warn("failed to list archives for statistics",
			slog.String("error", err.Error()),
		)
	} else {
		resp.Backups = dto.MapArchivesToStatistics(infos)
	}

	c.JSON(http.StatusOK, resp)
}

// ListBackupsHandler lists the stored backup archives, newest first.
// GET /v1/compliance/backups - requires the admin role.
func (h *ComplianceHandler) ListBackupsHandler(c *gin.Context) {
	infos, err := h.archives.ListBackups(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"backups": dto.MapArchivesToResponse(infos)})
}
