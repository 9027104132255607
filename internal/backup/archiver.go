// Package backup builds, stores and verifies backup archives for entities
// tracked by the retention ledger. Archives are zip files carrying the backup
// metadata, the entity snapshot and an audit-log excerpt, written to a
// portable blob bucket with a sibling hash object for integrity checks.
package backup

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	"gocloud.dev/blob"

	"github.com/healplus/compliance/internal/crypto"
	"github.com/healplus/compliance/internal/entity"
	apperrors "github.com/healplus/compliance/internal/errors"
	"github.com/healplus/compliance/internal/retention/domain"
)

const (
	metadataFileName  = "backup_metadata.json"
	entityFileName    = "entity_data.json"
	auditLogsFileName = "audit_logs.json"

	hashSuffix      = ".hash"
	archiveSuffix   = ".zip"
	encryptedSuffix = ".zip.enc"
)

// Source provides the entity payloads included in an archive.
type Source interface {
	Snapshot(ctx context.Context, entityType, entityID string) ([]byte, error)
	AuditExcerpt(ctx context.Context, entityType, entityID string) ([]byte, error)
}

// Result describes a stored archive.
type Result struct {
	Location  string
	Hash      string
	SizeBytes int64
	CreatedAt time.Time
	Encrypted bool
}

// ArchiveInfo describes a stored archive listed from the bucket. Path is the
// full bucket key; Name is its base component.
type ArchiveInfo struct {
	Name         string
	Path         string
	SizeBytes    int64
	LastModified time.Time
}

// metadata is the manifest written into every archive.
type metadata struct {
	EntityType     string    `json:"entityType"`
	EntityID       string    `json:"entityId"`
	RetentionID    string    `json:"retentionId"`
	LegalBasis     string    `json:"legalBasis"`
	RetentionUntil time.Time `json:"retentionUntil"`
	BackupAt       time.Time `json:"backupAt"`
	FormatVersion  int       `json:"formatVersion"`
}

// Archiver creates and verifies backup archives in a blob bucket.
type Archiver struct {
	bucket *blob.Bucket
	source Source
	cipher crypto.AEAD
	logger *slog.Logger
	now    func() time.Time
}

// Option configures an Archiver.
type Option func(*Archiver)

// WithCipher enables at-rest encryption of archives.
func WithCipher(cipher crypto.AEAD) Option {
	return func(a *Archiver) {
		a.cipher = cipher
	}
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(a *Archiver) {
		a.now = now
	}
}

// NewArchiver creates an Archiver over the given bucket and entity source.
func NewArchiver(bucket *blob.Bucket, source Source, logger *slog.Logger, opts ...Option) *Archiver {
	a := &Archiver{
		bucket: bucket,
		source: source,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// CreateBackup builds the archive for a retention record, stores it together
// with its hash object, and returns the storage outcome. Failures surface as
// ErrBackupFailed so callers can record the attempt without guessing at
// transport details.
func (a *Archiver) CreateBackup(ctx context.Context, record *domain.RetentionRecord) (*Result, error) {
	now := a.now().UTC()

	snapshot, err := a.source.Snapshot(ctx, record.EntityType, record.EntityID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrBackupFailed, fmt.Sprintf("failed to snapshot entity: %v", err))
	}
	auditExcerpt, err := a.source.AuditExcerpt(ctx, record.EntityType, record.EntityID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrBackupFailed, fmt.Sprintf("failed to collect audit logs: %v", err))
	}

	manifest := metadata{
		EntityType:     record.EntityType,
		EntityID:       record.EntityID,
		RetentionID:    record.ID.String(),
		LegalBasis:     string(record.LegalBasis),
		RetentionUntil: record.RetentionUntil,
		BackupAt:       now,
		FormatVersion:  1,
	}
	manifestData, err := json.Marshal(manifest)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrBackupFailed, fmt.Sprintf("failed to marshal metadata: %v", err))
	}

	archive, err := buildZip(map[string][]byte{
		metadataFileName:  manifestData,
		entityFileName:    snapshot,
		auditLogsFileName: auditExcerpt,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrBackupFailed, fmt.Sprintf("failed to build archive: %v", err))
	}

	name := archiveName(record.EntityType, record.EntityID, now)
	payload := archive
	encrypted := false
	if a.cipher != nil {
		ciphertext, nonce, err := a.cipher.Encrypt(archive, []byte(name))
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrBackupFailed, fmt.Sprintf("failed to encrypt archive: %v", err))
		}
		payload = append(nonce, ciphertext...)
		name += ".enc"
		encrypted = true
	}

	hash := crypto.DigestHex(payload)

	if err := a.bucket.WriteAll(ctx, name, payload, nil); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrBackupFailed, fmt.Sprintf("failed to store archive: %v", err))
	}
	if err := a.bucket.WriteAll(ctx, name+hashSuffix, []byte(hash), nil); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrBackupFailed, fmt.Sprintf("failed to store archive hash: %v", err))
	}

	a.logger.Info("backup archive stored",
		"entity_type", record.EntityType,
		"entity_id", record.EntityID,
		"location", name,
		"size_bytes", len(payload),
		"encrypted", encrypted,
	)

	return &Result{
		Location:  name,
		Hash:      hash,
		SizeBytes: int64(len(payload)),
		CreatedAt: now,
		Encrypted: encrypted,
	}, nil
}

// VerifyIntegrity recomputes the hash of a stored archive and compares it with
// the expected value. A missing archive or hash mismatch yields false, nil:
// absence of integrity is a verification outcome, not a transport error.
func (a *Archiver) VerifyIntegrity(ctx context.Context, location, expectedHash string) (bool, error) {
	if location == "" || expectedHash == "" {
		return false, nil
	}
	exists, err := a.bucket.Exists(ctx, location)
	if err != nil {
		return false, fmt.Errorf("failed to check archive existence: %w", err)
	}
	if !exists {
		return false, nil
	}
	r, err := a.bucket.NewReader(ctx, location, nil)
	if err != nil {
		return false, fmt.Errorf("failed to read archive: %w", err)
	}
	defer r.Close()

	sum, err := crypto.DigestReaderHex(r)
	if err != nil {
		return false, fmt.Errorf("failed to hash archive: %w", err)
	}
	return sum == expectedHash, nil
}

// ReadArchive fetches and decrypts a stored archive, returning the raw zip
// bytes.
func (a *Archiver) ReadArchive(ctx context.Context, location string) ([]byte, error) {
	payload, err := a.bucket.ReadAll(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}
	if !strings.HasSuffix(location, encryptedSuffix) {
		return payload, nil
	}
	if a.cipher == nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "archive is encrypted but no cipher is configured")
	}
	nonceSize := a.cipher.NonceSize()
	if len(payload) < nonceSize {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "archive payload is truncated")
	}
	name := strings.TrimSuffix(location, ".enc")
	plaintext, err := a.cipher.Decrypt(payload[nonceSize:], payload[:nonceSize], []byte(name))
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt archive: %w", err)
	}
	return plaintext, nil
}

// Restore reads an archive, verifies its hash, and replays the entity
// snapshot through the restorer.
func (a *Archiver) Restore(ctx context.Context, record *domain.RetentionRecord, restorer entity.Accessor) error {
	ok, err := a.VerifyIntegrity(ctx, record.BackupLocation, record.BackupHash)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "backup archive failed integrity check")
	}
	archive, err := a.ReadArchive(ctx, record.BackupLocation)
	if err != nil {
		return err
	}
	snapshot, err := extractZipEntry(archive, entityFileName)
	if err != nil {
		return err
	}
	return restorer.Restore(ctx, record.EntityType, record.EntityID, snapshot)
}

// ListBackups returns the archives in the bucket, newest first, skipping the
// sibling hash objects.
func (a *Archiver) ListBackups(ctx context.Context) ([]ArchiveInfo, error) {
	iter := a.bucket.List(nil)
	var infos []ArchiveInfo
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list archives: %w", err)
		}
		if strings.HasSuffix(obj.Key, hashSuffix) {
			continue
		}
		infos = append(infos, ArchiveInfo{
			Name:         path.Base(obj.Key),
			Path:         obj.Key,
			SizeBytes:    obj.Size,
			LastModified: obj.ModTime,
		})
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].LastModified.After(infos[j].LastModified)
	})
	return infos, nil
}

func archiveName(entityType, entityID string, at time.Time) string {
	return fmt.Sprintf("backup_%s_%s_%s%s", entityType, entityID, at.Format("20060102150405"), archiveSuffix)
}

func buildZip(entries map[string][]byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("failed to create zip entry %s: %w", name, err)
		}
		if _, err := w.Write(entries[name]); err != nil {
			return nil, fmt.Errorf("failed to write zip entry %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize zip: %w", err)
	}
	return buf.Bytes(), nil
}

func extractZipEntry(archive []byte, name string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open zip entry %s: %w", name, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("zip entry %s not found", name)
}
