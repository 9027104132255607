package app

import (
	"context"
	"fmt"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"

	"github.com/healplus/compliance/internal/backup"
	"github.com/healplus/compliance/internal/crypto"
	"github.com/healplus/compliance/internal/entity"
)

// backupKeyInfo separates the archive encryption key from any other use of
// the same passphrase.
const backupKeyInfo = "backup-archive-v1"

// Bucket returns the blob bucket holding backup archives.
func (c *Container) Bucket(ctx context.Context) (*blob.Bucket, error) {
	c.bucketInit.Do(func() {
		bucket, err := blob.OpenBucket(ctx, c.config.BackupBucketURL)
		if err != nil {
			c.initErrors["bucket"] = fmt.Errorf("failed to open backup bucket: %w", err)
			return
		}
		c.bucket = bucket
	})
	if storedErr, exists := c.initErrors["bucket"]; exists {
		return nil, storedErr
	}
	return c.bucket, nil
}

// EntityRegistry returns the accessor registry through which the engine
// reaches the domain services owning the tracked entities.
func (c *Container) EntityRegistry() *entity.Registry {
	c.entityRegistryInit.Do(func() {
		c.entityRegistry = entity.NewRegistry(entity.NewPlaceholderAccessor())
	})
	return c.entityRegistry
}

// Archiver returns the backup archiver.
func (c *Container) Archiver(ctx context.Context) (*backup.Archiver, error) {
	c.archiverInit.Do(func() {
		bucket, err := c.Bucket(ctx)
		if err != nil {
			c.initErrors["archiver"] = err
			return
		}

		opts := []backup.Option{}
		if c.config.BackupEncryptionEnabled {
			cipher, err := c.initBackupCipher()
			if err != nil {
				c.initErrors["archiver"] = err
				return
			}
			opts = append(opts, backup.WithCipher(cipher))
		}

		c.archiver = backup.NewArchiver(bucket, c.EntityRegistry(), c.Logger(), opts...)
	})
	if storedErr, exists := c.initErrors["archiver"]; exists {
		return nil, storedErr
	}
	return c.archiver, nil
}

// initBackupCipher derives the archive encryption key from the configured
// passphrase and builds the AEAD cipher.
func (c *Container) initBackupCipher() (crypto.AEAD, error) {
	if c.config.BackupEncryptionKey == "" {
		return nil, fmt.Errorf("backup encryption enabled but BACKUP_ENCRYPTION_KEY is empty")
	}

	algorithm, err := crypto.ParseAlgorithm(c.config.BackupEncryptionAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("invalid backup encryption algorithm: %w", err)
	}

	key, err := crypto.DeriveKey([]byte(c.config.BackupEncryptionKey), backupKeyInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to derive backup encryption key: %w", err)
	}
	defer crypto.Zero(key)

	return crypto.NewCipher(key, algorithm)
}
