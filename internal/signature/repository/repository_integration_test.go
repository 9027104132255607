package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	signatureDomain "github.com/healplus/compliance/internal/signature/domain"
	"github.com/healplus/compliance/internal/signature/usecase"
	"github.com/healplus/compliance/internal/testutil"
)

// runSignatureRepositoryTests exercises the signature ledger round trip
// against a live database. The suite runs unchanged for both drivers.
func runSignatureRepositoryTests(t *testing.T, repo usecase.SignatureRepository) {
	ctx := context.Background()

	t.Run("CreateAndGetLatest", func(t *testing.T) {
		sig := newSignatureRow("integration-doc-1")

		err := repo.Create(ctx, sig)
		require.NoError(t, err)

		got, err := repo.GetLatestByDocument(ctx, "integration-doc-1")
		require.NoError(t, err)
		assert.Equal(t, sig.ID, got.ID)
		assert.Equal(t, "ECDSA-SHA256", got.SignatureAlgorithm)
		assert.Equal(t, sig.DocumentHash, got.DocumentHash)
		assert.True(t, sig.SignedAt.Equal(got.SignedAt.UTC()))
		assert.Nil(t, got.VerifiedAt)
	})

	t.Run("GetLatest_NotFound", func(t *testing.T) {
		_, err := repo.GetLatestByDocument(ctx, "no-such-document")
		assert.ErrorIs(t, err, signatureDomain.ErrSignatureNotFound)
	})

	t.Run("GetLatest_PicksNewestSignature", func(t *testing.T) {
		older := newSignatureRow("integration-doc-2")
		newer := newSignatureRow("integration-doc-2")
		newer.SignedAt = older.SignedAt.Add(time.Hour)

		require.NoError(t, repo.Create(ctx, older))
		require.NoError(t, repo.Create(ctx, newer))

		got, err := repo.GetLatestByDocument(ctx, "integration-doc-2")
		require.NoError(t, err)
		assert.Equal(t, newer.ID, got.ID)
	})

	t.Run("ListByDocument_NewestFirst", func(t *testing.T) {
		sigs, err := repo.ListByDocument(ctx, "integration-doc-2")
		require.NoError(t, err)
		require.Len(t, sigs, 2)
		assert.True(t, sigs[0].SignedAt.After(sigs[1].SignedAt))
	})

	t.Run("UpdateVerification_PersistsOutcome", func(t *testing.T) {
		sig := newSignatureRow("integration-doc-3")
		require.NoError(t, repo.Create(ctx, sig))

		verifiedAt := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
		sig.VerifiedAt = &verifiedAt
		sig.IsValid = true
		sig.VerificationNotes = "signature verified"

		require.NoError(t, repo.UpdateVerification(ctx, sig))

		got, err := repo.GetLatestByDocument(ctx, "integration-doc-3")
		require.NoError(t, err)
		assert.True(t, got.IsValid)
		assert.Equal(t, "signature verified", got.VerificationNotes)
		require.NotNil(t, got.VerifiedAt)
		assert.True(t, verifiedAt.Equal(got.VerifiedAt.UTC()))
		assert.NotNil(t, got.RecordUpdatedAt)
	})

	t.Run("ExistsValidByDocument", func(t *testing.T) {
		exists, err := repo.ExistsValidByDocument(ctx, "integration-doc-3")
		require.NoError(t, err)
		assert.True(t, exists)

		// Unverified signatures do not count as valid.
		exists, err = repo.ExistsValidByDocument(ctx, "integration-doc-1")
		require.NoError(t, err)
		assert.False(t, exists)

		exists, err = repo.ExistsValidByDocument(ctx, "no-such-document")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestPostgreSQLSignatureRepository_Integration(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db, "digital_signatures")

	runSignatureRepositoryTests(t, NewPostgreSQLSignatureRepository(db))
}

func TestMySQLSignatureRepository_Integration(t *testing.T) {
	testutil.SkipIfNoMySQL(t)

	db := testutil.SetupMySQLDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupMySQLDB(t, db, "digital_signatures")

	runSignatureRepositoryTests(t, NewMySQLSignatureRepository(db))
}
