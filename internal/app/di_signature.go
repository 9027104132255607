package app

import (
	"fmt"
	"time"

	signatureRepository "github.com/healplus/compliance/internal/signature/repository"
	signatureService "github.com/healplus/compliance/internal/signature/service"
	signatureUseCase "github.com/healplus/compliance/internal/signature/usecase"
)

// SignatureRepository returns the signature ledger repository.
func (c *Container) SignatureRepository() (signatureUseCase.SignatureRepository, error) {
	c.signatureRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["signatureRepo"] = fmt.Errorf("failed to get database for signature repository: %w", err)
			return
		}

		switch c.config.DBDriver {
		case "mysql":
			c.signatureRepo = signatureRepository.NewMySQLSignatureRepository(db)
		case "postgres":
			c.signatureRepo = signatureRepository.NewPostgreSQLSignatureRepository(db)
		default:
			c.initErrors["signatureRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["signatureRepo"]; exists {
		return nil, storedErr
	}
	return c.signatureRepo, nil
}

// Signer returns the document signer service.
func (c *Container) Signer() *signatureService.Signer {
	c.signerInit.Do(func() {
		c.signer = signatureService.NewSigner()
	})
	return c.signer
}

// SignatureUseCase returns the signature use case, instrumented with metrics.
func (c *Container) SignatureUseCase() (signatureUseCase.SignatureUseCase, error) {
	c.signatureUCInit.Do(func() {
		repo, err := c.SignatureRepository()
		if err != nil {
			c.initErrors["signatureUseCase"] = err
			return
		}
		business, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["signatureUseCase"] = err
			return
		}

		validity := time.Duration(c.config.SignatureValidityYears) * 365 * 24 * time.Hour
		useCase := signatureUseCase.NewSignatureUseCase(repo, c.Signer(), validity)
		c.signatureUC = signatureUseCase.NewSignatureUseCaseWithMetrics(useCase, business)
	})
	if storedErr, exists := c.initErrors["signatureUseCase"]; exists {
		return nil, storedErr
	}
	return c.signatureUC, nil
}
