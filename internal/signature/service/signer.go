// Package service implements the cryptographic side of the signature ledger:
// parsing certificate bundles, producing ECDSA P-256 signatures over document
// digests, and verifying them against the embedded certificate.
package service

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"math/big"
	"time"

	apperrors "github.com/healplus/compliance/internal/errors"
	"github.com/healplus/compliance/internal/signature/domain"
)

const (
	// HashAlgorithm is recorded on every ledger entry.
	HashAlgorithm = "SHA-256"
	// SignatureAlgorithm is recorded on every ledger entry.
	SignatureAlgorithm = "ECDSA-P256"

	certificatePEMType = "CERTIFICATE"
	privateKeyPEMType  = "EC PRIVATE KEY"
)

// Bundle is a parsed signer credential: an X.509 certificate and, when
// present, the matching EC private key.
type Bundle struct {
	Certificate *x509.Certificate
	PrivateKey  *ecdsa.PrivateKey
}

// Serial returns the certificate serial number in decimal form.
func (b *Bundle) Serial() string {
	return b.Certificate.SerialNumber.String()
}

// Issuer returns the certificate issuer's distinguished name.
func (b *Bundle) Issuer() string {
	return b.Certificate.Issuer.String()
}

// CertificatePEM returns the PEM encoding of the certificate alone. Stored on
// the ledger row so verification never needs the private key.
func (b *Bundle) CertificatePEM() string {
	return string(pem.EncodeToMemory(&pem.Block{
		Type:  certificatePEMType,
		Bytes: b.Certificate.Raw,
	}))
}

// Signer signs document digests and verifies signatures against certificate
// bundles. Stateless and safe for concurrent use.
type Signer struct{}

// NewSigner creates a Signer.
func NewSigner() *Signer {
	return &Signer{}
}

// ParseBundle decodes a PEM-encoded certificate bundle. The bundle must
// contain exactly one certificate with an ECDSA P-256 public key; an EC
// private key block is optional and only needed for signing.
func (s *Signer) ParseBundle(pemData []byte) (*Bundle, error) {
	bundle := &Bundle{}
	rest := pemData
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		switch block.Type {
		case certificatePEMType:
			if bundle.Certificate != nil {
				return nil, apperrors.Wrap(domain.ErrInvalidCertificate, "bundle contains more than one certificate")
			}
			cert, err := x509.ParseCertificate(block.Bytes)
			if err != nil {
				return nil, apperrors.Wrap(domain.ErrInvalidCertificate, fmt.Sprintf("failed to parse certificate: %v", err))
			}
			bundle.Certificate = cert
		case privateKeyPEMType:
			key, err := x509.ParseECPrivateKey(block.Bytes)
			if err != nil {
				return nil, apperrors.Wrap(domain.ErrInvalidCertificate, fmt.Sprintf("failed to parse private key: %v", err))
			}
			bundle.PrivateKey = key
		}
	}
	if bundle.Certificate == nil {
		return nil, apperrors.Wrap(domain.ErrInvalidCertificate, "bundle contains no certificate")
	}
	pub, ok := bundle.Certificate.PublicKey.(*ecdsa.PublicKey)
	if !ok || pub.Curve != elliptic.P256() {
		return nil, apperrors.Wrap(domain.ErrInvalidCertificate, "certificate public key is not ECDSA P-256")
	}
	if bundle.PrivateKey != nil && !bundle.PrivateKey.PublicKey.Equal(pub) {
		return nil, apperrors.Wrap(domain.ErrInvalidCertificate, "private key does not match certificate")
	}
	return bundle, nil
}

// Sign hashes the document content with SHA-256 and signs the digest with the
// bundle's private key. Returns the digest in hex and the ASN.1 DER signature
// in base64.
func (s *Signer) Sign(content []byte, bundle *Bundle) (documentHash, signature string, err error) {
	if bundle.PrivateKey == nil {
		return "", "", apperrors.Wrap(domain.ErrSigningFailed, "bundle has no private key")
	}
	digest := sha256.Sum256(content)
	der, err := ecdsa.SignASN1(rand.Reader, bundle.PrivateKey, digest[:])
	if err != nil {
		return "", "", apperrors.Wrap(domain.ErrSigningFailed, fmt.Sprintf("failed to sign digest: %v", err))
	}
	return fmt.Sprintf("%x", digest), base64.StdEncoding.EncodeToString(der), nil
}

// Verify recomputes the document digest and checks the base64 DER signature
// against the certificate's public key. Returns false rather than an error
// when the signature simply does not match.
func (s *Signer) Verify(content []byte, signature string, bundle *Bundle) (bool, error) {
	der, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false, apperrors.Wrap(apperrors.ErrInvalidInput, "signature is not valid base64")
	}
	pub, ok := bundle.Certificate.PublicKey.(*ecdsa.PublicKey)
	if !ok {
		return false, apperrors.Wrap(domain.ErrInvalidCertificate, "certificate public key is not ECDSA")
	}
	digest := sha256.Sum256(content)
	return ecdsa.VerifyASN1(pub, digest[:], der), nil
}

// GenerateBundle issues a self-signed ECDSA P-256 certificate for a signer,
// returning the PEM-encoded certificate plus private key. Used when the
// platform provisions signing credentials itself instead of importing them
// from an external CA.
func (s *Signer) GenerateBundle(signerName, licenseID string, validFrom time.Time, validity time.Duration) ([]byte, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, fmt.Errorf("failed to generate serial: %w", err)
	}

	template := x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			CommonName:         signerName,
			OrganizationalUnit: []string{licenseID},
			Organization:       []string{"HealPlus"},
		},
		NotBefore:             validFrom,
		NotAfter:              validFrom.Add(validity),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
		BasicConstraintsValid: true,
	}

	certDER, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		return nil, fmt.Errorf("failed to create certificate: %w", err)
	}
	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal private key: %w", err)
	}

	var out []byte
	out = append(out, pem.EncodeToMemory(&pem.Block{Type: certificatePEMType, Bytes: certDER})...)
	out = append(out, pem.EncodeToMemory(&pem.Block{Type: privateKeyPEMType, Bytes: keyDER})...)
	return out, nil
}
