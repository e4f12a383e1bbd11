package signature

import (
	"crypto"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/smallstep/pkcs7"
	pkcs12 "software.sslmate.com/src/go-pkcs12"

	"github.com/pixix4/wallet-pass/internal/errs"
)

const (
	// Filename is the signature location relative to the workspace root.
	Filename = "signature"

	// fileMode is used when the signature is written to disk.
	fileMode os.FileMode = 0o644

	pemCertificateType = "CERTIFICATE"
)

var (
	errMissingKey         = errors.New("identity bundle holds no private key")
	errMissingCertificate = errors.New("identity bundle holds no certificate")
	errNoPEMBlock         = errors.New("no PEM certificate block found")
	errKeyMismatch        = errors.New("private key does not match the certificate")
	errNotIssuer          = errors.New("intermediate did not issue the signing certificate")
)

// Signer signs manifests with a fixed identity and intermediate authority.
// It is safe for concurrent use.
type Signer struct {
	// cert is the signing certificate from the identity bundle.
	cert *x509.Certificate
	// key is the private key matching cert.
	key crypto.PrivateKey
	// intermediate completes the chain up to the root authority.
	intermediate *x509.Certificate
}

// Load reads the identity bundle and intermediate certificate from disk.
func Load(identityPath, password, intermediatePath string) (*Signer, error) {
	identity, err := os.ReadFile(filepath.Clean(identityPath))
	if err != nil {
		return nil, errs.NewIO("read identity", identityPath, err)
	}

	intermediate, err := os.ReadFile(filepath.Clean(intermediatePath))
	if err != nil {
		return nil, errs.NewIO("read intermediate certificate", intermediatePath, err)
	}

	return New(identity, password, intermediate)
}

// New decodes the credentials and checks that they can produce a valid signature:
// the password opens the bundle, the key belongs to the certificate, the
// intermediate issued the certificate, and both certificates are currently valid.
func New(identity []byte, password string, intermediatePEM []byte) (*Signer, error) {
	return newAt(identity, password, intermediatePEM, time.Now())
}

func newAt(identity []byte, password string, intermediatePEM []byte, now time.Time) (*Signer, error) {
	key, cert, err := decodeIdentity(identity, password)
	if err != nil {
		return nil, err
	}

	intermediate, err := parseIntermediate(intermediatePEM)
	if err != nil {
		return nil, err
	}

	if err = checkValidity(errs.InputIdentity, cert, now); err != nil {
		return nil, err
	}

	if err = checkValidity(errs.InputIntermediate, intermediate, now); err != nil {
		return nil, err
	}

	if err = cert.CheckSignatureFrom(intermediate); err != nil {
		return nil, errs.NewCredential(errs.InputIntermediate, errs.CredentialMismatch, fmt.Errorf("%w: %w", errNotIssuer, err))
	}

	return &Signer{
		cert:         cert,
		key:          key,
		intermediate: intermediate,
	}, nil
}

// Certificate returns the signing certificate.
func (s *Signer) Certificate() *x509.Certificate {
	return s.cert
}

// Intermediate returns the intermediate authority certificate.
func (s *Signer) Intermediate() *x509.Certificate {
	return s.intermediate
}

// Sign returns the DER encoded detached PKCS#7 signature over content.
func (s *Signer) Sign(content []byte) ([]byte, error) {
	signedData, err := pkcs7.NewSignedData(content)
	if err != nil {
		return nil, fmt.Errorf("initialize signed data: %w", err)
	}

	signedData.SetDigestAlgorithm(pkcs7.OIDDigestAlgorithmSHA256)

	parents := []*x509.Certificate{s.intermediate}
	if err = signedData.AddSignerChain(s.cert, s.key, parents, pkcs7.SignerInfoConfig{}); err != nil {
		return nil, fmt.Errorf("add signer: %w", err)
	}

	signedData.Detach()

	der, err := signedData.Finish()
	if err != nil {
		return nil, fmt.Errorf("encode signature: %w", err)
	}

	return der, nil
}

// SignFile signs the file at contentPath and writes the signature into dir.
// The content is read back from disk so the signature covers the exact bytes
// that end up in the archive. It returns the signature path.
func (s *Signer) SignFile(dir, contentPath string) (string, error) {
	content, err := os.ReadFile(filepath.Clean(contentPath))
	if err != nil {
		return "", errs.NewIO("read manifest", contentPath, err)
	}

	der, err := s.Sign(content)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, Filename)
	if err = os.WriteFile(path, der, fileMode); err != nil {
		return "", errs.NewIO("write signature", path, err)
	}

	return path, nil
}

// decodeIdentity opens the PKCS#12 container and returns its key and certificate.
func decodeIdentity(identity []byte, password string) (crypto.PrivateKey, *x509.Certificate, error) {
	key, cert, _, err := pkcs12.DecodeChain(identity, password)
	if err != nil {
		if errors.Is(err, pkcs12.ErrIncorrectPassword) {
			return nil, nil, errs.NewCredential(errs.InputIdentity, errs.CredentialPassword, err)
		}

		return nil, nil, errs.NewCredential(errs.InputIdentity, errs.CredentialMalformed, err)
	}

	if key == nil {
		return nil, nil, errs.NewCredential(errs.InputIdentity, errs.CredentialMalformed, errMissingKey)
	}

	if cert == nil {
		return nil, nil, errs.NewCredential(errs.InputIdentity, errs.CredentialMalformed, errMissingCertificate)
	}

	if !keyMatches(key, cert) {
		return nil, nil, errs.NewCredential(errs.InputIdentity, errs.CredentialMismatch, errKeyMismatch)
	}

	return key, cert, nil
}

// parseIntermediate decodes a single PEM encoded certificate.
func parseIntermediate(data []byte) (*x509.Certificate, error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != pemCertificateType {
		return nil, errs.NewCredential(errs.InputIntermediate, errs.CredentialMalformed, errNoPEMBlock)
	}

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, errs.NewCredential(errs.InputIntermediate, errs.CredentialMalformed, err)
	}

	return cert, nil
}

func checkValidity(input string, cert *x509.Certificate, now time.Time) error {
	if now.Before(cert.NotBefore) {
		return errs.NewCredential(input, errs.CredentialExpired,
			fmt.Errorf("certificate %q is not valid before %s", cert.Subject.CommonName, cert.NotBefore.Format(time.RFC3339)))
	}

	if now.After(cert.NotAfter) {
		return errs.NewCredential(input, errs.CredentialExpired,
			fmt.Errorf("certificate %q expired at %s", cert.Subject.CommonName, cert.NotAfter.Format(time.RFC3339)))
	}

	return nil
}

// keyMatches reports whether key is the private half of the certificate's public key.
func keyMatches(key crypto.PrivateKey, cert *x509.Certificate) bool {
	signer, ok := key.(crypto.Signer)
	if !ok {
		return false
	}

	pub, ok := cert.PublicKey.(interface{ Equal(x crypto.PublicKey) bool })
	if !ok {
		return false
	}

	return pub.Equal(signer.Public())
}
