package testutil

import (
	"crypto/x509"

	"github.com/smallstep/pkcs7"
)

// VerifyDetached checks a DER encoded detached PKCS#7 signature over content
// against roots, building the chain from the certificates embedded in it.
// It returns the embedded certificates.
func VerifyDetached(der, content []byte, roots *x509.CertPool) ([]*x509.Certificate, error) {
	p7, err := pkcs7.Parse(der)
	if err != nil {
		return nil, err
	}

	p7.Content = content

	if err = p7.VerifyWithChain(roots); err != nil {
		return nil, err
	}

	return p7.Certificates, nil
}
