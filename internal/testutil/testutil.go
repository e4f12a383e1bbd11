// Package testutil builds throw-away signing credentials and pass bundles for tests.
package testutil

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	pkcs12 "software.sslmate.com/src/go-pkcs12"
)

// Password protects every identity bundle produced by this package.
const Password = "BKoP59ypG2K9"

// Chain is a root → intermediate → leaf certificate chain.
type Chain struct {
	Root         *x509.Certificate
	Intermediate *x509.Certificate
	Leaf         *x509.Certificate
	LeafKey      *rsa.PrivateKey
	// IntermediateKey signs the leaf; tests use it to mint extra leaves.
	IntermediateKey *rsa.PrivateKey
}

// Credentials are the on-disk files the signer consumes.
type Credentials struct {
	Chain            *Chain
	IdentityPath     string
	IntermediatePath string
}

// NewChain creates a fresh chain whose leaf is valid for notBefore..notAfter.
func NewChain(t *testing.T, notBefore, notAfter time.Time) *Chain {
	t.Helper()

	rootKey := newKey(t)
	root := issue(t, &x509.Certificate{
		Subject:               pkix.Name{CommonName: "Test Root CA"},
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		NotBefore:             time.Now().Add(-24 * time.Hour),
		NotAfter:              time.Now().Add(365 * 24 * time.Hour),
	}, nil, rootKey.Public(), rootKey)

	intermediateKey := newKey(t)
	intermediate := issue(t, &x509.Certificate{
		Subject:               pkix.Name{CommonName: "Test Worldwide Developer Relations CA"},
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		NotBefore:             time.Now().Add(-24 * time.Hour),
		NotAfter:              time.Now().Add(365 * 24 * time.Hour),
	}, root, intermediateKey.Public(), rootKey)

	leafKey := newKey(t)
	leaf := issue(t, &x509.Certificate{
		Subject:     pkix.Name{CommonName: "Pass Type ID: pass.com.example.store", OrganizationalUnit: []string{"ASDF1234AS"}},
		KeyUsage:    x509.KeyUsageDigitalSignature,
		ExtKeyUsage: []x509.ExtKeyUsage{x509.ExtKeyUsageAny},
		NotBefore:   notBefore,
		NotAfter:    notAfter,
	}, intermediate, leafKey.Public(), intermediateKey)

	return &Chain{
		Root:            root,
		Intermediate:    intermediate,
		Leaf:            leaf,
		LeafKey:         leafKey,
		IntermediateKey: intermediateKey,
	}
}

// ValidChain creates a chain whose leaf is currently valid.
func ValidChain(t *testing.T) *Chain {
	t.Helper()

	return NewChain(t, time.Now().Add(-time.Hour), time.Now().Add(30*24*time.Hour))
}

// IdentityBundle encodes key and certificate into a password-protected PKCS#12 container.
func IdentityBundle(t *testing.T, key crypto.PrivateKey, cert *x509.Certificate, password string) []byte {
	t.Helper()

	pfx, err := pkcs12.Modern.Encode(key, cert, nil, password)
	require.NoError(t, err)

	return pfx
}

// CertificatePEM encodes cert as a single PEM block.
func CertificatePEM(cert *x509.Certificate) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw})
}

// WriteCredentials stores the identity bundle and intermediate of chain in dir.
func WriteCredentials(t *testing.T, dir string, chain *Chain) *Credentials {
	t.Helper()

	creds := &Credentials{
		Chain:            chain,
		IdentityPath:     filepath.Join(dir, "Certificates.p12"),
		IntermediatePath: filepath.Join(dir, "WWDR.pem"),
	}

	require.NoError(t, os.WriteFile(creds.IdentityPath, IdentityBundle(t, chain.LeafKey, chain.Leaf, Password), 0o600))
	require.NoError(t, os.WriteFile(creds.IntermediatePath, CertificatePEM(chain.Intermediate), 0o600))

	return creds
}

// Roots returns a pool trusting only the chain root.
func (c *Chain) Roots() *x509.CertPool {
	pool := x509.NewCertPool()
	pool.AddCert(c.Root)

	return pool
}

// WriteBundle creates a pass bundle directory under parent with the given files.
// Keys are slash-separated relative paths.
func WriteBundle(t *testing.T, parent, name string, files map[string]string) string {
	t.Helper()

	dir := filepath.Join(parent, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))

	for rel, contents := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	}

	return dir
}

// SampleFiles returns the contents of a small store card bundle.
func SampleFiles() map[string]string {
	return map[string]string{
		"pass.json": `{
  "description": "Store card",
  "formatVersion": 1,
  "organizationName": "Example Store",
  "passTypeIdentifier": "pass.com.example.store",
  "serialNumber": "1234567890",
  "teamIdentifier": "ASDF1234AS"
}`,
		"icon.png":              "icon-bytes",
		"icon@2x.png":           "icon-2x-bytes",
		"logo.png":              "logo-bytes",
		"de.lproj/pass.strings": "\"balance\" = \"Guthaben\";",
		"en.lproj/pass.strings": "\"balance\" = \"Balance\";",
	}
}

func newKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	return key
}

func issue(t *testing.T, template, parent *x509.Certificate, pub crypto.PublicKey, signer crypto.Signer) *x509.Certificate {
	t.Helper()

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 62))
	require.NoError(t, err)

	template.SerialNumber = serial
	if parent == nil {
		parent = template
	}

	der, err := x509.CreateCertificate(rand.Reader, template, parent, pub, signer)
	require.NoError(t, err)

	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)

	return cert
}
