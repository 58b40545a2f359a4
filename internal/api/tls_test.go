package api

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureCertificateGeneratesPair(t *testing.T) {
	dir := t.TempDir()
	certFile := filepath.Join(dir, "server.crt")
	keyFile := filepath.Join(dir, "server.key")

	require.NoError(t, EnsureCertificate(certFile, keyFile))

	// The pair must load as a working TLS certificate.
	pair, err := tls.LoadX509KeyPair(certFile, keyFile)
	require.NoError(t, err)

	block, _ := pem.Decode(mustRead(t, certFile))
	require.NotNil(t, block)
	cert, err := x509.ParseCertificate(block.Bytes)
	require.NoError(t, err)
	assert.Equal(t, "localhost", cert.Subject.CommonName)
	assert.Contains(t, cert.DNSNames, "localhost")
	require.NotEmpty(t, pair.Certificate)
}

func TestEnsureCertificateKeepsExistingPair(t *testing.T) {
	dir := t.TempDir()
	certFile := filepath.Join(dir, "server.crt")
	keyFile := filepath.Join(dir, "server.key")

	require.NoError(t, EnsureCertificate(certFile, keyFile))
	before := mustRead(t, certFile)

	require.NoError(t, EnsureCertificate(certFile, keyFile))
	assert.Equal(t, before, mustRead(t, certFile), "existing pair must not be regenerated")
}

func TestEnsureCertificateRejectsHalfPair(t *testing.T) {
	dir := t.TempDir()
	certFile := filepath.Join(dir, "server.crt")
	keyFile := filepath.Join(dir, "server.key")
	require.NoError(t, os.WriteFile(certFile, []byte("cert without key"), 0o644))

	err := EnsureCertificate(certFile, keyFile)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "incomplete")
}

func mustRead(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}
