package ocsp

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"testing"
	"time"
)

// generateTestCA creates a self-signed CA certificate for testing.
func generateTestCA(t *testing.T) (*x509.Certificate, *ecdsa.PrivateKey) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate CA key: %v", err)
	}

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject: pkix.Name{
			CommonName:   "Test CA",
			Organization: []string{"Test Org"},
		},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign | x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("failed to create CA certificate: %v", err)
	}

	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("failed to parse CA certificate: %v", err)
	}

	return cert, key
}

// issueTestCertificate issues a leaf certificate from the test CA.
func issueTestCertificate(t *testing.T, caCert *x509.Certificate, caKey *ecdsa.PrivateKey, serial int64) *x509.Certificate {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate leaf key: %v", err)
	}

	template := &x509.Certificate{
		SerialNumber: big.NewInt(serial),
		Subject: pkix.Name{
			CommonName: "test.example.com",
		},
		NotBefore:   time.Now().Add(-time.Hour),
		NotAfter:    time.Now().Add(12 * time.Hour),
		KeyUsage:    x509.KeyUsageDigitalSignature,
		ExtKeyUsage: []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}

	der, err := x509.CreateCertificate(rand.Reader, template, caCert, &key.PublicKey, caKey)
	if err != nil {
		t.Fatalf("failed to create leaf certificate: %v", err)
	}

	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("failed to parse leaf certificate: %v", err)
	}

	return cert
}

// stubBackend records terminal builder calls without encoding anything.
type stubBackend struct {
	requestBuilder  *RequestBuilder
	responseBuilder *ResponseBuilder
	signKey         crypto.Signer
	signAlg         HashAlgorithm
	unsuccessful    ResponseStatus
}

func (s *stubBackend) CreateRequest(b *RequestBuilder) (Request, error) {
	s.requestBuilder = b
	return nil, nil
}

func (s *stubBackend) CreateResponse(b *ResponseBuilder, key crypto.Signer, alg HashAlgorithm) (Response, error) {
	s.responseBuilder = b
	s.signKey = key
	s.signAlg = alg
	return nil, nil
}

func (s *stubBackend) CreateUnsuccessfulResponse(status ResponseStatus) (Response, error) {
	s.unsuccessful = status
	return nil, nil
}

func (s *stubBackend) LoadRequest(der []byte) (Request, error) { return nil, nil }

func (s *stubBackend) LoadResponse(der []byte) (Response, error) { return nil, nil }
