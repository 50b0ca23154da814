package responder

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"testing"
	"time"

	pkicrypto "github.com/remiblancher/ocspkit/internal/crypto"
	"github.com/remiblancher/ocspkit/internal/der"
	"github.com/remiblancher/ocspkit/internal/ocsp"
)

type testPKI struct {
	caCert       *x509.Certificate
	caKey        *ecdsa.PrivateKey
	leaf         *x509.Certificate
	responder    *x509.Certificate
	responderKey *ecdsa.PrivateKey
}

func newTestPKI(t *testing.T) *testPKI {
	t.Helper()

	caKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate CA key: %v", err)
	}
	caTemplate := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "Test CA"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	caDER, err := x509.CreateCertificate(rand.Reader, caTemplate, caTemplate, &caKey.PublicKey, caKey)
	if err != nil {
		t.Fatalf("failed to create CA certificate: %v", err)
	}
	caCert, err := x509.ParseCertificate(caDER)
	if err != nil {
		t.Fatalf("failed to parse CA certificate: %v", err)
	}

	issue := func(template *x509.Certificate, pub *ecdsa.PublicKey) *x509.Certificate {
		t.Helper()
		der, err := x509.CreateCertificate(rand.Reader, template, caCert, pub, caKey)
		if err != nil {
			t.Fatalf("failed to create certificate: %v", err)
		}
		cert, err := x509.ParseCertificate(der)
		if err != nil {
			t.Fatalf("failed to parse certificate: %v", err)
		}
		return cert
	}

	leafKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate leaf key: %v", err)
	}
	leaf := issue(&x509.Certificate{
		SerialNumber: big.NewInt(42),
		Subject:      pkix.Name{CommonName: "test.example.com"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(12 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}, &leafKey.PublicKey)

	responderKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate responder key: %v", err)
	}
	responderCert := issue(&x509.Certificate{
		SerialNumber: big.NewInt(1000),
		Subject:      pkix.Name{CommonName: "OCSP Responder"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(12 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageOCSPSigning},
	}, &responderKey.PublicKey)

	return &testPKI{
		caCert:       caCert,
		caKey:        caKey,
		leaf:         leaf,
		responder:    responderCert,
		responderKey: responderKey,
	}
}

func buildRequest(t *testing.T, backend ocsp.Backend, cert, issuer *x509.Certificate, alg ocsp.HashAlgorithm) []byte {
	t.Helper()
	builder, err := ocsp.NewRequestBuilder().AddCertificate(cert, issuer, alg)
	if err != nil {
		t.Fatalf("AddCertificate() error = %v", err)
	}
	req, err := builder.Build(backend)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return req.Bytes()
}

func TestU_Responder_Respond(t *testing.T) {
	pki := newTestPKI(t)
	backend := der.NewBackend(pkicrypto.Engine{})

	revokedAt := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	index, err := ParseIndex([]byte(`
entries:
  - serial: "0x2a"
    status: good
  - serial: "0x2b"
    status: revoked
    revoked_at: 2026-01-15T10:00:00Z
    reason: key_compromise
  - serial: "0x2c"
    status: unknown
`))
	if err != nil {
		t.Fatalf("ParseIndex() error = %v", err)
	}

	r, err := New(Options{
		Backend:       backend,
		CACert:        pki.caCert,
		ResponderCert: pki.responder,
		Key:           pki.responderKey,
		Index:         index,
		Validity:      24 * time.Hour,
		IncludeChain:  true,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	t.Run("[Unit] Respond: good serial", func(t *testing.T) {
		respDER, err := r.Respond(buildRequest(t, backend, pki.leaf, pki.caCert, ocsp.SHA256))
		if err != nil {
			t.Fatalf("Respond() error = %v", err)
		}
		resp, err := backend.LoadResponse(respDER)
		if err != nil {
			t.Fatalf("LoadResponse() error = %v", err)
		}
		if resp.ResponseStatus() != ocsp.StatusSuccessful {
			t.Fatalf("ResponseStatus() = %v, want successful", resp.ResponseStatus())
		}
		if resp.CertificateStatus() != ocsp.CertStatusGood {
			t.Errorf("CertificateStatus() = %v, want good", resp.CertificateStatus())
		}
		if resp.NextUpdate().IsZero() {
			t.Error("NextUpdate() should be set with a validity window")
		}
		if len(resp.Certificates()) != 1 {
			t.Errorf("Certificates() has %d entries, want the responder chain", len(resp.Certificates()))
		}
		if err := pkicrypto.VerifyResponse(resp, pki.responderKey.Public()); err != nil {
			t.Errorf("VerifyResponse() error = %v", err)
		}
	})

	t.Run("[Unit] Respond: revoked serial", func(t *testing.T) {
		revoked := &x509.Certificate{SerialNumber: big.NewInt(0x2b)}
		respDER, err := r.Respond(buildRequest(t, backend, revoked, pki.caCert, ocsp.SHA1))
		if err != nil {
			t.Fatalf("Respond() error = %v", err)
		}
		resp, err := backend.LoadResponse(respDER)
		if err != nil {
			t.Fatalf("LoadResponse() error = %v", err)
		}
		if resp.CertificateStatus() != ocsp.CertStatusRevoked {
			t.Fatalf("CertificateStatus() = %v, want revoked", resp.CertificateStatus())
		}
		if !resp.RevocationTime().Equal(revokedAt) {
			t.Errorf("RevocationTime() = %v, want %v", resp.RevocationTime(), revokedAt)
		}
		if reason := resp.RevocationReason(); reason == nil || *reason != ocsp.ReasonKeyCompromise {
			t.Errorf("RevocationReason() = %v, want key compromise", reason)
		}
		// CertID algorithm follows the request.
		if resp.HashAlgorithm() != ocsp.SHA1 {
			t.Errorf("HashAlgorithm() = %v, want SHA1", resp.HashAlgorithm())
		}
	})

	t.Run("[Unit] Respond: unknown status serial", func(t *testing.T) {
		unknown := &x509.Certificate{SerialNumber: big.NewInt(0x2c)}
		respDER, err := r.Respond(buildRequest(t, backend, unknown, pki.caCert, ocsp.SHA256))
		if err != nil {
			t.Fatalf("Respond() error = %v", err)
		}
		resp, err := backend.LoadResponse(respDER)
		if err != nil {
			t.Fatalf("LoadResponse() error = %v", err)
		}
		if resp.CertificateStatus() != ocsp.CertStatusUnknown {
			t.Errorf("CertificateStatus() = %v, want unknown", resp.CertificateStatus())
		}
	})

	t.Run("[Unit] Respond: serial outside the index", func(t *testing.T) {
		stranger := &x509.Certificate{SerialNumber: big.NewInt(9999)}
		respDER, err := r.Respond(buildRequest(t, backend, stranger, pki.caCert, ocsp.SHA256))
		if err != nil {
			t.Fatalf("Respond() error = %v", err)
		}
		resp, err := backend.LoadResponse(respDER)
		if err != nil {
			t.Fatalf("LoadResponse() error = %v", err)
		}
		if resp.ResponseStatus() != ocsp.StatusUnauthorized {
			t.Errorf("ResponseStatus() = %v, want unauthorized", resp.ResponseStatus())
		}
	})

	t.Run("[Unit] Respond: different issuer", func(t *testing.T) {
		other := newTestPKI(t)
		respDER, err := r.Respond(buildRequest(t, backend, other.leaf, other.caCert, ocsp.SHA256))
		if err != nil {
			t.Fatalf("Respond() error = %v", err)
		}
		resp, err := backend.LoadResponse(respDER)
		if err != nil {
			t.Fatalf("LoadResponse() error = %v", err)
		}
		if resp.ResponseStatus() != ocsp.StatusUnauthorized {
			t.Errorf("ResponseStatus() = %v, want unauthorized", resp.ResponseStatus())
		}
	})

	t.Run("[Unit] Respond: undecodable request", func(t *testing.T) {
		respDER, err := r.Respond([]byte{0xde, 0xad})
		if err != nil {
			t.Fatalf("Respond() error = %v", err)
		}
		resp, err := backend.LoadResponse(respDER)
		if err != nil {
			t.Fatalf("LoadResponse() error = %v", err)
		}
		if resp.ResponseStatus() != ocsp.StatusMalformedRequest {
			t.Errorf("ResponseStatus() = %v, want malformed request", resp.ResponseStatus())
		}
	})
}

func TestU_Responder_NoValidity(t *testing.T) {
	pki := newTestPKI(t)
	backend := der.NewBackend(pkicrypto.Engine{})

	index, err := ParseIndex([]byte("entries:\n  - serial: \"0x2a\"\n    status: good\n"))
	if err != nil {
		t.Fatalf("ParseIndex() error = %v", err)
	}
	r, err := New(Options{
		Backend:       backend,
		CACert:        pki.caCert,
		ResponderCert: pki.responder,
		Key:           pki.responderKey,
		Index:         index,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	respDER, err := r.Respond(buildRequest(t, backend, pki.leaf, pki.caCert, ocsp.SHA256))
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	resp, err := backend.LoadResponse(respDER)
	if err != nil {
		t.Fatalf("LoadResponse() error = %v", err)
	}
	if !resp.NextUpdate().IsZero() {
		t.Errorf("NextUpdate() = %v, want absent", resp.NextUpdate())
	}
	if len(resp.ResponderKeyHash()) == 0 {
		t.Error("default encoding should identify the responder by key hash")
	}
}

func TestU_Responder_New_Rejects(t *testing.T) {
	pki := newTestPKI(t)
	backend := der.NewBackend(pkicrypto.Engine{})
	index := &Index{entries: map[string]*Entry{}}

	tests := []struct {
		name string
		opts Options
	}{
		{"[Unit] New: missing backend", Options{CACert: pki.caCert, ResponderCert: pki.responder, Key: pki.responderKey, Index: index}},
		{"[Unit] New: missing CA", Options{Backend: backend, ResponderCert: pki.responder, Key: pki.responderKey, Index: index}},
		{"[Unit] New: missing key", Options{Backend: backend, CACert: pki.caCert, ResponderCert: pki.responder, Index: index}},
		{"[Unit] New: missing index", Options{Backend: backend, CACert: pki.caCert, ResponderCert: pki.responder, Key: pki.responderKey}},
		{"[Unit] New: negative validity", Options{Backend: backend, CACert: pki.caCert, ResponderCert: pki.responder, Key: pki.responderKey, Index: index, Validity: -time.Hour}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.opts); err == nil {
				t.Error("New() should fail")
			}
		})
	}
}
