package der

import (
	"bytes"
	"crypto"
	"crypto/x509"
	"testing"
	"time"

	xocsp "golang.org/x/crypto/ocsp"

	pkicrypto "github.com/remiblancher/ocspkit/internal/crypto"
	"github.com/remiblancher/ocspkit/internal/ocsp"
)

// The x/crypto/ocsp package is the reference implementation most Go
// consumers use. Anything we encode must parse there, and anything it
// encodes must load here.

func TestU_Interop_RequestParsesWithXCrypto(t *testing.T) {
	pki := newTestPKI(t)
	backend := NewBackend(pkicrypto.Engine{})

	builder, err := ocsp.NewRequestBuilder().AddCertificate(pki.leaf, pki.caCert, ocsp.SHA256)
	if err != nil {
		t.Fatalf("AddCertificate() error = %v", err)
	}
	built, err := builder.Build(backend)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	parsed, err := xocsp.ParseRequest(built.Bytes())
	if err != nil {
		t.Fatalf("x/crypto ParseRequest() error = %v", err)
	}
	if parsed.HashAlgorithm != crypto.SHA256 {
		t.Errorf("HashAlgorithm = %v, want SHA256", parsed.HashAlgorithm)
	}
	if parsed.SerialNumber.Cmp(pki.leaf.SerialNumber) != 0 {
		t.Errorf("SerialNumber = %v, want %v", parsed.SerialNumber, pki.leaf.SerialNumber)
	}
	if !bytes.Equal(parsed.IssuerNameHash, built.IssuerNameHash()) {
		t.Error("issuer name hash differs from x/crypto's reading")
	}
	if !bytes.Equal(parsed.IssuerKeyHash, built.IssuerKeyHash()) {
		t.Error("issuer key hash differs from x/crypto's reading")
	}
}

func TestU_Interop_RequestFromXCrypto(t *testing.T) {
	pki := newTestPKI(t)
	backend := NewBackend(pkicrypto.Engine{})

	raw, err := xocsp.CreateRequest(pki.leaf, pki.caCert, &xocsp.RequestOptions{Hash: crypto.SHA256})
	if err != nil {
		t.Fatalf("x/crypto CreateRequest() error = %v", err)
	}

	decoded, err := backend.LoadRequest(raw)
	if err != nil {
		t.Fatalf("LoadRequest() error = %v", err)
	}
	if decoded.HashAlgorithm() != ocsp.SHA256 {
		t.Errorf("HashAlgorithm() = %v, want SHA256", decoded.HashAlgorithm())
	}
	if decoded.SerialNumber().Cmp(pki.leaf.SerialNumber) != 0 {
		t.Errorf("SerialNumber() = %v, want %v", decoded.SerialNumber(), pki.leaf.SerialNumber)
	}

	nameHash, keyHash, err := IssuerHashes(pki.caCert, ocsp.SHA256)
	if err != nil {
		t.Fatalf("IssuerHashes() error = %v", err)
	}
	if !bytes.Equal(decoded.IssuerNameHash(), nameHash) {
		t.Error("issuer name hash differs from our computation")
	}
	if !bytes.Equal(decoded.IssuerKeyHash(), keyHash) {
		t.Error("issuer key hash differs from our computation")
	}
}

func TestU_Interop_ResponseParsesWithXCrypto(t *testing.T) {
	pki := newTestPKI(t)
	backend := NewBackend(pkicrypto.Engine{})

	now := time.Now().UTC().Truncate(time.Second)
	revokedAt := now.Add(-time.Hour)

	builder, err := ocsp.NewResponseBuilder().AddResponse(
		pki.leaf, pki.caCert, ocsp.SHA256, ocsp.CertStatusRevoked,
		now, now.Add(24*time.Hour), revokedAt, ocsp.ReasonPtr(ocsp.ReasonKeyCompromise))
	if err != nil {
		t.Fatalf("AddResponse() error = %v", err)
	}
	builder, err = builder.ResponderID(ocsp.ResponderByName, pki.responder)
	if err != nil {
		t.Fatalf("ResponderID() error = %v", err)
	}
	builder, err = builder.Certificates([]*x509.Certificate{pki.responder})
	if err != nil {
		t.Fatalf("Certificates() error = %v", err)
	}
	built, err := builder.Sign(backend, pki.responderKey, ocsp.HashNone)
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	// nil issuer: x/crypto verifies the signature against the embedded
	// responder certificate.
	parsed, err := xocsp.ParseResponse(built.Bytes(), nil)
	if err != nil {
		t.Fatalf("x/crypto ParseResponse() error = %v", err)
	}
	if parsed.Status != xocsp.Revoked {
		t.Errorf("Status = %v, want Revoked", parsed.Status)
	}
	if parsed.SerialNumber.Cmp(pki.leaf.SerialNumber) != 0 {
		t.Errorf("SerialNumber = %v, want %v", parsed.SerialNumber, pki.leaf.SerialNumber)
	}
	if !parsed.RevokedAt.Equal(revokedAt) {
		t.Errorf("RevokedAt = %v, want %v", parsed.RevokedAt, revokedAt)
	}
	if parsed.RevocationReason != xocsp.KeyCompromise {
		t.Errorf("RevocationReason = %v, want KeyCompromise", parsed.RevocationReason)
	}
	if !parsed.ThisUpdate.Equal(now) {
		t.Errorf("ThisUpdate = %v, want %v", parsed.ThisUpdate, now)
	}
}

func TestU_Interop_ResponseFromXCrypto(t *testing.T) {
	pki := newTestPKI(t)
	backend := NewBackend(pkicrypto.Engine{})

	now := time.Now().UTC().Truncate(time.Second)
	template := xocsp.Response{
		Status:       xocsp.Good,
		SerialNumber: pki.leaf.SerialNumber,
		ThisUpdate:   now,
		NextUpdate:   now.Add(24 * time.Hour),
	}
	raw, err := xocsp.CreateResponse(pki.caCert, pki.responder, template, pki.responderKey)
	if err != nil {
		t.Fatalf("x/crypto CreateResponse() error = %v", err)
	}

	decoded, err := backend.LoadResponse(raw)
	if err != nil {
		t.Fatalf("LoadResponse() error = %v", err)
	}
	if decoded.ResponseStatus() != ocsp.StatusSuccessful {
		t.Errorf("ResponseStatus() = %v, want successful", decoded.ResponseStatus())
	}
	if decoded.CertificateStatus() != ocsp.CertStatusGood {
		t.Errorf("CertificateStatus() = %v, want good", decoded.CertificateStatus())
	}
	if decoded.SerialNumber().Cmp(pki.leaf.SerialNumber) != 0 {
		t.Errorf("SerialNumber() = %v, want %v", decoded.SerialNumber(), pki.leaf.SerialNumber)
	}
	if decoded.ResponderName() == nil || decoded.ResponderName().CommonName != "OCSP Responder" {
		t.Errorf("ResponderName() = %v, want the responder subject", decoded.ResponderName())
	}
	if err := pkicrypto.VerifyResponse(decoded, pki.responderKey.Public()); err != nil {
		t.Errorf("VerifyResponse() error = %v", err)
	}
}
