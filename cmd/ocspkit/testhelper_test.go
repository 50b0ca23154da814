package main

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"

	pkicrypto "github.com/remiblancher/ocspkit/internal/crypto"
)

// executeCommand executes a Cobra command with the given args and returns output.
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)

	err = root.Execute()
	return buf.String(), err
}

// resetFlags resets all command flags to their default values.
func resetFlags() {
	auditLogPath = ""

	requestIssuer = ""
	requestCert = ""
	requestHash = "sha256"
	requestNonce = false
	requestOutput = ""

	signSerial = ""
	signStatus = "good"
	signRevocationTime = ""
	signRevocationReason = ""
	signCA = ""
	signCert = ""
	signKey = ""
	signPassphrase = ""
	signOutput = ""
	signValidity = "1h"
	signHash = "sha256"
	signSigHash = ""
	signEncoding = "hash"
	signIncludeChain = false

	verifyResponder = ""
	verifyCA = ""

	respondConfig = ""
	respondInput = ""
	respondOutput = ""

	keyGenAlgorithm = "ecdsa-p256"
	keyGenOutput = ""
	keyGenPassphrase = ""
}

// testContext holds test resources.
type testContext struct {
	t       *testing.T
	tempDir string
}

func newTestContext(t *testing.T) *testContext {
	t.Helper()
	dir, err := os.MkdirTemp("", "ocspkit-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	return &testContext{t: t, tempDir: dir}
}

func (tc *testContext) path(name string) string {
	return filepath.Join(tc.tempDir, name)
}

func (tc *testContext) writeFile(name, content string) string {
	tc.t.Helper()
	path := tc.path(name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		tc.t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func (tc *testContext) writeCert(name string, cert *x509.Certificate) string {
	tc.t.Helper()
	path := tc.path(name)
	data := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw})
	if err := os.WriteFile(path, data, 0644); err != nil {
		tc.t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

// testPKIFiles holds the file paths of a generated test PKI.
type testPKIFiles struct {
	caCert        string
	leafCert      string
	leafSerial    *big.Int
	responderCert string
	responderKey  string
}

// setupPKI generates a CA, a leaf and a delegated responder, written as
// PEM files into the test directory.
func (tc *testContext) setupPKI() *testPKIFiles {
	tc.t.Helper()

	caKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		tc.t.Fatalf("Failed to generate CA key: %v", err)
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
		tc.t.Fatalf("Failed to create CA certificate: %v", err)
	}
	caCert, err := x509.ParseCertificate(caDER)
	if err != nil {
		tc.t.Fatalf("Failed to parse CA certificate: %v", err)
	}

	leafKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		tc.t.Fatalf("Failed to generate leaf key: %v", err)
	}
	leafSerial := big.NewInt(42)
	leafDER, err := x509.CreateCertificate(rand.Reader, &x509.Certificate{
		SerialNumber: leafSerial,
		Subject:      pkix.Name{CommonName: "test.example.com"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(12 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}, caCert, &leafKey.PublicKey, caKey)
	if err != nil {
		tc.t.Fatalf("Failed to create leaf certificate: %v", err)
	}
	leaf, err := x509.ParseCertificate(leafDER)
	if err != nil {
		tc.t.Fatalf("Failed to parse leaf certificate: %v", err)
	}

	responderKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		tc.t.Fatalf("Failed to generate responder key: %v", err)
	}
	responderDER, err := x509.CreateCertificate(rand.Reader, &x509.Certificate{
		SerialNumber: big.NewInt(1000),
		Subject:      pkix.Name{CommonName: "OCSP Responder"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(12 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageOCSPSigning},
	}, caCert, &responderKey.PublicKey, caKey)
	if err != nil {
		tc.t.Fatalf("Failed to create responder certificate: %v", err)
	}
	responderCert, err := x509.ParseCertificate(responderDER)
	if err != nil {
		tc.t.Fatalf("Failed to parse responder certificate: %v", err)
	}

	keyPath := tc.path("responder-key.pem")
	if err := pkicrypto.SaveSigner(keyPath, responderKey, nil); err != nil {
		tc.t.Fatalf("Failed to write responder key: %v", err)
	}

	return &testPKIFiles{
		caCert:        tc.writeCert("ca.pem", caCert),
		leafCert:      tc.writeCert("server.pem", leaf),
		leafSerial:    leafSerial,
		responderCert: tc.writeCert("responder.pem", responderCert),
		responderKey:  keyPath,
	}
}

func assertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Error("expected an error")
	}
}

func assertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
