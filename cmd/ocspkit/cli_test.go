package main

import (
	"os"
	"testing"

	"github.com/remiblancher/ocspkit/internal/ocsp"
)

func TestF_Request_Create(t *testing.T) {
	tc := newTestContext(t)
	resetFlags()
	pki := tc.setupPKI()

	reqPath := tc.path("request.der")
	_, err := executeCommand(rootCmd, "request",
		"--issuer", pki.caCert,
		"--cert", pki.leafCert,
		"--nonce",
		"--out", reqPath,
	)
	assertNoError(t, err)

	data, err := os.ReadFile(reqPath)
	assertNoError(t, err)

	req, err := newBackend().LoadRequest(data)
	assertNoError(t, err)
	if req.SerialNumber().Cmp(pki.leafSerial) != 0 {
		t.Errorf("SerialNumber() = %v, want %v", req.SerialNumber(), pki.leafSerial)
	}
	if len(req.Extensions()) != 1 {
		t.Errorf("Extensions() has %d entries, want the nonce", len(req.Extensions()))
	}
}

func TestF_Request_MissingIssuer(t *testing.T) {
	tc := newTestContext(t)
	resetFlags()

	_, err := executeCommand(rootCmd, "request",
		"--cert", tc.path("missing.pem"),
		"--out", tc.path("request.der"),
	)
	assertError(t, err)
}

func TestF_Sign_And_Verify(t *testing.T) {
	tc := newTestContext(t)
	resetFlags()
	pki := tc.setupPKI()

	respPath := tc.path("response.der")
	_, err := executeCommand(rootCmd, "sign",
		"--serial", "0x2a",
		"--status", "revoked",
		"--revocation-time", "2026-01-15T10:00:00Z",
		"--revocation-reason", "keyCompromise",
		"--ca", pki.caCert,
		"--cert", pki.responderCert,
		"--key", pki.responderKey,
		"--include-chain",
		"--out", respPath,
	)
	assertNoError(t, err)

	resetFlags()
	_, err = executeCommand(rootCmd, "verify", respPath,
		"--responder", pki.responderCert,
		"--ca", pki.caCert,
	)
	assertNoError(t, err)

	// Embedded certificate path, no --responder.
	resetFlags()
	_, err = executeCommand(rootCmd, "verify", respPath, "--ca", pki.caCert)
	assertNoError(t, err)

	data, err := os.ReadFile(respPath)
	assertNoError(t, err)
	resp, err := newBackend().LoadResponse(data)
	assertNoError(t, err)
	if resp.CertificateStatus() != ocsp.CertStatusRevoked {
		t.Errorf("CertificateStatus() = %v, want revoked", resp.CertificateStatus())
	}
	if reason := resp.RevocationReason(); reason == nil || *reason != ocsp.ReasonKeyCompromise {
		t.Errorf("RevocationReason() = %v, want key compromise", reason)
	}
}

func TestF_Sign_MissingRevocationTime(t *testing.T) {
	tc := newTestContext(t)
	resetFlags()
	pki := tc.setupPKI()

	_, err := executeCommand(rootCmd, "sign",
		"--serial", "0x2a",
		"--status", "revoked",
		"--ca", pki.caCert,
		"--key", pki.responderKey,
		"--out", tc.path("response.der"),
	)
	assertError(t, err)
}

func TestF_Respond_EndToEnd(t *testing.T) {
	tc := newTestContext(t)
	resetFlags()
	pki := tc.setupPKI()

	tc.writeFile("index.yaml", `
entries:
  - serial: "0x2a"
    status: good
`)
	cfgPath := tc.writeFile("responder.yaml", `
ca_cert: ca.pem
responder_cert: responder.pem
responder_key: responder-key.pem
index: index.yaml
validity: 24h
include_chain: true
`)

	reqPath := tc.path("request.der")
	_, err := executeCommand(rootCmd, "request",
		"--issuer", pki.caCert,
		"--cert", pki.leafCert,
		"--out", reqPath,
	)
	assertNoError(t, err)

	resetFlags()
	respPath := tc.path("response.der")
	_, err = executeCommand(rootCmd, "respond",
		"--config", cfgPath,
		"--in", reqPath,
		"--out", respPath,
	)
	assertNoError(t, err)

	data, err := os.ReadFile(respPath)
	assertNoError(t, err)
	resp, err := newBackend().LoadResponse(data)
	assertNoError(t, err)
	if resp.ResponseStatus() != ocsp.StatusSuccessful {
		t.Fatalf("ResponseStatus() = %v, want successful", resp.ResponseStatus())
	}
	if resp.CertificateStatus() != ocsp.CertStatusGood {
		t.Errorf("CertificateStatus() = %v, want good", resp.CertificateStatus())
	}

	resetFlags()
	_, err = executeCommand(rootCmd, "verify", respPath, "--ca", pki.caCert)
	assertNoError(t, err)
}

func TestF_Info_RequestAndResponse(t *testing.T) {
	tc := newTestContext(t)
	resetFlags()
	pki := tc.setupPKI()

	reqPath := tc.path("request.der")
	_, err := executeCommand(rootCmd, "request",
		"--issuer", pki.caCert,
		"--cert", pki.leafCert,
		"--out", reqPath,
	)
	assertNoError(t, err)

	resetFlags()
	_, err = executeCommand(rootCmd, "info", reqPath)
	assertNoError(t, err)

	resetFlags()
	respPath := tc.path("response.der")
	_, err = executeCommand(rootCmd, "sign",
		"--serial", "0x2a",
		"--status", "good",
		"--ca", pki.caCert,
		"--cert", pki.responderCert,
		"--key", pki.responderKey,
		"--out", respPath,
	)
	assertNoError(t, err)

	resetFlags()
	_, err = executeCommand(rootCmd, "info", respPath)
	assertNoError(t, err)

	resetFlags()
	_, err = executeCommand(rootCmd, "info", pki.caCert)
	assertError(t, err)
}

func TestF_KeyGen(t *testing.T) {
	tc := newTestContext(t)
	resetFlags()

	keyPath := tc.path("key.pem")
	_, err := executeCommand(rootCmd, "key", "gen",
		"--algorithm", "ml-dsa-44",
		"--out", keyPath,
	)
	assertNoError(t, err)

	if _, err := os.Stat(keyPath); err != nil {
		t.Fatalf("key file was not written: %v", err)
	}

	resetFlags()
	_, err = executeCommand(rootCmd, "key", "gen",
		"--algorithm", "rot13",
		"--out", tc.path("bad.pem"),
	)
	assertError(t, err)
}

func TestF_AuditLog_Written(t *testing.T) {
	tc := newTestContext(t)
	resetFlags()
	pki := tc.setupPKI()

	auditPath := tc.path("audit.jsonl")
	_, err := executeCommand(rootCmd, "request",
		"--audit-log", auditPath,
		"--issuer", pki.caCert,
		"--cert", pki.leafCert,
		"--out", tc.path("request.der"),
	)
	assertNoError(t, err)

	data, err := os.ReadFile(auditPath)
	assertNoError(t, err)
	if len(data) == 0 {
		t.Error("audit log is empty")
	}
}
