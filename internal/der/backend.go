package der

import (
	"crypto"
	"encoding/asn1"
	"fmt"
	"time"

	"github.com/remiblancher/ocspkit/internal/ocsp"
)

// Backend is the DER codec behind the builders. The signing engine is
// injected at construction; everything else arrives through builder state.
type Backend struct {
	engine ocsp.SigningEngine
}

var _ ocsp.Backend = (*Backend)(nil)

// NewBackend returns a backend signing through engine. A backend without
// an engine can encode requests and unsuccessful responses but not sign.
func NewBackend(engine ocsp.SigningEngine) *Backend {
	return &Backend{engine: engine}
}

// CreateRequest encodes the builder state into an OCSPRequest.
func (be *Backend) CreateRequest(b *ocsp.RequestBuilder) (ocsp.Request, error) {
	cert, issuer := b.Certificate(), b.Issuer()
	if cert == nil || issuer == nil {
		return nil, fmt.Errorf("%w: request builder has no certificate", ocsp.ErrConstraintViolation)
	}

	id, err := newCertID(cert, issuer, b.HashAlgorithm())
	if err != nil {
		return nil, err
	}

	exts := b.Extensions()
	raw, err := asn1.Marshal(ocspRequest{
		TBSRequest: tbsRequest{
			RequestList:       []request{{ReqCert: id}},
			RequestExtensions: exts,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	return &builtRequest{requestFields{
		raw:        raw,
		alg:        b.HashAlgorithm(),
		nameHash:   id.IssuerNameHash,
		keyHash:    id.IssuerKeyHash,
		serial:     cert.SerialNumber,
		extensions: exts,
	}}, nil
}

// CreateResponse encodes and signs the builder state into a successful
// OCSPResponse carrying a BasicOCSPResponse.
func (be *Backend) CreateResponse(b *ocsp.ResponseBuilder, key crypto.Signer, alg ocsp.HashAlgorithm) (ocsp.Response, error) {
	if be.engine == nil {
		return nil, fmt.Errorf("%w: backend has no signing engine", ocsp.ErrSigning)
	}
	sr := b.SingleResponse()
	responderCert := b.ResponderCertificate()
	if sr == nil || responderCert == nil {
		return nil, fmt.Errorf("%w: response builder is incomplete", ocsp.ErrConstraintViolation)
	}

	id, err := newCertID(sr.Certificate(), sr.Issuer(), sr.HashAlgorithm())
	if err != nil {
		return nil, err
	}
	certStatus, err := encodeCertStatus(sr)
	if err != nil {
		return nil, err
	}
	responderID, err := encodeResponderID(responderCert, b.ResponderEncoding())
	if err != nil {
		return nil, err
	}

	exts := b.Extensions()
	producedAt := time.Now().UTC().Truncate(time.Second)
	tbs, err := asn1.Marshal(responseData{
		ResponderID: responderID,
		ProducedAt:  producedAt,
		Responses: []singleResponse{{
			CertID:     id,
			CertStatus: certStatus,
			ThisUpdate: sr.ThisUpdate(),
			NextUpdate: sr.NextUpdate(),
		}},
		ResponseExtensions: exts,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode response data: %w", err)
	}

	sig, sigAlg, err := be.engine.Sign(tbs, key, alg)
	if err != nil {
		return nil, err
	}

	chain := b.CertificateChain()
	rawCerts := make([]asn1.RawValue, 0, len(chain))
	for _, c := range chain {
		rawCerts = append(rawCerts, asn1.RawValue{FullBytes: c.Raw})
	}
	if len(rawCerts) == 0 {
		rawCerts = nil
	}

	basicDER, err := asn1.Marshal(basicResponse{
		TBSResponseData:    asn1.RawValue{FullBytes: tbs},
		SignatureAlgorithm: sigAlg,
		Signature:          asn1.BitString{Bytes: sig, BitLength: len(sig) * 8},
		Certificates:       rawCerts,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode basic response: %w", err)
	}

	raw, err := asn1.Marshal(ocspResponse{
		ResponseStatus: asn1.Enumerated(ocsp.StatusSuccessful),
		ResponseBytes: responseBytes{
			ResponseType: ocsp.OIDOcspBasic,
			Response:     basicDER,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode response: %w", err)
	}

	fields := responseFields{
		raw:    raw,
		status: ocsp.StatusSuccessful,

		tbs:    tbs,
		sigAlg: sigAlg,
		sig:    sig,
		certs:  chain,

		producedAt: producedAt,

		certStatus:       sr.Status(),
		revocationTime:   sr.RevocationTime(),
		revocationReason: sr.RevocationReason(),
		thisUpdate:       sr.ThisUpdate(),
		nextUpdate:       sr.NextUpdate(),

		alg:      sr.HashAlgorithm(),
		nameHash: id.IssuerNameHash,
		keyHash:  id.IssuerKeyHash,
		serial:   sr.Certificate().SerialNumber,

		extensions: exts,
	}
	switch b.ResponderEncoding() {
	case ocsp.ResponderByHash:
		keyHash, err := responderKeyHash(responderCert)
		if err != nil {
			return nil, err
		}
		fields.responderKeyHash = keyHash
	case ocsp.ResponderByName:
		name := responderCert.Subject
		fields.responderName = &name
	}

	return &builtResponse{fields}, nil
}

// CreateUnsuccessfulResponse encodes a payload-free error response.
func (be *Backend) CreateUnsuccessfulResponse(status ocsp.ResponseStatus) (ocsp.Response, error) {
	if !status.Valid() || status == ocsp.StatusSuccessful {
		return nil, fmt.Errorf("%w: status %d is not an error status", ocsp.ErrTypeMismatch, int(status))
	}
	raw, err := asn1.Marshal(ocspResponse{ResponseStatus: asn1.Enumerated(status)})
	if err != nil {
		return nil, fmt.Errorf("failed to encode response: %w", err)
	}
	return &builtResponse{responseFields{raw: raw, status: status}}, nil
}

// LoadRequest parses and validates a DER OCSPRequest.
func (be *Backend) LoadRequest(der []byte) (ocsp.Request, error) {
	req, err := parseRequest(der)
	if err != nil {
		return nil, err
	}
	return req, nil
}

// LoadResponse parses and validates a DER OCSPResponse.
func (be *Backend) LoadResponse(der []byte) (ocsp.Response, error) {
	resp, err := parseResponse(der)
	if err != nil {
		return nil, err
	}
	return resp, nil
}
