package ocsp

import (
	"crypto"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"time"
)

// Request is the read-only OCSP request model. It has two implementations:
// one decoded from DER bytes, one produced by RequestBuilder.Build. Both
// expose the same accessors.
type Request interface {
	// IssuerKeyHash is the digest of the issuer SPKI BIT STRING value.
	IssuerKeyHash() []byte
	// IssuerNameHash is the digest of the issuer's DER-encoded subject.
	IssuerNameHash() []byte
	// HashAlgorithm is the CertID digest algorithm.
	HashAlgorithm() HashAlgorithm
	// SerialNumber is the subject certificate serial.
	SerialNumber() *big.Int
	// Extensions are the request-level extensions.
	Extensions() []pkix.Extension
	// Bytes is the DER encoding of the request.
	Bytes() []byte
}

// Response is the read-only OCSP response model, covering the outer
// OCSPResponse envelope and, for successful responses, the single
// status assertion inside the BasicOCSPResponse payload.
//
// On unsuccessful responses every accessor except ResponseStatus and
// Bytes returns its zero value.
type Response interface {
	// ResponseStatus is the outer envelope status.
	ResponseStatus() ResponseStatus

	// SignatureAlgorithm identifies the response signature scheme.
	SignatureAlgorithm() pkix.AlgorithmIdentifier
	// SignatureHashAlgorithm is the digest inside the signature scheme,
	// HashNone for schemes without a separate digest (Ed25519, ML-DSA,
	// SLH-DSA) and on unsuccessful responses.
	SignatureHashAlgorithm() HashAlgorithm
	// Signature is the raw signature value.
	Signature() []byte
	// TBSResponseBytes is the exact DER of tbsResponseData as signed.
	// It is preserved from the wire, never re-encoded.
	TBSResponseBytes() []byte
	// Certificates is the embedded responder certificate chain.
	Certificates() []*x509.Certificate

	// ResponderKeyHash is set when the responder is identified byKey.
	ResponderKeyHash() []byte
	// ResponderName is set when the responder is identified byName.
	ResponderName() *pkix.Name
	// ProducedAt is the signing time of the response.
	ProducedAt() time.Time

	// CertificateStatus is the status asserted for the subject.
	CertificateStatus() CertStatus
	// RevocationTime is zero unless the status is revoked.
	RevocationTime() time.Time
	// RevocationReason is nil when absent.
	RevocationReason() *RevocationReason
	// ThisUpdate is the assertion validity start.
	ThisUpdate() time.Time
	// NextUpdate is zero when the responder published no refresh time.
	NextUpdate() time.Time

	// IssuerKeyHash, IssuerNameHash, HashAlgorithm and SerialNumber
	// mirror the CertID of the answered request.
	IssuerKeyHash() []byte
	IssuerNameHash() []byte
	HashAlgorithm() HashAlgorithm
	SerialNumber() *big.Int

	// Extensions are the response-level extensions.
	Extensions() []pkix.Extension
	// SingleExtensions are the extensions on the single response.
	SingleExtensions() []pkix.Extension

	// Bytes is the DER encoding of the full OCSPResponse.
	Bytes() []byte
}

// Backend encodes and decodes the wire form. Terminal builder operations
// receive it explicitly rather than resolving a codec ambiently.
type Backend interface {
	CreateRequest(b *RequestBuilder) (Request, error)
	CreateResponse(b *ResponseBuilder, key crypto.Signer, alg HashAlgorithm) (Response, error)
	CreateUnsuccessfulResponse(status ResponseStatus) (Response, error)
	LoadRequest(der []byte) (Request, error)
	LoadResponse(der []byte) (Response, error)
}

// SigningEngine signs exact TBS bytes and reports the algorithm identifier
// to embed alongside the signature.
type SigningEngine interface {
	Sign(tbs []byte, key crypto.Signer, alg HashAlgorithm) ([]byte, pkix.AlgorithmIdentifier, error)
}
