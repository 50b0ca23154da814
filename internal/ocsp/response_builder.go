package ocsp

import (
	"crypto"
	"crypto/x509"
	"crypto/x509/pkix"
	"time"
)

// responderID pairs the responder certificate with the CHOICE arm used to
// identify it on the wire.
type responderID struct {
	cert     *x509.Certificate
	encoding ResponderEncoding
}

// ResponseBuilder assembles a signed OCSP response. Like RequestBuilder it
// is persistent: every method returns a new builder and leaves the receiver
// unchanged. A signed response carries exactly one SingleResponse and one
// responder id; the certificate chain and extensions are optional.
type ResponseBuilder struct {
	response   *SingleResponse
	responder  *responderID
	certs      []*x509.Certificate
	extensions []pkix.Extension
}

// NewResponseBuilder returns an empty response builder.
func NewResponseBuilder() *ResponseBuilder {
	return &ResponseBuilder{}
}

// AddResponse fills the single response slot. Pass the zero time for
// nextUpdate and revocationTime when absent; revocation fields are only
// valid with CertStatusRevoked.
func (b *ResponseBuilder) AddResponse(
	cert, issuer *x509.Certificate,
	alg HashAlgorithm,
	status CertStatus,
	thisUpdate, nextUpdate time.Time,
	revocationTime time.Time,
	reason *RevocationReason,
) (*ResponseBuilder, error) {
	const op = "AddResponse"
	if b.response != nil {
		return nil, buildErr(op, ErrConstraintViolation, "only one response per OCSP response")
	}
	sr, err := newSingleResponse(op, cert, issuer, alg, status,
		thisUpdate, nextUpdate, revocationTime, reason)
	if err != nil {
		return nil, err
	}
	return &ResponseBuilder{
		response:   sr,
		responder:  b.responder,
		certs:      b.certs,
		extensions: b.extensions,
	}, nil
}

// ResponderID fills the responder id slot.
func (b *ResponseBuilder) ResponderID(encoding ResponderEncoding, cert *x509.Certificate) (*ResponseBuilder, error) {
	const op = "ResponderID"
	if b.responder != nil {
		return nil, buildErr(op, ErrConstraintViolation, "responder id already set")
	}
	if !encoding.Valid() {
		return nil, buildErr(op, ErrTypeMismatch, "encoding must be by hash or by name")
	}
	if cert == nil {
		return nil, buildErr(op, ErrTypeMismatch, "responder cert must be a certificate")
	}
	return &ResponseBuilder{
		response:   b.response,
		responder:  &responderID{cert: cert, encoding: encoding},
		certs:      b.certs,
		extensions: b.extensions,
	}, nil
}

// Certificates attaches the chain embedded alongside the signature, for
// responders whose certificate is not already known to consumers. The list
// must be non-empty and can be attached once.
func (b *ResponseBuilder) Certificates(certs []*x509.Certificate) (*ResponseBuilder, error) {
	const op = "Certificates"
	if b.certs != nil {
		return nil, buildErr(op, ErrConstraintViolation, "certificates already set")
	}
	if len(certs) == 0 {
		return nil, buildErr(op, ErrConstraintViolation, "certs must not be empty")
	}
	chain := make([]*x509.Certificate, len(certs))
	for i, c := range certs {
		if c == nil {
			return nil, buildErr(op, ErrTypeMismatch, "certs must all be certificates")
		}
		chain[i] = c
	}
	return &ResponseBuilder{
		response:   b.response,
		responder:  b.responder,
		certs:      chain,
		extensions: b.extensions,
	}, nil
}

// AddExtension appends a response-level extension. Extension identifiers
// must be unique within the response.
func (b *ResponseBuilder) AddExtension(ext pkix.Extension) (*ResponseBuilder, error) {
	exts, err := appendExtension("AddExtension", b.extensions, ext)
	if err != nil {
		return nil, err
	}
	return &ResponseBuilder{
		response:   b.response,
		responder:  b.responder,
		certs:      b.certs,
		extensions: exts,
	}, nil
}

// Sign encodes and signs a successful response through the backend. The
// single response and responder id slots must be filled. alg is the digest
// for the signature; pass HashNone to let the engine pick the key's
// default (required for schemes without a separate digest).
func (b *ResponseBuilder) Sign(backend Backend, key crypto.Signer, alg HashAlgorithm) (Response, error) {
	const op = "Sign"
	if backend == nil {
		return nil, buildErr(op, ErrTypeMismatch, "backend must not be nil")
	}
	if key == nil {
		return nil, buildErr(op, ErrTypeMismatch, "key must be a signer")
	}
	if b.response == nil {
		return nil, buildErr(op, ErrConstraintViolation, "add a response before signing")
	}
	if b.responder == nil {
		return nil, buildErr(op, ErrConstraintViolation, "set a responder id before signing")
	}
	if alg != HashNone {
		if err := ValidateHashAlgorithm(alg); err != nil {
			return nil, &BuildError{Op: op, Err: err}
		}
	}
	return backend.CreateResponse(b, key, alg)
}

// BuildUnsuccessful produces a payload-free response carrying only an error
// status. The successful status is rejected: a successful response must go
// through ResponseBuilder.Sign.
func BuildUnsuccessful(backend Backend, status ResponseStatus) (Response, error) {
	const op = "BuildUnsuccessful"
	if backend == nil {
		return nil, buildErr(op, ErrTypeMismatch, "backend must not be nil")
	}
	if !status.Valid() {
		return nil, buildErr(op, ErrTypeMismatch, "status %d is not an OCSP response status", int(status))
	}
	if status == StatusSuccessful {
		return nil, buildErr(op, ErrFieldConsistency, "an unsuccessful response cannot be successful")
	}
	return backend.CreateUnsuccessfulResponse(status)
}

// SingleResponse returns the single response slot, nil while empty.
func (b *ResponseBuilder) SingleResponse() *SingleResponse {
	return b.response
}

// ResponderCertificate returns the responder certificate, nil while the
// responder id slot is empty.
func (b *ResponseBuilder) ResponderCertificate() *x509.Certificate {
	if b.responder == nil {
		return nil
	}
	return b.responder.cert
}

// ResponderEncoding returns the responder id CHOICE arm, zero while the
// slot is empty.
func (b *ResponseBuilder) ResponderEncoding() ResponderEncoding {
	if b.responder == nil {
		return 0
	}
	return b.responder.encoding
}

// CertificateChain returns a copy of the attached chain, nil when none.
func (b *ResponseBuilder) CertificateChain() []*x509.Certificate {
	if len(b.certs) == 0 {
		return nil
	}
	chain := make([]*x509.Certificate, len(b.certs))
	copy(chain, b.certs)
	return chain
}

// Extensions returns a copy of the accumulated response extensions.
func (b *ResponseBuilder) Extensions() []pkix.Extension {
	return cloneExtensions(b.extensions)
}
