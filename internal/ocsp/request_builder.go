package ocsp

import (
	"crypto/x509"
	"crypto/x509/pkix"
)

// certificateRequest is the single occupied certificate slot of a
// RequestBuilder.
type certificateRequest struct {
	cert   *x509.Certificate
	issuer *x509.Certificate
	alg    HashAlgorithm
}

// RequestBuilder assembles an OCSP request. It is persistent: every method
// returns a new builder and leaves the receiver unchanged, so a builder
// value can be reused and extended along different paths.
type RequestBuilder struct {
	request    *certificateRequest
	extensions []pkix.Extension
}

// NewRequestBuilder returns an empty request builder.
func NewRequestBuilder() *RequestBuilder {
	return &RequestBuilder{}
}

// AddCertificate fills the certificate slot. Exactly one certificate can be
// added; alg is the CertID digest algorithm.
func (b *RequestBuilder) AddCertificate(cert, issuer *x509.Certificate, alg HashAlgorithm) (*RequestBuilder, error) {
	const op = "AddCertificate"
	if b.request != nil {
		return nil, buildErr(op, ErrConstraintViolation, "only one certificate can be requested")
	}
	if cert == nil || issuer == nil {
		return nil, buildErr(op, ErrTypeMismatch, "cert and issuer must be certificates")
	}
	if err := ValidateHashAlgorithm(alg); err != nil {
		return nil, &BuildError{Op: op, Err: err}
	}
	return &RequestBuilder{
		request:    &certificateRequest{cert: cert, issuer: issuer, alg: alg},
		extensions: b.extensions,
	}, nil
}

// AddExtension appends a request extension. Extension identifiers must be
// unique within the request.
func (b *RequestBuilder) AddExtension(ext pkix.Extension) (*RequestBuilder, error) {
	exts, err := appendExtension("AddExtension", b.extensions, ext)
	if err != nil {
		return nil, err
	}
	return &RequestBuilder{request: b.request, extensions: exts}, nil
}

// Build encodes the request through the backend. The certificate slot must
// be filled. Requests are not signed.
func (b *RequestBuilder) Build(backend Backend) (Request, error) {
	const op = "Build"
	if backend == nil {
		return nil, buildErr(op, ErrTypeMismatch, "backend must not be nil")
	}
	if b.request == nil {
		return nil, buildErr(op, ErrConstraintViolation, "add a certificate before building")
	}
	return backend.CreateRequest(b)
}

// Certificate returns the subject certificate, nil while the slot is empty.
func (b *RequestBuilder) Certificate() *x509.Certificate {
	if b.request == nil {
		return nil
	}
	return b.request.cert
}

// Issuer returns the issuer certificate, nil while the slot is empty.
func (b *RequestBuilder) Issuer() *x509.Certificate {
	if b.request == nil {
		return nil
	}
	return b.request.issuer
}

// HashAlgorithm returns the CertID digest algorithm, HashNone while the
// slot is empty.
func (b *RequestBuilder) HashAlgorithm() HashAlgorithm {
	if b.request == nil {
		return HashNone
	}
	return b.request.alg
}

// Extensions returns a copy of the accumulated request extensions.
func (b *RequestBuilder) Extensions() []pkix.Extension {
	return cloneExtensions(b.extensions)
}
