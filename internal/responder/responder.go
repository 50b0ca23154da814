package responder

import (
	"bytes"
	"crypto"
	"crypto/x509"
	"fmt"
	"math/big"
	"time"

	"github.com/remiblancher/ocspkit/internal/audit"
	pkicrypto "github.com/remiblancher/ocspkit/internal/crypto"
	"github.com/remiblancher/ocspkit/internal/der"
	"github.com/remiblancher/ocspkit/internal/ocsp"
)

// Responder answers OCSP requests for the certificates of one CA.
type Responder struct {
	backend ocsp.Backend
	caCert  *x509.Certificate
	cert    *x509.Certificate
	key     crypto.Signer
	index   *Index

	encoding     ocsp.ResponderEncoding
	validity     time.Duration
	includeChain bool
	sigHash      ocsp.HashAlgorithm
}

// Options carries the material of a Responder. Encoding defaults to by
// hash; a zero Validity omits nextUpdate.
type Options struct {
	Backend       ocsp.Backend
	CACert        *x509.Certificate
	ResponderCert *x509.Certificate
	Key           crypto.Signer
	Index         *Index

	Encoding      ocsp.ResponderEncoding
	Validity      time.Duration
	IncludeChain  bool
	SignatureHash ocsp.HashAlgorithm
}

// New builds a responder from loaded material.
func New(opts Options) (*Responder, error) {
	if opts.Backend == nil {
		return nil, fmt.Errorf("responder needs a backend")
	}
	if opts.CACert == nil {
		return nil, fmt.Errorf("responder needs the CA certificate")
	}
	if opts.ResponderCert == nil || opts.Key == nil {
		return nil, fmt.Errorf("responder needs a signing certificate and key")
	}
	if opts.Index == nil {
		return nil, fmt.Errorf("responder needs a status index")
	}

	encoding := opts.Encoding
	if encoding == 0 {
		encoding = ocsp.ResponderByHash
	}
	if !encoding.Valid() {
		return nil, fmt.Errorf("invalid responder encoding %d", int(encoding))
	}
	if opts.Validity < 0 {
		return nil, fmt.Errorf("validity must not be negative")
	}

	return &Responder{
		backend:      opts.Backend,
		caCert:       opts.CACert,
		cert:         opts.ResponderCert,
		key:          opts.Key,
		index:        opts.Index,
		encoding:     encoding,
		validity:     opts.Validity,
		includeChain: opts.IncludeChain,
		sigHash:      opts.SignatureHash,
	}, nil
}

// Open loads a responder from its configuration file.
func Open(path string, backend ocsp.Backend) (*Responder, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	caCert, err := pkicrypto.LoadCertificate(cfg.CACert)
	if err != nil {
		return nil, err
	}
	cert, err := pkicrypto.LoadCertificate(cfg.ResponderCert)
	if err != nil {
		return nil, err
	}
	key, err := pkicrypto.LoadSigner(cfg.ResponderKey, nil)
	if err != nil {
		return nil, err
	}
	index, err := LoadIndex(cfg.Index)
	if err != nil {
		return nil, err
	}

	encoding, err := cfg.ResponderEncoding()
	if err != nil {
		return nil, err
	}
	sigHash, err := cfg.SignatureHashAlgorithm()
	if err != nil {
		return nil, err
	}
	validity, err := cfg.ValidityDuration()
	if err != nil {
		return nil, err
	}

	return New(Options{
		Backend:       backend,
		CACert:        caCert,
		ResponderCert: cert,
		Key:           key,
		Index:         index,
		Encoding:      encoding,
		Validity:      validity,
		IncludeChain:  cfg.IncludeChain,
		SignatureHash: sigHash,
	})
}

// Respond answers one DER-encoded OCSP request. Protocol problems come
// back as unsuccessful responses, never as errors: an undecodable request
// yields malformedRequest, a serial outside the index or a request for a
// different CA yields unauthorized. An error means even the error response
// could not be produced.
func (r *Responder) Respond(reqDER []byte) ([]byte, error) {
	req, err := r.backend.LoadRequest(reqDER)
	if err != nil {
		return r.unsuccessful("", ocsp.StatusMalformedRequest)
	}

	serial := serialString(req.SerialNumber())
	if !r.servesIssuer(req) {
		return r.unsuccessful(serial, ocsp.StatusUnauthorized)
	}
	entry, ok := r.index.Lookup(req.SerialNumber())
	if !ok {
		return r.unsuccessful(serial, ocsp.StatusUnauthorized)
	}

	now := time.Now().UTC().Truncate(time.Second)
	var nextUpdate time.Time
	if r.validity > 0 {
		nextUpdate = now.Add(r.validity)
	}

	// The CertID only needs the subject's serial; the certificate itself
	// is not required to attest its status.
	subject := &x509.Certificate{SerialNumber: new(big.Int).Set(req.SerialNumber())}

	builder, err := ocsp.NewResponseBuilder().AddResponse(
		subject, r.caCert, req.HashAlgorithm(), entry.Status,
		now, nextUpdate, entry.RevokedAt, entry.Reason)
	if err != nil {
		return r.unsuccessful(serial, ocsp.StatusInternalError)
	}
	builder, err = builder.ResponderID(r.encoding, r.cert)
	if err != nil {
		return r.unsuccessful(serial, ocsp.StatusInternalError)
	}
	if r.includeChain {
		builder, err = builder.Certificates([]*x509.Certificate{r.cert})
		if err != nil {
			return r.unsuccessful(serial, ocsp.StatusInternalError)
		}
	}

	resp, err := builder.Sign(r.backend, r.key, r.sigHash)
	if err != nil {
		return r.unsuccessful(serial, ocsp.StatusInternalError)
	}

	if err := audit.LogResponderAnswered(serial, ocsp.StatusSuccessful.String(), entry.Status.String(), true); err != nil {
		return nil, err
	}
	return resp.Bytes(), nil
}

// servesIssuer checks the request's issuer hashes against the configured CA
// under the request's own CertID algorithm.
func (r *Responder) servesIssuer(req ocsp.Request) bool {
	nameHash, keyHash, err := der.IssuerHashes(r.caCert, req.HashAlgorithm())
	if err != nil {
		return false
	}
	return bytes.Equal(nameHash, req.IssuerNameHash()) &&
		bytes.Equal(keyHash, req.IssuerKeyHash())
}

func (r *Responder) unsuccessful(serial string, status ocsp.ResponseStatus) ([]byte, error) {
	resp, err := ocsp.BuildUnsuccessful(r.backend, status)
	if err != nil {
		return nil, err
	}
	if err := audit.LogResponderAnswered(serial, status.String(), "", false); err != nil {
		return nil, err
	}
	return resp.Bytes(), nil
}

func serialString(serial *big.Int) string {
	if serial == nil {
		return ""
	}
	return "0x" + serial.Text(16)
}
