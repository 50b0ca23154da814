package der

import (
	"crypto/x509/pkix"
	"encoding/asn1"
	"fmt"
	"math/big"

	"github.com/remiblancher/ocspkit/internal/ocsp"
)

// requestFields is the accessor data shared by both request variants.
type requestFields struct {
	raw        []byte
	alg        ocsp.HashAlgorithm
	nameHash   []byte
	keyHash    []byte
	serial     *big.Int
	extensions []pkix.Extension
}

func (r *requestFields) IssuerKeyHash() []byte             { return r.keyHash }
func (r *requestFields) IssuerNameHash() []byte            { return r.nameHash }
func (r *requestFields) HashAlgorithm() ocsp.HashAlgorithm { return r.alg }
func (r *requestFields) SerialNumber() *big.Int            { return r.serial }
func (r *requestFields) Bytes() []byte                     { return r.raw }

func (r *requestFields) Extensions() []pkix.Extension {
	if len(r.extensions) == 0 {
		return nil
	}
	out := make([]pkix.Extension, len(r.extensions))
	copy(out, r.extensions)
	return out
}

// builtRequest is the in-process variant produced by CreateRequest.
type builtRequest struct {
	requestFields
}

// decodedRequest is the variant produced by LoadRequest.
type decodedRequest struct {
	requestFields
}

var (
	_ ocsp.Request = (*builtRequest)(nil)
	_ ocsp.Request = (*decodedRequest)(nil)
)

// parseRequest decodes and validates an OCSPRequest.
func parseRequest(data []byte) (*decodedRequest, error) {
	var req ocspRequest
	rest, err := asn1.Unmarshal(data, &req)
	if err != nil {
		return nil, fmt.Errorf("%w: request: %v", ocsp.ErrDecode, err)
	}
	if len(rest) > 0 {
		return nil, fmt.Errorf("%w: trailing data after request", ocsp.ErrDecode)
	}

	tbs := req.TBSRequest
	if tbs.Version != 0 {
		return nil, fmt.Errorf("%w: unsupported request version %d", ocsp.ErrDecode, tbs.Version)
	}
	if len(tbs.RequestList) == 0 {
		return nil, fmt.Errorf("%w: request contains no certificates", ocsp.ErrDecode)
	}
	if len(tbs.RequestList) > 1 {
		return nil, fmt.Errorf("%w: request contains more than one certificate", ocsp.ErrDecode)
	}
	if err := checkDuplicateExtensions(tbs.RequestExtensions); err != nil {
		return nil, err
	}

	id := tbs.RequestList[0].ReqCert
	alg, err := ocsp.ResolveHashAlgorithm(id.HashAlgorithm.Algorithm)
	if err != nil {
		return nil, err
	}

	return &decodedRequest{requestFields{
		raw:        data,
		alg:        alg,
		nameHash:   id.IssuerNameHash,
		keyHash:    id.IssuerKeyHash,
		serial:     id.SerialNumber,
		extensions: tbs.RequestExtensions,
	}}, nil
}

// checkDuplicateExtensions rejects repeated extension identifiers.
func checkDuplicateExtensions(exts []pkix.Extension) error {
	for i := range exts {
		for j := i + 1; j < len(exts); j++ {
			if exts[i].Id.Equal(exts[j].Id) {
				return fmt.Errorf("%w: duplicate extension %v", ocsp.ErrDecode, exts[i].Id)
			}
		}
	}
	return nil
}
