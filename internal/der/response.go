package der

import (
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"fmt"
	"math/big"
	"time"

	"github.com/remiblancher/ocspkit/internal/ocsp"
)

// responseFields is the accessor data shared by both response variants.
// For unsuccessful responses only status and raw are populated; every
// other accessor returns its zero value.
type responseFields struct {
	raw    []byte
	status ocsp.ResponseStatus

	tbs    []byte
	sigAlg pkix.AlgorithmIdentifier
	sig    []byte
	certs  []*x509.Certificate

	responderKeyHash []byte
	responderName    *pkix.Name
	producedAt       time.Time

	certStatus       ocsp.CertStatus
	revocationTime   time.Time
	revocationReason *ocsp.RevocationReason
	thisUpdate       time.Time
	nextUpdate       time.Time

	alg      ocsp.HashAlgorithm
	nameHash []byte
	keyHash  []byte
	serial   *big.Int

	extensions       []pkix.Extension
	singleExtensions []pkix.Extension
}

func (r *responseFields) ResponseStatus() ocsp.ResponseStatus          { return r.status }
func (r *responseFields) SignatureAlgorithm() pkix.AlgorithmIdentifier { return r.sigAlg }
func (r *responseFields) Signature() []byte                            { return r.sig }
func (r *responseFields) TBSResponseBytes() []byte                     { return r.tbs }
func (r *responseFields) ResponderKeyHash() []byte                     { return r.responderKeyHash }
func (r *responseFields) ResponderName() *pkix.Name                    { return r.responderName }
func (r *responseFields) ProducedAt() time.Time                        { return r.producedAt }
func (r *responseFields) CertificateStatus() ocsp.CertStatus           { return r.certStatus }
func (r *responseFields) RevocationTime() time.Time                    { return r.revocationTime }
func (r *responseFields) ThisUpdate() time.Time                        { return r.thisUpdate }
func (r *responseFields) NextUpdate() time.Time                        { return r.nextUpdate }
func (r *responseFields) IssuerKeyHash() []byte                        { return r.keyHash }
func (r *responseFields) IssuerNameHash() []byte                       { return r.nameHash }
func (r *responseFields) HashAlgorithm() ocsp.HashAlgorithm            { return r.alg }
func (r *responseFields) SerialNumber() *big.Int                       { return r.serial }
func (r *responseFields) Bytes() []byte                                { return r.raw }

func (r *responseFields) SignatureHashAlgorithm() ocsp.HashAlgorithm {
	return ocsp.HashAlgorithmForSignatureOID(r.sigAlg.Algorithm)
}

func (r *responseFields) RevocationReason() *ocsp.RevocationReason {
	if r.revocationReason == nil {
		return nil
	}
	reason := *r.revocationReason
	return &reason
}

func (r *responseFields) Certificates() []*x509.Certificate {
	if len(r.certs) == 0 {
		return nil
	}
	out := make([]*x509.Certificate, len(r.certs))
	copy(out, r.certs)
	return out
}

func (r *responseFields) Extensions() []pkix.Extension {
	return cloneExts(r.extensions)
}

func (r *responseFields) SingleExtensions() []pkix.Extension {
	return cloneExts(r.singleExtensions)
}

func cloneExts(exts []pkix.Extension) []pkix.Extension {
	if len(exts) == 0 {
		return nil
	}
	out := make([]pkix.Extension, len(exts))
	copy(out, exts)
	return out
}

// builtResponse is the in-process variant produced by CreateResponse and
// CreateUnsuccessfulResponse.
type builtResponse struct {
	responseFields
}

// decodedResponse is the variant produced by LoadResponse.
type decodedResponse struct {
	responseFields
}

var (
	_ ocsp.Response = (*builtResponse)(nil)
	_ ocsp.Response = (*decodedResponse)(nil)
)

// encodeCertStatus renders the CertStatus CHOICE. good and unknown are
// implicit empty primitives; revoked is an implicitly tagged RevokedInfo.
func encodeCertStatus(sr *ocsp.SingleResponse) (asn1.RawValue, error) {
	switch sr.Status() {
	case ocsp.CertStatusGood:
		return asn1.RawValue{Class: asn1.ClassContextSpecific, Tag: 0}, nil
	case ocsp.CertStatusUnknown:
		return asn1.RawValue{Class: asn1.ClassContextSpecific, Tag: 2}, nil
	case ocsp.CertStatusRevoked:
		var (
			der []byte
			err error
		)
		if reason := sr.RevocationReason(); reason != nil {
			der, err = asn1.MarshalWithParams(revokedInfoWithReason{
				RevocationTime: sr.RevocationTime(),
				Reason:         asn1.Enumerated(*reason),
			}, "tag:1")
		} else {
			der, err = asn1.MarshalWithParams(revokedInfoNoReason{
				RevocationTime: sr.RevocationTime(),
			}, "tag:1")
		}
		if err != nil {
			return asn1.RawValue{}, fmt.Errorf("failed to encode revoked info: %w", err)
		}
		return asn1.RawValue{FullBytes: der}, nil
	default:
		return asn1.RawValue{}, fmt.Errorf("%w: cert status %d", ocsp.ErrTypeMismatch, int(sr.Status()))
	}
}

// parseCertStatus interprets the CertStatus CHOICE by context tag.
func parseCertStatus(raw asn1.RawValue) (ocsp.CertStatus, time.Time, *ocsp.RevocationReason, error) {
	if raw.Class != asn1.ClassContextSpecific {
		return 0, time.Time{}, nil, fmt.Errorf("%w: cert status has class %d", ocsp.ErrDecode, raw.Class)
	}
	switch raw.Tag {
	case 0:
		return ocsp.CertStatusGood, time.Time{}, nil, nil
	case 1:
		var ri revokedInfo
		if _, err := asn1.UnmarshalWithParams(raw.FullBytes, &ri, "tag:1"); err != nil {
			return 0, time.Time{}, nil, fmt.Errorf("%w: revoked info: %v", ocsp.ErrDecode, err)
		}
		var reason *ocsp.RevocationReason
		if len(ri.Reason.FullBytes) > 0 {
			var e asn1.Enumerated
			if _, err := asn1.Unmarshal(ri.Reason.FullBytes, &e); err != nil {
				return 0, time.Time{}, nil, fmt.Errorf("%w: revocation reason: %v", ocsp.ErrDecode, err)
			}
			r := ocsp.RevocationReason(e)
			if !r.Valid() {
				return 0, time.Time{}, nil, fmt.Errorf("%w: revocation reason %d", ocsp.ErrDecode, int(r))
			}
			reason = &r
		}
		return ocsp.CertStatusRevoked, ri.RevocationTime, reason, nil
	case 2:
		return ocsp.CertStatusUnknown, time.Time{}, nil, nil
	default:
		return 0, time.Time{}, nil, fmt.Errorf("%w: cert status has tag %d", ocsp.ErrDecode, raw.Tag)
	}
}

// encodeResponderID renders the ResponderID CHOICE. Both arms carry
// explicit tags per the RFC 6960 module.
func encodeResponderID(cert *x509.Certificate, enc ocsp.ResponderEncoding) (asn1.RawValue, error) {
	switch enc {
	case ocsp.ResponderByName:
		return asn1.RawValue{
			Class:      asn1.ClassContextSpecific,
			Tag:        1,
			IsCompound: true,
			Bytes:      cert.RawSubject,
		}, nil
	case ocsp.ResponderByHash:
		keyHash, err := responderKeyHash(cert)
		if err != nil {
			return asn1.RawValue{}, err
		}
		inner, err := asn1.Marshal(keyHash)
		if err != nil {
			return asn1.RawValue{}, fmt.Errorf("failed to encode key hash: %w", err)
		}
		return asn1.RawValue{
			Class:      asn1.ClassContextSpecific,
			Tag:        2,
			IsCompound: true,
			Bytes:      inner,
		}, nil
	default:
		return asn1.RawValue{}, fmt.Errorf("%w: responder encoding %d", ocsp.ErrTypeMismatch, int(enc))
	}
}

// parseResponderID interprets the ResponderID CHOICE by context tag.
func parseResponderID(raw asn1.RawValue) (*pkix.Name, []byte, error) {
	if raw.Class != asn1.ClassContextSpecific {
		return nil, nil, fmt.Errorf("%w: responder id has class %d", ocsp.ErrDecode, raw.Class)
	}
	switch raw.Tag {
	case 1:
		var rdn pkix.RDNSequence
		if _, err := asn1.Unmarshal(raw.Bytes, &rdn); err != nil {
			return nil, nil, fmt.Errorf("%w: responder name: %v", ocsp.ErrDecode, err)
		}
		var name pkix.Name
		name.FillFromRDNSequence(&rdn)
		return &name, nil, nil
	case 2:
		var keyHash []byte
		if _, err := asn1.Unmarshal(raw.Bytes, &keyHash); err != nil {
			return nil, nil, fmt.Errorf("%w: responder key hash: %v", ocsp.ErrDecode, err)
		}
		return nil, keyHash, nil
	default:
		return nil, nil, fmt.Errorf("%w: responder id has tag %d", ocsp.ErrDecode, raw.Tag)
	}
}

// parseResponse decodes and validates an OCSPResponse, including the
// BasicOCSPResponse payload of successful responses.
func parseResponse(data []byte) (*decodedResponse, error) {
	var resp ocspResponse
	rest, err := asn1.Unmarshal(data, &resp)
	if err != nil {
		return nil, fmt.Errorf("%w: response: %v", ocsp.ErrDecode, err)
	}
	if len(rest) > 0 {
		return nil, fmt.Errorf("%w: trailing data after response", ocsp.ErrDecode)
	}

	status := ocsp.ResponseStatus(resp.ResponseStatus)
	if !status.Valid() {
		return nil, fmt.Errorf("%w: response status %d", ocsp.ErrDecode, int(resp.ResponseStatus))
	}

	if status != ocsp.StatusSuccessful {
		if len(resp.ResponseBytes.Response) > 0 {
			return nil, fmt.Errorf("%w: unsuccessful response carries a payload", ocsp.ErrDecode)
		}
		return &decodedResponse{responseFields{raw: data, status: status}}, nil
	}

	if !resp.ResponseBytes.ResponseType.Equal(ocsp.OIDOcspBasic) {
		return nil, fmt.Errorf("%w: unsupported response type %v", ocsp.ErrDecode, resp.ResponseBytes.ResponseType)
	}
	if len(resp.ResponseBytes.Response) == 0 {
		return nil, fmt.Errorf("%w: successful response carries no payload", ocsp.ErrDecode)
	}

	var basic basicResponse
	rest, err = asn1.Unmarshal(resp.ResponseBytes.Response, &basic)
	if err != nil {
		return nil, fmt.Errorf("%w: basic response: %v", ocsp.ErrDecode, err)
	}
	if len(rest) > 0 {
		return nil, fmt.Errorf("%w: trailing data after basic response", ocsp.ErrDecode)
	}

	var rd responseData
	if _, err := asn1.Unmarshal(basic.TBSResponseData.FullBytes, &rd); err != nil {
		return nil, fmt.Errorf("%w: response data: %v", ocsp.ErrDecode, err)
	}
	if rd.Version != 0 {
		return nil, fmt.Errorf("%w: unsupported response version %d", ocsp.ErrDecode, rd.Version)
	}
	if len(rd.Responses) != 1 {
		return nil, fmt.Errorf("%w: response must carry exactly one single response, got %d",
			ocsp.ErrDecode, len(rd.Responses))
	}
	if err := checkDuplicateExtensions(rd.ResponseExtensions); err != nil {
		return nil, err
	}

	responderName, keyHash, err := parseResponderID(rd.ResponderID)
	if err != nil {
		return nil, err
	}

	single := rd.Responses[0]
	if err := checkDuplicateExtensions(single.SingleExtensions); err != nil {
		return nil, err
	}
	alg, err := ocsp.ResolveHashAlgorithm(single.CertID.HashAlgorithm.Algorithm)
	if err != nil {
		return nil, err
	}
	certStatus, revocationTime, reason, err := parseCertStatus(single.CertStatus)
	if err != nil {
		return nil, err
	}

	certs := make([]*x509.Certificate, 0, len(basic.Certificates))
	for _, raw := range basic.Certificates {
		cert, err := x509.ParseCertificate(raw.FullBytes)
		if err != nil {
			return nil, fmt.Errorf("%w: embedded certificate: %v", ocsp.ErrDecode, err)
		}
		certs = append(certs, cert)
	}
	if len(certs) == 0 {
		certs = nil
	}

	return &decodedResponse{responseFields{
		raw:    data,
		status: status,

		tbs:    basic.TBSResponseData.FullBytes,
		sigAlg: basic.SignatureAlgorithm,
		sig:    basic.Signature.RightAlign(),
		certs:  certs,

		responderKeyHash: keyHash,
		responderName:    responderName,
		producedAt:       rd.ProducedAt,

		certStatus:       certStatus,
		revocationTime:   revocationTime,
		revocationReason: reason,
		thisUpdate:       single.ThisUpdate,
		nextUpdate:       single.NextUpdate,

		alg:      alg,
		nameHash: single.CertID.IssuerNameHash,
		keyHash:  single.CertID.IssuerKeyHash,
		serial:   single.CertID.SerialNumber,

		extensions:       rd.ResponseExtensions,
		singleExtensions: single.SingleExtensions,
	}}, nil
}
