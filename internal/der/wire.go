// Package der implements the RFC 6960 wire encoding. It is the Backend
// collaborator behind the request and response builders: it turns builder
// state into DER, parses DER into read-only models, and enforces the wire
// invariants on load.
package der

import (
	"crypto/x509/pkix"
	"encoding/asn1"
	"math/big"
	"time"
)

// Wire structures per RFC 6960 appendix B. Optional fields at their zero
// value are omitted by encoding/asn1 on marshal, so the same structures
// serve both directions except where noted.

type certID struct {
	HashAlgorithm  pkix.AlgorithmIdentifier
	IssuerNameHash []byte
	IssuerKeyHash  []byte
	SerialNumber   *big.Int
}

type request struct {
	ReqCert                 certID
	SingleRequestExtensions []pkix.Extension `asn1:"optional,explicit,tag:0"`
}

type tbsRequest struct {
	Version           int           `asn1:"optional,explicit,tag:0,default:0"`
	RequestorName     asn1.RawValue `asn1:"optional,explicit,tag:1"`
	RequestList       []request
	RequestExtensions []pkix.Extension `asn1:"optional,explicit,tag:2"`
}

type ocspRequest struct {
	TBSRequest        tbsRequest
	OptionalSignature asn1.RawValue `asn1:"optional,explicit,tag:0"`
}

type responseBytes struct {
	ResponseType asn1.ObjectIdentifier
	Response     []byte
}

type ocspResponse struct {
	ResponseStatus asn1.Enumerated
	ResponseBytes  responseBytes `asn1:"optional,explicit,tag:0"`
}

// basicResponse keeps tbsResponseData as a RawValue so the exact signed
// bytes survive the round trip. Verification must never re-encode.
type basicResponse struct {
	TBSResponseData    asn1.RawValue
	SignatureAlgorithm pkix.AlgorithmIdentifier
	Signature          asn1.BitString
	Certificates       []asn1.RawValue `asn1:"optional,explicit,tag:0"`
}

type responseData struct {
	Version            int           `asn1:"optional,explicit,tag:0,default:0"`
	ResponderID        asn1.RawValue
	ProducedAt         time.Time `asn1:"generalized"`
	Responses          []singleResponse
	ResponseExtensions []pkix.Extension `asn1:"optional,explicit,tag:1"`
}

type singleResponse struct {
	CertID           certID
	CertStatus       asn1.RawValue
	ThisUpdate       time.Time        `asn1:"generalized"`
	NextUpdate       time.Time        `asn1:"optional,explicit,tag:0,generalized"`
	SingleExtensions []pkix.Extension `asn1:"optional,explicit,tag:1"`
}

// revokedInfo is the decode-side RevokedInfo: the reason stays a RawValue
// so presence is distinguishable from an explicit "unspecified".
type revokedInfo struct {
	RevocationTime time.Time     `asn1:"generalized"`
	Reason         asn1.RawValue `asn1:"optional,explicit,tag:0"`
}

// Encode-side RevokedInfo variants. The reason field is mandatory in one
// and absent in the other; a zero optional would silently drop an explicit
// "unspecified" reason.
type revokedInfoWithReason struct {
	RevocationTime time.Time       `asn1:"generalized"`
	Reason         asn1.Enumerated `asn1:"explicit,tag:0"`
}

type revokedInfoNoReason struct {
	RevocationTime time.Time `asn1:"generalized"`
}
