package der

import (
	"crypto/sha1" //nolint:gosec // RFC 6960 defines KeyHash as SHA-1
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"fmt"

	"github.com/remiblancher/ocspkit/internal/ocsp"
)

// subjectPublicKeyInfo mirrors the SPKI layout so the BIT STRING value can
// be hashed without its algorithm identifier.
type subjectPublicKeyInfo struct {
	Algorithm pkix.AlgorithmIdentifier
	PublicKey asn1.BitString
}

func issuerPublicKeyBytes(issuer *x509.Certificate) ([]byte, error) {
	var spki subjectPublicKeyInfo
	if _, err := asn1.Unmarshal(issuer.RawSubjectPublicKeyInfo, &spki); err != nil {
		return nil, fmt.Errorf("%w: subject public key info: %v", ocsp.ErrDecode, err)
	}
	return spki.PublicKey.RightAlign(), nil
}

// IssuerHashes computes the CertID hashes of RFC 6960 section 4.1.1: the
// digest of the issuer's DER-encoded subject name and the digest of the
// value of its SPKI BIT STRING, both under the same algorithm.
func IssuerHashes(issuer *x509.Certificate, alg ocsp.HashAlgorithm) (nameHash, keyHash []byte, err error) {
	if issuer == nil {
		return nil, nil, fmt.Errorf("%w: issuer must be a certificate", ocsp.ErrTypeMismatch)
	}
	if err := ocsp.ValidateHashAlgorithm(alg); err != nil {
		return nil, nil, err
	}

	pub, err := issuerPublicKeyBytes(issuer)
	if err != nil {
		return nil, nil, err
	}

	h := alg.New()
	h.Write(issuer.RawSubject)
	nameHash = h.Sum(nil)

	h = alg.New()
	h.Write(pub)
	keyHash = h.Sum(nil)

	return nameHash, keyHash, nil
}

// newCertID hashes cert's issuer data into the CertID wire structure.
func newCertID(cert, issuer *x509.Certificate, alg ocsp.HashAlgorithm) (certID, error) {
	nameHash, keyHash, err := IssuerHashes(issuer, alg)
	if err != nil {
		return certID{}, err
	}
	return certID{
		HashAlgorithm:  pkix.AlgorithmIdentifier{Algorithm: alg.OID()},
		IssuerNameHash: nameHash,
		IssuerKeyHash:  keyHash,
		SerialNumber:   cert.SerialNumber,
	}, nil
}

// responderKeyHash computes the byKey responder id. KeyHash is fixed to
// SHA-1 by RFC 6960 regardless of the CertID algorithm.
func responderKeyHash(cert *x509.Certificate) ([]byte, error) {
	pub, err := issuerPublicKeyBytes(cert)
	if err != nil {
		return nil, err
	}
	sum := sha1.Sum(pub) //nolint:gosec
	return sum[:], nil
}
