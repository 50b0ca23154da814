package ocsp

import (
	"crypto"
	"crypto/sha1" //nolint:gosec // SHA-1 is mandated for CertID interop
	"crypto/sha256"
	"crypto/sha512"
	"encoding/asn1"
	"fmt"
	"hash"
	"strings"
)

// HashAlgorithm identifies a digest algorithm permitted for CertID hashing
// (RFC 6960 section 4.1.1). The set is closed: SHA-1, SHA-224, SHA-256,
// SHA-384 and SHA-512. The zero value is not a member.
type HashAlgorithm int

const (
	// HashNone is the zero value. It is rejected by ValidateHashAlgorithm
	// and stands for "no explicit digest" where an algorithm is optional.
	HashNone HashAlgorithm = iota
	SHA1
	SHA224
	SHA256
	SHA384
	SHA512
)

type hashInfo struct {
	name string
	oid  asn1.ObjectIdentifier
	ch   crypto.Hash
	new  func() hash.Hash
}

var hashRegistry = map[HashAlgorithm]hashInfo{
	SHA1:   {"SHA1", OIDSHA1, crypto.SHA1, sha1.New},
	SHA224: {"SHA224", OIDSHA224, crypto.SHA224, sha256.New224},
	SHA256: {"SHA256", OIDSHA256, crypto.SHA256, sha256.New},
	SHA384: {"SHA384", OIDSHA384, crypto.SHA384, sha512.New384},
	SHA512: {"SHA512", OIDSHA512, crypto.SHA512, sha512.New},
}

// ValidateHashAlgorithm checks membership in the closed algorithm set.
func ValidateHashAlgorithm(alg HashAlgorithm) error {
	if _, ok := hashRegistry[alg]; !ok {
		return fmt.Errorf("%w (got %d)", ErrInvalidAlgorithm, int(alg))
	}
	return nil
}

// ResolveHashAlgorithm maps a digest OID to its registry member. Unknown
// OIDs fail: CertIDs hashed with anything outside the set are not usable.
func ResolveHashAlgorithm(oid asn1.ObjectIdentifier) (HashAlgorithm, error) {
	for alg, info := range hashRegistry {
		if info.oid.Equal(oid) {
			return alg, nil
		}
	}
	return HashNone, fmt.Errorf("%w: no hash algorithm for OID %v", ErrInvalidAlgorithm, oid)
}

// HashAlgorithmFromString maps a case-insensitive name ("sha256",
// "SHA-384") to its registry member.
func HashAlgorithmFromString(name string) (HashAlgorithm, error) {
	normalized := strings.ToUpper(strings.ReplaceAll(name, "-", ""))
	for alg, info := range hashRegistry {
		if info.name == normalized {
			return alg, nil
		}
	}
	return HashNone, fmt.Errorf("%w (got %q)", ErrInvalidAlgorithm, name)
}

// String returns the algorithm name, or "UNKNOWN" for non-members.
func (a HashAlgorithm) String() string {
	if info, ok := hashRegistry[a]; ok {
		return info.name
	}
	return "UNKNOWN"
}

// OID returns the digest OID, or nil for non-members.
func (a HashAlgorithm) OID() asn1.ObjectIdentifier {
	return hashRegistry[a].oid
}

// CryptoHash returns the stdlib crypto.Hash, or 0 for non-members.
func (a HashAlgorithm) CryptoHash() crypto.Hash {
	return hashRegistry[a].ch
}

// New returns a fresh hash.Hash. It panics for non-members; validate first.
func (a HashAlgorithm) New() hash.Hash {
	info, ok := hashRegistry[a]
	if !ok {
		panic(fmt.Sprintf("ocsp: hash algorithm %d is not registered", int(a)))
	}
	return info.new()
}

// Size returns the digest length in bytes, or 0 for non-members.
func (a HashAlgorithm) Size() int {
	if info, ok := hashRegistry[a]; ok {
		return info.ch.Size()
	}
	return 0
}
