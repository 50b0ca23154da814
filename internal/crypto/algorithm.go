// Package crypto provides the signing engine behind the OCSP response
// builder. It supports classical algorithms (ECDSA, Ed25519, RSA) and
// post-quantum algorithms (ML-DSA, SLH-DSA) via the cloudflare/circl
// library.
package crypto

import "fmt"

// AlgorithmID identifies a signature key algorithm.
type AlgorithmID string

// Classical signature algorithms.
const (
	AlgECDSAP256 AlgorithmID = "ecdsa-p256"
	AlgECDSAP384 AlgorithmID = "ecdsa-p384"
	AlgECDSAP521 AlgorithmID = "ecdsa-p521"
	AlgEd25519   AlgorithmID = "ed25519"
	AlgRSA2048   AlgorithmID = "rsa-2048"
	AlgRSA4096   AlgorithmID = "rsa-4096"
)

// Post-quantum signature algorithms (FIPS 204 ML-DSA).
const (
	AlgMLDSA44 AlgorithmID = "ml-dsa-44"
	AlgMLDSA65 AlgorithmID = "ml-dsa-65"
	AlgMLDSA87 AlgorithmID = "ml-dsa-87"
)

// Post-quantum signature algorithms (FIPS 205 SLH-DSA, SHA2 family).
const (
	AlgSLHDSA128s AlgorithmID = "slh-dsa-sha2-128s"
	AlgSLHDSA128f AlgorithmID = "slh-dsa-sha2-128f"
	AlgSLHDSA192s AlgorithmID = "slh-dsa-sha2-192s"
	AlgSLHDSA192f AlgorithmID = "slh-dsa-sha2-192f"
	AlgSLHDSA256s AlgorithmID = "slh-dsa-sha2-256s"
	AlgSLHDSA256f AlgorithmID = "slh-dsa-sha2-256f"
)

// algorithmInfo holds metadata about an algorithm.
type algorithmInfo struct {
	PQC         bool
	Description string
}

var algorithms = map[AlgorithmID]algorithmInfo{
	AlgECDSAP256:  {false, "ECDSA with P-256 curve"},
	AlgECDSAP384:  {false, "ECDSA with P-384 curve"},
	AlgECDSAP521:  {false, "ECDSA with P-521 curve"},
	AlgEd25519:    {false, "Ed25519 (EdDSA with Curve25519)"},
	AlgRSA2048:    {false, "RSA 2048-bit"},
	AlgRSA4096:    {false, "RSA 4096-bit"},
	AlgMLDSA44:    {true, "ML-DSA-44 (FIPS 204)"},
	AlgMLDSA65:    {true, "ML-DSA-65 (FIPS 204)"},
	AlgMLDSA87:    {true, "ML-DSA-87 (FIPS 204)"},
	AlgSLHDSA128s: {true, "SLH-DSA-SHA2-128s (FIPS 205)"},
	AlgSLHDSA128f: {true, "SLH-DSA-SHA2-128f (FIPS 205)"},
	AlgSLHDSA192s: {true, "SLH-DSA-SHA2-192s (FIPS 205)"},
	AlgSLHDSA192f: {true, "SLH-DSA-SHA2-192f (FIPS 205)"},
	AlgSLHDSA256s: {true, "SLH-DSA-SHA2-256s (FIPS 205)"},
	AlgSLHDSA256f: {true, "SLH-DSA-SHA2-256f (FIPS 205)"},
}

// IsValid returns whether the algorithm is supported.
func (a AlgorithmID) IsValid() bool {
	_, ok := algorithms[a]
	return ok
}

// IsPQC returns whether the algorithm is post-quantum.
func (a AlgorithmID) IsPQC() bool {
	return algorithms[a].PQC
}

// Description returns a human-readable description.
func (a AlgorithmID) Description() string {
	if info, ok := algorithms[a]; ok {
		return info.Description
	}
	return fmt.Sprintf("unknown algorithm %q", string(a))
}

// SupportedAlgorithms lists all supported algorithm identifiers.
func SupportedAlgorithms() []AlgorithmID {
	return []AlgorithmID{
		AlgECDSAP256, AlgECDSAP384, AlgECDSAP521,
		AlgEd25519,
		AlgRSA2048, AlgRSA4096,
		AlgMLDSA44, AlgMLDSA65, AlgMLDSA87,
		AlgSLHDSA128s, AlgSLHDSA128f,
		AlgSLHDSA192s, AlgSLHDSA192f,
		AlgSLHDSA256s, AlgSLHDSA256f,
	}
}
