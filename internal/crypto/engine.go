package crypto

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509/pkix"
	"encoding/asn1"
	"fmt"

	"github.com/cloudflare/circl/sign/mldsa/mldsa44"
	"github.com/cloudflare/circl/sign/mldsa/mldsa65"
	"github.com/cloudflare/circl/sign/mldsa/mldsa87"
	"github.com/cloudflare/circl/sign/slhdsa"

	"github.com/remiblancher/ocspkit/internal/ocsp"
)

// Engine signs OCSP tbsResponseData. It picks the signature scheme from
// the key type: ECDSA digests match the curve, RSA uses PKCS#1 v1.5, and
// Ed25519, ML-DSA and SLH-DSA sign the full message. An explicit digest
// algorithm overrides the default for ECDSA and RSA keys and is rejected
// for schemes without a pre-hash step.
type Engine struct{}

var _ ocsp.SigningEngine = Engine{}

// Sign signs tbs with key. alg is the explicit digest, HashNone for the
// key's default.
func (Engine) Sign(tbs []byte, key crypto.Signer, alg ocsp.HashAlgorithm) ([]byte, pkix.AlgorithmIdentifier, error) {
	if key == nil {
		return nil, pkix.AlgorithmIdentifier{}, fmt.Errorf("%w: key must be a signer", ocsp.ErrSigning)
	}
	if alg != ocsp.HashNone {
		if err := ocsp.ValidateHashAlgorithm(alg); err != nil {
			return nil, pkix.AlgorithmIdentifier{}, err
		}
	}

	switch pub := key.Public().(type) {
	case *ecdsa.PublicKey:
		if alg == ocsp.HashNone {
			var ok bool
			alg, ok = curveDigest(pub.Curve.Params().BitSize)
			if !ok {
				return nil, pkix.AlgorithmIdentifier{}, fmt.Errorf(
					"%w: unsupported ECDSA curve size %d", ocsp.ErrSigning, pub.Curve.Params().BitSize)
			}
		}
		return signDigest(key, tbs, alg, ecdsaSignatureOID(alg))

	case *rsa.PublicKey:
		if alg == ocsp.HashNone {
			alg = ocsp.SHA256
		}
		return signDigest(key, tbs, alg, rsaSignatureOID(alg))

	case ed25519.PublicKey:
		if alg != ocsp.HashNone {
			return nil, pkix.AlgorithmIdentifier{}, fmt.Errorf(
				"%w: ed25519 does not take a digest algorithm", ocsp.ErrSigning)
		}
		return signMessage(key, tbs, ocsp.OIDEd25519)

	case *mldsa44.PublicKey:
		return signPQC(key, tbs, alg, ocsp.OIDMLDSA44)
	case *mldsa65.PublicKey:
		return signPQC(key, tbs, alg, ocsp.OIDMLDSA65)
	case *mldsa87.PublicKey:
		return signPQC(key, tbs, alg, ocsp.OIDMLDSA87)

	case *slhdsa.PublicKey:
		return signPQC(key, tbs, alg, slhdsaIDToOID(pub.ID))
	case slhdsa.PublicKey:
		return signPQC(key, tbs, alg, slhdsaIDToOID(pub.ID))

	default:
		return nil, pkix.AlgorithmIdentifier{}, fmt.Errorf("%w: unsupported key type %T", ocsp.ErrSigning, pub)
	}
}

// signDigest hashes then signs, for ECDSA and RSA keys.
func signDigest(key crypto.Signer, tbs []byte, alg ocsp.HashAlgorithm, oid asn1.ObjectIdentifier) ([]byte, pkix.AlgorithmIdentifier, error) {
	h := alg.New()
	h.Write(tbs)
	sig, err := key.Sign(rand.Reader, h.Sum(nil), alg.CryptoHash())
	if err != nil {
		return nil, pkix.AlgorithmIdentifier{}, fmt.Errorf("%w: %v", ocsp.ErrSigning, err)
	}
	return sig, pkix.AlgorithmIdentifier{Algorithm: oid}, nil
}

// signMessage signs the full message, for schemes that hash internally.
func signMessage(key crypto.Signer, tbs []byte, oid asn1.ObjectIdentifier) ([]byte, pkix.AlgorithmIdentifier, error) {
	sig, err := key.Sign(rand.Reader, tbs, crypto.Hash(0))
	if err != nil {
		return nil, pkix.AlgorithmIdentifier{}, fmt.Errorf("%w: %v", ocsp.ErrSigning, err)
	}
	return sig, pkix.AlgorithmIdentifier{Algorithm: oid}, nil
}

// signPQC rejects explicit digests before full-message signing.
func signPQC(key crypto.Signer, tbs []byte, alg ocsp.HashAlgorithm, oid asn1.ObjectIdentifier) ([]byte, pkix.AlgorithmIdentifier, error) {
	if alg != ocsp.HashNone {
		return nil, pkix.AlgorithmIdentifier{}, fmt.Errorf(
			"%w: post-quantum schemes do not take a digest algorithm", ocsp.ErrSigning)
	}
	if oid == nil {
		return nil, pkix.AlgorithmIdentifier{}, fmt.Errorf("%w: unknown parameter set", ocsp.ErrSigning)
	}
	return signMessage(key, tbs, oid)
}

// curveDigest returns the digest matched to the ECDSA curve size.
func curveDigest(bits int) (ocsp.HashAlgorithm, bool) {
	switch bits {
	case 256:
		return ocsp.SHA256, true
	case 384:
		return ocsp.SHA384, true
	case 521:
		return ocsp.SHA512, true
	default:
		return ocsp.HashNone, false
	}
}

func ecdsaSignatureOID(alg ocsp.HashAlgorithm) asn1.ObjectIdentifier {
	switch alg {
	case ocsp.SHA1:
		return ocsp.OIDECDSAWithSHA1
	case ocsp.SHA224:
		return ocsp.OIDECDSAWithSHA224
	case ocsp.SHA256:
		return ocsp.OIDECDSAWithSHA256
	case ocsp.SHA384:
		return ocsp.OIDECDSAWithSHA384
	case ocsp.SHA512:
		return ocsp.OIDECDSAWithSHA512
	default:
		return nil
	}
}

func rsaSignatureOID(alg ocsp.HashAlgorithm) asn1.ObjectIdentifier {
	switch alg {
	case ocsp.SHA1:
		return ocsp.OIDSHA1WithRSA
	case ocsp.SHA224:
		return ocsp.OIDSHA224WithRSA
	case ocsp.SHA256:
		return ocsp.OIDSHA256WithRSA
	case ocsp.SHA384:
		return ocsp.OIDSHA384WithRSA
	case ocsp.SHA512:
		return ocsp.OIDSHA512WithRSA
	default:
		return nil
	}
}

// slhdsaIDToOID maps the SLH-DSA parameter set to its OID.
func slhdsaIDToOID(id slhdsa.ID) asn1.ObjectIdentifier {
	switch id {
	case slhdsa.SHA2_128s:
		return ocsp.OIDSLHDSASHA2128s
	case slhdsa.SHA2_128f:
		return ocsp.OIDSLHDSASHA2128f
	case slhdsa.SHA2_192s:
		return ocsp.OIDSLHDSASHA2192s
	case slhdsa.SHA2_192f:
		return ocsp.OIDSLHDSASHA2192f
	case slhdsa.SHA2_256s:
		return ocsp.OIDSLHDSASHA2256s
	case slhdsa.SHA2_256f:
		return ocsp.OIDSLHDSASHA2256f
	default:
		return nil
	}
}
