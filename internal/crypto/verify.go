package crypto

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509/pkix"
	"fmt"

	"github.com/cloudflare/circl/sign/mldsa/mldsa44"
	"github.com/cloudflare/circl/sign/mldsa/mldsa65"
	"github.com/cloudflare/circl/sign/mldsa/mldsa87"
	"github.com/cloudflare/circl/sign/slhdsa"

	"github.com/remiblancher/ocspkit/internal/ocsp"
)

// VerifySignature checks a response signature over the exact TBS bytes
// using the public key and the algorithm identifier from the wire.
func VerifySignature(pub crypto.PublicKey, sigAlg pkix.AlgorithmIdentifier, tbs, sig []byte) error {
	switch key := pub.(type) {
	case *ecdsa.PublicKey:
		digest, err := digestFor(sigAlg, tbs)
		if err != nil {
			return err
		}
		if !ecdsa.VerifyASN1(key, digest, sig) {
			return fmt.Errorf("ecdsa signature verification failed")
		}
		return nil

	case *rsa.PublicKey:
		alg := ocsp.HashAlgorithmForSignatureOID(sigAlg.Algorithm)
		digest, err := digestFor(sigAlg, tbs)
		if err != nil {
			return err
		}
		if err := rsa.VerifyPKCS1v15(key, alg.CryptoHash(), digest, sig); err != nil {
			return fmt.Errorf("rsa signature verification failed: %w", err)
		}
		return nil

	case ed25519.PublicKey:
		if !ed25519.Verify(key, tbs, sig) {
			return fmt.Errorf("ed25519 signature verification failed")
		}
		return nil

	case *mldsa44.PublicKey:
		if !mldsa44.Verify(key, tbs, nil, sig) {
			return fmt.Errorf("ml-dsa-44 signature verification failed")
		}
		return nil

	case *mldsa65.PublicKey:
		if !mldsa65.Verify(key, tbs, nil, sig) {
			return fmt.Errorf("ml-dsa-65 signature verification failed")
		}
		return nil

	case *mldsa87.PublicKey:
		if !mldsa87.Verify(key, tbs, nil, sig) {
			return fmt.Errorf("ml-dsa-87 signature verification failed")
		}
		return nil

	case *slhdsa.PublicKey:
		msg := slhdsa.NewMessage(tbs)
		if !slhdsa.Verify(key, msg, sig, nil) {
			return fmt.Errorf("slh-dsa signature verification failed")
		}
		return nil

	case slhdsa.PublicKey:
		msg := slhdsa.NewMessage(tbs)
		if !slhdsa.Verify(&key, msg, sig, nil) {
			return fmt.Errorf("slh-dsa signature verification failed")
		}
		return nil

	default:
		return fmt.Errorf("unsupported public key type: %T", pub)
	}
}

// VerifyResponse verifies resp against the responder public key. The TBS
// bytes come straight off the wire; nothing is re-encoded.
func VerifyResponse(resp ocsp.Response, pub crypto.PublicKey) error {
	if resp.ResponseStatus() != ocsp.StatusSuccessful {
		return fmt.Errorf("response status is %s, nothing to verify", resp.ResponseStatus())
	}
	return VerifySignature(pub, resp.SignatureAlgorithm(), resp.TBSResponseBytes(), resp.Signature())
}

// digestFor hashes tbs with the digest named by the signature algorithm.
func digestFor(sigAlg pkix.AlgorithmIdentifier, tbs []byte) ([]byte, error) {
	alg := ocsp.HashAlgorithmForSignatureOID(sigAlg.Algorithm)
	if alg == ocsp.HashNone {
		return nil, fmt.Errorf("unknown signature algorithm %v", sigAlg.Algorithm)
	}
	h := alg.New()
	h.Write(tbs)
	return h.Sum(nil), nil
}
