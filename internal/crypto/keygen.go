package crypto

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"io"

	"github.com/cloudflare/circl/sign/mldsa/mldsa44"
	"github.com/cloudflare/circl/sign/mldsa/mldsa65"
	"github.com/cloudflare/circl/sign/mldsa/mldsa87"
	"github.com/cloudflare/circl/sign/slhdsa"
)

// KeyPair holds a generated signing key with its public half.
type KeyPair struct {
	Algorithm AlgorithmID
	Signer    crypto.Signer
	PublicKey crypto.PublicKey
}

// GenerateKeyPair generates a new signing key for the algorithm.
func GenerateKeyPair(alg AlgorithmID) (*KeyPair, error) {
	return GenerateKeyPairWithRand(rand.Reader, alg)
}

// GenerateKeyPairWithRand generates a key pair using the provided random
// source. Useful for tests with deterministic randomness.
func GenerateKeyPairWithRand(random io.Reader, alg AlgorithmID) (*KeyPair, error) {
	if !alg.IsValid() {
		return nil, fmt.Errorf("unsupported algorithm: %s", alg)
	}

	var (
		signer crypto.Signer
		pub    crypto.PublicKey
		err    error
	)

	switch alg {
	case AlgECDSAP256:
		signer, pub, err = generateECDSA(random, elliptic.P256())
	case AlgECDSAP384:
		signer, pub, err = generateECDSA(random, elliptic.P384())
	case AlgECDSAP521:
		signer, pub, err = generateECDSA(random, elliptic.P521())

	case AlgEd25519:
		var priv ed25519.PrivateKey
		pub, priv, err = ed25519.GenerateKey(random)
		signer = priv

	case AlgRSA2048:
		signer, pub, err = generateRSA(random, 2048)
	case AlgRSA4096:
		signer, pub, err = generateRSA(random, 4096)

	case AlgMLDSA44:
		var priv *mldsa44.PrivateKey
		pub, priv, err = mldsa44.GenerateKey(random)
		signer = priv
	case AlgMLDSA65:
		var priv *mldsa65.PrivateKey
		pub, priv, err = mldsa65.GenerateKey(random)
		signer = priv
	case AlgMLDSA87:
		var priv *mldsa87.PrivateKey
		pub, priv, err = mldsa87.GenerateKey(random)
		signer = priv

	case AlgSLHDSA128s, AlgSLHDSA128f, AlgSLHDSA192s, AlgSLHDSA192f, AlgSLHDSA256s, AlgSLHDSA256f:
		var (
			slhPub  slhdsa.PublicKey
			slhPriv slhdsa.PrivateKey
		)
		slhPub, slhPriv, err = slhdsa.GenerateKey(random, slhdsaParamID(alg))
		signer = &slhPriv
		pub = &slhPub

	default:
		return nil, fmt.Errorf("key generation not implemented for: %s", alg)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to generate %s key: %w", alg, err)
	}

	return &KeyPair{Algorithm: alg, Signer: signer, PublicKey: pub}, nil
}

func generateECDSA(random io.Reader, curve elliptic.Curve) (crypto.Signer, crypto.PublicKey, error) {
	priv, err := ecdsa.GenerateKey(curve, random)
	if err != nil {
		return nil, nil, err
	}
	return priv, &priv.PublicKey, nil
}

func generateRSA(random io.Reader, bits int) (crypto.Signer, crypto.PublicKey, error) {
	priv, err := rsa.GenerateKey(random, bits)
	if err != nil {
		return nil, nil, err
	}
	return priv, &priv.PublicKey, nil
}

// slhdsaParamID maps the algorithm id to the circl parameter set.
func slhdsaParamID(alg AlgorithmID) slhdsa.ID {
	switch alg {
	case AlgSLHDSA128s:
		return slhdsa.SHA2_128s
	case AlgSLHDSA128f:
		return slhdsa.SHA2_128f
	case AlgSLHDSA192s:
		return slhdsa.SHA2_192s
	case AlgSLHDSA192f:
		return slhdsa.SHA2_192f
	case AlgSLHDSA256s:
		return slhdsa.SHA2_256s
	case AlgSLHDSA256f:
		return slhdsa.SHA2_256f
	default:
		return slhdsa.SHA2_128s
	}
}
