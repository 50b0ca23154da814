package crypto

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"

	"github.com/cloudflare/circl/sign/mldsa/mldsa44"
	"github.com/cloudflare/circl/sign/mldsa/mldsa65"
	"github.com/cloudflare/circl/sign/mldsa/mldsa87"
	"github.com/cloudflare/circl/sign/slhdsa"
)

// SaveSigner writes a private key to a PEM file. Classical keys use
// PKCS#8; ML-DSA and SLH-DSA keys use their binary form under a named PEM
// type. A passphrase encrypts the block.
func SaveSigner(path string, key crypto.Signer, passphrase []byte) error {
	var block *pem.Block

	switch priv := key.(type) {
	case *ecdsa.PrivateKey, ed25519.PrivateKey, *rsa.PrivateKey:
		der, err := x509.MarshalPKCS8PrivateKey(key)
		if err != nil {
			return fmt.Errorf("failed to marshal private key: %w", err)
		}
		block = &pem.Block{Type: "PRIVATE KEY", Bytes: der}

	case *mldsa44.PrivateKey:
		block = &pem.Block{Type: "ML-DSA-44 PRIVATE KEY", Bytes: priv.Bytes()}
	case *mldsa65.PrivateKey:
		block = &pem.Block{Type: "ML-DSA-65 PRIVATE KEY", Bytes: priv.Bytes()}
	case *mldsa87.PrivateKey:
		block = &pem.Block{Type: "ML-DSA-87 PRIVATE KEY", Bytes: priv.Bytes()}

	case *slhdsa.PrivateKey:
		privBytes, err := priv.MarshalBinary()
		if err != nil {
			return fmt.Errorf("failed to marshal SLH-DSA key: %w", err)
		}
		block = &pem.Block{
			Type:  fmt.Sprintf("%s PRIVATE KEY", priv.ID),
			Bytes: privBytes,
		}

	default:
		return fmt.Errorf("unsupported private key type: %T", key)
	}

	if len(passphrase) > 0 {
		var err error
		block, err = x509.EncryptPEMBlock(rand.Reader, block.Type, block.Bytes, passphrase, x509.PEMCipherAES256) //nolint:staticcheck // legacy PEM encryption kept for interop
		if err != nil {
			return fmt.Errorf("failed to encrypt private key: %w", err)
		}
	}

	return os.WriteFile(path, pem.EncodeToMemory(block), 0600)
}

// LoadSigner reads a private key from a PEM file written by SaveSigner.
func LoadSigner(path string, passphrase []byte) (crypto.Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("no PEM block in %s", path)
	}

	keyBytes := block.Bytes
	if x509.IsEncryptedPEMBlock(block) { //nolint:staticcheck // legacy PEM encryption kept for interop
		if len(passphrase) == 0 {
			return nil, fmt.Errorf("key file %s is encrypted, passphrase required", path)
		}
		keyBytes, err = x509.DecryptPEMBlock(block, passphrase) //nolint:staticcheck
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt private key: %w", err)
		}
	}

	switch block.Type {
	case "PRIVATE KEY":
		priv, err := x509.ParsePKCS8PrivateKey(keyBytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PKCS#8 key: %w", err)
		}
		signer, ok := priv.(crypto.Signer)
		if !ok {
			return nil, fmt.Errorf("key in %s is not a signing key", path)
		}
		return signer, nil

	case "EC PRIVATE KEY":
		return x509.ParseECPrivateKey(keyBytes)

	case "RSA PRIVATE KEY":
		return x509.ParsePKCS1PrivateKey(keyBytes)

	case "ML-DSA-44 PRIVATE KEY":
		var priv mldsa44.PrivateKey
		if err := priv.UnmarshalBinary(keyBytes); err != nil {
			return nil, fmt.Errorf("failed to parse ML-DSA-44 key: %w", err)
		}
		return &priv, nil

	case "ML-DSA-65 PRIVATE KEY":
		var priv mldsa65.PrivateKey
		if err := priv.UnmarshalBinary(keyBytes); err != nil {
			return nil, fmt.Errorf("failed to parse ML-DSA-65 key: %w", err)
		}
		return &priv, nil

	case "ML-DSA-87 PRIVATE KEY":
		var priv mldsa87.PrivateKey
		if err := priv.UnmarshalBinary(keyBytes); err != nil {
			return nil, fmt.Errorf("failed to parse ML-DSA-87 key: %w", err)
		}
		return &priv, nil

	default:
		if alg, id, ok := parseSLHDSAPEMType(block.Type); ok {
			var priv slhdsa.PrivateKey
			priv.ID = id
			if err := priv.UnmarshalBinary(keyBytes); err != nil {
				return nil, fmt.Errorf("failed to parse %s key: %w", alg, err)
			}
			return &priv, nil
		}
		return nil, fmt.Errorf("unknown PEM type: %s", block.Type)
	}
}

// parseSLHDSAPEMType maps an SLH-DSA PEM type to its parameter set.
func parseSLHDSAPEMType(pemType string) (AlgorithmID, slhdsa.ID, bool) {
	types := map[string]struct {
		alg AlgorithmID
		id  slhdsa.ID
	}{
		"SLH-DSA-SHA2-128s PRIVATE KEY": {AlgSLHDSA128s, slhdsa.SHA2_128s},
		"SLH-DSA-SHA2-128f PRIVATE KEY": {AlgSLHDSA128f, slhdsa.SHA2_128f},
		"SLH-DSA-SHA2-192s PRIVATE KEY": {AlgSLHDSA192s, slhdsa.SHA2_192s},
		"SLH-DSA-SHA2-192f PRIVATE KEY": {AlgSLHDSA192f, slhdsa.SHA2_192f},
		"SLH-DSA-SHA2-256s PRIVATE KEY": {AlgSLHDSA256s, slhdsa.SHA2_256s},
		"SLH-DSA-SHA2-256f PRIVATE KEY": {AlgSLHDSA256f, slhdsa.SHA2_256f},
	}
	if entry, ok := types[pemType]; ok {
		return entry.alg, entry.id, true
	}
	return "", 0, false
}
