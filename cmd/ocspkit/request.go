package main

import (
	"crypto/rand"
	"crypto/x509/pkix"
	"encoding/asn1"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/remiblancher/ocspkit/internal/audit"
	pkicrypto "github.com/remiblancher/ocspkit/internal/crypto"
	"github.com/remiblancher/ocspkit/internal/ocsp"
)

var requestCmd = &cobra.Command{
	Use:   "request",
	Short: "Create an OCSP request",
	Long: `Create a DER-encoded OCSP request for a certificate.

Examples:
  # Create a request
  ocspkit request --issuer ca.pem --cert server.pem --out request.der

  # Create a request with a nonce and SHA-1 CertID hashes
  ocspkit request --issuer ca.pem --cert server.pem --hash sha1 --nonce --out request.der`,
	RunE: runRequest,
}

var (
	requestIssuer string
	requestCert   string
	requestHash   string
	requestNonce  bool
	requestOutput string
)

func init() {
	requestCmd.Flags().StringVar(&requestIssuer, "issuer", "", "Issuer certificate (PEM)")
	requestCmd.Flags().StringVar(&requestCert, "cert", "", "Certificate to check (PEM)")
	requestCmd.Flags().StringVar(&requestHash, "hash", "sha256", "CertID hash algorithm (sha1, sha224, sha256, sha384, sha512)")
	requestCmd.Flags().BoolVar(&requestNonce, "nonce", false, "Include a nonce extension")
	requestCmd.Flags().StringVarP(&requestOutput, "out", "o", "", "Output file")

	_ = requestCmd.MarkFlagRequired("issuer")
	_ = requestCmd.MarkFlagRequired("cert")
	_ = requestCmd.MarkFlagRequired("out")
}

func runRequest(cmd *cobra.Command, args []string) error {
	issuer, err := pkicrypto.LoadCertificate(requestIssuer)
	if err != nil {
		return fmt.Errorf("failed to load issuer certificate: %w", err)
	}
	cert, err := pkicrypto.LoadCertificate(requestCert)
	if err != nil {
		return fmt.Errorf("failed to load certificate: %w", err)
	}
	alg, err := ocsp.HashAlgorithmFromString(requestHash)
	if err != nil {
		return err
	}

	builder, err := ocsp.NewRequestBuilder().AddCertificate(cert, issuer, alg)
	if err != nil {
		return err
	}
	if requestNonce {
		nonce := make([]byte, 16)
		if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
			return fmt.Errorf("failed to generate nonce: %w", err)
		}
		// The extension value is the DER of an OCTET STRING carrying
		// the nonce (RFC 8954).
		value, err := asn1.Marshal(nonce)
		if err != nil {
			return fmt.Errorf("failed to encode nonce: %w", err)
		}
		builder, err = builder.AddExtension(pkix.Extension{Id: ocsp.OIDOcspNonce, Value: value})
		if err != nil {
			return err
		}
	}

	req, err := builder.Build(newBackend())
	if err != nil {
		_ = audit.LogRequestCreated(serialHex(cert.SerialNumber), alg.String(), requestOutput, false)
		return err
	}

	if err := os.WriteFile(requestOutput, req.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write request: %w", err)
	}

	if err := audit.LogRequestCreated(serialHex(cert.SerialNumber), alg.String(), requestOutput, true); err != nil {
		return err
	}

	fmt.Printf("OCSP request written to %s\n", requestOutput)
	fmt.Printf("  Issuer:  %s\n", issuer.Subject.CommonName)
	fmt.Printf("  Cert:    %s\n", cert.Subject.CommonName)
	fmt.Printf("  Serial:  %X\n", cert.SerialNumber.Bytes())
	fmt.Printf("  Hash:    %s\n", alg)
	if requestNonce {
		fmt.Printf("  Nonce:   included\n")
	}
	return nil
}
