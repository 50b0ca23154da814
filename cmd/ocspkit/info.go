package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/remiblancher/ocspkit/internal/ocsp"
)

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Display information about an OCSP request or response",
	Long: `Display the decoded content of a DER-encoded OCSP request or response.

The message kind is detected automatically.

Examples:
  ocspkit info request.der
  ocspkit info response.der`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	backend := newBackend()
	if resp, err := backend.LoadResponse(data); err == nil {
		printResponseInfo(resp)
		return nil
	}
	req, err := backend.LoadRequest(data)
	if err != nil {
		return fmt.Errorf("file is neither an OCSP response nor a request: %w", err)
	}
	printRequestInfo(req)
	return nil
}

func printRequestInfo(req ocsp.Request) {
	fmt.Printf("OCSP Request\n")
	fmt.Printf("============\n\n")
	fmt.Printf("Serial Number:    %s\n", serialHex(req.SerialNumber()))
	fmt.Printf("Hash Algorithm:   %s\n", req.HashAlgorithm())
	fmt.Printf("Issuer Name Hash: %X\n", req.IssuerNameHash())
	fmt.Printf("Issuer Key Hash:  %X\n", req.IssuerKeyHash())
	for _, ext := range req.Extensions() {
		name := ext.Id.String()
		if ext.Id.Equal(ocsp.OIDOcspNonce) {
			name = "nonce"
		}
		fmt.Printf("Extension:        %s (%d bytes)\n", name, len(ext.Value))
	}
}

func printResponseInfo(resp ocsp.Response) {
	fmt.Printf("OCSP Response\n")
	fmt.Printf("=============\n\n")
	fmt.Printf("Response Status: %s\n", resp.ResponseStatus())

	if resp.ResponseStatus() != ocsp.StatusSuccessful {
		return
	}

	fmt.Printf("Produced At:     %s\n", resp.ProducedAt().Format(time.RFC3339))
	fmt.Printf("Signature Alg:   %s", resp.SignatureAlgorithm().Algorithm)
	if digest := resp.SignatureHashAlgorithm(); digest != ocsp.HashNone {
		fmt.Printf(" (digest %s)", digest)
	}
	fmt.Println()

	switch {
	case resp.ResponderName() != nil:
		fmt.Printf("Responder:       %s\n", resp.ResponderName().String())
	case len(resp.ResponderKeyHash()) > 0:
		fmt.Printf("Responder:       key hash %X\n", resp.ResponderKeyHash())
	}

	if certs := resp.Certificates(); len(certs) > 0 {
		fmt.Printf("\nEmbedded Certificates:\n")
		for _, cert := range certs {
			fmt.Printf("  %s (serial %X, issuer %s)\n",
				cert.Subject.CommonName, cert.SerialNumber.Bytes(), cert.Issuer.CommonName)
		}
	}

	fmt.Printf("\nCertificate Status:\n")
	fmt.Printf("  Serial:      %s\n", serialHex(resp.SerialNumber()))
	fmt.Printf("  Status:      %s\n", resp.CertificateStatus())
	fmt.Printf("  Hash:        %s\n", resp.HashAlgorithm())
	fmt.Printf("  This Update: %s\n", resp.ThisUpdate().Format(time.RFC3339))
	if !resp.NextUpdate().IsZero() {
		fmt.Printf("  Next Update: %s\n", resp.NextUpdate().Format(time.RFC3339))
	}
	if resp.CertificateStatus() == ocsp.CertStatusRevoked {
		fmt.Printf("  Revoked At:  %s\n", resp.RevocationTime().Format(time.RFC3339))
		if reason := resp.RevocationReason(); reason != nil {
			fmt.Printf("  Reason:      %s\n", *reason)
		}
	}
}
