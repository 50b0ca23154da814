package main

import (
	"crypto/x509"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/remiblancher/ocspkit/internal/audit"
	pkicrypto "github.com/remiblancher/ocspkit/internal/crypto"
	"github.com/remiblancher/ocspkit/internal/ocsp"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <response-file>",
	Short: "Verify an OCSP response signature",
	Long: `Verify the signature of an OCSP response and display its status.

The signing key is taken from --responder when given, otherwise from the
certificate embedded in the response. With --ca, the responder certificate
itself is checked against the CA.

Examples:
  # Verify against a known responder certificate
  ocspkit verify response.der --responder responder.pem

  # Verify with the embedded certificate, checked against the CA
  ocspkit verify response.der --ca ca.pem`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

var (
	verifyResponder string
	verifyCA        string
)

func init() {
	verifyCmd.Flags().StringVar(&verifyResponder, "responder", "", "Responder certificate (PEM)")
	verifyCmd.Flags().StringVar(&verifyCA, "ca", "", "CA certificate (PEM) to check the responder against")
}

func runVerify(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read response file: %w", err)
	}

	resp, err := newBackend().LoadResponse(data)
	if err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.ResponseStatus() != ocsp.StatusSuccessful {
		fmt.Printf("OCSP Response Status: %s\n", resp.ResponseStatus())
		return nil
	}

	var cert *x509.Certificate
	if verifyResponder != "" {
		cert, err = pkicrypto.LoadCertificate(verifyResponder)
		if err != nil {
			return fmt.Errorf("failed to load responder certificate: %w", err)
		}
	} else if embedded := resp.Certificates(); len(embedded) > 0 {
		cert = embedded[0]
	} else {
		return fmt.Errorf("response embeds no certificate; pass --responder")
	}

	if verifyCA != "" {
		caCert, err := pkicrypto.LoadCertificate(verifyCA)
		if err != nil {
			return fmt.Errorf("failed to load CA certificate: %w", err)
		}
		if err := cert.CheckSignatureFrom(caCert); err != nil {
			return fmt.Errorf("responder certificate is not issued by the CA: %w", err)
		}
	}

	if err := pkicrypto.VerifyResponse(resp, cert.PublicKey); err != nil {
		_ = audit.LogResponseVerified(serialHex(resp.SerialNumber()), cert.Subject.CommonName, false)
		return fmt.Errorf("signature verification failed: %w", err)
	}

	if err := audit.LogResponseVerified(serialHex(resp.SerialNumber()), cert.Subject.CommonName, true); err != nil {
		return err
	}

	fmt.Printf("OCSP Response Verification: OK\n")
	fmt.Printf("  Response Status:    %s\n", resp.ResponseStatus())
	fmt.Printf("  Certificate Status: %s\n", resp.CertificateStatus())
	fmt.Printf("  Serial Number:      %s\n", serialHex(resp.SerialNumber()))
	fmt.Printf("  Produced At:        %s\n", resp.ProducedAt().Format(time.RFC3339))
	fmt.Printf("  This Update:        %s\n", resp.ThisUpdate().Format(time.RFC3339))
	if !resp.NextUpdate().IsZero() {
		fmt.Printf("  Next Update:        %s\n", resp.NextUpdate().Format(time.RFC3339))
	}
	if resp.CertificateStatus() == ocsp.CertStatusRevoked {
		fmt.Printf("  Revocation Time:    %s\n", resp.RevocationTime().Format(time.RFC3339))
		if reason := resp.RevocationReason(); reason != nil {
			fmt.Printf("  Revocation Reason:  %s\n", *reason)
		}
	}
	fmt.Printf("  Responder:          %s\n", cert.Subject.CommonName)
	return nil
}
