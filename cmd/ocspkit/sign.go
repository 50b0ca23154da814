package main

import (
	"crypto/x509"
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/remiblancher/ocspkit/internal/audit"
	pkicrypto "github.com/remiblancher/ocspkit/internal/crypto"
	"github.com/remiblancher/ocspkit/internal/ocsp"
)

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Sign an OCSP response for a certificate",
	Long: `Sign an OCSP response attesting the status of a certificate identified
by serial number.

If no responder certificate is provided, the CA certificate is used
(CA-signed mode).

Examples:
  # Good status
  ocspkit sign --serial 0x2a --status good --ca ca.pem --cert responder.pem --key responder-key.pem --out response.der

  # Revoked status with reason
  ocspkit sign --serial 0x2a --status revoked --revocation-time 2026-01-15T10:00:00Z --revocation-reason keyCompromise --ca ca.pem --key ca-key.pem --out response.der

  # Identify the responder by name and embed its certificate
  ocspkit sign --serial 0x2a --status good --encoding name --include-chain --ca ca.pem --cert responder.pem --key responder-key.pem --out response.der`,
	RunE: runSign,
}

var (
	signSerial           string
	signStatus           string
	signRevocationTime   string
	signRevocationReason string
	signCA               string
	signCert             string
	signKey              string
	signPassphrase       string
	signOutput           string
	signValidity         string
	signHash             string
	signSigHash          string
	signEncoding         string
	signIncludeChain     bool
)

func init() {
	signCmd.Flags().StringVar(&signSerial, "serial", "", "Certificate serial number (hex or decimal)")
	signCmd.Flags().StringVar(&signStatus, "status", "good", "Certificate status (good, revoked, unknown)")
	signCmd.Flags().StringVar(&signRevocationTime, "revocation-time", "", "Revocation time (RFC3339)")
	signCmd.Flags().StringVar(&signRevocationReason, "revocation-reason", "", "Revocation reason (keyCompromise, caCompromise, affiliationChanged, superseded, cessationOfOperation, certificateHold, removeFromCRL, privilegeWithdrawn, aaCompromise)")
	signCmd.Flags().StringVar(&signCA, "ca", "", "CA certificate (PEM)")
	signCmd.Flags().StringVar(&signCert, "cert", "", "Responder certificate (PEM, optional)")
	signCmd.Flags().StringVar(&signKey, "key", "", "Responder private key (PEM)")
	signCmd.Flags().StringVar(&signPassphrase, "passphrase", "", "Key passphrase")
	signCmd.Flags().StringVarP(&signOutput, "out", "o", "", "Output file")
	signCmd.Flags().StringVar(&signValidity, "validity", "1h", "Response validity period (0 to omit nextUpdate)")
	signCmd.Flags().StringVar(&signHash, "hash", "sha256", "CertID hash algorithm")
	signCmd.Flags().StringVar(&signSigHash, "sig-hash", "", "Signature digest (default: key's default)")
	signCmd.Flags().StringVar(&signEncoding, "encoding", "hash", "ResponderID encoding (hash or name)")
	signCmd.Flags().BoolVar(&signIncludeChain, "include-chain", false, "Embed the responder certificate in the response")

	_ = signCmd.MarkFlagRequired("serial")
	_ = signCmd.MarkFlagRequired("ca")
	_ = signCmd.MarkFlagRequired("key")
	_ = signCmd.MarkFlagRequired("out")
}

func runSign(cmd *cobra.Command, args []string) error {
	serial, err := parseSerialArg(signSerial)
	if err != nil {
		return err
	}
	certStatus, err := parseCertStatusArg(signStatus)
	if err != nil {
		return err
	}
	encoding, err := parseEncodingArg(signEncoding)
	if err != nil {
		return err
	}
	alg, err := ocsp.HashAlgorithmFromString(signHash)
	if err != nil {
		return err
	}
	sigHash := ocsp.HashNone
	if signSigHash != "" {
		sigHash, err = ocsp.HashAlgorithmFromString(signSigHash)
		if err != nil {
			return err
		}
	}
	validity, err := time.ParseDuration(signValidity)
	if err != nil {
		return fmt.Errorf("invalid validity duration: %w", err)
	}

	var revocationTime time.Time
	var reason *ocsp.RevocationReason
	if certStatus == ocsp.CertStatusRevoked {
		if signRevocationTime == "" {
			return fmt.Errorf("--revocation-time is required for revoked status")
		}
		revocationTime, err = time.Parse(time.RFC3339, signRevocationTime)
		if err != nil {
			return fmt.Errorf("invalid revocation time: %w", err)
		}
		reason, err = parseReasonArg(signRevocationReason)
		if err != nil {
			return err
		}
	} else if signRevocationTime != "" || signRevocationReason != "" {
		return fmt.Errorf("revocation fields are only valid with --status revoked")
	}

	caCert, err := pkicrypto.LoadCertificate(signCA)
	if err != nil {
		return fmt.Errorf("failed to load CA certificate: %w", err)
	}
	responderCert := caCert
	if signCert != "" {
		responderCert, err = pkicrypto.LoadCertificate(signCert)
		if err != nil {
			return fmt.Errorf("failed to load responder certificate: %w", err)
		}
	}
	signer, err := pkicrypto.LoadSigner(signKey, []byte(signPassphrase))
	if err != nil {
		return fmt.Errorf("failed to load responder key: %w", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	var nextUpdate time.Time
	if validity > 0 {
		nextUpdate = now.Add(validity)
	}

	subject := &x509.Certificate{SerialNumber: new(big.Int).Set(serial)}
	builder, err := ocsp.NewResponseBuilder().AddResponse(
		subject, caCert, alg, certStatus, now, nextUpdate, revocationTime, reason)
	if err != nil {
		return err
	}
	builder, err = builder.ResponderID(encoding, responderCert)
	if err != nil {
		return err
	}
	if signIncludeChain {
		builder, err = builder.Certificates([]*x509.Certificate{responderCert})
		if err != nil {
			return err
		}
	}

	resp, err := builder.Sign(newBackend(), signer, sigHash)
	if err != nil {
		_ = audit.LogResponseSigned(serialHex(serial), certStatus.String(),
			sigHash.String(), responderCert.Subject.CommonName, false)
		return err
	}

	if err := os.WriteFile(signOutput, resp.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}

	if err := audit.LogResponseSigned(serialHex(serial), certStatus.String(),
		resp.SignatureHashAlgorithm().String(), responderCert.Subject.CommonName, true); err != nil {
		return err
	}

	fmt.Printf("OCSP response written to %s\n", signOutput)
	fmt.Printf("  Serial:     %s\n", serialHex(serial))
	fmt.Printf("  Status:     %s\n", certStatus)
	if certStatus == ocsp.CertStatusRevoked {
		fmt.Printf("  Revoked At: %s\n", revocationTime.Format(time.RFC3339))
		if reason != nil {
			fmt.Printf("  Reason:     %s\n", *reason)
		}
	}
	fmt.Printf("  Responder:  %s (%s)\n", responderCert.Subject.CommonName, encoding)
	if validity > 0 {
		fmt.Printf("  Validity:   %s\n", validity)
	}
	return nil
}
