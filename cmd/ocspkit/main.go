// Command ocspkit creates, signs, verifies and answers OCSP messages
// (RFC 6960).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/remiblancher/ocspkit/internal/audit"
)

// Build-time variables (injected by GoReleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags
var auditLogPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ocspkit",
	Short: "OCSP toolkit (RFC 6960)",
	Long: `ocspkit builds, signs, verifies and answers OCSP messages per RFC 6960.

Certificate status is attested by a responder key; both classical and
Post-Quantum algorithms are supported.

Supported algorithms:
  Classical: ECDSA (P-256, P-384, P-521), Ed25519, RSA (2048, 4096)
  PQC:       ML-DSA-44, ML-DSA-65, ML-DSA-87 (FIPS 204)
             SLH-DSA-SHA2 (128s/f, 192s/f, 256s/f) (FIPS 205)

Examples:
  # Create an OCSP request for a certificate
  ocspkit request --issuer ca.pem --cert server.pem --out request.der

  # Sign a response attesting a good status
  ocspkit sign --serial 0x2a --status good --ca ca.pem --cert responder.pem --key responder-key.pem --out response.der

  # Verify a response
  ocspkit verify response.der --responder responder.pem

  # Answer requests from a status index
  ocspkit respond --config responder.yaml --in request.der --out response.der`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if auditLogPath == "" {
			auditLogPath = os.Getenv("OCSPKIT_AUDIT_LOG")
		}
		if auditLogPath != "" {
			if err := audit.InitFile(auditLogPath); err != nil {
				return fmt.Errorf("failed to initialize audit log: %w", err)
			}
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return audit.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&auditLogPath, "audit-log", "",
		"Path to audit log file (or set OCSPKIT_AUDIT_LOG env var)")

	rootCmd.AddCommand(requestCmd)
	rootCmd.AddCommand(signCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(respondCmd)
	rootCmd.AddCommand(keyCmd)
}
