package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/remiblancher/ocspkit/internal/responder"
)

var respondCmd = &cobra.Command{
	Use:   "respond",
	Short: "Answer an OCSP request from a status index",
	Long: `Answer a DER-encoded OCSP request using a responder configuration and
its YAML status index.

Protocol problems come back as OCSP error responses: an undecodable
request yields malformedRequest, a serial outside the index or a request
for another CA yields unauthorized.

Example configuration (responder.yaml):
  ca_cert: ca.pem
  responder_cert: ocsp.pem
  responder_key: ocsp-key.pem
  index: index.yaml
  validity: 24h
  include_chain: true

Example index (index.yaml):
  entries:
    - serial: "0x2a"
      status: good
    - serial: "0x2b"
      status: revoked
      revoked_at: 2026-01-15T10:00:00Z
      reason: key_compromise

Examples:
  ocspkit respond --config responder.yaml --in request.der --out response.der`,
	RunE: runRespond,
}

var (
	respondConfig string
	respondInput  string
	respondOutput string
)

func init() {
	respondCmd.Flags().StringVar(&respondConfig, "config", "", "Responder configuration (YAML)")
	respondCmd.Flags().StringVar(&respondInput, "in", "", "OCSP request file (DER)")
	respondCmd.Flags().StringVarP(&respondOutput, "out", "o", "", "Output file")

	_ = respondCmd.MarkFlagRequired("config")
	_ = respondCmd.MarkFlagRequired("in")
	_ = respondCmd.MarkFlagRequired("out")
}

func runRespond(cmd *cobra.Command, args []string) error {
	r, err := responder.Open(respondConfig, newBackend())
	if err != nil {
		return err
	}

	reqDER, err := os.ReadFile(respondInput)
	if err != nil {
		return fmt.Errorf("failed to read request: %w", err)
	}

	respDER, err := r.Respond(reqDER)
	if err != nil {
		return err
	}

	if err := os.WriteFile(respondOutput, respDER, 0644); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}

	resp, err := newBackend().LoadResponse(respDER)
	if err != nil {
		return err
	}
	fmt.Printf("OCSP response written to %s\n", respondOutput)
	fmt.Printf("  Response Status: %s\n", resp.ResponseStatus())
	if resp.SerialNumber() != nil {
		fmt.Printf("  Serial:          %s\n", serialHex(resp.SerialNumber()))
		fmt.Printf("  Status:          %s\n", resp.CertificateStatus())
	}
	return nil
}
