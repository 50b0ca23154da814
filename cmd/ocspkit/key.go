package main

import (
	"fmt"

	"github.com/spf13/cobra"

	pkicrypto "github.com/remiblancher/ocspkit/internal/crypto"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Key operations",
	Long:  `Generate and inspect responder signing keys.`,
}

var keyGenCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate a signing key pair",
	Long: `Generate a signing key pair and write the private key as PEM.

Examples:
  # Classical key
  ocspkit key gen --algorithm ecdsa-p256 --out responder-key.pem

  # Post-quantum key, encrypted at rest
  ocspkit key gen --algorithm ml-dsa-65 --out responder-key.pem --passphrase secret`,
	RunE: runKeyGen,
}

var keyAlgorithmsCmd = &cobra.Command{
	Use:   "algorithms",
	Short: "List supported key algorithms",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, alg := range pkicrypto.SupportedAlgorithms() {
			kind := "classical"
			if alg.IsPQC() {
				kind = "pqc"
			}
			fmt.Printf("  %-20s %-10s %s\n", alg, kind, alg.Description())
		}
		return nil
	},
}

var (
	keyGenAlgorithm  string
	keyGenOutput     string
	keyGenPassphrase string
)

func init() {
	keyGenCmd.Flags().StringVar(&keyGenAlgorithm, "algorithm", "ecdsa-p256", "Key algorithm (see 'ocspkit key algorithms')")
	keyGenCmd.Flags().StringVarP(&keyGenOutput, "out", "o", "", "Output file")
	keyGenCmd.Flags().StringVar(&keyGenPassphrase, "passphrase", "", "Encrypt the key at rest")

	_ = keyGenCmd.MarkFlagRequired("out")

	keyCmd.AddCommand(keyGenCmd)
	keyCmd.AddCommand(keyAlgorithmsCmd)
}

func runKeyGen(cmd *cobra.Command, args []string) error {
	alg := pkicrypto.AlgorithmID(keyGenAlgorithm)
	if !alg.IsValid() {
		return fmt.Errorf("unsupported algorithm %q (see 'ocspkit key algorithms')", keyGenAlgorithm)
	}

	kp, err := pkicrypto.GenerateKeyPair(alg)
	if err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}

	var passphrase []byte
	if keyGenPassphrase != "" {
		passphrase = []byte(keyGenPassphrase)
	}
	if err := pkicrypto.SaveSigner(keyGenOutput, kp.Signer, passphrase); err != nil {
		return fmt.Errorf("failed to write key: %w", err)
	}

	fmt.Printf("Key written to %s\n", keyGenOutput)
	fmt.Printf("  Algorithm: %s (%s)\n", alg, alg.Description())
	if keyGenPassphrase != "" {
		fmt.Printf("  Encrypted: yes\n")
	}
	return nil
}
