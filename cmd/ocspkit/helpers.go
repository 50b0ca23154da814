package main

import (
	"fmt"
	"math/big"
	"strings"

	pkicrypto "github.com/remiblancher/ocspkit/internal/crypto"
	"github.com/remiblancher/ocspkit/internal/der"
	"github.com/remiblancher/ocspkit/internal/ocsp"
)

// newBackend wires the DER codec to the software signing engine.
func newBackend() *der.Backend {
	return der.NewBackend(pkicrypto.Engine{})
}

// parseSerialArg accepts hexadecimal serials with an optional 0x prefix,
// and plain decimal.
func parseSerialArg(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("serial is required")
	}
	if rest, ok := strings.CutPrefix(strings.ToLower(s), "0x"); ok {
		serial, ok := new(big.Int).SetString(rest, 16)
		if !ok {
			return nil, fmt.Errorf("invalid hexadecimal serial %q", s)
		}
		return serial, nil
	}
	serial, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid serial %q", s)
	}
	return serial, nil
}

func parseCertStatusArg(s string) (ocsp.CertStatus, error) {
	switch s {
	case "good":
		return ocsp.CertStatusGood, nil
	case "revoked":
		return ocsp.CertStatusRevoked, nil
	case "unknown":
		return ocsp.CertStatusUnknown, nil
	default:
		return 0, fmt.Errorf("status must be good, revoked or unknown, got %q", s)
	}
}

// parseReasonArg maps a CRLReason name to its code. Empty means no reason
// is carried.
func parseReasonArg(s string) (*ocsp.RevocationReason, error) {
	if s == "" {
		return nil, nil
	}
	reasons := map[string]ocsp.RevocationReason{
		"unspecified":          ocsp.ReasonUnspecified,
		"keycompromise":        ocsp.ReasonKeyCompromise,
		"cacompromise":         ocsp.ReasonCACompromise,
		"affiliationchanged":   ocsp.ReasonAffiliationChanged,
		"superseded":           ocsp.ReasonSuperseded,
		"cessationofoperation": ocsp.ReasonCessationOfOperation,
		"certificatehold":      ocsp.ReasonCertificateHold,
		"removefromcrl":        ocsp.ReasonRemoveFromCRL,
		"privilegewithdrawn":   ocsp.ReasonPrivilegeWithdrawn,
		"aacompromise":         ocsp.ReasonAACompromise,
	}
	reason, ok := reasons[strings.ToLower(s)]
	if !ok {
		return nil, fmt.Errorf("unknown revocation reason %q", s)
	}
	return ocsp.ReasonPtr(reason), nil
}

func parseEncodingArg(s string) (ocsp.ResponderEncoding, error) {
	switch s {
	case "", "hash":
		return ocsp.ResponderByHash, nil
	case "name":
		return ocsp.ResponderByName, nil
	default:
		return 0, fmt.Errorf("encoding must be \"hash\" or \"name\", got %q", s)
	}
}

func serialHex(serial *big.Int) string {
	if serial == nil {
		return ""
	}
	return "0x" + serial.Text(16)
}
