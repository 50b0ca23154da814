package responder

import (
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/remiblancher/ocspkit/internal/ocsp"
)

// Entry is the status record of one certificate serial.
type Entry struct {
	Serial    *big.Int
	Status    ocsp.CertStatus
	RevokedAt time.Time
	Reason    *ocsp.RevocationReason
}

// Index maps certificate serials to their status. Serials absent from the
// index are not answered; the responder is not authoritative for them.
type Index struct {
	entries map[string]*Entry
}

type indexFile struct {
	Entries []indexEntry `yaml:"entries"`
}

type indexEntry struct {
	Serial    string    `yaml:"serial"`
	Status    string    `yaml:"status"`
	RevokedAt time.Time `yaml:"revoked_at,omitempty"`
	Reason    string    `yaml:"reason,omitempty"`
}

// LoadIndex reads a YAML status index.
//
// Example:
//
//	entries:
//	  - serial: "0x2a"
//	    status: good
//	  - serial: "0x2b"
//	    status: revoked
//	    revoked_at: 2026-01-15T10:00:00Z
//	    reason: key_compromise
func LoadIndex(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read index: %w", err)
	}
	return ParseIndex(data)
}

// ParseIndex parses and validates a YAML status index.
func ParseIndex(data []byte) (*Index, error) {
	var file indexFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse index: %w", err)
	}

	ix := &Index{entries: make(map[string]*Entry, len(file.Entries))}
	for i, raw := range file.Entries {
		entry, err := parseEntry(raw)
		if err != nil {
			return nil, fmt.Errorf("index entry %d: %w", i, err)
		}
		key := entry.Serial.Text(16)
		if _, dup := ix.entries[key]; dup {
			return nil, fmt.Errorf("index entry %d: duplicate serial 0x%s", i, key)
		}
		ix.entries[key] = entry
	}
	return ix, nil
}

func parseEntry(raw indexEntry) (*Entry, error) {
	serial, err := parseSerial(raw.Serial)
	if err != nil {
		return nil, err
	}

	entry := &Entry{Serial: serial}
	switch raw.Status {
	case "good":
		entry.Status = ocsp.CertStatusGood
	case "revoked":
		entry.Status = ocsp.CertStatusRevoked
	case "unknown":
		entry.Status = ocsp.CertStatusUnknown
	default:
		return nil, fmt.Errorf("status must be good, revoked or unknown, got %q", raw.Status)
	}

	if entry.Status == ocsp.CertStatusRevoked {
		if raw.RevokedAt.IsZero() {
			return nil, fmt.Errorf("revoked entry needs revoked_at")
		}
		entry.RevokedAt = raw.RevokedAt.UTC()
		if raw.Reason != "" {
			reason, err := parseReason(raw.Reason)
			if err != nil {
				return nil, err
			}
			entry.Reason = ocsp.ReasonPtr(reason)
		}
	} else {
		if !raw.RevokedAt.IsZero() {
			return nil, fmt.Errorf("revoked_at is only valid for revoked entries")
		}
		if raw.Reason != "" {
			return nil, fmt.Errorf("reason is only valid for revoked entries")
		}
	}

	return entry, nil
}

// parseSerial accepts hexadecimal serials with an optional 0x prefix, and
// plain decimal.
func parseSerial(s string) (*big.Int, error) {
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

var reasonNames = map[string]ocsp.RevocationReason{
	"unspecified":            ocsp.ReasonUnspecified,
	"key_compromise":         ocsp.ReasonKeyCompromise,
	"ca_compromise":          ocsp.ReasonCACompromise,
	"affiliation_changed":    ocsp.ReasonAffiliationChanged,
	"superseded":             ocsp.ReasonSuperseded,
	"cessation_of_operation": ocsp.ReasonCessationOfOperation,
	"certificate_hold":       ocsp.ReasonCertificateHold,
	"remove_from_crl":        ocsp.ReasonRemoveFromCRL,
	"privilege_withdrawn":    ocsp.ReasonPrivilegeWithdrawn,
	"aa_compromise":          ocsp.ReasonAACompromise,
}

func parseReason(s string) (ocsp.RevocationReason, error) {
	reason, ok := reasonNames[s]
	if !ok {
		return 0, fmt.Errorf("unknown revocation reason %q", s)
	}
	return reason, nil
}

// Lookup returns the entry for serial, if the index carries one.
func (ix *Index) Lookup(serial *big.Int) (*Entry, bool) {
	if serial == nil {
		return nil, false
	}
	entry, ok := ix.entries[serial.Text(16)]
	return entry, ok
}

// Len returns the number of indexed serials.
func (ix *Index) Len() int {
	return len(ix.entries)
}
