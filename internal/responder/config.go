// Package responder implements a file-backed OCSP responder. Certificate
// statuses come from a YAML index; answers are signed with a delegated
// responder certificate issued by the CA being served.
package responder

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/remiblancher/ocspkit/internal/ocsp"
)

// Config is the YAML configuration of a responder.
//
// Example:
//
//	ca_cert: ca.pem
//	responder_cert: ocsp.pem
//	responder_key: ocsp-key.pem
//	index: index.yaml
//	encoding: hash
//	validity: 24h
//	include_chain: true
type Config struct {
	CACert        string `yaml:"ca_cert"`
	ResponderCert string `yaml:"responder_cert"`
	ResponderKey  string `yaml:"responder_key"`
	Index         string `yaml:"index"`

	Encoding      string `yaml:"encoding,omitempty"`       // "hash" (default) or "name"
	SignatureHash string `yaml:"signature_hash,omitempty"` // empty = key default
	Validity      string `yaml:"validity,omitempty"`       // nextUpdate horizon, empty = none
	IncludeChain  bool   `yaml:"include_chain,omitempty"`
	AuditLog      string `yaml:"audit_log,omitempty"`
}

// LoadConfig reads and validates a responder configuration. Relative file
// paths are resolved against the configuration file's directory.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	dir := filepath.Dir(path)
	cfg.CACert = resolvePath(dir, cfg.CACert)
	cfg.ResponderCert = resolvePath(dir, cfg.ResponderCert)
	cfg.ResponderKey = resolvePath(dir, cfg.ResponderKey)
	cfg.Index = resolvePath(dir, cfg.Index)
	cfg.AuditLog = resolvePath(dir, cfg.AuditLog)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func resolvePath(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// Validate checks that required fields are present and enumerations parse.
func (c *Config) Validate() error {
	if c.CACert == "" {
		return fmt.Errorf("ca_cert is required")
	}
	if c.ResponderCert == "" {
		return fmt.Errorf("responder_cert is required")
	}
	if c.ResponderKey == "" {
		return fmt.Errorf("responder_key is required")
	}
	if c.Index == "" {
		return fmt.Errorf("index is required")
	}
	if _, err := c.ResponderEncoding(); err != nil {
		return err
	}
	if _, err := c.SignatureHashAlgorithm(); err != nil {
		return err
	}
	if _, err := c.ValidityDuration(); err != nil {
		return err
	}
	return nil
}

// ResponderEncoding returns the configured ResponderID arm, by hash when
// unset.
func (c *Config) ResponderEncoding() (ocsp.ResponderEncoding, error) {
	switch c.Encoding {
	case "", "hash":
		return ocsp.ResponderByHash, nil
	case "name":
		return ocsp.ResponderByName, nil
	default:
		return 0, fmt.Errorf("encoding must be \"hash\" or \"name\", got %q", c.Encoding)
	}
}

// SignatureHashAlgorithm returns the configured signature digest, HashNone
// (key default) when unset.
func (c *Config) SignatureHashAlgorithm() (ocsp.HashAlgorithm, error) {
	if c.SignatureHash == "" {
		return ocsp.HashNone, nil
	}
	return ocsp.HashAlgorithmFromString(c.SignatureHash)
}

// ValidityDuration returns the nextUpdate horizon, zero when unset.
func (c *Config) ValidityDuration() (time.Duration, error) {
	if c.Validity == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Validity)
	if err != nil {
		return 0, fmt.Errorf("invalid validity: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("validity must not be negative")
	}
	return d, nil
}
