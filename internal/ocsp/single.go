package ocsp

import (
	"crypto/x509"
	"time"
)

// earliestTime is the floor for OCSP timestamps. GeneralizedTime values
// before 1950 cannot round-trip through implementations that emit UTCTime.
var earliestTime = time.Date(1950, time.January, 1, 0, 0, 0, 0, time.UTC)

// SingleResponse is one validated certificate status assertion. Instances
// are created by ResponseBuilder.AddResponse and are immutable: revocation
// fields are populated if and only if the status is revoked, and all
// timestamps are UTC.
type SingleResponse struct {
	cert   *x509.Certificate
	issuer *x509.Certificate
	alg    HashAlgorithm
	status CertStatus

	thisUpdate time.Time
	nextUpdate time.Time // zero when absent

	revocationTime   time.Time // zero unless status is revoked
	revocationReason *RevocationReason
}

// newSingleResponse validates and normalizes the record. op names the
// builder operation for error context.
func newSingleResponse(
	op string,
	cert, issuer *x509.Certificate,
	alg HashAlgorithm,
	status CertStatus,
	thisUpdate, nextUpdate time.Time,
	revocationTime time.Time,
	reason *RevocationReason,
) (*SingleResponse, error) {
	if cert == nil || issuer == nil {
		return nil, buildErr(op, ErrTypeMismatch, "cert and issuer must be certificates")
	}
	if err := ValidateHashAlgorithm(alg); err != nil {
		return nil, &BuildError{Op: op, Err: err}
	}
	if !status.Valid() {
		return nil, buildErr(op, ErrTypeMismatch, "cert status %d is not good, revoked or unknown", int(status))
	}

	if thisUpdate.IsZero() {
		return nil, buildErr(op, ErrTypeMismatch, "this_update must be a time")
	}
	thisUpdate = thisUpdate.UTC()
	if thisUpdate.Before(earliestTime) {
		return nil, buildErr(op, ErrFieldConsistency, "this_update must be on or after 1950-01-01")
	}
	if !nextUpdate.IsZero() {
		nextUpdate = nextUpdate.UTC()
		if nextUpdate.Before(earliestTime) {
			return nil, buildErr(op, ErrFieldConsistency, "next_update must be on or after 1950-01-01")
		}
	}

	if status == CertStatusRevoked {
		if revocationTime.IsZero() {
			return nil, buildErr(op, ErrFieldConsistency, "revocation_time is required for a revoked status")
		}
		revocationTime = revocationTime.UTC()
		if revocationTime.Before(earliestTime) {
			return nil, buildErr(op, ErrFieldConsistency, "revocation_time must be on or after 1950-01-01")
		}
		if reason != nil && !reason.Valid() {
			return nil, buildErr(op, ErrTypeMismatch, "revocation_reason %d is not a CRLReason", int(*reason))
		}
	} else {
		if !revocationTime.IsZero() {
			return nil, buildErr(op, ErrFieldConsistency, "revocation_time is only valid for a revoked status")
		}
		if reason != nil {
			return nil, buildErr(op, ErrFieldConsistency, "revocation_reason is only valid for a revoked status")
		}
	}

	sr := &SingleResponse{
		cert:           cert,
		issuer:         issuer,
		alg:            alg,
		status:         status,
		thisUpdate:     thisUpdate,
		nextUpdate:     nextUpdate,
		revocationTime: revocationTime,
	}
	if reason != nil {
		r := *reason
		sr.revocationReason = &r
	}
	return sr, nil
}

// Certificate returns the subject certificate.
func (s *SingleResponse) Certificate() *x509.Certificate { return s.cert }

// Issuer returns the issuer certificate used for CertID hashing.
func (s *SingleResponse) Issuer() *x509.Certificate { return s.issuer }

// HashAlgorithm returns the CertID digest algorithm.
func (s *SingleResponse) HashAlgorithm() HashAlgorithm { return s.alg }

// Status returns the certificate status.
func (s *SingleResponse) Status() CertStatus { return s.status }

// ThisUpdate returns the UTC thisUpdate timestamp.
func (s *SingleResponse) ThisUpdate() time.Time { return s.thisUpdate }

// NextUpdate returns the UTC nextUpdate timestamp, zero when absent.
func (s *SingleResponse) NextUpdate() time.Time { return s.nextUpdate }

// RevocationTime returns the UTC revocation time, zero unless revoked.
func (s *SingleResponse) RevocationTime() time.Time { return s.revocationTime }

// RevocationReason returns a copy of the optional reason, nil when absent.
func (s *SingleResponse) RevocationReason() *RevocationReason {
	if s.revocationReason == nil {
		return nil
	}
	r := *s.revocationReason
	return &r
}
