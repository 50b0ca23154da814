package ocsp

// ResponseStatus is the OCSPResponseStatus enumeration (RFC 6960).
// The wire values are sparse: 4 is not used.
type ResponseStatus int

const (
	StatusSuccessful       ResponseStatus = 0
	StatusMalformedRequest ResponseStatus = 1
	StatusInternalError    ResponseStatus = 2
	StatusTryLater         ResponseStatus = 3
	// 4 is not used
	StatusSigRequired  ResponseStatus = 5
	StatusUnauthorized ResponseStatus = 6
)

// Valid reports membership in the enumeration. The hole at 4 is preserved.
func (s ResponseStatus) Valid() bool {
	switch s {
	case StatusSuccessful, StatusMalformedRequest, StatusInternalError,
		StatusTryLater, StatusSigRequired, StatusUnauthorized:
		return true
	}
	return false
}

func (s ResponseStatus) String() string {
	switch s {
	case StatusSuccessful:
		return "successful"
	case StatusMalformedRequest:
		return "malformed_request"
	case StatusInternalError:
		return "internal_error"
	case StatusTryLater:
		return "try_later"
	case StatusSigRequired:
		return "sig_required"
	case StatusUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// CertStatus is the certificate status in a single response.
type CertStatus int

const (
	CertStatusGood    CertStatus = 0
	CertStatusRevoked CertStatus = 1
	CertStatusUnknown CertStatus = 2
)

// Valid reports membership in the CertStatus CHOICE.
func (s CertStatus) Valid() bool {
	switch s {
	case CertStatusGood, CertStatusRevoked, CertStatusUnknown:
		return true
	}
	return false
}

func (s CertStatus) String() string {
	switch s {
	case CertStatusGood:
		return "good"
	case CertStatusRevoked:
		return "revoked"
	case CertStatusUnknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// RevocationReason is the CRLReason code carried in RevokedInfo (RFC 5280).
type RevocationReason int

const (
	ReasonUnspecified          RevocationReason = 0
	ReasonKeyCompromise        RevocationReason = 1
	ReasonCACompromise         RevocationReason = 2
	ReasonAffiliationChanged   RevocationReason = 3
	ReasonSuperseded           RevocationReason = 4
	ReasonCessationOfOperation RevocationReason = 5
	ReasonCertificateHold      RevocationReason = 6
	// 7 is not used
	ReasonRemoveFromCRL      RevocationReason = 8
	ReasonPrivilegeWithdrawn RevocationReason = 9
	ReasonAACompromise       RevocationReason = 10
)

// Valid reports membership in the CRLReason enumeration. 7 is a hole.
func (r RevocationReason) Valid() bool {
	return r >= ReasonUnspecified && r <= ReasonAACompromise && r != 7
}

func (r RevocationReason) String() string {
	switch r {
	case ReasonUnspecified:
		return "unspecified"
	case ReasonKeyCompromise:
		return "key_compromise"
	case ReasonCACompromise:
		return "ca_compromise"
	case ReasonAffiliationChanged:
		return "affiliation_changed"
	case ReasonSuperseded:
		return "superseded"
	case ReasonCessationOfOperation:
		return "cessation_of_operation"
	case ReasonCertificateHold:
		return "certificate_hold"
	case ReasonRemoveFromCRL:
		return "remove_from_crl"
	case ReasonPrivilegeWithdrawn:
		return "privilege_withdrawn"
	case ReasonAACompromise:
		return "aa_compromise"
	default:
		return "unknown"
	}
}

// ReasonPtr is a convenience for the optional revocation reason parameter.
func ReasonPtr(r RevocationReason) *RevocationReason { return &r }

// ResponderEncoding selects the ResponderID CHOICE arm.
type ResponderEncoding int

const (
	// ResponderByHash encodes byKey: SHA-1 over the responder SPKI.
	ResponderByHash ResponderEncoding = iota + 1
	// ResponderByName encodes byName: the responder subject DN.
	ResponderByName
)

// Valid reports whether the encoding is one of the two CHOICE arms.
func (e ResponderEncoding) Valid() bool {
	return e == ResponderByHash || e == ResponderByName
}

func (e ResponderEncoding) String() string {
	switch e {
	case ResponderByHash:
		return "hash"
	case ResponderByName:
		return "name"
	default:
		return "invalid"
	}
}
