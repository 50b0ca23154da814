package ocsp

import (
	"errors"
	"fmt"
)

// Failure categories. Builder and registry errors wrap one of these
// sentinels so callers can classify with errors.Is.
var (
	// ErrTypeMismatch reports a value of the wrong kind, such as a nil
	// certificate or key where one is required.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrInvalidAlgorithm reports a digest algorithm outside the closed
	// set: SHA1, SHA224, SHA256, SHA384, SHA512.
	ErrInvalidAlgorithm = errors.New("algorithm must be SHA1, SHA224, SHA256, SHA384 or SHA512")

	// ErrConstraintViolation reports a structural builder violation: an
	// occupied slot, a missing required slot, an empty certificate list,
	// or a duplicate extension identifier.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrFieldConsistency reports a conditional-field mismatch: revocation
	// detail present on a non-revoked status, a timestamp before the
	// 1950-01-01 floor, or building an unsuccessful response as Successful.
	ErrFieldConsistency = errors.New("field consistency violation")

	// ErrDecode reports malformed or out-of-contract DER input.
	ErrDecode = errors.New("malformed OCSP structure")

	// ErrSigning reports a signing engine failure.
	ErrSigning = errors.New("signing failed")
)

// BuildError tags a failure with the operation that detected it.
type BuildError struct {
	Op  string // operation, e.g. "AddResponse"
	Err error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("ocsp: %s: %v", e.Op, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// buildErr wraps a sentinel with operation context.
func buildErr(op string, sentinel error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return &BuildError{Op: op, Err: fmt.Errorf("%w: %s", sentinel, msg)}
}
