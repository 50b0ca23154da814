package ocsp

import "crypto/x509/pkix"

// appendExtension returns a new slice with ext appended. The input slice is
// never mutated; duplicate extension identifiers are rejected.
func appendExtension(op string, exts []pkix.Extension, ext pkix.Extension) ([]pkix.Extension, error) {
	if len(ext.Id) == 0 {
		return nil, buildErr(op, ErrTypeMismatch, "extension has no object identifier")
	}
	for _, e := range exts {
		if e.Id.Equal(ext.Id) {
			return nil, buildErr(op, ErrConstraintViolation,
				"extension %v already present", ext.Id)
		}
	}
	out := make([]pkix.Extension, len(exts), len(exts)+1)
	copy(out, exts)
	return append(out, ext), nil
}

// cloneExtensions copies an extension slice so accessors cannot leak
// builder state.
func cloneExtensions(exts []pkix.Extension) []pkix.Extension {
	if len(exts) == 0 {
		return nil
	}
	out := make([]pkix.Extension, len(exts))
	copy(out, exts)
	return out
}
