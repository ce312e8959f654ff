package blake2

import "errors"

// Parameter validation errors. The blake2b and blake2s constructors wrap these
// with the variant name and the offending value, so match them with errors.Is.
var (
	ErrInvalidDigestSize      = errors.New("invalid digest size")
	ErrInvalidKeySize         = errors.New("invalid key size")
	ErrSaltTooLong            = errors.New("salt too long")
	ErrPersonalizationTooLong = errors.New("personalization string too long")
	ErrInvalidFanout          = errors.New("invalid fanout")
	ErrInvalidDepth           = errors.New("invalid depth")
	ErrNodeOffsetTooLarge     = errors.New("node offset too large")
	ErrInvalidNodeDepth       = errors.New("invalid node depth")
	ErrInnerLengthTooLarge    = errors.New("inner length too large")
)
