package crypto

import (
	"errors"
	"fmt"
)

var (
	// ErrDeserialization matches every DeserializationError via errors.Is
	ErrDeserialization = errors.New("deserialization failed")

	// ErrWrongLength is the cause when a key or signature has an unexpected byte length
	ErrWrongLength = errors.New("wrong byte length")

	// ErrInvalidPoint is the cause when key bytes are not a valid curve point
	ErrInvalidPoint = errors.New("invalid curve point")

	// ErrUnknownScheme is the cause for an unrecognised key or signature scheme tag
	ErrUnknownScheme = errors.New("unknown signature scheme")
)

// DeserializationError reports raw bytes that do not decode into a valid
// value under the canonical encoding. Target names what was being decoded
// ("public key", "signature", ...).
type DeserializationError struct {
	Target string
	Cause  error
}

func (e *DeserializationError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("malformed %s", e.Target)
	}
	return fmt.Sprintf("malformed %s: %v", e.Target, e.Cause)
}

func (e *DeserializationError) Unwrap() error {
	return e.Cause
}

func (e *DeserializationError) Is(target error) bool {
	return target == ErrDeserialization
}

// IsMalformedPublicKey reports whether err is a DeserializationError for a public key
func IsMalformedPublicKey(err error) bool {
	return isTarget(err, targetPublicKey)
}

// IsMalformedSignature reports whether err is a DeserializationError for a signature
func IsMalformedSignature(err error) bool {
	return isTarget(err, targetSignature)
}

func isTarget(err error, target string) bool {
	var de *DeserializationError
	if !errors.As(err, &de) {
		return false
	}
	return de.Target == target
}
