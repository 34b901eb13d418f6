package types

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/Layr-Labs/authz-expander-go/pkg/crypto"
)

var (
	// ErrIndexOutOfRange matches every IndexOutOfRangeError via errors.Is
	ErrIndexOutOfRange = errors.New("section index out of range")

	// ErrTargetNotFound matches every TargetNotFoundError via errors.Is
	ErrTargetNotFound = errors.New("target hash not found in transaction")

	// ErrUnsupportedSection is returned when decoding a section variant this
	// library does not model
	ErrUnsupportedSection = errors.New("unsupported section variant")
)

// IndexOutOfRangeError reports a compressed target index that does not
// resolve to a section of the referenced transaction.
type IndexOutOfRangeError struct {
	Index uint8
	// Sections is the number of logically addressable sections
	Sections int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("section index %d out of range (transaction has %d addressable sections)", e.Index, e.Sections)
}

func (e *IndexOutOfRangeError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}

// TargetNotFoundError reports an authorization target hash that is not the
// hash of any section of the transaction being compressed against.
type TargetNotFoundError struct {
	Hash crypto.Hash
}

func (e *TargetNotFoundError) Error() string {
	return fmt.Sprintf("target %s not found in transaction", e.Hash)
}

func (e *TargetNotFoundError) Is(target error) bool {
	return target == ErrTargetNotFound
}
