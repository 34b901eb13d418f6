// Package transaction provides the transaction container: a header plus an
// ordered list of sections, with the logical index scheme used by
// compressed authorizations.
package transaction

import (
	"github.com/pkg/errors"

	"github.com/Layr-Labs/authz-expander-go/pkg/borsh"
	"github.com/Layr-Labs/authz-expander-go/pkg/crypto"
	"github.com/Layr-Labs/authz-expander-go/pkg/types"
)

const (
	// HeaderIndex is the logical index of the header
	HeaderIndex uint8 = 0

	// RawHeaderIndex is the logical index of the header with the wrapper stripped
	RawHeaderIndex uint8 = 255

	// MaxSections is the largest number of sections addressable by index.
	// Indices 1..=MaxSections map to Sections[0..MaxSections).
	MaxSections = 254
)

// Tx is a transaction: header plus sections. Logical index 0 addresses the
// header, 255 the raw header and i the section at position i-1.
type Tx struct {
	Header   types.Header
	Sections []types.Section
}

// New creates a transaction with the given header and no sections
func New(header types.Header) *Tx {
	return &Tx{Header: header}
}

// ID identifies the transaction by its header hash. Appending sections does
// not change it.
func (tx *Tx) ID() crypto.Hash {
	return tx.HeaderHash()
}

// HeaderHash returns the content hash of the header section
func (tx *Tx) HeaderHash() crypto.Hash {
	return types.HashSection(tx.Header)
}

// RawHeaderHash returns the content hash of the header with its wrapper stripped
func (tx *Tx) RawHeaderHash() crypto.Hash {
	return types.HashSection(tx.Header.Raw())
}

// SectionHash resolves a logical section index to a content hash
func (tx *Tx) SectionHash(index uint8) (crypto.Hash, error) {
	switch {
	case index == HeaderIndex:
		return tx.HeaderHash(), nil
	case index == RawHeaderIndex:
		return tx.RawHeaderHash(), nil
	case int(index) <= len(tx.Sections):
		return types.HashSection(tx.Sections[index-1]), nil
	default:
		return crypto.Hash{}, &types.IndexOutOfRangeError{Index: index, Sections: len(tx.Sections) + 1}
	}
}

// SectionIndex returns the logical index of the first section whose hash is
// hash, checking the header and raw header first
func (tx *Tx) SectionIndex(hash crypto.Hash) (uint8, bool) {
	if hash == tx.HeaderHash() {
		return HeaderIndex, true
	}
	if hash == tx.RawHeaderHash() {
		return RawHeaderIndex, true
	}
	for i, s := range tx.Sections {
		if i >= MaxSections {
			break
		}
		if types.HashSection(s) == hash {
			return uint8(i + 1), true
		}
	}
	return 0, false
}

// AddSection appends s and returns its content hash
func (tx *Tx) AddSection(s types.Section) crypto.Hash {
	tx.Sections = append(tx.Sections, s)
	return types.HashSection(s)
}

// Authorizations returns the authorization sections in order
func (tx *Tx) Authorizations() []types.Authorization {
	var out []types.Authorization
	for _, s := range tx.Sections {
		if a, ok := s.(types.Authorization); ok {
			out = append(out, a)
		}
	}
	return out
}

// Clone returns a copy whose section list can be modified independently.
// Sections themselves are immutable and shared.
func (tx *Tx) Clone() *Tx {
	sections := make([]types.Section, len(tx.Sections))
	copy(sections, tx.Sections)
	return &Tx{Header: tx.Header, Sections: sections}
}

// EncodeTo writes the header section followed by the section vector
func (tx *Tx) EncodeTo(w *borsh.Writer) {
	tx.Header.EncodeTo(w)
	w.WriteLen(len(tx.Sections))
	for _, s := range tx.Sections {
		s.EncodeTo(w)
	}
}

// Encode returns the canonical encoding of the transaction
func (tx *Tx) Encode() []byte {
	w := borsh.NewWriter()
	tx.EncodeTo(w)
	return w.Bytes()
}

// Decode parses a transaction from its canonical encoding. The input must be
// consumed exactly.
func Decode(data []byte) (*Tx, error) {
	tx, err := decode(borsh.NewReader(data))
	if err != nil {
		return nil, &crypto.DeserializationError{Target: "transaction", Cause: err}
	}
	return tx, nil
}

func decode(r *borsh.Reader) (*Tx, error) {
	first, err := types.ReadSection(r)
	if err != nil {
		return nil, errors.Wrap(err, "header")
	}
	header, ok := first.(types.Header)
	if !ok {
		return nil, errors.Errorf("expected header section, got %s", first.Kind())
	}

	// smallest section is a tag, a salt and an empty vector
	n, err := r.ReadLen(1 + types.SaltSize + 4)
	if err != nil {
		return nil, errors.Wrap(err, "section count")
	}
	tx := &Tx{Header: header}
	for i := 0; i < n; i++ {
		s, err := types.ReadSection(r)
		if err != nil {
			return nil, errors.Wrapf(err, "section %d", i)
		}
		tx.Sections = append(tx.Sections, s)
	}
	if err := r.Finish(); err != nil {
		return nil, err
	}
	return tx, nil
}
