package types

import (
	"github.com/pkg/errors"

	"github.com/Layr-Labs/authz-expander-go/pkg/borsh"
	"github.com/Layr-Labs/authz-expander-go/pkg/crypto"
)

// SectionLookup resolves a logical section index of a transaction to that
// section's content hash. The mapping from index to section is owned by the
// transaction; a failed lookup must return an error.
type SectionLookup interface {
	SectionHash(index uint8) (crypto.Hash, error)
}

// SectionLocator is the inverse of SectionLookup
type SectionLocator interface {
	SectionIndex(hash crypto.Hash) (uint8, bool)
}

// Authorization asserts that Signer has signed over the Targets content
// hashes. It is the authorization variant of Section.
type Authorization struct {
	Targets    []crypto.Hash
	Signer     Signer
	Signatures SignatureMap
}

func (Authorization) Kind() SectionKind { return SectionAuthorization }

func (a Authorization) EncodeTo(w *borsh.Writer) {
	w.WriteU8(uint8(SectionAuthorization))
	a.encodeBody(w)
}

func (a Authorization) encodeBody(w *borsh.Writer) {
	w.WriteLen(len(a.Targets))
	for _, t := range a.Targets {
		w.WriteFixed(t[:])
	}
	a.Signer.EncodeTo(w)
	a.Signatures.EncodeTo(w)
}

func readAuthorization(r *borsh.Reader) (Authorization, error) {
	n, err := r.ReadLen(crypto.HashSize)
	if err != nil {
		return Authorization{}, errors.Wrap(err, "target count")
	}
	targets := make([]crypto.Hash, n)
	for i := range targets {
		raw, err := r.ReadFixed(crypto.HashSize)
		if err != nil {
			return Authorization{}, errors.Wrapf(err, "target %d", i)
		}
		targets[i] = crypto.Hash(raw)
	}
	signer, err := ReadSigner(r)
	if err != nil {
		return Authorization{}, err
	}
	sigs, err := ReadSignatureMap(r)
	if err != nil {
		return Authorization{}, err
	}
	return Authorization{Targets: targets, Signer: signer, Signatures: sigs}, nil
}

// CompressedAuthorization is the wire-efficient form of an Authorization:
// targets are logical section indices of a specific transaction instead of
// content hashes.
type CompressedAuthorization struct {
	Targets    []uint8
	Signer     Signer
	Signatures SignatureMap
}

// Expand resolves every target index against tx, in order and keeping
// duplicates. The first failed lookup is returned as is and no
// authorization is produced.
func (c CompressedAuthorization) Expand(tx SectionLookup) (Authorization, error) {
	targets := make([]crypto.Hash, 0, len(c.Targets))
	for _, idx := range c.Targets {
		h, err := tx.SectionHash(idx)
		if err != nil {
			return Authorization{}, err
		}
		targets = append(targets, h)
	}
	return Authorization{
		Targets:    targets,
		Signer:     c.Signer,
		Signatures: c.Signatures,
	}, nil
}

// EncodeTo writes the compressed form: index vector, signer, signatures
func (c CompressedAuthorization) EncodeTo(w *borsh.Writer) {
	w.WriteBytes(c.Targets)
	c.Signer.EncodeTo(w)
	c.Signatures.EncodeTo(w)
}

// Compress replaces each target hash of auth with its logical index in tx.
// Every target must be present in tx.
func Compress(auth Authorization, tx SectionLocator) (CompressedAuthorization, error) {
	indices := make([]uint8, 0, len(auth.Targets))
	for _, h := range auth.Targets {
		idx, ok := tx.SectionIndex(h)
		if !ok {
			return CompressedAuthorization{}, &TargetNotFoundError{Hash: h}
		}
		indices = append(indices, idx)
	}
	return CompressedAuthorization{
		Targets:    indices,
		Signer:     auth.Signer,
		Signatures: auth.Signatures,
	}, nil
}
