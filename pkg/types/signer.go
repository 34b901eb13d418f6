package types

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/Layr-Labs/authz-expander-go/pkg/borsh"
	"github.com/Layr-Labs/authz-expander-go/pkg/crypto"
)

// SignerKind is the variant tag of a Signer
type SignerKind uint8

const (
	SignerByAddress SignerKind = 0
	SignerByPubKeys SignerKind = 1
)

// Signer identifies who authorizes a set of targets. Implementations are the
// variants of a closed tagged union; add a variant here together with its
// tag and decoder.
type Signer interface {
	Kind() SignerKind
	EncodeTo(w *borsh.Writer)
}

// AddressSigner authorizes on behalf of an account address
type AddressSigner struct {
	Address Address
}

func (AddressSigner) Kind() SignerKind { return SignerByAddress }

func (s AddressSigner) EncodeTo(w *borsh.Writer) {
	w.WriteU8(uint8(SignerByAddress))
	s.Address.EncodeTo(w)
}

// PubKeysSigner authorizes with an explicit list of public keys. The
// position of a key in PubKeys is its index in the SignatureMap.
type PubKeysSigner struct {
	PubKeys []crypto.PublicKey
}

func (PubKeysSigner) Kind() SignerKind { return SignerByPubKeys }

func (s PubKeysSigner) EncodeTo(w *borsh.Writer) {
	w.WriteU8(uint8(SignerByPubKeys))
	w.WriteLen(len(s.PubKeys))
	for _, pk := range s.PubKeys {
		pk.EncodeTo(w)
	}
}

// ReadSigner decodes one signer from r
func ReadSigner(r *borsh.Reader) (Signer, error) {
	tag, err := r.ReadU8()
	if err != nil {
		return nil, errors.Wrap(err, "signer tag")
	}

	switch SignerKind(tag) {
	case SignerByAddress:
		addr, err := ReadAddress(r)
		if err != nil {
			return nil, errors.Wrap(err, "signer address")
		}
		return AddressSigner{Address: addr}, nil
	case SignerByPubKeys:
		// smallest key encoding is a tag plus 32 bytes
		n, err := r.ReadLen(1 + crypto.LenEd25519PublicKey)
		if err != nil {
			return nil, errors.Wrap(err, "signer key count")
		}
		keys := make([]crypto.PublicKey, 0, n)
		for i := 0; i < n; i++ {
			pk, err := crypto.ReadPublicKey(r)
			if err != nil {
				return nil, errors.Wrapf(err, "signer key %d", i)
			}
			keys = append(keys, pk)
		}
		return PubKeysSigner{PubKeys: keys}, nil
	default:
		return nil, errors.Wrapf(borsh.ErrInvalidTag, "signer tag %d", tag)
	}
}

// SignatureMap maps a signer key index to its signature
type SignatureMap map[uint8]crypto.Signature

// Indices returns the map keys in ascending order
func (m SignatureMap) Indices() []uint8 {
	out := make([]uint8, 0, len(m))
	for idx := range m {
		out = append(out, idx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// EncodeTo writes the entry count followed by entries in ascending key order
func (m SignatureMap) EncodeTo(w *borsh.Writer) {
	w.WriteLen(len(m))
	for _, idx := range m.Indices() {
		w.WriteU8(idx)
		m[idx].EncodeTo(w)
	}
}

// ReadSignatureMap decodes a signature map. Keys must be strictly ascending.
func ReadSignatureMap(r *borsh.Reader) (SignatureMap, error) {
	// index byte, scheme tag and a 64 byte signature at minimum
	n, err := r.ReadLen(2 + crypto.LenEd25519Signature)
	if err != nil {
		return nil, errors.Wrap(err, "signature count")
	}
	m := make(SignatureMap, n)
	prev := -1
	for i := 0; i < n; i++ {
		idx, err := r.ReadU8()
		if err != nil {
			return nil, errors.Wrapf(err, "signature %d index", i)
		}
		if int(idx) <= prev {
			return nil, errors.Errorf("signature indices not strictly ascending at entry %d", i)
		}
		prev = int(idx)
		sig, err := crypto.ReadSignature(r)
		if err != nil {
			return nil, errors.Wrapf(err, "signature %d", i)
		}
		m[idx] = sig
	}
	return m, nil
}
