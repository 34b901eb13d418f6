package types

import (
	"encoding/hex"
	"fmt"

	"github.com/pkg/errors"

	"github.com/Layr-Labs/authz-expander-go/pkg/borsh"
	"github.com/Layr-Labs/authz-expander-go/pkg/crypto"
)

// AddressKind is the variant tag of an Address
type AddressKind uint8

const (
	AddressEstablished AddressKind = 0
	AddressImplicit    AddressKind = 1
)

// AddressHashSize is the length of the hash carried by every address variant
const AddressHashSize = crypto.PublicKeyHashSize

// Address identifies an account. Established addresses are assigned on
// chain; implicit addresses are derived from a public key hash.
type Address struct {
	Kind AddressKind
	Hash [AddressHashSize]byte
}

// ImplicitAddress derives the implicit address controlled by pk
func ImplicitAddress(pk crypto.PublicKey) Address {
	return Address{Kind: AddressImplicit, Hash: pk.Hash()}
}

func (a Address) String() string {
	switch a.Kind {
	case AddressEstablished:
		return "established:" + hex.EncodeToString(a.Hash[:])
	case AddressImplicit:
		return "implicit:" + hex.EncodeToString(a.Hash[:])
	default:
		return fmt.Sprintf("unknown(%d):%s", uint8(a.Kind), hex.EncodeToString(a.Hash[:]))
	}
}

func (a Address) EncodeTo(w *borsh.Writer) {
	w.WriteU8(uint8(a.Kind))
	w.WriteFixed(a.Hash[:])
}

// ReadAddress decodes one address from r
func ReadAddress(r *borsh.Reader) (Address, error) {
	tag, err := r.ReadU8()
	if err != nil {
		return Address{}, errors.Wrap(err, "address tag")
	}
	kind := AddressKind(tag)
	if kind != AddressEstablished && kind != AddressImplicit {
		return Address{}, errors.Wrapf(borsh.ErrInvalidTag, "address tag %d", tag)
	}
	raw, err := r.ReadFixed(AddressHashSize)
	if err != nil {
		return Address{}, errors.Wrap(err, "address hash")
	}
	a := Address{Kind: kind}
	copy(a.Hash[:], raw)
	return a, nil
}
