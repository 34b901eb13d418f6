package crypto

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"filippo.io/edwards25519"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/Layr-Labs/authz-expander-go/pkg/borsh"
)

// Scheme is the variant tag shared by public keys and signatures
type Scheme uint8

const (
	SchemeEd25519   Scheme = 0
	SchemeSecp256k1 Scheme = 1
)

func (s Scheme) String() string {
	switch s {
	case SchemeEd25519:
		return "ed25519"
	case SchemeSecp256k1:
		return "secp256k1"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// Fixed byte lengths of the raw key and signature material
const (
	LenEd25519PublicKey   = 32
	LenSecp256k1PublicKey = 33
	LenEd25519Signature   = 64
	LenSecp256k1Signature = 64

	// PublicKeyHashSize is the length of the implicit-address key hash
	PublicKeyHashSize = 20
)

const (
	targetPublicKey = "public key"
	targetSignature = "signature"
)

// PublicKey is a tagged public key. Bytes holds the raw key: 32 bytes for
// ed25519, 33 bytes (compressed SEC1) for secp256k1.
type PublicKey struct {
	Scheme Scheme
	Bytes  []byte
}

// NewEd25519PublicKey validates raw ed25519 key bytes
func NewEd25519PublicKey(raw []byte) (PublicKey, error) {
	pk := PublicKey{Scheme: SchemeEd25519, Bytes: bytes.Clone(raw)}
	if err := pk.Validate(); err != nil {
		return PublicKey{}, err
	}
	return pk, nil
}

// NewSecp256k1PublicKey validates compressed secp256k1 key bytes
func NewSecp256k1PublicKey(compressed []byte) (PublicKey, error) {
	pk := PublicKey{Scheme: SchemeSecp256k1, Bytes: bytes.Clone(compressed)}
	if err := pk.Validate(); err != nil {
		return PublicKey{}, err
	}
	return pk, nil
}

// Validate checks the length and curve membership of the key
func (pk PublicKey) Validate() error {
	switch pk.Scheme {
	case SchemeEd25519:
		if len(pk.Bytes) != LenEd25519PublicKey {
			return &DeserializationError{Target: targetPublicKey, Cause: ErrWrongLength}
		}
		if _, err := new(edwards25519.Point).SetBytes(pk.Bytes); err != nil {
			return &DeserializationError{Target: targetPublicKey, Cause: fmt.Errorf("%w: %v", ErrInvalidPoint, err)}
		}
	case SchemeSecp256k1:
		if len(pk.Bytes) != LenSecp256k1PublicKey {
			return &DeserializationError{Target: targetPublicKey, Cause: ErrWrongLength}
		}
		if _, err := ethcrypto.DecompressPubkey(pk.Bytes); err != nil {
			return &DeserializationError{Target: targetPublicKey, Cause: fmt.Errorf("%w: %v", ErrInvalidPoint, err)}
		}
	default:
		return &DeserializationError{Target: targetPublicKey, Cause: fmt.Errorf("%w: tag %d", ErrUnknownScheme, uint8(pk.Scheme))}
	}
	return nil
}

// Equal reports value equality
func (pk PublicKey) Equal(other PublicKey) bool {
	return pk.Scheme == other.Scheme && bytes.Equal(pk.Bytes, other.Bytes)
}

// EncodeTo writes the canonical encoding: scheme tag followed by the raw key
func (pk PublicKey) EncodeTo(w *borsh.Writer) {
	w.WriteU8(uint8(pk.Scheme))
	w.WriteFixed(pk.Bytes)
}

// Encode returns the canonical encoding
func (pk PublicKey) Encode() []byte {
	w := borsh.NewWriter()
	pk.EncodeTo(w)
	return w.Bytes()
}

// Hash returns the key hash used for implicit addresses: the first 20 bytes
// of the SHA-256 of the canonical encoding.
func (pk PublicKey) Hash() [PublicKeyHashSize]byte {
	h := Sha256(pk.Encode())
	var out [PublicKeyHashSize]byte
	copy(out[:], h[:PublicKeyHashSize])
	return out
}

func (pk PublicKey) String() string {
	return pk.Scheme.String() + ":" + hex.EncodeToString(pk.Bytes)
}

// ReadPublicKey decodes one public key from r
func ReadPublicKey(r *borsh.Reader) (PublicKey, error) {
	tag, err := r.ReadU8()
	if err != nil {
		return PublicKey{}, &DeserializationError{Target: targetPublicKey, Cause: err}
	}

	var size int
	switch Scheme(tag) {
	case SchemeEd25519:
		size = LenEd25519PublicKey
	case SchemeSecp256k1:
		size = LenSecp256k1PublicKey
	default:
		return PublicKey{}, &DeserializationError{Target: targetPublicKey, Cause: fmt.Errorf("%w: tag %d", ErrUnknownScheme, tag)}
	}

	raw, err := r.ReadFixed(size)
	if err != nil {
		return PublicKey{}, &DeserializationError{Target: targetPublicKey, Cause: err}
	}
	pk := PublicKey{Scheme: Scheme(tag), Bytes: raw}
	if err := pk.Validate(); err != nil {
		return PublicKey{}, err
	}
	return pk, nil
}

// ParsePublicKey decodes exactly one public key from its canonical encoding
func ParsePublicKey(data []byte) (PublicKey, error) {
	r := borsh.NewReader(data)
	pk, err := ReadPublicKey(r)
	if err != nil {
		return PublicKey{}, err
	}
	if err := r.Finish(); err != nil {
		return PublicKey{}, &DeserializationError{Target: targetPublicKey, Cause: err}
	}
	return pk, nil
}
