package crypto

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/Layr-Labs/authz-expander-go/pkg/borsh"
)

// maxRecoveryID is the largest valid secp256k1 recovery id
const maxRecoveryID = 3

// Signature is a tagged signature. For ed25519 Bytes is the 64 byte
// signature. For secp256k1 Bytes is r||s (64 bytes) and RecoveryID carries
// the trailing recovery byte.
type Signature struct {
	Scheme     Scheme
	Bytes      []byte
	RecoveryID uint8
}

// NewEd25519Signature wraps a raw 64 byte ed25519 signature
func NewEd25519Signature(raw []byte) (Signature, error) {
	sig := Signature{Scheme: SchemeEd25519, Bytes: bytes.Clone(raw)}
	if err := sig.Validate(); err != nil {
		return Signature{}, err
	}
	return sig, nil
}

// NewSecp256k1Signature accepts the 65 byte r||s||v form produced by
// go-ethereum's crypto.Sign
func NewSecp256k1Signature(rsv []byte) (Signature, error) {
	if len(rsv) != LenSecp256k1Signature+1 {
		return Signature{}, &DeserializationError{Target: targetSignature, Cause: ErrWrongLength}
	}
	sig := Signature{
		Scheme:     SchemeSecp256k1,
		Bytes:      bytes.Clone(rsv[:LenSecp256k1Signature]),
		RecoveryID: rsv[LenSecp256k1Signature],
	}
	if err := sig.Validate(); err != nil {
		return Signature{}, err
	}
	return sig, nil
}

// Validate checks lengths and, for secp256k1, that r and s are below the
// group order and the recovery id is in range.
func (s Signature) Validate() error {
	switch s.Scheme {
	case SchemeEd25519:
		if len(s.Bytes) != LenEd25519Signature {
			return &DeserializationError{Target: targetSignature, Cause: ErrWrongLength}
		}
	case SchemeSecp256k1:
		if len(s.Bytes) != LenSecp256k1Signature {
			return &DeserializationError{Target: targetSignature, Cause: ErrWrongLength}
		}
		var r, sv secp256k1.ModNScalar
		if overflow := r.SetByteSlice(s.Bytes[:32]); overflow {
			return &DeserializationError{Target: targetSignature, Cause: fmt.Errorf("r is not below the group order")}
		}
		if overflow := sv.SetByteSlice(s.Bytes[32:]); overflow {
			return &DeserializationError{Target: targetSignature, Cause: fmt.Errorf("s is not below the group order")}
		}
		if s.RecoveryID > maxRecoveryID {
			return &DeserializationError{Target: targetSignature, Cause: fmt.Errorf("recovery id %d out of range", s.RecoveryID)}
		}
	default:
		return &DeserializationError{Target: targetSignature, Cause: fmt.Errorf("%w: tag %d", ErrUnknownScheme, uint8(s.Scheme))}
	}
	return nil
}

// Equal reports value equality
func (s Signature) Equal(other Signature) bool {
	return s.Scheme == other.Scheme &&
		bytes.Equal(s.Bytes, other.Bytes) &&
		s.RecoveryID == other.RecoveryID
}

// EncodeTo writes the canonical encoding: scheme tag, signature bytes and,
// for secp256k1, the recovery id
func (s Signature) EncodeTo(w *borsh.Writer) {
	w.WriteU8(uint8(s.Scheme))
	w.WriteFixed(s.Bytes)
	if s.Scheme == SchemeSecp256k1 {
		w.WriteU8(s.RecoveryID)
	}
}

// Encode returns the canonical encoding
func (s Signature) Encode() []byte {
	w := borsh.NewWriter()
	s.EncodeTo(w)
	return w.Bytes()
}

func (s Signature) String() string {
	return s.Scheme.String() + ":" + hex.EncodeToString(s.Bytes)
}

// ReadSignature decodes one signature from r
func ReadSignature(r *borsh.Reader) (Signature, error) {
	tag, err := r.ReadU8()
	if err != nil {
		return Signature{}, &DeserializationError{Target: targetSignature, Cause: err}
	}

	sig := Signature{Scheme: Scheme(tag)}
	switch sig.Scheme {
	case SchemeEd25519:
		if sig.Bytes, err = r.ReadFixed(LenEd25519Signature); err != nil {
			return Signature{}, &DeserializationError{Target: targetSignature, Cause: err}
		}
	case SchemeSecp256k1:
		if sig.Bytes, err = r.ReadFixed(LenSecp256k1Signature); err != nil {
			return Signature{}, &DeserializationError{Target: targetSignature, Cause: err}
		}
		if sig.RecoveryID, err = r.ReadU8(); err != nil {
			return Signature{}, &DeserializationError{Target: targetSignature, Cause: err}
		}
	default:
		return Signature{}, &DeserializationError{Target: targetSignature, Cause: fmt.Errorf("%w: tag %d", ErrUnknownScheme, tag)}
	}

	if err := sig.Validate(); err != nil {
		return Signature{}, err
	}
	return sig, nil
}

// ParseSignature decodes exactly one signature from its canonical encoding
func ParseSignature(data []byte) (Signature, error) {
	r := borsh.NewReader(data)
	sig, err := ReadSignature(r)
	if err != nil {
		return Signature{}, err
	}
	if err := r.Finish(); err != nil {
		return Signature{}, &DeserializationError{Target: targetSignature, Cause: err}
	}
	return sig, nil
}
