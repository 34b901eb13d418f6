package authorization

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/Layr-Labs/authz-expander-go/pkg/borsh"
	"github.com/Layr-Labs/authz-expander-go/pkg/crypto"
	"github.com/Layr-Labs/authz-expander-go/pkg/transaction"
)

// SignatureMsg is what an offline signer returns for one transaction: a
// public key, the compressed signature over the inner (raw) sections and
// optionally the compressed signature over the wrapper.
type SignatureMsg struct {
	PubKey           []byte
	RawIndices       []byte
	RawSignature     []byte
	WrapperIndices   []byte
	WrapperSignature []byte
}

// HasWrapper reports whether the message carries a wrapper signature
func (m SignatureMsg) HasWrapper() bool {
	return len(m.WrapperIndices) > 0 || len(m.WrapperSignature) > 0
}

// Encode returns the canonical encoding: five byte vectors in field order
func (m SignatureMsg) Encode() []byte {
	w := borsh.NewWriter()
	w.WriteBytes(m.PubKey)
	w.WriteBytes(m.RawIndices)
	w.WriteBytes(m.RawSignature)
	w.WriteBytes(m.WrapperIndices)
	w.WriteBytes(m.WrapperSignature)
	return w.Bytes()
}

// DecodeSignatureMsg parses a SignatureMsg from its canonical encoding
func DecodeSignatureMsg(data []byte) (SignatureMsg, error) {
	r := borsh.NewReader(data)
	var m SignatureMsg
	fields := []struct {
		name string
		dst  *[]byte
	}{
		{"pubkey", &m.PubKey},
		{"raw indices", &m.RawIndices},
		{"raw signature", &m.RawSignature},
		{"wrapper indices", &m.WrapperIndices},
		{"wrapper signature", &m.WrapperSignature},
	}
	for _, f := range fields {
		v, err := r.ReadBytes()
		if err != nil {
			return SignatureMsg{}, &crypto.DeserializationError{Target: "signature message", Cause: errors.Wrap(err, f.name)}
		}
		*f.dst = v
	}
	if err := r.Finish(); err != nil {
		return SignatureMsg{}, &crypto.DeserializationError{Target: "signature message", Cause: err}
	}
	return m, nil
}

// AppendSignatures expands the raw authorization of msg against tx and
// appends it, then expands the wrapper authorization against the extended
// transaction and appends that too. Wrapper indices may therefore target the
// raw authorization section. On error tx is left unchanged.
func AppendSignatures(tx *transaction.Tx, msg SignatureMsg) error {
	if tx == nil {
		return fmt.Errorf("transaction cannot be nil")
	}

	work := tx.Clone()

	raw, err := ExpandAuthorization(msg.PubKey, msg.RawIndices, msg.RawSignature, work)
	if err != nil {
		return fmt.Errorf("failed to expand raw authorization: %w", err)
	}
	work.AddSection(raw)

	if msg.HasWrapper() {
		wrapper, err := ExpandAuthorization(msg.PubKey, msg.WrapperIndices, msg.WrapperSignature, work)
		if err != nil {
			return fmt.Errorf("failed to expand wrapper authorization: %w", err)
		}
		work.AddSection(wrapper)
	}

	tx.Sections = work.Sections
	return nil
}
