package types

import (
	"time"

	"github.com/pkg/errors"

	"github.com/Layr-Labs/authz-expander-go/pkg/borsh"
	"github.com/Layr-Labs/authz-expander-go/pkg/crypto"
)

// TxCommitments binds one inner transaction of a batch to its code, data
// and memo sections by hash
type TxCommitments struct {
	CodeHash crypto.Hash
	DataHash crypto.Hash
	MemoHash crypto.Hash
}

func (c TxCommitments) EncodeTo(w *borsh.Writer) {
	w.WriteFixed(c.CodeHash[:])
	w.WriteFixed(c.DataHash[:])
	w.WriteFixed(c.MemoHash[:])
}

// Fee is the gas price a wrapper pays, denominated in Token
type Fee struct {
	AmountPerGasUnit uint64
	Denom            uint8
	Token            Address
}

// WrapperTx carries the fee payer data of a wrapped transaction
type WrapperTx struct {
	Fee       Fee
	PublicKey crypto.PublicKey
	GasLimit  uint64
}

// TxType is Raw when Wrapper is nil
type TxType struct {
	Wrapper *WrapperTx
}

const (
	txTypeRaw     uint8 = 0
	txTypeWrapper uint8 = 1
)

// IsRaw reports whether the transaction is not wrapped
func (t TxType) IsRaw() bool {
	return t.Wrapper == nil
}

func (t TxType) EncodeTo(w *borsh.Writer) {
	if t.Wrapper == nil {
		w.WriteU8(txTypeRaw)
		return
	}
	w.WriteU8(txTypeWrapper)
	w.WriteU64(t.Wrapper.Fee.AmountPerGasUnit)
	w.WriteU8(t.Wrapper.Fee.Denom)
	t.Wrapper.Fee.Token.EncodeTo(w)
	t.Wrapper.PublicKey.EncodeTo(w)
	w.WriteU64(t.Wrapper.GasLimit)
}

// Header is the transaction header. It is addressable as a section so that
// authorizations can target it.
type Header struct {
	ChainID    string
	Expiration *time.Time
	Timestamp  time.Time
	Batch      []TxCommitments
	Atomic     bool
	TxType     TxType
}

func (Header) Kind() SectionKind { return SectionHeader }

func (h Header) EncodeTo(w *borsh.Writer) {
	w.WriteU8(uint8(SectionHeader))
	w.WriteString(h.ChainID)
	w.WriteOption(h.Expiration != nil, func(w *borsh.Writer) { w.WriteString(formatTime(*h.Expiration)) })
	w.WriteString(formatTime(h.Timestamp))
	w.WriteLen(len(h.Batch))
	for _, c := range h.Batch {
		c.EncodeTo(w)
	}
	w.WriteBool(h.Atomic)
	h.TxType.EncodeTo(w)
}

// Raw returns a copy of the header with the wrapper stripped
func (h Header) Raw() Header {
	raw := h
	raw.TxType = TxType{}
	return raw
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime accepts only the exact form produced by formatTime
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	t = t.UTC()
	if formatTime(t) != s {
		return time.Time{}, errors.Errorf("non-canonical timestamp %q", s)
	}
	return t, nil
}

func readTime(r *borsh.Reader) (time.Time, error) {
	s, err := r.ReadString()
	if err != nil {
		return time.Time{}, err
	}
	return parseTime(s)
}

func readHeaderBody(r *borsh.Reader) (Header, error) {
	var h Header
	var err error

	if h.ChainID, err = r.ReadString(); err != nil {
		return Header{}, errors.Wrap(err, "chain id")
	}

	present, err := r.ReadOption()
	if err != nil {
		return Header{}, errors.Wrap(err, "expiration option")
	}
	if present {
		exp, err := readTime(r)
		if err != nil {
			return Header{}, errors.Wrap(err, "expiration")
		}
		h.Expiration = &exp
	}

	if h.Timestamp, err = readTime(r); err != nil {
		return Header{}, errors.Wrap(err, "timestamp")
	}

	n, err := r.ReadLen(3 * crypto.HashSize)
	if err != nil {
		return Header{}, errors.Wrap(err, "batch length")
	}
	if n > 0 {
		h.Batch = make([]TxCommitments, n)
	}
	for i := range h.Batch {
		var raw []byte
		if raw, err = r.ReadFixed(3 * crypto.HashSize); err != nil {
			return Header{}, errors.Wrapf(err, "batch entry %d", i)
		}
		copy(h.Batch[i].CodeHash[:], raw[:32])
		copy(h.Batch[i].DataHash[:], raw[32:64])
		copy(h.Batch[i].MemoHash[:], raw[64:])
	}

	if h.Atomic, err = r.ReadBool(); err != nil {
		return Header{}, errors.Wrap(err, "atomic flag")
	}

	if h.TxType, err = readTxType(r); err != nil {
		return Header{}, err
	}
	return h, nil
}

func readTxType(r *borsh.Reader) (TxType, error) {
	tag, err := r.ReadU8()
	if err != nil {
		return TxType{}, errors.Wrap(err, "tx type tag")
	}
	switch tag {
	case txTypeRaw:
		return TxType{}, nil
	case txTypeWrapper:
		wrapper := &WrapperTx{}
		if wrapper.Fee.AmountPerGasUnit, err = r.ReadU64(); err != nil {
			return TxType{}, errors.Wrap(err, "fee amount")
		}
		if wrapper.Fee.Denom, err = r.ReadU8(); err != nil {
			return TxType{}, errors.Wrap(err, "fee denomination")
		}
		if wrapper.Fee.Token, err = ReadAddress(r); err != nil {
			return TxType{}, errors.Wrap(err, "fee token")
		}
		if wrapper.PublicKey, err = crypto.ReadPublicKey(r); err != nil {
			return TxType{}, errors.Wrap(err, "fee payer")
		}
		if wrapper.GasLimit, err = r.ReadU64(); err != nil {
			return TxType{}, errors.Wrap(err, "gas limit")
		}
		return TxType{Wrapper: wrapper}, nil
	default:
		return TxType{}, errors.Wrapf(borsh.ErrInvalidTag, "tx type tag %d", tag)
	}
}
