package types

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/Layr-Labs/authz-expander-go/pkg/borsh"
	"github.com/Layr-Labs/authz-expander-go/pkg/crypto"
)

// SectionKind is the variant tag of a Section
type SectionKind uint8

const (
	SectionData          SectionKind = 0
	SectionExtraData     SectionKind = 1
	SectionCode          SectionKind = 2
	SectionAuthorization SectionKind = 3
	// 4 and 5 carry shielded transfer payloads, which are not modelled
	SectionMaspTx      SectionKind = 4
	SectionMaspBuilder SectionKind = 5
	SectionHeader      SectionKind = 6
)

func (k SectionKind) String() string {
	switch k {
	case SectionData:
		return "data"
	case SectionExtraData:
		return "extra-data"
	case SectionCode:
		return "code"
	case SectionAuthorization:
		return "authorization"
	case SectionMaspTx:
		return "masp-tx"
	case SectionMaspBuilder:
		return "masp-builder"
	case SectionHeader:
		return "header"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// SaltSize is the length of the salt carried by data and code sections
const SaltSize = 8

// Section is an immutable, hashable fragment of a transaction. EncodeTo
// writes the variant tag followed by the payload.
type Section interface {
	Kind() SectionKind
	EncodeTo(w *borsh.Writer)
}

// EncodeSection returns the canonical encoding of s
func EncodeSection(s Section) []byte {
	w := borsh.NewWriter()
	s.EncodeTo(w)
	return w.Bytes()
}

// HashSection returns the content hash of s: the SHA-256 of its canonical
// encoding, variant tag included
func HashSection(s Section) crypto.Hash {
	return crypto.Sha256(EncodeSection(s))
}

// DataSection carries arbitrary transaction data
type DataSection struct {
	Salt [SaltSize]byte
	Data []byte
}

func (DataSection) Kind() SectionKind { return SectionData }

func (d DataSection) EncodeTo(w *borsh.Writer) {
	w.WriteU8(uint8(SectionData))
	w.WriteFixed(d.Salt[:])
	w.WriteBytes(d.Data)
}

// CommitmentKind is the variant tag of a Commitment
type CommitmentKind uint8

const (
	CommitmentHash CommitmentKind = 0
	CommitmentID   CommitmentKind = 1
)

// Commitment refers to code either by hash or by carrying it inline
type Commitment struct {
	Kind CommitmentKind
	Hash crypto.Hash
	ID   []byte
}

func (c Commitment) EncodeTo(w *borsh.Writer) {
	w.WriteU8(uint8(c.Kind))
	switch c.Kind {
	case CommitmentHash:
		w.WriteFixed(c.Hash[:])
	default:
		w.WriteBytes(c.ID)
	}
}

func readCommitment(r *borsh.Reader) (Commitment, error) {
	tag, err := r.ReadU8()
	if err != nil {
		return Commitment{}, errors.Wrap(err, "commitment tag")
	}
	switch CommitmentKind(tag) {
	case CommitmentHash:
		raw, err := r.ReadFixed(crypto.HashSize)
		if err != nil {
			return Commitment{}, errors.Wrap(err, "commitment hash")
		}
		return Commitment{Kind: CommitmentHash, Hash: crypto.Hash(raw)}, nil
	case CommitmentID:
		id, err := r.ReadBytes()
		if err != nil {
			return Commitment{}, errors.Wrap(err, "commitment id")
		}
		return Commitment{Kind: CommitmentID, ID: id}, nil
	default:
		return Commitment{}, errors.Wrapf(borsh.ErrInvalidTag, "commitment tag %d", tag)
	}
}

// CodeSection carries executable code or a commitment to it
type CodeSection struct {
	Salt [SaltSize]byte
	Code Commitment
	Tag  *string
}

func (CodeSection) Kind() SectionKind { return SectionCode }

func (c CodeSection) EncodeTo(w *borsh.Writer) {
	w.WriteU8(uint8(SectionCode))
	c.encodeBody(w)
}

func (c CodeSection) encodeBody(w *borsh.Writer) {
	w.WriteFixed(c.Salt[:])
	c.Code.EncodeTo(w)
	w.WriteOption(c.Tag != nil, func(w *borsh.Writer) { w.WriteString(*c.Tag) })
}

func readCodeBody(r *borsh.Reader) (CodeSection, error) {
	var c CodeSection
	salt, err := r.ReadFixed(SaltSize)
	if err != nil {
		return CodeSection{}, errors.Wrap(err, "salt")
	}
	copy(c.Salt[:], salt)
	if c.Code, err = readCommitment(r); err != nil {
		return CodeSection{}, err
	}
	present, err := r.ReadOption()
	if err != nil {
		return CodeSection{}, errors.Wrap(err, "tag option")
	}
	if present {
		tag, err := r.ReadString()
		if err != nil {
			return CodeSection{}, errors.Wrap(err, "tag")
		}
		c.Tag = &tag
	}
	return c, nil
}

// ExtraDataSection carries auxiliary code-shaped data such as memos
type ExtraDataSection CodeSection

func (ExtraDataSection) Kind() SectionKind { return SectionExtraData }

func (e ExtraDataSection) EncodeTo(w *borsh.Writer) {
	w.WriteU8(uint8(SectionExtraData))
	CodeSection(e).encodeBody(w)
}

// ReadSection decodes one section from r
func ReadSection(r *borsh.Reader) (Section, error) {
	tag, err := r.ReadU8()
	if err != nil {
		return nil, errors.Wrap(err, "section tag")
	}

	kind := SectionKind(tag)
	switch kind {
	case SectionData:
		var d DataSection
		salt, err := r.ReadFixed(SaltSize)
		if err != nil {
			return nil, errors.Wrap(err, "data salt")
		}
		copy(d.Salt[:], salt)
		if d.Data, err = r.ReadBytes(); err != nil {
			return nil, errors.Wrap(err, "data payload")
		}
		return d, nil
	case SectionExtraData:
		c, err := readCodeBody(r)
		if err != nil {
			return nil, errors.Wrap(err, "extra data section")
		}
		return ExtraDataSection(c), nil
	case SectionCode:
		c, err := readCodeBody(r)
		if err != nil {
			return nil, errors.Wrap(err, "code section")
		}
		return c, nil
	case SectionAuthorization:
		a, err := readAuthorization(r)
		if err != nil {
			return nil, errors.Wrap(err, "authorization section")
		}
		return a, nil
	case SectionHeader:
		h, err := readHeaderBody(r)
		if err != nil {
			return nil, errors.Wrap(err, "header section")
		}
		return h, nil
	case SectionMaspTx, SectionMaspBuilder:
		return nil, errors.Wrapf(ErrUnsupportedSection, "%s", kind)
	default:
		return nil, errors.Wrapf(borsh.ErrInvalidTag, "section tag %d", tag)
	}
}

// DecodeSection decodes exactly one section from its canonical encoding
func DecodeSection(data []byte) (Section, error) {
	r := borsh.NewReader(data)
	s, err := ReadSection(r)
	if err == nil {
		err = r.Finish()
	}
	if err != nil {
		return nil, &crypto.DeserializationError{Target: "section", Cause: err}
	}
	return s, nil
}
