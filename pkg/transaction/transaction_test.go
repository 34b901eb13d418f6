package transaction_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Layr-Labs/authz-expander-go/pkg/crypto"
	"github.com/Layr-Labs/authz-expander-go/pkg/testutil"
	"github.com/Layr-Labs/authz-expander-go/pkg/transaction"
	"github.com/Layr-Labs/authz-expander-go/pkg/types"
)

func TestSectionHash_LogicalIndices(t *testing.T) {
	tx := testutil.NewWrappedTx(testutil.NewEd25519Signer(t).PublicKey)

	h, err := tx.SectionHash(transaction.HeaderIndex)
	require.NoError(t, err)
	assert.Equal(t, types.HashSection(tx.Header), h)

	h, err = tx.SectionHash(transaction.RawHeaderIndex)
	require.NoError(t, err)
	assert.Equal(t, types.HashSection(tx.Header.Raw()), h)
	assert.NotEqual(t, tx.HeaderHash(), h)

	for i, s := range tx.Sections {
		h, err := tx.SectionHash(uint8(i + 1))
		require.NoError(t, err)
		assert.Equal(t, types.HashSection(s), h)
	}
}

func TestSectionHash_OutOfRange(t *testing.T) {
	tx := testutil.NewDataTx(3)

	for _, idx := range []uint8{4, 5, 100, 254} {
		_, err := tx.SectionHash(idx)
		require.ErrorIs(t, err, types.ErrIndexOutOfRange, "index %d", idx)
	}

	empty := testutil.NewDataTx(0)
	_, err := empty.SectionHash(1)
	require.ErrorIs(t, err, types.ErrIndexOutOfRange)

	_, err = empty.SectionHash(transaction.HeaderIndex)
	require.NoError(t, err)
}

func TestSectionIndex(t *testing.T) {
	tx := testutil.NewWrappedTx(testutil.NewSecp256k1Signer(t).PublicKey)

	idx, ok := tx.SectionIndex(tx.HeaderHash())
	require.True(t, ok)
	assert.Equal(t, transaction.HeaderIndex, idx)

	idx, ok = tx.SectionIndex(tx.RawHeaderHash())
	require.True(t, ok)
	assert.Equal(t, transaction.RawHeaderIndex, idx)

	idx, ok = tx.SectionIndex(types.HashSection(tx.Sections[1]))
	require.True(t, ok)
	assert.Equal(t, uint8(2), idx)

	_, ok = tx.SectionIndex(crypto.Sha256([]byte("nope")))
	assert.False(t, ok)
}

func TestAddSection_KeepsID(t *testing.T) {
	tx := testutil.NewDataTx(1)
	id := tx.ID()

	section := types.DataSection{Data: []byte("appended")}
	h := tx.AddSection(section)

	assert.Equal(t, types.HashSection(section), h)
	assert.Equal(t, id, tx.ID())
	assert.Len(t, tx.Sections, 2)
}

func TestClone_IsIndependent(t *testing.T) {
	tx := testutil.NewDataTx(2)
	clone := tx.Clone()

	clone.AddSection(types.DataSection{Data: []byte("only in clone")})
	assert.Len(t, tx.Sections, 2)
	assert.Len(t, clone.Sections, 3)
}

func TestAuthorizations(t *testing.T) {
	tx := testutil.NewDataTx(2)
	require.Empty(t, tx.Authorizations())

	auth := types.Authorization{
		Targets:    []crypto.Hash{tx.HeaderHash()},
		Signer:     types.PubKeysSigner{},
		Signatures: types.SignatureMap{},
	}
	tx.AddSection(auth)

	require.Equal(t, []types.Authorization{auth}, tx.Authorizations())
}

func TestEncodeDecode(t *testing.T) {
	signer := testutil.NewSecp256k1Signer(t)
	tx := testutil.NewWrappedTx(signer.PublicKey)
	tx.AddSection(types.Authorization{
		Targets:    []crypto.Hash{tx.HeaderHash()},
		Signer:     types.PubKeysSigner{PubKeys: []crypto.PublicKey{signer.PublicKey}},
		Signatures: types.SignatureMap{0: signer.Sign(t, []byte("header"))},
	})

	encoded := tx.Encode()
	decoded, err := transaction.Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, tx, decoded)
	require.Equal(t, encoded, decoded.Encode())
	require.Equal(t, tx.ID(), decoded.ID())
}

func TestDecode_Rejects(t *testing.T) {
	encoded := testutil.NewDataTx(2).Encode()

	_, err := transaction.Decode(encoded[:len(encoded)-1])
	require.ErrorIs(t, err, crypto.ErrDeserialization)

	_, err = transaction.Decode(append(append([]byte{}, encoded...), 0))
	require.ErrorIs(t, err, crypto.ErrDeserialization)

	// a transaction must start with its header
	_, err = transaction.Decode(types.EncodeSection(types.DataSection{}))
	require.ErrorIs(t, err, crypto.ErrDeserialization)
}
