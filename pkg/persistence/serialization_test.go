package persistence

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Layr-Labs/authz-expander-go/pkg/testutil"
)

func TestTxRecord_MarshalUnmarshal(t *testing.T) {
	signer := testutil.NewEd25519Signer(t)
	tx := testutil.NewWrappedTx(signer.PublicKey)
	record := NewTxRecord(tx, 1700000000)

	data, err := MarshalTxRecord(record)
	require.NoError(t, err)

	decoded, err := UnmarshalTxRecord(data)
	require.NoError(t, err)
	assert.Equal(t, record, decoded)
	assert.Equal(t, TxStatusPending, decoded.Status)

	restored, err := decoded.Transaction()
	require.NoError(t, err)
	assert.Equal(t, tx.Encode(), restored.Encode())
}

func TestMarshalTxRecord_Nil(t *testing.T) {
	_, err := MarshalTxRecord(nil)
	require.Error(t, err)
}

func TestUnmarshalTxRecord_Invalid(t *testing.T) {
	_, err := UnmarshalTxRecord(nil)
	require.Error(t, err)

	_, err = UnmarshalTxRecord([]byte("{not json"))
	require.Error(t, err)

	record := NewTxRecord(testutil.NewDataTx(2), 1)
	record.Tx = record.Tx[:len(record.Tx)-1]
	data, err := json.Marshal(record)
	require.NoError(t, err)
	_, err = UnmarshalTxRecord(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stored transaction is invalid")

	// ID does not match the stored transaction
	record = NewTxRecord(testutil.NewDataTx(2), 1)
	record.ID = testutil.NewDataTx(3).ID()
	data, err = json.Marshal(record)
	require.NoError(t, err)
	_, err = UnmarshalTxRecord(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match")
}

func TestSortTxRecords(t *testing.T) {
	a := NewTxRecord(testutil.NewDataTx(1), 5)
	b := NewTxRecord(testutil.NewDataTx(2), 1)
	c := NewTxRecord(testutil.NewDataTx(3), 5)

	records := []*TxRecord{a, b, c}
	SortTxRecords(records)

	assert.Equal(t, b.ID, records[0].ID)
	if a.ID.String() < c.ID.String() {
		assert.Equal(t, []*TxRecord{b, a, c}, records)
	} else {
		assert.Equal(t, []*TxRecord{b, c, a}, records)
	}
}
