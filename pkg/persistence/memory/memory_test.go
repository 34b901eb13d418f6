package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Layr-Labs/authz-expander-go/pkg/crypto"
	"github.com/Layr-Labs/authz-expander-go/pkg/persistence"
	"github.com/Layr-Labs/authz-expander-go/pkg/testutil"
)

func newRecord(t *testing.T, sections int, submittedAt int64) *persistence.TxRecord {
	t.Helper()
	tx := testutil.NewDataTx(sections)
	return persistence.NewTxRecord(tx, submittedAt)
}

func TestMemoryPersistence_SaveAndLoad(t *testing.T) {
	mp := NewMemoryPersistence()
	defer func() { _ = mp.Close() }()

	record := newRecord(t, 2, 100)
	require.NoError(t, mp.SaveTxRecord(record))

	loaded, err := mp.LoadTxRecord(record.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, record, loaded)

	tx, err := loaded.Transaction()
	require.NoError(t, err)
	assert.Equal(t, record.ID, tx.ID())
}

func TestMemoryPersistence_Load_NotFound(t *testing.T) {
	mp := NewMemoryPersistence()
	defer func() { _ = mp.Close() }()

	loaded, err := mp.LoadTxRecord(crypto.Sha256([]byte("missing")))
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestMemoryPersistence_Save_Nil(t *testing.T) {
	mp := NewMemoryPersistence()
	defer func() { _ = mp.Close() }()

	err := mp.SaveTxRecord(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil TxRecord")
}

func TestMemoryPersistence_DeepCopy(t *testing.T) {
	mp := NewMemoryPersistence()
	defer func() { _ = mp.Close() }()

	record := newRecord(t, 1, 1)
	original := append([]byte(nil), record.Tx...)
	require.NoError(t, mp.SaveTxRecord(record))

	record.Tx[0] ^= 0xff

	loaded, err := mp.LoadTxRecord(record.ID)
	require.NoError(t, err)
	assert.Equal(t, original, loaded.Tx)

	loaded.Tx[0] ^= 0xff
	again, err := mp.LoadTxRecord(record.ID)
	require.NoError(t, err)
	assert.Equal(t, original, again.Tx)
}

func TestMemoryPersistence_ListAndDelete(t *testing.T) {
	mp := NewMemoryPersistence()
	defer func() { _ = mp.Close() }()

	empty, err := mp.ListTxRecords()
	require.NoError(t, err)
	assert.Empty(t, empty)

	late := newRecord(t, 1, 300)
	early := newRecord(t, 2, 100)
	middle := newRecord(t, 3, 200)
	for _, r := range []*persistence.TxRecord{late, early, middle} {
		require.NoError(t, mp.SaveTxRecord(r))
	}

	records, err := mp.ListTxRecords()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, early.ID, records[0].ID)
	assert.Equal(t, middle.ID, records[1].ID)
	assert.Equal(t, late.ID, records[2].ID)

	require.NoError(t, mp.DeleteTxRecord(middle.ID))
	// idempotent
	require.NoError(t, mp.DeleteTxRecord(middle.ID))

	records, err = mp.ListTxRecords()
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestMemoryPersistence_Overwrite(t *testing.T) {
	mp := NewMemoryPersistence()
	defer func() { _ = mp.Close() }()

	record := newRecord(t, 1, 10)
	require.NoError(t, mp.SaveTxRecord(record))

	record.Status = persistence.TxStatusSigned
	record.SignedAt = 20
	require.NoError(t, mp.SaveTxRecord(record))

	loaded, err := mp.LoadTxRecord(record.ID)
	require.NoError(t, err)
	assert.Equal(t, persistence.TxStatusSigned, loaded.Status)
	assert.Equal(t, int64(20), loaded.SignedAt)
}

func TestMemoryPersistence_Closed(t *testing.T) {
	mp := NewMemoryPersistence()
	require.NoError(t, mp.HealthCheck())
	require.NoError(t, mp.Close())
	require.NoError(t, mp.Close())

	record := newRecord(t, 1, 1)
	assert.ErrorIs(t, mp.SaveTxRecord(record), persistence.ErrClosed)
	_, err := mp.LoadTxRecord(record.ID)
	assert.ErrorIs(t, err, persistence.ErrClosed)
	_, err = mp.ListTxRecords()
	assert.ErrorIs(t, err, persistence.ErrClosed)
	assert.ErrorIs(t, mp.DeleteTxRecord(record.ID), persistence.ErrClosed)
	assert.ErrorIs(t, mp.HealthCheck(), persistence.ErrClosed)
}

func TestMemoryPersistence_Concurrent(t *testing.T) {
	mp := NewMemoryPersistence()
	defer func() { _ = mp.Close() }()

	var wg sync.WaitGroup
	for i := 1; i <= 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			record := newRecord(t, n, int64(n))
			assert.NoError(t, mp.SaveTxRecord(record))
			_, err := mp.LoadTxRecord(record.ID)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	records, err := mp.ListTxRecords()
	require.NoError(t, err)
	assert.Len(t, records, 10)
}
