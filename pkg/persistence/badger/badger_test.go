package badger

import (
	"sync"
	"testing"

	badgerdb "github.com/dgraph-io/badger/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Layr-Labs/authz-expander-go/pkg/crypto"
	"github.com/Layr-Labs/authz-expander-go/pkg/logger"
	"github.com/Layr-Labs/authz-expander-go/pkg/persistence"
	"github.com/Layr-Labs/authz-expander-go/pkg/testutil"
)

func newTestPersistence(t *testing.T, dir string) *BadgerPersistence {
	t.Helper()
	testLogger, err := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	require.NoError(t, err)

	bp, err := NewBadgerPersistence(dir, testLogger)
	require.NoError(t, err)
	return bp
}

func TestBadgerPersistence_SaveAndLoad(t *testing.T) {
	bp := newTestPersistence(t, t.TempDir())
	defer func() { _ = bp.Close() }()

	signer := testutil.NewSecp256k1Signer(t)
	record := persistence.NewTxRecord(testutil.NewWrappedTx(signer.PublicKey), 1700000000)

	require.NoError(t, bp.SaveTxRecord(record))

	loaded, err := bp.LoadTxRecord(record.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, record, loaded)
}

func TestBadgerPersistence_Load_NotFound(t *testing.T) {
	bp := newTestPersistence(t, t.TempDir())
	defer func() { _ = bp.Close() }()

	loaded, err := bp.LoadTxRecord(crypto.Sha256([]byte("missing")))
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestBadgerPersistence_Save_Nil(t *testing.T) {
	bp := newTestPersistence(t, t.TempDir())
	defer func() { _ = bp.Close() }()

	err := bp.SaveTxRecord(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil TxRecord")
}

func TestBadgerPersistence_ListAndDelete(t *testing.T) {
	bp := newTestPersistence(t, t.TempDir())
	defer func() { _ = bp.Close() }()

	empty, err := bp.ListTxRecords()
	require.NoError(t, err)
	assert.Empty(t, empty)

	second := persistence.NewTxRecord(testutil.NewDataTx(1), 20)
	first := persistence.NewTxRecord(testutil.NewDataTx(2), 10)
	require.NoError(t, bp.SaveTxRecord(second))
	require.NoError(t, bp.SaveTxRecord(first))

	records, err := bp.ListTxRecords()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, first.ID, records[0].ID)
	assert.Equal(t, second.ID, records[1].ID)

	require.NoError(t, bp.DeleteTxRecord(first.ID))
	require.NoError(t, bp.DeleteTxRecord(first.ID))

	loaded, err := bp.LoadTxRecord(first.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	records, err = bp.ListTxRecords()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestBadgerPersistence_List_SkipsCorruptRecords(t *testing.T) {
	bp := newTestPersistence(t, t.TempDir())
	defer func() { _ = bp.Close() }()

	good := persistence.NewTxRecord(testutil.NewDataTx(1), 1)
	require.NoError(t, bp.SaveTxRecord(good))

	require.NoError(t, bp.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set([]byte(keyPrefixTx+"garbage"), []byte("{}"))
	}))

	records, err := bp.ListTxRecords()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, good.ID, records[0].ID)
}

func TestBadgerPersistence_Close(t *testing.T) {
	bp := newTestPersistence(t, t.TempDir())

	require.NoError(t, bp.HealthCheck())
	require.NoError(t, bp.Close())
	require.NoError(t, bp.Close())

	record := persistence.NewTxRecord(testutil.NewDataTx(1), 1)
	assert.ErrorIs(t, bp.SaveTxRecord(record), persistence.ErrClosed)
	_, err := bp.LoadTxRecord(record.ID)
	assert.ErrorIs(t, err, persistence.ErrClosed)
	_, err = bp.ListTxRecords()
	assert.ErrorIs(t, err, persistence.ErrClosed)
	assert.ErrorIs(t, bp.DeleteTxRecord(record.ID), persistence.ErrClosed)
	assert.ErrorIs(t, bp.HealthCheck(), persistence.ErrClosed)
}

func TestBadgerPersistence_ThreadSafety(t *testing.T) {
	bp := newTestPersistence(t, t.TempDir())
	defer func() { _ = bp.Close() }()

	var wg sync.WaitGroup
	for i := 1; i <= 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			record := persistence.NewTxRecord(testutil.NewDataTx(n), int64(n))
			assert.NoError(t, bp.SaveTxRecord(record))
			loaded, err := bp.LoadTxRecord(record.ID)
			assert.NoError(t, err)
			assert.NotNil(t, loaded)
		}(i)
	}
	wg.Wait()

	records, err := bp.ListTxRecords()
	require.NoError(t, err)
	assert.Len(t, records, 10)
}

func TestBadgerPersistence_AcrossRestarts(t *testing.T) {
	dir := t.TempDir()

	record := persistence.NewTxRecord(testutil.NewDataTx(3), 42)
	record.Status = persistence.TxStatusSigned
	record.SignedAt = 43

	bp := newTestPersistence(t, dir)
	require.NoError(t, bp.SaveTxRecord(record))
	require.NoError(t, bp.Close())

	reopened := newTestPersistence(t, dir)
	defer func() { _ = reopened.Close() }()

	loaded, err := reopened.LoadTxRecord(record.ID)
	require.NoError(t, err)
	assert.Equal(t, record, loaded)
}

func TestBadgerPersistence_RejectsUnknownSchema(t *testing.T) {
	dir := t.TempDir()

	bp := newTestPersistence(t, dir)
	require.NoError(t, bp.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set([]byte(keySchemaVersion), []byte("v0"))
	}))
	require.NoError(t, bp.Close())

	_, err := NewBadgerPersistence(dir, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported schema version")
}
