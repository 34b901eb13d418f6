package memory

import (
	"fmt"
	"sync"

	"github.com/Layr-Labs/authz-expander-go/pkg/crypto"
	"github.com/Layr-Labs/authz-expander-go/pkg/persistence"
)

// MemoryPersistence is an in-memory implementation of ITxPersistence.
// This implementation is intended for TESTING ONLY.
//
// All data is stored in memory and will be lost when the process exits.
// Thread-safe using sync.RWMutex for concurrent access.
// Deep copies data to prevent external mutation.
type MemoryPersistence struct {
	mu sync.RWMutex

	// Transaction storage: tx ID -> record
	records map[crypto.Hash]*persistence.TxRecord

	// Closed flag
	closed bool
}

// NewMemoryPersistence creates a new in-memory persistence layer.
// Prints a loud warning since this should only be used for testing.
func NewMemoryPersistence() *MemoryPersistence {
	fmt.Println("⚠️  WARNING: Using in-memory persistence - ALL DATA WILL BE LOST ON RESTART")
	fmt.Println("⚠️  This should ONLY be used for testing. Set AUTHZ_PERSISTENCE_TYPE=badger to keep transactions")

	return &MemoryPersistence{
		records: make(map[crypto.Hash]*persistence.TxRecord),
	}
}

// SaveTxRecord persists a transaction record.
func (m *MemoryPersistence) SaveTxRecord(record *persistence.TxRecord) error {
	if record == nil {
		return fmt.Errorf("cannot save nil TxRecord")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return persistence.ErrClosed
	}

	m.records[record.ID] = record.Clone()
	return nil
}

// LoadTxRecord retrieves a transaction record by ID.
func (m *MemoryPersistence) LoadTxRecord(id crypto.Hash) (*persistence.TxRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, persistence.ErrClosed
	}

	record, exists := m.records[id]
	if !exists {
		return nil, nil // Not found is not an error
	}

	return record.Clone(), nil
}

// ListTxRecords returns all records sorted by submission time.
func (m *MemoryPersistence) ListTxRecords() ([]*persistence.TxRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, persistence.ErrClosed
	}

	result := make([]*persistence.TxRecord, 0, len(m.records))
	for _, record := range m.records {
		result = append(result, record.Clone())
	}
	persistence.SortTxRecords(result)

	return result, nil
}

// DeleteTxRecord removes a transaction record.
func (m *MemoryPersistence) DeleteTxRecord(id crypto.Hash) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return persistence.ErrClosed
	}

	delete(m.records, id)
	return nil
}

// Close shuts down the persistence layer.
func (m *MemoryPersistence) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

// HealthCheck verifies the persistence layer is operational.
func (m *MemoryPersistence) HealthCheck() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return persistence.ErrClosed
	}

	return nil
}
