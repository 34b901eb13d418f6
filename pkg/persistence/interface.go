package persistence

import "github.com/Layr-Labs/authz-expander-go/pkg/crypto"

// ITxPersistence stores transactions awaiting or carrying offline signatures.
// All implementations must be thread-safe.
//
// Records are keyed by transaction ID (the header hash), which does not
// change when authorization sections are appended.
type ITxPersistence interface {
	// SaveTxRecord persists a record, overwriting any record with the same ID.
	SaveTxRecord(record *TxRecord) error

	// LoadTxRecord retrieves a record by transaction ID.
	// Returns nil if the record doesn't exist, error only on storage failure.
	LoadTxRecord(id crypto.Hash) (*TxRecord, error)

	// ListTxRecords returns all records sorted by submission time, then ID.
	// Returns empty slice if no records exist.
	ListTxRecords() ([]*TxRecord, error)

	// DeleteTxRecord removes a record.
	// Idempotent - returns nil if the record doesn't exist.
	DeleteTxRecord(id crypto.Hash) error

	// Close cleanly shuts down the persistence layer.
	// Idempotent - safe to call multiple times.
	// After Close(), all other operations return ErrClosed.
	Close() error

	// HealthCheck verifies the persistence layer is operational.
	HealthCheck() error
}
