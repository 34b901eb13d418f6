package persistence

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/Layr-Labs/authz-expander-go/pkg/transaction"
)

// MarshalTxRecord serializes a TxRecord to JSON bytes.
func MarshalTxRecord(record *TxRecord) ([]byte, error) {
	if record == nil {
		return nil, errors.New("cannot marshal nil TxRecord")
	}

	data, err := json.Marshal(record)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal TxRecord to JSON")
	}

	return data, nil
}

// UnmarshalTxRecord deserializes a TxRecord from JSON bytes and checks that
// the embedded transaction decodes and matches the record ID.
func UnmarshalTxRecord(data []byte) (*TxRecord, error) {
	if len(data) == 0 {
		return nil, errors.New("cannot unmarshal empty data")
	}

	var record TxRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal TxRecord from JSON")
	}

	tx, err := transaction.Decode(record.Tx)
	if err != nil {
		return nil, errors.Wrap(err, "stored transaction is invalid")
	}
	if tx.ID() != record.ID {
		return nil, errors.Errorf("stored transaction ID %s does not match record ID %s", tx.ID(), record.ID)
	}

	return &record, nil
}

// TxRecordKey returns the storage key suffix for a transaction ID
func TxRecordKey(prefix string, id string) string {
	return prefix + id
}
