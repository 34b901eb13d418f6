package persistence

import (
	"errors"
	"sort"

	"github.com/Layr-Labs/authz-expander-go/pkg/crypto"
	"github.com/Layr-Labs/authz-expander-go/pkg/transaction"
)

// ErrClosed is returned by every operation after Close
var ErrClosed = errors.New("persistence layer is closed")

type TxStatus string

const (
	// TxStatusPending means the transaction is waiting for signatures
	TxStatusPending TxStatus = "pending"
	// TxStatusSigned means authorization sections have been appended
	TxStatusSigned TxStatus = "signed"
)

// TxRecord is a stored transaction and its signing progress
type TxRecord struct {
	// ID is the transaction ID (header hash)
	ID crypto.Hash `json:"id"`

	Status TxStatus `json:"status"`

	// Tx is the canonical transaction encoding
	Tx []byte `json:"tx"`

	// SubmittedAt is the Unix timestamp the transaction was first stored
	SubmittedAt int64 `json:"submittedAt"`

	// SignedAt is the Unix timestamp signatures were attached, 0 while pending
	SignedAt int64 `json:"signedAt,omitempty"`
}

// NewTxRecord builds a pending record for tx
func NewTxRecord(tx *transaction.Tx, submittedAt int64) *TxRecord {
	return &TxRecord{
		ID:          tx.ID(),
		Status:      TxStatusPending,
		Tx:          tx.Encode(),
		SubmittedAt: submittedAt,
	}
}

// Transaction decodes the stored transaction
func (r *TxRecord) Transaction() (*transaction.Tx, error) {
	return transaction.Decode(r.Tx)
}

// Clone returns a deep copy of the record
func (r *TxRecord) Clone() *TxRecord {
	c := *r
	c.Tx = append([]byte(nil), r.Tx...)
	return &c
}

// SortTxRecords orders records by submission time, then ID
func SortTxRecords(records []*TxRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].SubmittedAt != records[j].SubmittedAt {
			return records[i].SubmittedAt < records[j].SubmittedAt
		}
		return records[i].ID.String() < records[j].ID.String()
	})
}
