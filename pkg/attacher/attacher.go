// Package attacher runs the offline signing round trip: a prepared
// transaction is stored, a hardware wallet returns a compact signature
// message, and the attacher expands it into authorization sections.
package attacher

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Layr-Labs/authz-expander-go/pkg/authorization"
	"github.com/Layr-Labs/authz-expander-go/pkg/config"
	"github.com/Layr-Labs/authz-expander-go/pkg/crypto"
	"github.com/Layr-Labs/authz-expander-go/pkg/persistence"
	"github.com/Layr-Labs/authz-expander-go/pkg/transaction"
)

var (
	ErrNotFound        = errors.New("transaction not found")
	ErrAlreadyExists   = errors.New("transaction already submitted")
	ErrAlreadySigned   = errors.New("transaction already signed")
	ErrChainIDMismatch = errors.New("transaction chain id does not match")
)

// Attacher attaches offline signatures to stored transactions
type Attacher struct {
	chainID string
	store   persistence.ITxPersistence
	logger  *zap.Logger
	now     func() time.Time

	// serializes load-modify-save cycles against the store
	mu sync.Mutex
}

// NewAttacher builds an Attacher over store. cfg may be nil, in which case
// transactions for any chain are accepted.
func NewAttacher(cfg *config.AttacherConfig, store persistence.ITxPersistence, logger *zap.Logger) *Attacher {
	a := &Attacher{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
	if cfg != nil {
		a.chainID = cfg.ChainID
	}
	return a
}

// Submit stores tx as pending and returns its ID
func (a *Attacher) Submit(tx *transaction.Tx) (crypto.Hash, error) {
	if tx == nil {
		return crypto.Hash{}, fmt.Errorf("cannot submit nil transaction")
	}
	if a.chainID != "" && tx.Header.ChainID != a.chainID {
		return crypto.Hash{}, fmt.Errorf("%w: got %q, expected %q", ErrChainIDMismatch, tx.Header.ChainID, a.chainID)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	id := tx.ID()
	existing, err := a.store.LoadTxRecord(id)
	if err != nil {
		return crypto.Hash{}, fmt.Errorf("failed to check for existing transaction: %w", err)
	}
	if existing != nil {
		return crypto.Hash{}, fmt.Errorf("%w: %s", ErrAlreadyExists, id)
	}

	record := persistence.NewTxRecord(tx, a.now().Unix())
	if err := a.store.SaveTxRecord(record); err != nil {
		return crypto.Hash{}, fmt.Errorf("failed to save transaction: %w", err)
	}

	a.logger.Sugar().Infow("Transaction submitted",
		"id", id.String(),
		"chainId", tx.Header.ChainID,
		"sections", len(tx.Sections),
		"wrapped", !tx.Header.TxType.IsRaw(),
	)
	return id, nil
}

// Attach decodes sigMsg, appends the authorization sections it describes to
// the stored transaction and saves the result as signed. The stored record
// is left unchanged on any error.
func (a *Attacher) Attach(id crypto.Hash, sigMsg []byte) (*transaction.Tx, error) {
	// correlates the log lines of one attempt when a device retries
	log := a.logger.Sugar().With("id", id.String(), "attempt", uuid.NewString())

	msg, err := authorization.DecodeSignatureMsg(sigMsg)
	if err != nil {
		log.Warnw("Rejected signature message", "error", err)
		return nil, err
	}
	log.Debugw("Attaching signatures", "wrapped", msg.HasWrapper())

	a.mu.Lock()
	defer a.mu.Unlock()

	record, err := a.store.LoadTxRecord(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if record.Status == persistence.TxStatusSigned {
		return nil, fmt.Errorf("%w: %s", ErrAlreadySigned, id)
	}

	tx, err := record.Transaction()
	if err != nil {
		return nil, fmt.Errorf("failed to decode stored transaction: %w", err)
	}

	if err := authorization.AppendSignatures(tx, msg); err != nil {
		log.Warnw("Failed to attach signatures",
			"rawIndices", msg.RawIndices,
			"wrapperIndices", msg.WrapperIndices,
			"error", err,
		)
		return nil, err
	}

	record.Tx = tx.Encode()
	record.Status = persistence.TxStatusSigned
	record.SignedAt = a.now().Unix()
	if err := a.store.SaveTxRecord(record); err != nil {
		return nil, fmt.Errorf("failed to save signed transaction: %w", err)
	}

	log.Infow("Signatures attached",
		"authorizations", len(tx.Authorizations()),
		"sections", len(tx.Sections),
	)
	return tx, nil
}

// Get returns the stored record for id, or ErrNotFound
func (a *Attacher) Get(id crypto.Hash) (*persistence.TxRecord, error) {
	record, err := a.store.LoadTxRecord(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return record, nil
}

// All returns every stored transaction, oldest first
func (a *Attacher) All() ([]*persistence.TxRecord, error) {
	records, err := a.store.ListTxRecords()
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return records, nil
}

// Pending returns transactions still waiting for signatures, oldest first
func (a *Attacher) Pending() ([]*persistence.TxRecord, error) {
	records, err := a.All()
	if err != nil {
		return nil, err
	}

	pending := make([]*persistence.TxRecord, 0, len(records))
	for _, r := range records {
		if r.Status == persistence.TxStatusPending {
			pending = append(pending, r)
		}
	}
	return pending, nil
}

// Remove deletes a stored transaction. Removing an unknown ID is not an error.
func (a *Attacher) Remove(id crypto.Hash) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.store.DeleteTxRecord(id); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	a.logger.Sugar().Debugw("Transaction removed", "id", id.String())
	return nil
}
