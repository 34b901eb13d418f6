package testutil

import (
	"fmt"
	"time"

	"github.com/Layr-Labs/authz-expander-go/pkg/crypto"
	"github.com/Layr-Labs/authz-expander-go/pkg/transaction"
	"github.com/Layr-Labs/authz-expander-go/pkg/types"
)

// TestChainID is the chain id used by fixture transactions
const TestChainID = "localnet.test"

// NewWrappedTx builds a wrapped transaction carrying one code, one data and
// one memo section. feePayer becomes the wrapper public key.
func NewWrappedTx(feePayer crypto.PublicKey) *transaction.Tx {
	code := types.CodeSection{
		Salt: [types.SaltSize]byte{1},
		Code: types.Commitment{Kind: types.CommitmentHash, Hash: crypto.Sha256([]byte("tx_transfer.wasm"))},
	}
	data := types.DataSection{Salt: [types.SaltSize]byte{2}, Data: []byte("transfer 10 NAM")}
	memo := types.ExtraDataSection{
		Salt: [types.SaltSize]byte{3},
		Code: types.Commitment{Kind: types.CommitmentID, ID: []byte("memo")},
	}

	header := types.Header{
		ChainID:   TestChainID,
		Timestamp: time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC),
		Batch: []types.TxCommitments{{
			CodeHash: types.HashSection(code),
			DataHash: types.HashSection(data),
			MemoHash: types.HashSection(memo),
		}},
		TxType: types.TxType{Wrapper: &types.WrapperTx{
			Fee: types.Fee{
				AmountPerGasUnit: 1,
				Denom:            6,
				Token:            types.Address{Kind: types.AddressEstablished, Hash: [types.AddressHashSize]byte{0x01}},
			},
			PublicKey: feePayer,
			GasLimit:  100_000,
		}},
	}

	tx := transaction.New(header)
	tx.AddSection(code)
	tx.AddSection(data)
	tx.AddSection(memo)
	return tx
}

// NewDataTx builds a raw transaction with n distinct data sections. The
// header commits to every section, so transactions of different sizes have
// different IDs.
func NewDataTx(n int) *transaction.Tx {
	sections := make([]types.DataSection, n)
	var batch []types.TxCommitments
	for i := range sections {
		sections[i] = types.DataSection{Data: []byte(fmt.Sprintf("section-%d", i))}
		batch = append(batch, types.TxCommitments{DataHash: types.HashSection(sections[i])})
	}

	tx := transaction.New(types.Header{
		ChainID:   TestChainID,
		Timestamp: time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC),
		Batch:     batch,
	})
	for _, s := range sections {
		tx.AddSection(s)
	}
	return tx
}
