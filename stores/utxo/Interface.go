// Package utxo defines the unspent transaction output store.
package utxo

import (
	"context"
	"fmt"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/bsv-blockchain/go-bt/v2/bscript"
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
)

// Outpoint identifies a single transaction output.
type Outpoint struct {
	TxID chainhash.Hash
	Vout uint32
}

func NewOutpoint(txID *chainhash.Hash, vout uint32) Outpoint {
	return Outpoint{TxID: *txID, Vout: vout}
}

func (o Outpoint) String() string {
	return fmt.Sprintf("%s:%d", o.TxID.String(), o.Vout)
}

// Output is an unspent output as tracked by the store.
type Output struct {
	Satoshis      uint64
	LockingScript *bscript.Script
	BlockHeight   uint32
	Coinbase      bool
}

// Store tracks unspent transaction outputs. Implementations must be safe for
// concurrent use.
type Store interface {
	// Create registers every output of tx as unspent. The coinbase flag is
	// derived from the transaction itself.
	Create(ctx context.Context, tx *bt.Tx, blockHeight uint32) error

	// Get returns the unspent output for the outpoint.
	Get(ctx context.Context, outpoint Outpoint) (*Output, error)

	// Spend marks the outpoint as spent at spendingHeight, enforcing
	// coinbase maturity. The spent output is returned.
	Spend(ctx context.Context, outpoint Outpoint, spendingHeight uint32, coinbaseMaturity uint32) (*Output, error)

	Close() error
}
