// Package memory implements the utxo store as an in-process map.
package memory

import (
	"context"
	"sync"

	"github.com/bsv-blockchain/go-bt/v2"

	"github.com/bsv-blockchain/nanonode/errors"
	"github.com/bsv-blockchain/nanonode/stores/utxo"
	"github.com/bsv-blockchain/nanonode/ulogger"
)

type Store struct {
	mu      sync.RWMutex
	logger  ulogger.Logger
	unspent map[utxo.Outpoint]*utxo.Output
	spent   map[utxo.Outpoint]struct{}
}

func New(logger ulogger.Logger) *Store {
	return &Store{
		logger:  logger,
		unspent: make(map[utxo.Outpoint]*utxo.Output),
		spent:   make(map[utxo.Outpoint]struct{}),
	}
}

func (s *Store) Create(_ context.Context, tx *bt.Tx, blockHeight uint32) error {
	if tx == nil {
		return errors.NewInvalidArgumentError("tx is required")
	}

	txID := tx.TxIDChainHash()
	coinbase := tx.IsCoinbase()

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, output := range tx.Outputs {
		outpoint := utxo.NewOutpoint(txID, uint32(i))

		s.unspent[outpoint] = &utxo.Output{
			Satoshis:      output.Satoshis,
			LockingScript: output.LockingScript,
			BlockHeight:   blockHeight,
			Coinbase:      coinbase,
		}

		delete(s.spent, outpoint)
	}

	return nil
}

func (s *Store) Get(_ context.Context, outpoint utxo.Outpoint) (*utxo.Output, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	output, ok := s.unspent[outpoint]
	if !ok {
		if _, wasSpent := s.spent[outpoint]; wasSpent {
			return nil, errors.NewSpentError("utxo %s is already spent", outpoint)
		}

		return nil, errors.NewUtxoNotFoundError("utxo %s not found", outpoint)
	}

	return output, nil
}

func (s *Store) Spend(_ context.Context, outpoint utxo.Outpoint, spendingHeight uint32, coinbaseMaturity uint32) (*utxo.Output, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	output, ok := s.unspent[outpoint]
	if !ok {
		if _, wasSpent := s.spent[outpoint]; wasSpent {
			return nil, errors.NewSpentError("utxo %s is already spent", outpoint)
		}

		return nil, errors.NewUtxoNotFoundError("utxo %s not found", outpoint)
	}

	if output.Coinbase && spendingHeight < output.BlockHeight+coinbaseMaturity {
		return nil, errors.NewImmatureSpendError("utxo %s is a coinbase output from height %d, not spendable before height %d", outpoint, output.BlockHeight, output.BlockHeight+coinbaseMaturity)
	}

	delete(s.unspent, outpoint)
	s.spent[outpoint] = struct{}{}

	return output, nil
}

// Len returns the number of unspent outputs currently tracked.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.unspent)
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.unspent = make(map[utxo.Outpoint]*utxo.Output)
	s.spent = make(map[utxo.Outpoint]struct{})

	return nil
}
