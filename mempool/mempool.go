// Package mempool holds transactions waiting to be mined.
package mempool

import (
	"math"
	"math/rand"
	"sync"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/bsv-blockchain/go-bt/v2/chainhash"

	"github.com/bsv-blockchain/nanonode/errors"
	"github.com/bsv-blockchain/nanonode/settings"
	"github.com/bsv-blockchain/nanonode/stores/utxo"
	"github.com/bsv-blockchain/nanonode/ulogger"
)

// CheckFrequencyAlways makes every mutation run a full consistency check.
const CheckFrequencyAlways = math.MaxUint32

// TxMempool is an unordered pool of valid transactions, indexed by ID and by
// the outpoints they spend.
type TxMempool struct {
	mu             sync.RWMutex
	logger         ulogger.Logger
	entries        map[chainhash.Hash]*Entry
	spentOutpoints map[utxo.Outpoint]chainhash.Hash
	checkFrequency uint32
}

func New(logger ulogger.Logger, tSettings *settings.Settings) *TxMempool {
	return &TxMempool{
		logger:         logger,
		entries:        make(map[chainhash.Hash]*Entry),
		spentOutpoints: make(map[utxo.Outpoint]chainhash.Hash),
		checkFrequency: tSettings.Mempool.CheckFrequency,
	}
}

// SetCheckFrequency sets how often mutations sanity-check the pool. Zero
// disables checking, CheckFrequencyAlways checks on every mutation.
func (m *TxMempool) SetCheckFrequency(frequency uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.checkFrequency = frequency
}

// AddUnchecked inserts an entry without validating it against the chain. The
// caller is responsible for having validated the transaction.
func (m *TxMempool) AddUnchecked(entry *Entry) error {
	if entry == nil || entry.Tx == nil {
		return errors.NewInvalidArgumentError("mempool entry is required")
	}

	txID := *entry.Tx.TxIDChainHash()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[txID]; ok {
		return errors.NewTxInvalidError("tx %s is already in the mempool", txID)
	}

	for _, input := range entry.Tx.Inputs {
		outpoint := utxo.NewOutpoint(input.PreviousTxIDChainHash(), input.PreviousTxOutIndex)

		if spender, ok := m.spentOutpoints[outpoint]; ok {
			return errors.NewTxInvalidError("outpoint %s is already spent by mempool tx %s", outpoint, spender)
		}
	}

	m.entries[txID] = entry

	for _, input := range entry.Tx.Inputs {
		m.spentOutpoints[utxo.NewOutpoint(input.PreviousTxIDChainHash(), input.PreviousTxOutIndex)] = txID
	}

	m.maybeCheck()

	return nil
}

// HasNoInputsOf reports whether tx spends no output of any transaction
// currently in the pool.
func (m *TxMempool) HasNoInputsOf(tx *bt.Tx) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, input := range tx.Inputs {
		if _, ok := m.entries[*input.PreviousTxIDChainHash()]; ok {
			return false
		}
	}

	return true
}

// Get returns the entry for the given transaction ID.
func (m *TxMempool) Get(txID *chainhash.Hash) (*Entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[*txID]

	return entry, ok
}

func (m *TxMempool) Exists(txID *chainhash.Hash) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.entries[*txID]

	return ok
}

func (m *TxMempool) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}

// Entries returns the pool's entries in unspecified order.
func (m *TxMempool) Entries() []*Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]*Entry, 0, len(m.entries))
	for _, entry := range m.entries {
		entries = append(entries, entry)
	}

	return entries
}

// RemoveForBlock removes the given mined transactions and everything that
// conflicts with them.
func (m *TxMempool) RemoveForBlock(txs []*bt.Tx) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, tx := range txs {
		if tx.IsCoinbase() {
			continue
		}

		m.removeLocked(*tx.TxIDChainHash())

		// anything spending the same outpoints is now in conflict
		for _, input := range tx.Inputs {
			outpoint := utxo.NewOutpoint(input.PreviousTxIDChainHash(), input.PreviousTxOutIndex)

			if spender, ok := m.spentOutpoints[outpoint]; ok {
				m.removeLocked(spender)
			}
		}
	}

	m.maybeCheck()
}

func (m *TxMempool) removeLocked(txID chainhash.Hash) {
	entry, ok := m.entries[txID]
	if !ok {
		return
	}

	for _, input := range entry.Tx.Inputs {
		delete(m.spentOutpoints, utxo.NewOutpoint(input.PreviousTxIDChainHash(), input.PreviousTxOutIndex))
	}

	delete(m.entries, txID)
}

// Clear empties the pool.
func (m *TxMempool) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[chainhash.Hash]*Entry)
	m.spentOutpoints = make(map[utxo.Outpoint]chainhash.Hash)
}

// maybeCheck runs the internal consistency check with the configured
// frequency. Callers must hold the write lock.
func (m *TxMempool) maybeCheck() {
	if m.checkFrequency == 0 {
		return
	}

	if m.checkFrequency != CheckFrequencyAlways && rand.Uint32() > m.checkFrequency {
		return
	}

	m.checkLocked()
}

func (m *TxMempool) checkLocked() {
	for outpoint, txID := range m.spentOutpoints {
		entry, ok := m.entries[txID]
		if !ok {
			m.logger.Fatalf("mempool inconsistency: outpoint %s maps to unknown tx %s", outpoint, txID)
		}

		found := false

		for _, input := range entry.Tx.Inputs {
			if utxo.NewOutpoint(input.PreviousTxIDChainHash(), input.PreviousTxOutIndex) == outpoint {
				found = true
				break
			}
		}

		if !found {
			m.logger.Fatalf("mempool inconsistency: tx %s does not spend outpoint %s", txID, outpoint)
		}
	}

	for txID, entry := range m.entries {
		for _, input := range entry.Tx.Inputs {
			outpoint := utxo.NewOutpoint(input.PreviousTxIDChainHash(), input.PreviousTxOutIndex)

			spender, ok := m.spentOutpoints[outpoint]
			if !ok || spender != txID {
				m.logger.Fatalf("mempool inconsistency: outpoint %s spent by tx %s is not indexed", outpoint, txID)
			}
		}
	}
}
