package mempool

import (
	"github.com/bsv-blockchain/go-bt/v2"
)

// Entry is a transaction in the pool together with its bookkeeping data.
type Entry struct {
	Tx   *bt.Tx
	Fee  uint64
	Time int64

	// Height is the chain height at which the entry was accepted.
	Height uint32

	// InChainValue is the sum of this transaction's outputs when every input
	// was already confirmed at entry time, and zero otherwise.
	InChainValue uint64

	SpendsCoinbase bool
	SigOps         uint64
	Size           uint64
}

// EntryFactory builds mempool entries with configurable defaults. The zero
// value is not useful, use NewEntryFactory.
type EntryFactory struct {
	fee            uint64
	time           int64
	height         uint32
	spendsCoinbase bool
	sigOps         uint64
}

func NewEntryFactory() *EntryFactory {
	return &EntryFactory{
		fee:            0,
		time:           0,
		height:         1,
		spendsCoinbase: false,
		sigOps:         4,
	}
}

func (f *EntryFactory) Fee(fee uint64) *EntryFactory {
	f.fee = fee
	return f
}

func (f *EntryFactory) Time(time int64) *EntryFactory {
	f.time = time
	return f
}

func (f *EntryFactory) Height(height uint32) *EntryFactory {
	f.height = height
	return f
}

func (f *EntryFactory) SpendsCoinbase(spendsCoinbase bool) *EntryFactory {
	f.spendsCoinbase = spendsCoinbase
	return f
}

func (f *EntryFactory) SigOps(sigOps uint64) *EntryFactory {
	f.sigOps = sigOps
	return f
}

// FromTx builds an entry for tx. When pool is non-nil and none of the
// transaction's inputs come from the pool, every input must already be
// confirmed, so the full output value counts as in-chain. Otherwise the
// in-chain value is left at zero rather than guessed per input.
func (f *EntryFactory) FromTx(tx *bt.Tx, pool *TxMempool) *Entry {
	inChainValue := uint64(0)
	if pool != nil && pool.HasNoInputsOf(tx) {
		inChainValue = tx.TotalOutputSatoshis()
	}

	return &Entry{
		Tx:             tx,
		Fee:            f.fee,
		Time:           f.time,
		Height:         f.height,
		InChainValue:   inChainValue,
		SpendsCoinbase: f.spendsCoinbase,
		SigOps:         f.sigOps,
		Size:           uint64(tx.Size()),
	}
}
