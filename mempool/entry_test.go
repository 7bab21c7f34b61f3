package mempool

import (
	"testing"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/bsv-blockchain/go-bt/v2/bscript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsv-blockchain/nanonode/settings"
	"github.com/bsv-blockchain/nanonode/ulogger"
)

const testLockingScriptHex = "76a914ae7b0b4e2750e5e96ef37c83b0c959f7875e439188ac"

func newSpendingTx(t *testing.T, parentTxID string, vout uint32, satoshis uint64) *bt.Tx {
	t.Helper()

	tx := bt.NewTx()
	require.NoError(t, tx.From(parentTxID, vout, testLockingScriptHex, satoshis+100))

	tx.AddOutput(&bt.Output{
		Satoshis:      satoshis,
		LockingScript: mustScript(t),
	})

	return tx
}

func mustScript(t *testing.T) *bscript.Script {
	t.Helper()

	lockingScript, err := bscript.NewFromHexString(testLockingScriptHex)
	require.NoError(t, err)

	return lockingScript
}

func TestEntryFactoryDefaults(t *testing.T) {
	tx := newSpendingTx(t, "a599d9a9f21fd9e6feebcee7bae5e1270bf1d50b16ccf528c34bee2ec4a24ad7", 0, 1000)

	entry := NewEntryFactory().FromTx(tx, nil)

	assert.Equal(t, tx, entry.Tx)
	assert.Equal(t, uint64(0), entry.Fee)
	assert.Equal(t, int64(0), entry.Time)
	assert.Equal(t, uint32(1), entry.Height)
	assert.Equal(t, uint64(4), entry.SigOps)
	assert.False(t, entry.SpendsCoinbase)
	assert.Equal(t, uint64(tx.Size()), entry.Size)
}

func TestEntryFactorySetters(t *testing.T) {
	tx := newSpendingTx(t, "a599d9a9f21fd9e6feebcee7bae5e1270bf1d50b16ccf528c34bee2ec4a24ad7", 0, 1000)

	entry := NewEntryFactory().
		Fee(250).
		Time(1700000000).
		Height(42).
		SpendsCoinbase(true).
		SigOps(8).
		FromTx(tx, nil)

	assert.Equal(t, uint64(250), entry.Fee)
	assert.Equal(t, int64(1700000000), entry.Time)
	assert.Equal(t, uint32(42), entry.Height)
	assert.True(t, entry.SpendsCoinbase)
	assert.Equal(t, uint64(8), entry.SigOps)
}

func TestEntryFactoryInChainValue(t *testing.T) {
	parent := newSpendingTx(t, "a599d9a9f21fd9e6feebcee7bae5e1270bf1d50b16ccf528c34bee2ec4a24ad7", 0, 2000)
	child := newSpendingTx(t, parent.TxID(), 0, 1500)

	t.Run("no pool means zero", func(t *testing.T) {
		entry := NewEntryFactory().FromTx(child, nil)
		assert.Equal(t, uint64(0), entry.InChainValue)
	})

	t.Run("no inputs from the pool means full output value", func(t *testing.T) {
		pool := New(ulogger.TestLogger{}, settings.NewSettings())

		entry := NewEntryFactory().FromTx(child, pool)
		assert.Equal(t, child.TotalOutputSatoshis(), entry.InChainValue)
	})

	t.Run("any input from the pool means zero", func(t *testing.T) {
		pool := New(ulogger.TestLogger{}, settings.NewSettings())
		pool.SetCheckFrequency(CheckFrequencyAlways)

		require.NoError(t, pool.AddUnchecked(NewEntryFactory().FromTx(parent, pool)))

		entry := NewEntryFactory().FromTx(child, pool)
		assert.Equal(t, uint64(0), entry.InChainValue)
	})
}
