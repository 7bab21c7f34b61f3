package cached

import (
	"context"
	"testing"
	"time"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/bsv-blockchain/go-bt/v2/bscript"
	"github.com/jellydator/ttlcache/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsv-blockchain/nanonode/errors"
	"github.com/bsv-blockchain/nanonode/stores/utxo"
	"github.com/bsv-blockchain/nanonode/stores/utxo/memory"
	"github.com/bsv-blockchain/nanonode/ulogger"
)

const testLockingScriptHex = "76a914ae7b0b4e2750e5e96ef37c83b0c959f7875e439188ac"

func newTestStores(t *testing.T) (*Store, *memory.Store) {
	t.Helper()

	backing := memory.New(ulogger.TestLogger{})
	store := New(ulogger.TestLogger{}, backing, ttlcache.WithTTL[utxo.Outpoint, *utxo.Output](time.Minute))

	t.Cleanup(func() {
		_ = store.Close()
		_ = backing.Close()
	})

	return store, backing
}

func newFundingTx(t *testing.T, satoshis uint64) *bt.Tx {
	t.Helper()

	tx := bt.NewTx()
	require.NoError(t, tx.From("a599d9a9f21fd9e6feebcee7bae5e1270bf1d50b16ccf528c34bee2ec4a24ad7", 0, testLockingScriptHex, satoshis+100))

	lockingScript, err := bscript.NewFromHexString(testLockingScriptHex)
	require.NoError(t, err)

	tx.AddOutput(&bt.Output{
		Satoshis:      satoshis,
		LockingScript: lockingScript,
	})

	return tx
}

func TestGetReadThrough(t *testing.T) {
	store, backing := newTestStores(t)
	ctx := context.Background()

	tx := newFundingTx(t, 1000)
	require.NoError(t, store.Create(ctx, tx, 5))

	outpoint := utxo.NewOutpoint(tx.TxIDChainHash(), 0)

	// first read populates the cache from the backing store
	output, err := store.Get(ctx, outpoint)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), output.Satoshis)

	// a cached read no longer consults the backing store
	require.NoError(t, backing.Close())

	cachedOutput, err := store.Get(ctx, outpoint)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), cachedOutput.Satoshis)
}

func TestSpendInvalidatesCache(t *testing.T) {
	store, _ := newTestStores(t)
	ctx := context.Background()

	tx := newFundingTx(t, 1000)
	require.NoError(t, store.Create(ctx, tx, 5))

	outpoint := utxo.NewOutpoint(tx.TxIDChainHash(), 0)

	_, err := store.Get(ctx, outpoint)
	require.NoError(t, err)

	_, err = store.Spend(ctx, outpoint, 6, 100)
	require.NoError(t, err)

	// the cached copy must be gone, so the spend is visible
	_, err = store.Get(ctx, outpoint)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSpent))
}

func TestCloseLeavesBackingStoreOpen(t *testing.T) {
	store, backing := newTestStores(t)
	ctx := context.Background()

	tx := newFundingTx(t, 1000)
	require.NoError(t, store.Create(ctx, tx, 5))

	require.NoError(t, store.Close())
	require.NoError(t, store.Close()) // idempotent

	assert.Equal(t, 1, backing.Len())
}
